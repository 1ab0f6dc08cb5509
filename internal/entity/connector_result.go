package entity

// ConnectorResult is the outcome of a single remote invocation. A remote
// business rejection maps to Success=false with a populated error list;
// a successful call always carries the externally assigned vendor number.
type ConnectorResult struct {
	Success      bool     `json:"success"`
	VendorNumber string   `json:"vendorNumber,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}
