package entity

// VendorData is the immutable vendor master payload carried end to end,
// from the HTTP request through the queue and into the remote call.
// Name and TaxID are mandatory, the rest is optional master data.
type VendorData struct {
	Name  string `json:"name"`
	TaxID string `json:"taxId"`

	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`

	BankAccount  *string `json:"bankAccount,omitempty"`
	BankKey      *string `json:"bankKey,omitempty"`
	PaymentTerms *string `json:"paymentTerms,omitempty"`
}
