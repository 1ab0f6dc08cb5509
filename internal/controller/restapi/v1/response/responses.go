package response

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ValidationError struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

type Enqueue struct {
	CorrelationID string `json:"correlationId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

type WebhookAck struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}
