package models

// NatsRequestPayload carries the two operand fields of an arithmetic press.
// Connect and disconnect requests send an empty payload.
type NatsRequestPayload struct {
	A string `json:"a,omitempty"`
	B string `json:"b,omitempty"`
}

type NatsResponsePayload struct {
	Status  string `json:"status"`  // "success" or "error"
	Message string `json:"message"` // result text or error message
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
