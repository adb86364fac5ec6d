package models

// OutboundMessageRequest asks for a report summary to be pushed over WhatsApp.
// An empty To falls back to the configured manager number.
type OutboundMessageRequest struct {
	To       string `json:"to"`
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
	Aircraft *int64 `json:"aircraft_id"`
}
