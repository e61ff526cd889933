// Package request holds the wire formats of inbound payloads.
package request

// WebhookPayload is the JSON body of POST /webhook.
//
// "ts" stays a string here so a malformed timestamp surfaces as a
// field-level validation failure instead of a generic decode error.
// Unknown extra fields are ignored by the decoder, which is intentional.
type WebhookPayload struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	TS        string  `json:"ts"`
	Text      *string `json:"text"`
}
