package dto

// AdminAlertMessage travels over the in-process bus from the grant and
// refund workflows to the mail consumer.
type AdminAlertMessage struct {
	Subject string                 `json:"subject"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}
