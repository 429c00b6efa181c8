package mailer

// EmailJob is a rendered email ready for delivery.
// HTML is optional; Text is always sent as the fallback body.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}
