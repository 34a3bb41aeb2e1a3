// internal/services/outreach/models.go
package outreach

import (
	"fmt"

	"leadgen/internal/common/config"
)

// Message is a personalized outreach email broken into its components.
type Message struct {
	SubjectLine      string `json:"subject_line"`
	Greeting         string `json:"greeting"`
	Opening          string `json:"opening"`
	ValueProposition string `json:"value_proposition"`
	SpecificOffer    string `json:"specific_offer"`
	CallToAction     string `json:"call_to_action"`
	Closing          string `json:"closing"`
}

// FormatEmail renders the message as a complete email body, subject line on
// top and the sender signature at the bottom.
func (m Message) FormatEmail(sig config.SignatureConfig) string {
	return fmt.Sprintf("Subject: %s\n\n%s\n\n%s\n\n%s\n\n%s\n\n%s\n\n%s\n\n%s",
		m.SubjectLine,
		m.Greeting,
		m.Opening,
		m.ValueProposition,
		m.SpecificOffer,
		m.CallToAction,
		m.Closing,
		sig.Block(),
	)
}
