package email

import "context"

// Message is an email to be sent.
type Message struct {
	To       []string
	From     string
	Subject  string
	TextBody string
	HTMLBody string // optional
}

// Sender sends email messages. Implementations can use SMTP, SES, etc.
type Sender interface {
	// Send delivers the message and returns the provider's message ID
	// when one is available.
	Send(ctx context.Context, msg *Message) (string, error)
}
