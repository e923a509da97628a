// Package notify renders ticket notification emails and delivers them through
// a transactional email provider.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// Email is one rendered message ready for delivery
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the envelope fields every provider requires
func (e *Email) Validate() error {
	if strings.TrimSpace(e.From) == "" {
		return fmt.Errorf("email has no sender")
	}
	if len(e.To) == 0 {
		return fmt.Errorf("email has no recipient")
	}
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("email has no subject")
	}
	return nil
}

// Mailer delivers rendered emails. Send returns the provider's message id when it reports one.
type Mailer interface {
	Name() string
	Send(ctx context.Context, email *Email) (string, error)
}
