package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// SMTPMailer sends over SMTP with STARTTLS when the server offers it.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, n Notification) error {
	if _, err := mail.ParseAddress(n.To); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRecipient, n.To, err)
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Covo Store")
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/html", n.HTMLBody)

	if err := ctx.Err(); err != nil {
		return err
	}

	// gomail has no context support. Once the dial starts the message may be
	// accepted at any point, so an expired ctx is reported as ErrSendInFlight
	// and the late result is only logged.
	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		go func() {
			if err := <-done; err != nil {
				slog.Warn("Late SMTP send failed", "order_id", n.OrderID, "error", err)
				return
			}
			slog.Info("Late SMTP send completed", "order_id", n.OrderID)
		}()
		return fmt.Errorf("%w: %v", ErrSendInFlight, ctx.Err())
	}
}

// LogMailer only logs the email. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, n Notification) error {
	slog.Info("MOCK EMAIL SENT",
		"to", n.To,
		"subject", n.Subject,
		"order_id", n.OrderID,
		"body_bytes", len(n.HTMLBody),
	)
	return nil
}
