package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/leadcall-ai/leadcall-api/internal/usecase"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Deliver sends the rendered call summary over SMTP. The send runs in its
// own goroutine so the caller's context deadline bounds it; gomail itself
// has no context support.
func (s *EmailSender) Deliver(ctx context.Context, n usecase.Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", n.Recipient)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/html", n.HTMLBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending summary email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending summary email: %w", ctx.Err())
	}
}
