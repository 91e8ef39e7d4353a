package notifier

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Message is an email with a single CSV attachment.
type Message struct {
	From           string
	To             []string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer submits mail over STARTTLS with PLAIN authentication.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// NewSMTPMailer creates a mailer with a 30s dial and session timeout.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Timeout:  30 * time.Second,
	}
}

// Send delivers msg. Failures are returned as-is; there is no retry.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	out, err := BuildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.Host,
		mail.WithPort(m.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
		mail.WithTimeout(m.Timeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send to %s:%d: %w", m.Host, m.Port, err)
	}
	return nil
}

// BuildMessage renders msg as a plain-text mail with the CSV attached.
func BuildMessage(msg *Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", msg.From, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to %v: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.AttachmentName != "" {
		err := out.AttachReader(msg.AttachmentName, bytes.NewReader(msg.Attachment),
			mail.WithFileContentType(mail.ContentType("text/csv")))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", msg.AttachmentName, err)
		}
	}
	return out, nil
}
