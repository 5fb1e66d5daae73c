package mail

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers notifications over SMTP. It is constructed once with
// its credentials and injected wherever mail is sent, so there is no lazily
// initialized global auth state to race on.
type EmailSender struct {
	From   string
	dialer *gomail.Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// Send delivers a plain-text message and returns the generated Message-ID as
// the delivery identifier. A transport or auth failure is returned as an
// error; there is no retry.
func (s *EmailSender) Send(to, subject, body string) (string, error) {
	messageID := newMessageID(s.From)

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-Id", messageID)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", eris.Wrap(err, "mail: smtp send")
	}

	return messageID, nil
}

func newMessageID(from string) string {
	domain := "leadpilot.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
