package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageID(t *testing.T) {
	id := newMessageID("crm@leadpilot.io")

	assert.Regexp(t, `^<[0-9a-f-]{36}@leadpilot\.io>$`, id)
	assert.NotEqual(t, id, newMessageID("crm@leadpilot.io"))
}

func TestNewMessageIDFallbackDomain(t *testing.T) {
	assert.Regexp(t, `@leadpilot\.local>$`, newMessageID("not-an-address"))
}

func TestNewEmailSenderDefaultsFrom(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "user@example.com", "pw", "")
	assert.Equal(t, "user@example.com", s.From)

	s = NewEmailSender("smtp.example.com", 587, "user@example.com", "pw", "crm@example.com")
	assert.Equal(t, "crm@example.com", s.From)
}
