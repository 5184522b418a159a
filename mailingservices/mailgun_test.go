package mailingservices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/config"
)

func TestNewMailer(t *testing.T) {
	assert.IsType(t, &Console{}, NewMailer(&config.Config{}))

	m := NewMailer(&config.Config{MailgunApiKey: "key", MgDomain: "mg.awaz.test", MgEmailFrom: "no-reply@awaz.test"})
	mg, ok := m.(*Mailgun)
	require.True(t, ok)
	assert.Equal(t, "no-reply@awaz.test", mg.From)
	assert.Equal(t, "mg.awaz.test", mg.Client.Domain())
}

func TestBodiesCarryLink(t *testing.T) {
	assert.Contains(t, activationBody("Sita", "http://awaz.test/activate/x/y"), "http://awaz.test/activate/x/y")
	assert.Contains(t, activationBody("Sita", "l"), "Hi Sita")
	assert.Contains(t, resetBody("http://awaz.test/resetpassword_validate/x/y"), "resetpassword_validate")
}
