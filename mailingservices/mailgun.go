package mailingservices

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/awaz/config"
)

// Mailer delivers account links to users.
type Mailer interface {
	SendActivation(ctx context.Context, to, name, link string) error
	SendResetPassword(ctx context.Context, to, link string) error
}

// NewMailer returns a Mailgun mailer when Mailgun is configured, and a console
// mailer that logs the links otherwise.
func NewMailer(conf *config.Config) Mailer {
	if conf.MailgunEnabled() {
		m := &Mailgun{}
		m.Init(conf)
		return m
	}
	log.Println("mailgun not configured, account links will be logged to the console")
	return &Console{}
}

type Mailgun struct {
	Client mailgun.Mailgun
	From   string
}

func (m *Mailgun) Init(conf *config.Config) {
	m.Client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	m.From = conf.MgEmailFrom
}

func (m *Mailgun) send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := m.Client.NewMessage(m.From, subject, body, to)
	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	log.Printf("mail %q queued for %s, id=%s", subject, to, id)
	return nil
}

func (m *Mailgun) SendActivation(ctx context.Context, to, name, link string) error {
	return m.send(ctx, to, "Please activate your account", activationBody(name, link))
}

func (m *Mailgun) SendResetPassword(ctx context.Context, to, link string) error {
	return m.send(ctx, to, "Reset your password", resetBody(link))
}

// Console prints mail to the server log.
type Console struct{}

func (Console) SendActivation(_ context.Context, to, name, link string) error {
	log.Printf("\nActivate your account (%s):\n%s", to, activationBody(name, link))
	return nil
}

func (Console) SendResetPassword(_ context.Context, to, link string) error {
	log.Printf("\nReset your password (%s):\n%s", to, resetBody(link))
	return nil
}

func activationBody(name, link string) string {
	return fmt.Sprintf("Hi %s,\n\nPlease click on the link below to activate your account.\n%s\n\nThank you!", name, link)
}

func resetBody(link string) string {
	return fmt.Sprintf("Hi,\n\nPlease click on the link below to reset your password.\n%s\n\nIf you did not ask for this, you can ignore this email.", link)
}
