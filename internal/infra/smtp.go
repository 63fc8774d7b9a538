package infra

import (
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"farmledger/internal/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer wraps SMTP configuration for outgoing mail.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	breaker  *Breaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewBreaker(5, 1, time.Minute),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Send delivers a plain-text message. Without SMTP_HOST the message is logged
// and dropped. After repeated SMTP failures sends fail fast with
// ErrBreakerOpen until the server recovers.
func (m *Mailer) Send(to, subject, body string) error {
	if m.host == "" {
		log.Warn().Str("to", to).Str("subject", subject).Msg("mailer: SMTP_HOST not set, message dropped")
		return nil
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	err := m.breaker.Do(func() error { return m.send(e, m.addr, auth) })
	if errors.Is(err, ErrBreakerOpen) {
		log.Warn().Str("to", to).Msg("mailer: circuit open, send skipped")
	}
	return err
}

// BreakerState reports the SMTP circuit state for health checks.
func (m *Mailer) BreakerState() BreakerState { return m.breaker.State() }
