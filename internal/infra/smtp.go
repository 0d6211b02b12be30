package infra

import (
	"fmt"
	"net/smtp"

	"gestion/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending operational alerts.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	para     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		para:     cfg.AlertEmailTo,
		cb:       NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Habilitado reports whether both an SMTP host and a recipient are configured.
func (m *Mailer) Habilitado() bool {
	return m != nil && m.host != "" && m.para != ""
}

// Breaker exposes the SMTP circuit breaker for the health endpoint.
func (m *Mailer) Breaker() *CircuitBreaker {
	return m.cb
}

// SendAlertaStock notifies the configured recipient that an item dropped below
// the low-stock threshold.
func (m *Mailer) SendAlertaStock(nombre, sku string, stock, umbral int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.para}
	e.Subject = fmt.Sprintf("Stock bajo: %s (%s)", nombre, sku)
	e.Text = []byte(fmt.Sprintf(
		"El producto %s (SKU %s) tiene %d unidades en stock, por debajo del umbral de %d.\n",
		nombre, sku, stock, umbral,
	))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}
