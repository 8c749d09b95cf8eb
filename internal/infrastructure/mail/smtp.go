// Package mail implementa ports.Mailer: envío SMTP real (gomail) o simulado.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// SMTPMailer envía por SMTP con un único intento por mensaje.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log.Component("mail"),
	}
}

// New elige el mailer según la configuración: sin host SMTP el envío es simulado.
func New(cfg config.MailConfig, log *logger.Logger) ports.Mailer {
	if cfg.Host == "" {
		return NewSimulatedMailer(cfg.SimulatedDelay, log)
	}
	return NewSMTPMailer(cfg, log)
}

func buildMessage(from string, msg ports.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

type dialResult struct {
	sc  gomail.SendCloser
	err error
}

// Send despacha el mensaje en un único intento. Mientras se conecta, ctx puede cancelar el envío;
// una vez iniciada la transacción SMTP se espera su resultado para no informar como fallido
// un correo que sí se entregó.
func (s *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := buildMessage(s.from, msg)

	dialed := make(chan dialResult, 1)
	go func() {
		sc, err := s.dialer.Dial()
		dialed <- dialResult{sc: sc, err: err}
	}()

	var sc gomail.SendCloser
	select {
	case r := <-dialed:
		if r.err != nil {
			s.log.Warn().Err(r.err).Str("to", msg.To).Msg("smtp: conexión fallida")
			return fmt.Errorf("smtp: conectar: %w", r.err)
		}
		sc = r.sc
	case <-ctx.Done():
		// la conexión que llegue tarde se cierra sin enviar nada
		go func() {
			if r := <-dialed; r.err == nil {
				_ = r.sc.Close()
			}
		}()
		return ctx.Err()
	}
	defer sc.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := gomail.Send(sc, m); err != nil {
		s.log.Warn().Err(err).Str("to", msg.To).Msg("smtp: envío fallido")
		return fmt.Errorf("smtp: %w", err)
	}
	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Int("attachments", len(msg.Attachments)).Msg("correo enviado")
	return nil
}

var _ ports.Mailer = (*SMTPMailer)(nil)
