package mail

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// SentHistory cantidad de mensajes que guarda el mailer simulado; los más viejos se descartan.
const SentHistory = 20

// SimulatedMailer espera un retardo fijo y registra los últimos mensajes en memoria (sin red).
type SimulatedMailer struct {
	delay time.Duration
	log   *logger.Logger

	mu   sync.Mutex
	sent []ports.Message
}

func NewSimulatedMailer(delay time.Duration, log *logger.Logger) *SimulatedMailer {
	return &SimulatedMailer{delay: delay, log: log.Component("mail")}
}

func (s *SimulatedMailer) Send(ctx context.Context, msg ports.Message) error {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	if len(s.sent) == SentHistory {
		copy(s.sent, s.sent[1:])
		s.sent[len(s.sent)-1] = msg
	} else {
		s.sent = append(s.sent, msg)
	}
	s.mu.Unlock()
	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("correo simulado")
	return nil
}

// Sent copia de los últimos mensajes registrados, del más viejo al más nuevo.
func (s *SimulatedMailer) Sent() []ports.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

var _ ports.Mailer = (*SimulatedMailer)(nil)
