package auth

import (
	"context"
	"time"
)

// SweepExpired cierra las sesiones vencidas y devuelve cuántas se eliminaron.
func (uc *AuthUseCase) SweepExpired(ctx context.Context) (int, error) {
	expired, err := uc.sessions.DeleteExpired(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	for _, s := range expired {
		uc.leaveIfLast(ctx, s.UserID)
	}
	return len(expired), nil
}

// RunSweeper barre sesiones vencidas cada interval hasta que ctx se cancele.
func (uc *AuthUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.log.Info().Dur("interval", interval).Msg("barrido de sesiones iniciado")
	for {
		select {
		case <-ctx.Done():
			uc.log.Info().Msg("barrido de sesiones detenido")
			return
		case <-ticker.C:
			n, err := uc.SweepExpired(ctx)
			if err != nil {
				uc.log.Error().Err(err).Msg("barrido de sesiones")
				continue
			}
			if n > 0 {
				uc.log.Info().Int("expired", n).Msg("sesiones vencidas cerradas")
			}
		}
	}
}
