package intake

import (
	"context"
	"time"
)

// RetryPolicy reintentos con backoff exponencial para errores transitorios (bloqueo de consecutivo).
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 50 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = time.Second
	}
	if p.Multiplier <= 1 {
		p.Multiplier = 2
	}
	return p
}

// withRetry ejecuta op hasta MaxAttempts veces mientras retryable(err) sea verdadero.
// Devuelve el último error de op, o ctx.Err() si el contexto termina durante la espera.
func withRetry(ctx context.Context, p RetryPolicy, retryable func(error) bool, op func(attempt int) error) error {
	p = p.withDefaults()
	delay := p.InitialDelay
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = op(attempt); err == nil || !retryable(err) || attempt == p.MaxAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}
