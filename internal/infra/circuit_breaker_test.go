package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp caido")

func nuevoBreaker(t *testing.T) (*CircuitBreaker, *time.Time) {
	t.Helper()
	ahora := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Nombre:           "test",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	})
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb, _ := nuevoBreaker(t)

	assert.ErrorIs(t, cb.Execute(func() error { return errSMTP }), errSMTP)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errSMTP }), errSMTP)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_ExitoReiniciaContador(t *testing.T) {
	cb, _ := nuevoBreaker(t)

	_ = cb.Execute(func() error { return errSMTP })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errSMTP })

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoSeCierraConExito(t *testing.T) {
	cb, ahora := nuevoBreaker(t)
	_ = cb.Execute(func() error { return errSMTP })
	_ = cb.Execute(func() error { return errSMTP })
	require.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoVuelveAAbrirConFallo(t *testing.T) {
	cb, ahora := nuevoBreaker(t)
	_ = cb.Execute(func() error { return errSMTP })
	_ = cb.Execute(func() error { return errSMTP })

	*ahora = ahora.Add(2 * time.Minute)
	assert.ErrorIs(t, cb.Execute(func() error { return errSMTP }), errSMTP)
	assert.Equal(t, CBOpen, cb.State())
}
