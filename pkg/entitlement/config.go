package entitlement

import "time"

// Config tunes the reconciliation sweep from the environment.
type Config struct {
	ReservationTTL time.Duration `env:"ENTITLEMENTS_RESERVATION_TTL" envDefault:"15m"`
	SweepInterval  time.Duration `env:"ENTITLEMENTS_SWEEP_INTERVAL" envDefault:"1m"`
	SweepBatchSize int           `env:"ENTITLEMENTS_SWEEP_BATCH_SIZE" envDefault:"100"`
}

// ReconcilerOptions expands the config into constructor options.
func (c Config) ReconcilerOptions() []ReconcilerOption {
	return []ReconcilerOption{
		WithReservationTTL(c.ReservationTTL),
		WithSweepInterval(c.SweepInterval),
		WithBatchSize(c.SweepBatchSize),
	}
}
