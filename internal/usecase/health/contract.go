package health

import "context"

// DBPinger checks recipe store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
