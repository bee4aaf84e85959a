package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The service still answers
	// queries; degraded components are routed around.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks over the recipe store and the
// external providers.
type Service struct {
	db         DBPinger
	embedding  ProviderChecker
	generation ProviderChecker
}

// New creates a Service. embedding and generation may be nil.
func New(db DBPinger, embedding, generation ProviderChecker) *Service {
	return &Service{db: db, embedding: embedding, generation: generation}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["database"] = resultOf(s.db.Ping(ctx))

	if s.embedding != nil {
		checks["embedding"] = resultOf(s.embedding.HealthCheck(ctx))
	}
	if s.generation != nil {
		checks["generation"] = resultOf(s.generation.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
