package orchestrator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elC0mpa/cost-notifier/model"
	"github.com/elC0mpa/cost-notifier/service"
	"github.com/elC0mpa/cost-notifier/service/checkpoint"
)

// Deps are the collaborators of a report run. NewNotifier is a factory
// because the notifier can only be built once the secret is resolved.
type Deps struct {
	Period      service.PeriodService
	Cost        service.CostService
	Secrets     service.SecretService
	Report      service.ReportService
	NewNotifier func(token string) service.NotifierService
	Store       checkpoint.Store

	// SecretName references the Slack credential in the secret store.
	SecretName string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	Log *logrus.Logger
}

type orchestratorService struct {
	deps Deps
}

// OrchestratorService runs the report pipeline as a checkpointed step
// sequence. A nil return means the run succeeded; a non-nil return carries
// the fatal configuration error.
type OrchestratorService interface {
	Run(ctx context.Context, runID string, input model.RunInput) error
}
