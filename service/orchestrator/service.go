package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elC0mpa/cost-notifier/model"
	"github.com/elC0mpa/cost-notifier/service/checkpoint"
)

// Step names double as checkpoint keys; renaming one invalidates recorded
// progress of in-flight runs.
const (
	stepValidateInput       = "validate-input"
	stepValidateEnvironment = "validate-environment"
	stepResolveSecret       = "resolve-secret"
	stepComputeRange        = "compute-range"
	stepFetchTotal          = "fetch-total"
	stepFetchDetail         = "fetch-detail"
	stepNotify              = "notify"
)

// notifyResult is the recorded outcome of the notify step. Delivery failures
// are visible here but never escalate to a failed run: the cost data was
// still computed and logged.
type notifyResult struct {
	RootOK    bool   `json:"root_ok"`
	MessageID string `json:"message_id,omitempty"`
	DetailOK  bool   `json:"detail_ok"`
}

func NewService(deps Deps) *orchestratorService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	return &orchestratorService{deps: deps}
}

// Run executes the report pipeline for one invocation. Steps 1-3 guard
// configuration contracts and abort the run on violation; the data and
// delivery steps degrade instead, so a best-effort report still goes out.
func (s *orchestratorService) Run(ctx context.Context, runID string, input model.RunInput) error {
	runner := checkpoint.NewRunner(s.deps.Store, runID)
	log := s.deps.Log.WithFields(logrus.Fields{"run_id": runID, "type": input.Type})

	var mode model.GroupingMode
	if err := runner.Step(ctx, stepValidateInput, &mode, func(context.Context) error {
		parsed, err := model.ParseGroupingMode(input.Type)
		if err != nil {
			return err
		}
		mode = parsed
		return nil
	}); err != nil {
		return err
	}

	if err := runner.Step(ctx, stepValidateEnvironment, nil, func(context.Context) error {
		if s.deps.SecretName == "" {
			return errors.New("slack secret name is not configured")
		}
		return nil
	}); err != nil {
		return err
	}

	var credential *model.SlackCredential
	if err := runner.Step(ctx, stepResolveSecret, nil, func(ctx context.Context) error {
		resolved, err := s.deps.Secrets.Resolve(ctx, s.deps.SecretName)
		if err != nil {
			return err
		}
		credential = resolved
		return nil
	}); err != nil {
		return err
	}
	if credential == nil {
		// Replayed run: only a completion marker is checkpointed, secret
		// material never touches the store, so fetch it again.
		resolved, err := s.deps.Secrets.Resolve(ctx, s.deps.SecretName)
		if err != nil {
			return err
		}
		credential = resolved
	}

	var period model.DateRange
	if err := runner.Step(ctx, stepComputeRange, &period, func(context.Context) error {
		period = s.deps.Period.Compute(s.deps.Now())
		return nil
	}); err != nil {
		return err
	}
	log = log.WithFields(logrus.Fields{"period_start": period.Start, "period_end": period.End})

	var total *model.TotalBilling
	if err := runner.Step(ctx, stepFetchTotal, &total, func(ctx context.Context) error {
		fetched, err := s.deps.Cost.GetPeriodTotal(ctx, period)
		if err != nil {
			log.WithError(err).Warn("total fetch failed, reporting without a total")
			return nil
		}
		total = fetched
		return nil
	}); err != nil {
		return err
	}

	var rows []model.CostRow
	if err := runner.Step(ctx, stepFetchDetail, &rows, func(ctx context.Context) error {
		fetched, err := s.deps.Cost.GetGroupedCosts(ctx, period, mode)
		if err != nil {
			log.WithError(err).Warn("grouped fetch failed, reporting without a breakdown")
			return nil
		}
		rows = fetched
		return nil
	}); err != nil {
		return err
	}

	// The notify step is one checkpointed unit: a retry after a crash
	// mid-delivery may duplicate the root post, but never replays a run
	// whose delivery already completed.
	var outcome notifyResult
	if err := runner.Step(ctx, stepNotify, &outcome, func(ctx context.Context) error {
		message := s.deps.Report.BuildMessages(period, total, rows, mode)
		notifier := s.deps.NewNotifier(credential.Token)

		messageID, err := notifier.PostRoot(ctx, credential.Channel, message)
		if err != nil {
			log.WithError(err).Error("root message post failed")
			return nil
		}
		outcome.RootOK = true
		outcome.MessageID = messageID

		// The detail is only threaded under a successfully posted root.
		if err := notifier.PostThreaded(ctx, credential.Channel, messageID, message); err != nil {
			log.WithError(err).Error("detail message post failed")
			return nil
		}
		outcome.DetailOK = true
		return nil
	}); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"root_ok":   outcome.RootOK,
		"detail_ok": outcome.DetailOK,
	}).Info("cost report run finished")
	return nil
}
