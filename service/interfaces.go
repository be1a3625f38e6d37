package service

import (
	"context"
	"time"

	"github.com/elC0mpa/cost-notifier/model"
)

// PeriodService derives the reporting period for a run.
type PeriodService interface {
	Compute(now time.Time) model.DateRange
}

// CostService provides aggregated billing data for a period.
type CostService interface {
	GetPeriodTotal(ctx context.Context, period model.DateRange) (*model.TotalBilling, error)
	GetGroupedCosts(ctx context.Context, period model.DateRange, mode model.GroupingMode) ([]model.CostRow, error)
}

// SecretService resolves the chat credential by secret name.
type SecretService interface {
	Resolve(ctx context.Context, name string) (*model.SlackCredential, error)
}

// ReportService converts aggregated billing data into the two-part
// notification payload.
type ReportService interface {
	BuildMessages(period model.DateRange, total *model.TotalBilling, rows []model.CostRow, mode model.GroupingMode) model.ReportMessage
}

// NotifierService posts the report to the chat destination. PostRoot returns
// the posted message's id so the detail can be threaded under it.
type NotifierService interface {
	PostRoot(ctx context.Context, channel string, report model.ReportMessage) (string, error)
	PostThreaded(ctx context.Context, channel, parentID string, report model.ReportMessage) error
}

// IdentityService reports on the cloud account behind the configured
// credentials.
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}
