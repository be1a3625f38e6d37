package report

import (
	"fmt"
	"strings"

	"github.com/elC0mpa/cost-notifier/model"
)

// totalColor is the fixed accent on the root attachment.
const totalColor = "#439FE0"

func NewService() *service {
	return &service{}
}

// BuildMessages converts aggregated billing data into the two-part
// notification. A nil total still renders the root attachment with an empty
// amount, and nil rows produce a detail message without fields; a missing
// figure must never block delivery of the rest of the report.
func (s *service) BuildMessages(period model.DateRange, total *model.TotalBilling, rows []model.CostRow, mode model.GroupingMode) model.ReportMessage {
	amount, unit := "", ""
	if total != nil {
		amount, unit = total.Amount, total.Unit
	}

	fields := make([]model.Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, model.Field{
			Title: row.Key,
			Value: joinAmount(row.Amount, row.Unit),
		})
	}

	return model.ReportMessage{
		RootText: fmt.Sprintf("AWS costs by %s from %s to %s", mode, period.Start, period.End),
		Root: model.Attachment{
			Color: totalColor,
			Text:  strings.TrimSpace(fmt.Sprintf("Total: %s %s", amount, unit)),
		},
		Detail: model.Attachment{
			Fields: fields,
		},
	}
}

func joinAmount(amount, unit string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", amount, unit))
}
