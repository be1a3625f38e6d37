package period

import (
	"time"

	"github.com/elC0mpa/cost-notifier/model"
)

const dateLayout = "2006-01-02"

func NewService() *service {
	return &service{}
}

// Compute derives the reporting period for a run happening at now. On the
// first day of a month the period is the entire previous month; on any other
// day it is the 1st of the current month through yesterday. Either way the
// period is fully elapsed, so the report never covers partial same-day costs.
func (s *service) Compute(now time.Time) model.DateRange {
	if now.Day() == 1 {
		return model.DateRange{
			Start: s.getFirstDayOfMonth(now.AddDate(0, -1, 0)).Format(dateLayout),
			End:   s.getLastDayOfMonth(now.AddDate(0, -1, 0)).Format(dateLayout),
		}
	}

	return model.DateRange{
		Start: s.getFirstDayOfMonth(now).Format(dateLayout),
		End:   now.AddDate(0, 0, -1).Format(dateLayout),
	}
}

func (s *service) getFirstDayOfMonth(month time.Time) time.Time {
	return time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
}

func (s *service) getLastDayOfMonth(month time.Time) time.Time {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location())
}
