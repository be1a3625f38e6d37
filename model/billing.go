package model

import "fmt"

// DateRange is an inclusive reporting period, both bounds in YYYY-MM-DD form.
// It is recomputed from the wall clock on every run and never persisted
// across runs.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TotalBilling is the aggregate cost for a whole period. A nil *TotalBilling
// means the billing API returned no usable data for the period.
type TotalBilling struct {
	Unit   string `json:"unit"`
	Amount string `json:"amount"`
}

// CostRow is one grouped cost line. Key is the service name when grouping by
// service, or "<account-id> (<description>)" when grouping by linked account
// (the bare id when no description is known). Amounts stay in the billing
// API's own decimal string representation and are never parsed as floats.
type CostRow struct {
	Key    string `json:"key"`
	Unit   string `json:"unit"`
	Amount string `json:"amount"`
}

// GroupingMode selects the breakdown dimension of a cost report.
type GroupingMode int

const (
	GroupByService GroupingMode = iota
	GroupByAccount
)

func (m GroupingMode) String() string {
	switch m {
	case GroupByService:
		return "services"
	case GroupByAccount:
		return "accounts"
	}
	return "unknown"
}

// ParseGroupingMode maps a trigger input type to a GroupingMode. The match is
// case-sensitive; anything else, including the empty string, is rejected.
func ParseGroupingMode(input string) (GroupingMode, error) {
	switch input {
	case "services":
		return GroupByService, nil
	case "accounts":
		return GroupByAccount, nil
	}
	return 0, fmt.Errorf("unknown report type %q: must be \"services\" or \"accounts\"", input)
}
