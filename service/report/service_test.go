package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/cost-notifier/model"
)

var period = model.DateRange{Start: "2023-02-01", End: "2023-02-22"}

func TestBuildMessages(t *testing.T) {
	svc := NewService()

	t.Run("full report", func(t *testing.T) {
		total := &model.TotalBilling{Unit: "USD", Amount: "1.23456"}
		rows := []model.CostRow{
			{Key: "AWS CloudTrail", Unit: "USD", Amount: "0"},
			{Key: "AWS Config", Unit: "USD", Amount: "0.012"},
			{Key: "Tax", Unit: "USD", Amount: "1.39"},
		}

		msg := svc.BuildMessages(period, total, rows, model.GroupByService)

		assert.Contains(t, msg.RootText, "2023-02-01")
		assert.Contains(t, msg.RootText, "2023-02-22")
		assert.Contains(t, msg.RootText, "services")
		assert.Equal(t, "Total: 1.23456 USD", msg.Root.Text)
		assert.NotEmpty(t, msg.Root.Color)

		require.Len(t, msg.Detail.Fields, 3)
		assert.Equal(t, "AWS CloudTrail", msg.Detail.Fields[0].Title)
		assert.Equal(t, "0 USD", msg.Detail.Fields[0].Value)
		assert.Equal(t, "Tax", msg.Detail.Fields[2].Title)
		assert.Equal(t, "1.39 USD", msg.Detail.Fields[2].Value)
	})

	t.Run("absent total renders an empty amount", func(t *testing.T) {
		msg := svc.BuildMessages(period, nil, nil, model.GroupByService)

		assert.Equal(t, "Total:", msg.Root.Text)
		assert.NotEmpty(t, msg.Root.Color)
	})

	t.Run("absent detail renders no fields", func(t *testing.T) {
		total := &model.TotalBilling{Unit: "USD", Amount: "3.50"}

		msg := svc.BuildMessages(period, total, nil, model.GroupByAccount)

		assert.Contains(t, msg.RootText, "accounts")
		assert.Empty(t, msg.Detail.Fields)
	})

	t.Run("account rows keep their enriched titles", func(t *testing.T) {
		rows := []model.CostRow{{Key: "111111111111 (prod)", Unit: "USD", Amount: "3.50"}}

		msg := svc.BuildMessages(period, nil, rows, model.GroupByAccount)

		require.Len(t, msg.Detail.Fields, 1)
		assert.Equal(t, "111111111111 (prod)", msg.Detail.Fields[0].Title)
	})
}
