package awscostexplorer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
)

type service struct {
	client CostExplorerAPI
}

// CostExplorerAPI is the slice of the Cost Explorer client the service uses,
// narrowed so tests can script paginated responses.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, input *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}
