package awssts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/elC0mpa/cost-notifier/model"
)

func NewService(awsconfig aws.Config) *service {
	client := sts.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// NewServiceWithClient injects a pre-built client, used by tests.
func NewServiceWithClient(client STSAPI) *service {
	return &service{
		client: client,
	}
}

// GetAccountInfo resolves the account behind the configured credentials. The
// check command uses it to confirm AWS access before a schedule is enabled.
func (s *service) GetAccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	output, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, err
	}

	return &model.AccountInfo{
		Provider:    "aws",
		AccountID:   aws.ToString(output.Account),
		AccountName: aws.ToString(output.Arn),
	}, nil
}
