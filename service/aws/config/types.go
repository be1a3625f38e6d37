package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type service struct{}

// ConfigService loads AWS SDK configuration from the standard credential
// chain.
type ConfigService interface {
	GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error)
}
