package awssts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type service struct {
	client STSAPI
}

// STSAPI is the slice of the STS client the service uses.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, input *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}
