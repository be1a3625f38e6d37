package awssecrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/elC0mpa/cost-notifier/model"
)

func NewService(awsconfig aws.Config) *service {
	client := secretsmanager.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// NewServiceWithClient injects a pre-built client, used by tests.
func NewServiceWithClient(client SecretsManagerAPI) *service {
	return &service{
		client: client,
	}
}

// Resolve fetches the named secret and decodes it into the Slack credential.
// The secret's string value must be a JSON object carrying both token and
// channel.
func (s *service) Resolve(ctx context.Context, name string) (*model.SlackCredential, error) {
	output, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %q: %w", name, err)
	}

	var credential model.SlackCredential
	if err := json.Unmarshal([]byte(aws.ToString(output.SecretString)), &credential); err != nil {
		return nil, fmt.Errorf("decode secret %q: %w", name, err)
	}
	if credential.Token == "" || credential.Channel == "" {
		return nil, fmt.Errorf("secret %q must contain both \"token\" and \"channel\"", name)
	}

	return &credential, nil
}
