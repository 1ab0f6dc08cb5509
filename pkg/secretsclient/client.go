package secretsclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	_defaultConnAttempts = 3
	_defaultConnTimeout  = time.Second
	_defaultRegion       = "us-east-1"
)

// SecretsClient wraps the Secrets Manager client used by the credential
// resolver. A custom endpoint targets self-hosted stores in local setups.
type SecretsClient struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint  string
	region    string
	accessKey string
	secretKey string

	Client *secretsmanager.Client
}

func New(ctx context.Context, endpoint, accessKey, secretKey string, opts ...Option) (*SecretsClient, error) {
	sc := &SecretsClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		region:       _defaultRegion,
		endpoint:     endpoint,
		accessKey:    accessKey,
		secretKey:    secretKey,
	}

	for _, opt := range opts {
		opt(sc)
	}

	var err error
	for sc.connAttempts > 0 {
		err = sc.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("Secrets client is trying to connect, attempts left: %d", sc.connAttempts)

		time.Sleep(sc.connTimeout)

		sc.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("SecretsClient - New - connAttempts == 0: %w", err)
	}

	return sc, nil
}

func (sc *SecretsClient) connect(ctx context.Context) error {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(sc.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(sc.accessKey, sc.secretKey, "")),
	)
	if err != nil {
		return fmt.Errorf("SecretsClient - connect - config.LoadDefaultConfig: %w", err)
	}

	sc.Client = secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if sc.endpoint != "" {
			o.BaseEndpoint = aws.String(sc.endpoint)
		}
	})

	_, err = sc.Client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{MaxResults: aws.Int32(1)})
	if err != nil {
		return fmt.Errorf("SecretsClient - connect - sc.Client.ListSecrets: %w", err)
	}

	return nil
}
