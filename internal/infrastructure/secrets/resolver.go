package secrets

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// SecretGetter is the slice of the Secrets Manager API the resolver needs.
type SecretGetter interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// connectionSecret is the JSON document stored under the secret name.
type connectionSecret struct {
	Host         string `json:"host"`
	SystemNumber string `json:"systemNumber"`
	Client       string `json:"client"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Resolver returns the system-account connection parameters. Any secret
// store problem falls back to the configured values so local and offline
// runs keep working; it never surfaces an error to the caller.
type Resolver struct {
	store      SecretGetter // nil when the secret store is not configured
	secretName string
	fallback   dto.ConnectionParams

	logger logger.Interface
}

func NewResolver(store SecretGetter, secretName string, fallback dto.ConnectionParams, l logger.Interface) *Resolver {
	return &Resolver{
		store:      store,
		secretName: secretName,
		fallback:   fallback,
		logger:     l,
	}
}

func (r *Resolver) Resolve(ctx context.Context) dto.ConnectionParams {
	if r.store == nil {
		return r.fallback
	}

	out, err := r.store.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretName),
	})
	if err != nil {
		r.logger.Warn("Resolver - Resolve - falling back to config: %v", err)

		return r.fallback
	}

	var secret connectionSecret
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &secret); err != nil {
		r.logger.Warn("Resolver - Resolve - malformed secret, falling back to config: %v", err)

		return r.fallback
	}

	return dto.ConnectionParams{
		Host:         secret.Host,
		SystemNumber: secret.SystemNumber,
		Client:       secret.Client,
		Username:     secret.Username,
		Password:     secret.Password,
	}
}
