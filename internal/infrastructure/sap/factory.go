package sap

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure"
)

const assertionAudience = "sap-gateway"

// ConnectionFactory opens connections under the selected auth method.
// System-account credentials come from the resolver on every call so a
// rotated secret is picked up without a restart.
type ConnectionFactory struct {
	gw    *Gateway
	creds infrastructure.CredentialResolver

	signingKey   []byte
	issuer       string
	assertionTTL time.Duration
}

var _ infrastructure.ConnectionFactory = (*ConnectionFactory)(nil)

func NewConnectionFactory(
	gw *Gateway,
	creds infrastructure.CredentialResolver,
	signingKey string,
	issuer string,
	assertionTTL time.Duration,
) *ConnectionFactory {
	return &ConnectionFactory{
		gw:           gw,
		creds:        creds,
		signingKey:   []byte(signingKey),
		issuer:       issuer,
		assertionTTL: assertionTTL,
	}
}

func (f *ConnectionFactory) ConnectionFor(
	ctx context.Context,
	user entity.UserContext,
	method entity.AuthMethod,
) (infrastructure.VendorConnector, error) {
	params := f.creds.Resolve(ctx)

	if method == entity.AuthIdentityPropagation {
		assertion, err := f.mintAssertion(user.AADUserID)
		if err != nil {
			return nil, fmt.Errorf("ConnectionFactory - ConnectionFor - f.mintAssertion: %w", err)
		}

		return NewIdentityConnection(f.gw, params, assertion, user.AADUserID), nil
	}

	return NewSystemAccountConnection(f.gw, params), nil
}

// mintAssertion exchanges the portal identity for a short-lived signed
// assertion the gateway accepts as the caller's identity.
func (f *ConnectionFactory) mintAssertion(subject string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    f.issuer,
		Audience:  jwt.ClaimStrings{assertionAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(f.assertionTTL)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.signingKey)
	if err != nil {
		return "", fmt.Errorf("ConnectionFactory - mintAssertion - token.SignedString: %w", err)
	}

	return signed, nil
}
