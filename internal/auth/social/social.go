// Package social verifies ID tokens issued by external identity providers
// and normalizes them into a provider-neutral Identity.
package social

import "context"

// Identity is the provider-neutral view of a verified ID token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityVerifier checks a raw ID token against one provider and extracts
// the identity it asserts. Implementations must reject tokens minted for a
// different client.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}
