package social

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "antygravity/pkg/domain-errors"
)

const (
	appleKeysURL = "https://appleid.apple.com/auth/keys"
	appleIssuer  = "https://appleid.apple.com"
	appleKeysTTL = time.Hour
)

// AppleVerifier validates Sign in with Apple ID tokens locally: RS256
// signature against Apple's published JWKS, plus issuer and audience checks.
// The key set is cached and refetched on expiry or unknown kid.
type AppleVerifier struct {
	clientID string
	keysURL  string
	client   *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

type AppleOption func(*AppleVerifier)

// WithAppleKeysURL overrides the JWKS endpoint, used by tests.
func WithAppleKeysURL(keysURL string) AppleOption {
	return func(v *AppleVerifier) { v.keysURL = keysURL }
}

func NewAppleVerifier(clientID string, opts ...AppleOption) *AppleVerifier {
	v := &AppleVerifier{
		clientID: clientID,
		keysURL:  appleKeysURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

type appleClaims struct {
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	jwt.RegisteredClaims
}

func (v *AppleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if idToken == "" {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "id_token is required")
	}

	claims := &appleClaims{}
	parsed, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.publicKey(ctx, kid)
	}, jwt.WithIssuer(appleIssuer), jwt.WithAudience(v.clientID))
	if err != nil || !parsed.Valid {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "invalid apple token")
	}
	if claims.Subject == "" {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "token missing subject")
	}

	return Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: emailVerified(claims.EmailVerified),
	}, nil
}

// Apple encodes email_verified as the string "true" in some tokens and a
// boolean in others.
func emailVerified(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func (v *AppleVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < appleKeysTTL {
		return key, nil
	}
	if err := v.refreshLocked(ctx); err != nil {
		return nil, err
	}
	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no apple signing key with kid %q", kid)
	}
	return key, nil
}

type appleJWKS struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *AppleVerifier) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.keysURL, nil)
	if err != nil {
		return fmt.Errorf("build jwks request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch apple jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch apple jwks: status %d", resp.StatusCode)
	}

	var jwks appleJWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("decode apple jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		key, err := rsaKeyFromJWK(jwk.N, jwk.E)
		if err != nil {
			return fmt.Errorf("parse apple jwk %q: %w", jwk.Kid, err)
		}
		keys[jwk.Kid] = key
	}

	v.keys = keys
	v.fetchedAt = time.Now()
	return nil
}

func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
