package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	dErrors "antygravity/pkg/domain-errors"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens through the tokeninfo endpoint.
// Google performs the signature check server-side; we only confirm the
// audience matches our client id.
type GoogleVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

type GoogleOption func(*GoogleVerifier)

// WithGoogleEndpoint overrides the tokeninfo URL, used by tests.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(v *GoogleVerifier) { v.endpoint = endpoint }
}

func NewGoogleVerifier(clientID string, opts ...GoogleOption) *GoogleVerifier {
	v := &GoogleVerifier{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

type googleTokenInfo struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if idToken == "" {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "id_token is required")
	}

	endpoint := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "google tokeninfo unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "invalid google token")
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed tokeninfo response")
	}
	if info.Audience != v.clientID {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "token issued for a different client")
	}
	if info.Subject == "" {
		return Identity{}, dErrors.New(dErrors.CodeBadRequest, "token missing subject")
	}

	return Identity{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}
