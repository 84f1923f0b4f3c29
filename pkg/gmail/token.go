package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrCredentialUnavailable is returned when the refresh-token exchange does not
// produce a usable access token.
var ErrCredentialUnavailable = errors.New("mail credential unavailable")

const defaultTokenTimeout = 10 * time.Second

// TokenProvider exchanges a long-lived refresh token for an access token.
// Nothing is cached: every FetchAccessToken performs a fresh exchange.
type TokenProvider struct {
	config       *oauth2.Config
	refreshToken string
	timeout      time.Duration
	httpClient   *http.Client
}

// NewTokenProvider creates a provider against Google's token endpoint, or
// tokenURL when it is non-empty.
func NewTokenProvider(clientID, clientSecret, refreshToken, tokenURL string, timeout time.Duration) *TokenProvider {
	endpoint := google.Endpoint
	if tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}
	if timeout <= 0 {
		timeout = defaultTokenTimeout
	}
	return &TokenProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
		},
		refreshToken: refreshToken,
		timeout:      timeout,
	}
}

// WithHTTPClient sets the client used for the exchange.
func (p *TokenProvider) WithHTTPClient(client *http.Client) *TokenProvider {
	p.httpClient = client
	return p
}

// FetchAccessToken performs the refresh-token exchange. Errors never include
// the client secret or the refresh token.
func (p *TokenProvider) FetchAccessToken(ctx context.Context) (string, error) {
	if p.refreshToken == "" || p.config.ClientID == "" {
		return "", fmt.Errorf("%w: oauth2 client is not configured", ErrCredentialUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	// An expired token holding only the refresh token forces the exchange.
	token, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCredentialUnavailable, describeTokenError(err))
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no access token", ErrCredentialUnavailable)
	}
	return token.AccessToken, nil
}

// describeTokenError keeps the provider's error code and drops the raw body.
func describeTokenError(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			return "token endpoint rejected the exchange: " + retrieveErr.ErrorCode
		}
		if retrieveErr.Response != nil {
			return fmt.Sprintf("token endpoint returned status %d", retrieveErr.Response.StatusCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "token exchange timed out"
	}
	return err.Error()
}
