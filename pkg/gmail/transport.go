package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Session is a one-shot connection to the mail provider authenticated with a
// single access token.
type Session interface {
	// Send relays one RFC 5322 message.
	Send(ctx context.Context, raw []byte) error
	// Close releases the session's connections.
	Close()
}

// Transport opens Gmail API sessions.
type Transport struct {
	endpoint string
}

// NewTransport creates a Transport. An empty endpoint uses the public Gmail API.
func NewTransport(endpoint string) *Transport {
	return &Transport{endpoint: endpoint}
}

// Open creates a Gmail client over a private connection pool that is released
// by Close.
func (t *Transport) Open(ctx context.Context, accessToken string) (Session, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   base,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if t.endpoint != "" {
		opts = append(opts, option.WithEndpoint(t.endpoint))
	}

	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		base.CloseIdleConnections()
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return &apiSession{srv: srv, base: base}, nil
}

type apiSession struct {
	srv  *gmail.Service
	base *http.Transport
}

func (s *apiSession) Send(ctx context.Context, raw []byte) error {
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	if _, err := s.srv.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to send message: %v", err)
	}
	return nil
}

func (s *apiSession) Close() {
	s.base.CloseIdleConnections()
}
