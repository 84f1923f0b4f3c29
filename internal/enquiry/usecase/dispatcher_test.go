package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"shorelands-backend/internal/enquiry/domain"
	"shorelands-backend/pkg/gmail"

	"github.com/emersion/go-message/mail"
	"github.com/google/go-cmp/cmp"
)

type fakeCredentials struct {
	token string
	err   error
	calls int
}

func (f *fakeCredentials) FetchAccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

// fakeTransport records every session it opens and every message sent.
type fakeTransport struct {
	mu       sync.Mutex
	blockFor map[string]bool
	openErr  error
	opens    int
	closes   int
	tokens   []string
	sent     map[string][]byte
	failFor  map[string]error
	attempts int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: map[string][]byte{}, failFor: map[string]error{}, blockFor: map[string]bool{}}
}

func (f *fakeTransport) Open(_ context.Context, accessToken string) (gmail.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	f.tokens = append(f.tokens, accessToken)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeSession{transport: f}, nil
}

type fakeSession struct {
	transport *fakeTransport
}

func (s *fakeSession) Send(ctx context.Context, raw []byte) error {
	m, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	to, err := m.Header.AddressList("To")
	if err != nil || len(to) != 1 {
		return errors.New("message must have exactly one recipient")
	}

	f := s.transport
	f.mu.Lock()
	f.attempts++
	block := f.blockFor[to[0].Address]
	f.mu.Unlock()

	// a blocked recipient only returns once the send deadline expires
	if block {
		<-ctx.Done()
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[to[0].Address]; err != nil {
		return err
	}
	f.sent[to[0].Address] = raw
	return nil
}

func (s *fakeSession) Close() {
	s.transport.mu.Lock()
	s.transport.closes++
	s.transport.mu.Unlock()
}

func newDispatcher(creds CredentialProvider, transport MailTransport) *Dispatcher {
	d := NewDispatcher(creds, transport, DispatcherConfig{From: "office@shorelands.test", SendTimeout: time.Second, Workers: 2}, nil)
	d.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return d
}

func TestSendInvalidAddressPerformsNoNetworkCalls(t *testing.T) {
	creds := &fakeCredentials{token: "tok"}
	transport := newFakeTransport()
	d := newDispatcher(creds, transport)

	err := d.Send(context.Background(), "Hi", "not-an-email", "x", []string{"a@b.com"})
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("Send error = %v; want ErrInvalidAddress", err)
	}
	if creds.calls != 0 || transport.opens != 0 || transport.attempts != 0 {
		t.Errorf("network activity: credential calls %d, opens %d, sends %d; want none", creds.calls, transport.opens, transport.attempts)
	}
}

func TestSendNoRecipients(t *testing.T) {
	creds := &fakeCredentials{token: "tok"}
	d := newDispatcher(creds, newFakeTransport())

	if err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", nil); !errors.Is(err, domain.ErrNoRecipients) {
		t.Errorf("Send error = %v; want ErrNoRecipients", err)
	}
	if creds.calls != 0 {
		t.Errorf("credential calls = %d; want 0", creds.calls)
	}
}

func TestSendCredentialUnavailable(t *testing.T) {
	creds := &fakeCredentials{err: errors.New("invalid_grant")}
	transport := newFakeTransport()
	d := newDispatcher(creds, transport)

	err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", []string{"a@b.com"})

	var dispatchErr *domain.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("Send error = %v; want *DispatchError", err)
	}
	if dispatchErr.Reason != domain.ReasonCredentialUnavailable {
		t.Errorf("Reason = %s; want %s", dispatchErr.Reason, domain.ReasonCredentialUnavailable)
	}
	if !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("error %v does not wrap ErrCredentialUnavailable", err)
	}
	if transport.opens != 0 || transport.attempts != 0 {
		t.Errorf("transport used: opens %d, sends %d; want none", transport.opens, transport.attempts)
	}
}

func TestSendCredentialErrorKeepsProviderCause(t *testing.T) {
	creds := &fakeCredentials{err: fmt.Errorf("%w: invalid_grant", gmail.ErrCredentialUnavailable)}
	d := newDispatcher(creds, newFakeTransport())

	err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", []string{"a@b.com"})
	if !errors.Is(err, domain.ErrCredentialUnavailable) {
		t.Errorf("error %v does not wrap domain.ErrCredentialUnavailable", err)
	}
	if !errors.Is(err, gmail.ErrCredentialUnavailable) {
		t.Errorf("error %v does not wrap gmail.ErrCredentialUnavailable", err)
	}
}

func TestSendTimeoutCountsAsRecipientFailure(t *testing.T) {
	tests := []struct {
		name       string
		recipients []string
		want       domain.DispatchReason
	}{
		{name: "single recipient", recipients: []string{"slow@shorelands.test"}, want: domain.ReasonDispatchFailed},
		{name: "second recipient delivered", recipients: []string{"slow@shorelands.test", "fast@shorelands.test"}, want: domain.ReasonPartialFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newFakeTransport()
			transport.blockFor["slow@shorelands.test"] = true
			d := NewDispatcher(&fakeCredentials{token: "tok"}, transport, DispatcherConfig{From: "office@shorelands.test", SendTimeout: 50 * time.Millisecond, Workers: 2}, nil)

			start := time.Now()
			err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", tt.recipients)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Send took %v; the send timeout was not applied", elapsed)
			}

			var dispatchErr *domain.DispatchError
			if !errors.As(err, &dispatchErr) {
				t.Fatalf("Send error = %v; want *DispatchError", err)
			}
			if dispatchErr.Reason != tt.want {
				t.Errorf("Reason = %s; want %s", dispatchErr.Reason, tt.want)
			}
			if len(dispatchErr.Failures) != 1 || dispatchErr.Failures[0].Recipient != "slow@shorelands.test" {
				t.Fatalf("Failures = %+v; want only slow@shorelands.test", dispatchErr.Failures)
			}
			if !errors.Is(dispatchErr.Failures[0].Err, context.DeadlineExceeded) {
				t.Errorf("failure = %v; want context.DeadlineExceeded", dispatchErr.Failures[0].Err)
			}
		})
	}
}

func TestSendPartialFailure(t *testing.T) {
	transport := newFakeTransport()
	transport.failFor["first@shorelands.test"] = errors.New("mailbox unavailable")
	d := newDispatcher(&fakeCredentials{token: "tok"}, transport)

	err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", []string{"first@shorelands.test", "second@shorelands.test"})

	var dispatchErr *domain.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("Send error = %v; want *DispatchError", err)
	}
	if dispatchErr.Reason != domain.ReasonPartialFailure {
		t.Errorf("Reason = %s; want %s", dispatchErr.Reason, domain.ReasonPartialFailure)
	}
	if len(dispatchErr.Failures) != 1 || dispatchErr.Failures[0].Recipient != "first@shorelands.test" {
		t.Errorf("Failures = %+v; want only first@shorelands.test", dispatchErr.Failures)
	}
	if transport.attempts != 2 {
		t.Errorf("send attempts = %d; want 2", transport.attempts)
	}
	if _, ok := transport.sent["second@shorelands.test"]; !ok {
		t.Error("second recipient was not delivered")
	}
	if transport.opens != 1 || transport.closes != 1 {
		t.Errorf("sessions opened %d, closed %d; want 1 and 1", transport.opens, transport.closes)
	}
}

func TestSendAllFail(t *testing.T) {
	transport := newFakeTransport()
	transport.failFor["a@shorelands.test"] = errors.New("boom")
	transport.failFor["b@shorelands.test"] = errors.New("boom")
	d := newDispatcher(&fakeCredentials{token: "tok"}, transport)

	err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", []string{"a@shorelands.test", "b@shorelands.test"})

	var dispatchErr *domain.DispatchError
	if !errors.As(err, &dispatchErr) || dispatchErr.Reason != domain.ReasonDispatchFailed {
		t.Fatalf("Send error = %v; want dispatch_failed", err)
	}
	got := []string{}
	for _, f := range dispatchErr.Failures {
		got = append(got, f.Recipient)
	}
	sort.Strings(got)
	if diff := cmp.Diff([]string{"a@shorelands.test", "b@shorelands.test"}, got); diff != "" {
		t.Errorf("failed recipients mismatch (-want +got):\n%s", diff)
	}
}

func TestSendOpenFailureFailsEveryRecipient(t *testing.T) {
	transport := newFakeTransport()
	transport.openErr = errors.New("dial tcp: refused")
	d := newDispatcher(&fakeCredentials{token: "tok"}, transport)

	err := d.Send(context.Background(), "Hi", "visitor@example.com", "x", []string{"a@shorelands.test"})
	var dispatchErr *domain.DispatchError
	if !errors.As(err, &dispatchErr) || dispatchErr.Reason != domain.ReasonDispatchFailed {
		t.Fatalf("Send error = %v; want dispatch_failed", err)
	}
}

func TestSendSuccessComposesMessage(t *testing.T) {
	transport := newFakeTransport()
	d := newDispatcher(&fakeCredentials{token: "tok-1"}, transport)

	err := d.Send(context.Background(), "Viewing request", " Visitor@EXAMPLE.com ", "I&#39;d like a tour", []string{"agent@shorelands.test"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if diff := cmp.Diff([]string{"tok-1"}, transport.tokens); diff != "" {
		t.Errorf("session tokens mismatch (-want +got):\n%s", diff)
	}

	raw, ok := transport.sent["agent@shorelands.test"]
	if !ok {
		t.Fatal("nothing delivered to agent@shorelands.test")
	}
	m, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	subject, _ := m.Header.Subject()
	if subject != "Viewing request" {
		t.Errorf("Subject = %q", subject)
	}
	from, _ := m.Header.AddressList("From")
	if len(from) != 1 || from[0].Address != "office@shorelands.test" {
		t.Errorf("From = %v", from)
	}
	replyTo, _ := m.Header.AddressList("Reply-To")
	if len(replyTo) != 1 || replyTo[0].Address != "Visitor@example.com" {
		t.Errorf("Reply-To = %v", replyTo)
	}
	if id, _ := m.Header.MessageID(); id == "" {
		t.Error("Message-Id is missing")
	}

	part, err := m.NextPart()
	if err != nil {
		t.Fatalf("NextPart: %v", err)
	}
	body, _ := io.ReadAll(part.Body)
	want := "<h3>From: Visitor@example.com</h3><br /><p>Message: I&#39;d like a tour</p>"
	if strings.TrimSpace(string(body)) != want {
		t.Errorf("body = %q; want %q", body, want)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "visitor@example.com", want: "visitor@example.com"},
		{in: "  Visitor@Example.COM ", want: "Visitor@example.com"},
		{in: "anna@bücher.de", want: "anna@xn--bcher-kva.de"},
		{in: "", wantErr: true},
		{in: "not-an-email", wantErr: true},
		{in: "Visitor <visitor@example.com>", wantErr: true},
		{in: "visitor@localhost", wantErr: true},
		{in: "a@b@c.com", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeAddress(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidAddress) {
				t.Errorf("NormalizeAddress(%q) error = %v; want ErrInvalidAddress", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

type recordingDispatcher struct {
	title, sender, body string
	recipients          []string
}

func (r *recordingDispatcher) Send(_ context.Context, title, senderEmail, body string, recipients []string) error {
	r.title, r.sender, r.body, r.recipients = title, senderEmail, body, recipients
	return nil
}

func TestSubmitEnquiryUsesConfiguredRecipients(t *testing.T) {
	d := &recordingDispatcher{}
	uc := NewEnquiryUsecase(d, []string{"agent@shorelands.test"})

	if err := uc.SubmitEnquiry(context.Background(), "visitor@example.com", "Hi", "Hello"); err != nil {
		t.Fatalf("SubmitEnquiry: %v", err)
	}
	want := recordingDispatcher{title: "Hi", sender: "visitor@example.com", body: "Hello", recipients: []string{"agent@shorelands.test"}}
	if diff := cmp.Diff(want, *d, cmp.AllowUnexported(recordingDispatcher{})); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}
