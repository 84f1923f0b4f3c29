package usecase

import (
	"context"
	"fmt"
	"time"

	"shorelands-backend/internal/enquiry/domain"
	"shorelands-backend/pkg/gmail"
	"shorelands-backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	defaultSendTimeout = 15 * time.Second
	defaultSendWorkers = 4
)

// DispatcherConfig holds the fixed parameters of every dispatch.
type DispatcherConfig struct {
	From        string
	SendTimeout time.Duration
	Workers     int
}

// Dispatcher relays enquiries through the mail provider. Each Send fetches a
// new credential and opens its own transport session.
type Dispatcher struct {
	credentials CredentialProvider
	transport   MailTransport
	cfg         DispatcherConfig
	logger      logger.Logger
	now         func() time.Time
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(credentials CredentialProvider, transport MailTransport, cfg DispatcherConfig, log logger.Logger) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultSendWorkers
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		credentials: credentials,
		transport:   transport,
		cfg:         cfg,
		logger:      log.WithFields(logger.Fields{"component": "mail_dispatcher"}),
		now:         time.Now,
	}
}

// Send delivers the enquiry to every recipient. It returns domain.ErrInvalidAddress
// or domain.ErrNoRecipients before any network activity, and *domain.DispatchError
// when the credential exchange or any delivery fails.
func (d *Dispatcher) Send(ctx context.Context, title, senderEmail, body string, recipients []string) error {
	sender, err := NormalizeAddress(senderEmail)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return domain.ErrNoRecipients
	}
	msg := domain.InquiryMessage{Title: title, SenderEmail: sender, Body: body}
	log := logger.FromContext(ctx, d.logger)

	token, err := d.credentials.FetchAccessToken(ctx)
	if err != nil {
		log.Error("Failed to obtain mail credential", err, nil)
		return &domain.DispatchError{
			Reason: domain.ReasonCredentialUnavailable,
			Err:    fmt.Errorf("%w: %w", domain.ErrCredentialUnavailable, err),
		}
	}

	session, err := d.transport.Open(ctx, token)
	if err != nil {
		log.Error("Failed to open mail session", err, nil)
		return d.aggregate(recipients, allFailed(recipients, err))
	}
	defer session.Close()

	failures := make([]error, len(recipients))
	var g errgroup.Group
	g.SetLimit(d.cfg.Workers)
	for i, to := range recipients {
		g.Go(func() error {
			failures[i] = d.deliver(ctx, session, to, msg)
			if failures[i] != nil {
				log.Error("Failed to deliver enquiry", failures[i], logger.Fields{"recipient": to})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := d.aggregate(recipients, failures); err != nil {
		return err
	}
	log.Info("Enquiry delivered", logger.Fields{"recipients": len(recipients)})
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, session gmail.Session, to string, msg domain.InquiryMessage) error {
	raw, err := composeMessage(d.cfg.From, to, msg, d.now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	return session.Send(ctx, raw)
}

func (d *Dispatcher) aggregate(recipients []string, results []error) error {
	var failures []domain.RecipientFailure
	for i, err := range results {
		if err != nil {
			failures = append(failures, domain.RecipientFailure{Recipient: recipients[i], Err: err})
		}
	}
	switch {
	case len(failures) == 0:
		return nil
	case len(failures) < len(recipients):
		return &domain.DispatchError{Reason: domain.ReasonPartialFailure, Failures: failures}
	default:
		return &domain.DispatchError{Reason: domain.ReasonDispatchFailed, Failures: failures}
	}
}

func allFailed(recipients []string, err error) []error {
	results := make([]error, len(recipients))
	for i := range results {
		results[i] = err
	}
	return results
}
