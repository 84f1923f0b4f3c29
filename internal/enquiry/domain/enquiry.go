package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAddress        = errors.New("invalid email address")
	ErrNoRecipients          = errors.New("no enquiry recipients configured")
	ErrCredentialUnavailable = errors.New("mail credential unavailable")
)

// InquiryMessage is one visitor enquiry. It lives only for a single dispatch.
type InquiryMessage struct {
	Title       string
	SenderEmail string
	Body        string
}

// DispatchReason classifies a failed dispatch.
type DispatchReason string

const (
	ReasonCredentialUnavailable DispatchReason = "credential_unavailable"
	ReasonPartialFailure        DispatchReason = "partial_dispatch_failure"
	ReasonDispatchFailed        DispatchReason = "dispatch_failed"
)

// RecipientFailure records a delivery failure for one recipient.
type RecipientFailure struct {
	Recipient string
	Err       error
}

// DispatchError is returned when an enquiry was not delivered to every recipient.
type DispatchError struct {
	Reason   DispatchReason
	Failures []RecipientFailure
	// Err is the credential failure for ReasonCredentialUnavailable.
	Err error
}

func (e *DispatchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	case len(e.Failures) > 0:
		recipients := make([]string, 0, len(e.Failures))
		for _, f := range e.Failures {
			recipients = append(recipients, f.Recipient)
		}
		return fmt.Sprintf("%s: %d recipient(s) failed: %s", e.Reason, len(e.Failures), strings.Join(recipients, ", "))
	default:
		return string(e.Reason)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
