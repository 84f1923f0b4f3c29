package usecase

import (
	"context"

	"shorelands-backend/pkg/gmail"
)

// EnquiryUsecase forwards visitor enquiries to the configured recipients.
type EnquiryUsecase interface {
	SubmitEnquiry(ctx context.Context, senderEmail, title, message string) error
}

// MailDispatcher delivers one enquiry to a list of recipients.
type MailDispatcher interface {
	Send(ctx context.Context, title, senderEmail, body string, recipients []string) error
}

// CredentialProvider yields a fresh access token for the mail provider.
type CredentialProvider interface {
	FetchAccessToken(ctx context.Context) (string, error)
}

// MailTransport opens an authenticated session with the mail provider.
type MailTransport interface {
	Open(ctx context.Context, accessToken string) (gmail.Session, error)
}
