package usecase

import (
	"context"
)

// enquiryUsecase implements EnquiryUsecase interface
type enquiryUsecase struct {
	dispatcher MailDispatcher
	recipients []string
}

// NewEnquiryUsecase creates a new instance of enquiryUsecase
func NewEnquiryUsecase(dispatcher MailDispatcher, recipients []string) EnquiryUsecase {
	return &enquiryUsecase{
		dispatcher: dispatcher,
		recipients: append([]string(nil), recipients...),
	}
}

func (u *enquiryUsecase) SubmitEnquiry(ctx context.Context, senderEmail, title, message string) error {
	return u.dispatcher.Send(ctx, title, senderEmail, message, u.recipients)
}
