package dto

import "strings"

// EnquiryRequest is the body of POST /api/enquiry.
type EnquiryRequest struct {
	Email   string `json:"email" validate:"required,email,max=254"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Normalize trims surrounding whitespace from every field.
func (r *EnquiryRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type EnquiryResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
