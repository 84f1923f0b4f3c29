package usecase

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"shorelands-backend/internal/enquiry/domain"

	"github.com/emersion/go-message/mail"
)

// composeMessage renders the enquiry as a single-part HTML message for one
// recipient. msg.Body is inserted as-is; it is escaped at the HTTP boundary.
func composeMessage(from, to string, msg domain.InquiryMessage, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetAddressList("Reply-To", []*mail.Address{{Address: msg.SenderEmail}})
	h.SetSubject(msg.Title)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, renderBody(msg)); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}
	return buf.Bytes(), nil
}

func renderBody(msg domain.InquiryMessage) string {
	return fmt.Sprintf("<h3>From: %s</h3><br /><p>Message: %s</p>", html.EscapeString(msg.SenderEmail), msg.Body)
}
