package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"shorelands-backend/internal/enquiry/domain"

	"golang.org/x/net/idna"
)

// NormalizeAddress accepts a bare RFC 5322 address and returns it with the
// domain converted to lower-case ASCII (IDNA). Display names are rejected.
func NormalizeAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "<>") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || at == len(addr.Address)-1 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	local, host := addr.Address[:at], addr.Address[at+1:]

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	return local + "@" + strings.ToLower(ascii), nil
}
