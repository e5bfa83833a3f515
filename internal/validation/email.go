package validation

import (
	"errors"
	"strings"

	"github.com/badoux/checkmail"
)

var errBadEmail = errors.New("enter a valid email address")

// gmailDomains are the provider domains with a case-insensitive,
// dot-insensitive local part.
var gmailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
}

// NormalizeEmail applies provider-level folding: surrounding whitespace is
// trimmed and the domain lowercased for every address; for Gmail domains the
// local part is additionally lowercased and stripped of dots, so aliases of
// one mailbox collapse to a single stored value.
func NormalizeEmail(raw string) string {
	addr := strings.TrimSpace(raw)
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return addr
	}
	local, domain := addr[:at], strings.ToLower(addr[at+1:])
	if gmailDomains[domain] {
		local = strings.ReplaceAll(strings.ToLower(local), ".", "")
	}
	return local + "@" + domain
}

// ValidateEmailFormat checks the address syntax.
func ValidateEmailFormat(addr string) error {
	if err := checkmail.ValidateFormat(addr); err != nil {
		return errBadEmail
	}
	return nil
}

// ValidateEmailDeliverable checks that the domain accepts mail (MX lookup).
func ValidateEmailDeliverable(addr string) error {
	if err := checkmail.ValidateHost(addr); err != nil {
		return errors.New("the email domain does not accept mail")
	}
	return nil
}
