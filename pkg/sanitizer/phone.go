package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var rePhoneShaped = regexp.MustCompile(`^\+[0-9][0-9 ().\-]{6,20}$`)

// LooksLikePhone reports whether s is written as an international number.
func LooksLikePhone(s string) bool {
	return rePhoneShaped.MatchString(strings.TrimSpace(s))
}

// NormalizePhone returns the E.164 form of an international number, or ""
// when the input cannot be parsed as one.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if !LooksLikePhone(phone) {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
