package sanitizer

import (
	"regexp"
	"unicode/utf8"
)

const MaxSearchTermLength = 100

var (
	rePhoneFragment   = regexp.MustCompile(`^\+[0-9][0-9 ().\-]*$`)
	rePhoneSeparators = regexp.MustCompile(`[ ().\-]`)
)

// NormalizeRequester canonicalizes who a booking is for. Phone numbers are
// stored in E.164 so the same caller is found however they typed it.
func NormalizeRequester(s string) string {
	s = Pipeline{stripControl, TrimAndNormalize}.Apply(s)
	if LooksLikePhone(s) {
		if e164 := NormalizePhone(s); e164 != "" {
			return e164
		}
	}
	return s
}

// SearchPattern turns a user search term into a regex-safe literal. Phone
// shaped terms are normalized first so they match stored requesters; a
// partial number loses its separators so it still matches as a prefix.
func SearchPattern(term string) string {
	term = NormalizeRequester(term)
	if rePhoneFragment.MatchString(term) {
		term = rePhoneSeparators.ReplaceAllString(term, "")
	}
	if utf8.RuneCountInString(term) > MaxSearchTermLength {
		term = string([]rune(term)[:MaxSearchTermLength])
	}
	return regexp.QuoteMeta(term)
}
