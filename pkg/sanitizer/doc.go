// Package sanitizer normalizes free-text booking input before validation and storage.
//
// Every function is idempotent and never fails: input it cannot improve is
// returned trimmed, or empty when nothing meaningful is left.
//
// Normalization includes:
//   - Strings: collapse runs of whitespace, trim both ends
//   - Phone numbers: international numbers become E.164 (+[country][number])
//   - Requesters: phone-shaped values become E.164, anything else is whitespace-normalized
//   - Search terms: normalized, length-capped and escaped for use inside a regex
package sanitizer
