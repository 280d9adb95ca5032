// Package fingerprint derives the subject match key shared by clinics.
//
// Matching is exact string equality on the key. Two subjects whose
// normalized identity fields agree collide on purpose.
package fingerprint

import "strings"

// separator joins the key parts.
const separator = "|"

// Normalize trims, lowercases, and collapses whitespace runs to one space.
func Normalize(fullName string) string {
	return strings.Join(strings.Fields(strings.ToLower(fullName)), " ")
}

// Compute builds the match key. dob and phoneLast4 pass through unmodified;
// callers validate phoneLast4 before calling.
func Compute(fullName, dob, phoneLast4 string) string {
	return Normalize(fullName) + separator + dob + separator + phoneLast4
}

// ValidPhoneLast4 reports whether s is exactly four ASCII digits.
func ValidPhoneLast4(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
