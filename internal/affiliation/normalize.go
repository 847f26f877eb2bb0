package affiliation

import "strings"

// Normalize canonicalizes a name for equality comparison: lower case,
// trimmed, with internal whitespace runs collapsed to a single space.
// Blank input yields "", which never matches an affiliate.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
