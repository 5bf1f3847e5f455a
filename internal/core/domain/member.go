package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MemberName is the set of name fields a member profile carries.
type MemberName struct {
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
}

// ComposeDisplayName renders "First M. Last" when both first and last names
// are present, otherwise the display name, otherwise whatever of first/last
// exists. Whitespace is collapsed. The result doubles as the account lookup
// key for member sub-accounts, so every caller must go through here.
func ComposeDisplayName(n MemberName) string {
	first := CollapseSpaces(n.FirstName)
	middle := CollapseSpaces(n.MiddleName)
	last := CollapseSpaces(n.LastName)

	if first != "" && last != "" {
		parts := []string{first}
		if middle != "" {
			r, _ := utf8.DecodeRuneInString(middle)
			parts = append(parts, string(unicode.ToUpper(r))+".")
		}
		parts = append(parts, last)
		return strings.Join(parts, " ")
	}
	if display := CollapseSpaces(n.DisplayName); display != "" {
		return display
	}
	return CollapseSpaces(first + " " + last)
}

// CollapseSpaces trims s and squeezes internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
