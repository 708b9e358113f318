// Package email normalizes the email and mobile identifiers used for accounts.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// PlaceholderDomain is used for accounts registered without an email address.
const PlaceholderDomain = "zoopito.com"

// Normalize trims and lower-cases an address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address parses as a bare RFC 5322 address.
func Valid(address string) bool {
	if address == "" {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	return parsed.Address == address
}

// Placeholder returns the synthetic address given to farmers who only have a mobile number.
func Placeholder(mobile string) string {
	return strings.TrimSpace(mobile) + "@" + PlaceholderDomain
}

// NormalizeMobile strips spaces and dashes from a phone number.
func NormalizeMobile(mobile string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, mobile)
}

// DeriveName builds a display name from the local part of an address,
// used when an account is created without a name.
func DeriveName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User"
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
