package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@school.edu",
		"Tutor+math@Example.COM",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "email=%q", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@nodot",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "email=%q", email)
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?query=1",
		"https://sub.domain.example.com:8443/deep/path",
	}
	for _, u := range valid {
		assert.True(t, IsValidURL(u), "url=%q", u)
	}

	invalid := []string{
		"",
		"example.com",         // no scheme
		"ftp://example.com",   // wrong scheme
		"https://",            // no host
		"//example.com/path",  // scheme-relative
		"javascript:alert(1)", // not a web URL
	}
	for _, u := range invalid {
		assert.False(t, IsValidURL(u), "url=%q", u)
	}
}

func TestStringValidation(t *testing.T) {
	nameRule := func(value string) *StringValidation {
		return NewStringValidation(value).
			WithMinLength(NameMinLength).
			WithMaxLength(NameMaxLength)
	}

	assert.True(t, nameRule("Ada").Validate())
	assert.False(t, nameRule("").Validate())
	assert.False(t, nameRule("A").Validate())
	assert.False(t, nameRule(strings.Repeat("x", NameMaxLength+1)).Validate())

	// optional fields skip the remaining rules when empty
	optional := NewStringValidation("").WithRequired(false).WithMinLength(5)
	assert.True(t, optional.Validate())

	pattern := NewStringValidation("abc123").WithPattern(CompiledPatterns.Email)
	assert.False(t, pattern.Validate())
}
