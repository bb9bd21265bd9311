// Package redact strips credentials, connection strings, email addresses,
// file paths and SQL values from error text before it is logged.
package redact

import "regexp"

// Placeholders written in place of redacted text.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; connection strings go first so their user info is
// gone before the email and path rules look at them.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|sqlite|file)://[^\s@/]+@`),
		replacement: CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)\s*[=:]\s*[^\s&'"]+`),
		replacement: CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		replacement: EmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b(WHERE|VALUES|SET)\b[^\n]*`),
		replacement: "$1 " + SQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
