package utils

import "strings"

// NormalizeEmail lower-cases the domain part of email and trims surrounding
// whitespace. The local part is kept verbatim, since mailbox names may be
// case-sensitive. Input without "@" is returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at+1] + strings.ToLower(email[at+1:])
}
