package analyzer

import "strings"

// sensitiveKeywords are substrings of lowercased function names that mark
// payment, authentication, secret handling or destructive operations.
var sensitiveKeywords = []string{
	"payment", "pay_", "_pay", "charge", "billing", "invoice",
	"auth", "authenticate", "login", "logout", "signin", "signout", "signup", "register",
	"password", "passwd", "token", "secret", "key", "credential", "api_key", "apikey",
	"encrypt", "decrypt", "hash", "verify", "validate",
	"admin", "delete", "remove", "destroy",
	"transfer", "withdraw", "deposit",
}

// IsSensitive reports whether a function name suggests sensitive handling.
func IsSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
