package logger

import "strings"

// MaskContact masks a guardian phone number or email, preserving only the
// last 4 characters so notification logs stay correlatable without leaking
// the full contact.
func MaskContact(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if at := strings.Index(value, "@"); at > 0 {
		return maskLast4(value[:at]) + value[at:]
	}
	return maskLast4(value)
}

func maskLast4(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
