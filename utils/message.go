package utils

import "strings"

// GetTokenN returns the n-th sep-separated token of a topic or subject, or ""
// when there are not enough tokens.
func GetTokenN(topic, sep string, n int) string {
	tokens := strings.Split(topic, sep)
	if n < 0 || n >= len(tokens) {
		return ""
	}
	return tokens[n]
}
