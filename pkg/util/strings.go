package util

import "unicode/utf8"

// MaxLogBodySize is the default maximum size of text written to logs (4KB).
const MaxLogBodySize = 4 * 1024

// TruncateBody truncates data to at most maxSize bytes without splitting a
// UTF-8 sequence, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut] + "...(truncated)"
}
