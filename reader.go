package main

import (
	"strconv"
	"strings"
)

// TagReader polls the proximity sensor.  Poll issues a single presence
// request and, when a tag answers, reads its unique identifier.  It returns
// false when no tag is present or when either step fails; the two cases are
// not distinguished.
type TagReader interface {
	Poll() ([]byte, bool)
}

// FormatUID joins the decimal value of each byte with "-", e.g.
// [4 2 18 255] becomes "4-2-18-255".
func FormatUID(uid []byte) string {
	parts := make([]string, len(uid))
	for i, b := range uid {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, "-")
}
