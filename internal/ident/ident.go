// Package ident generates the human-readable identifiers used across
// the linker tree: "<prefix>-<base36 millis>-<6 base36 chars>".
//
// Ids are only ever compared for equality inside a single tree, so the
// suffix is random rather than cryptographic.
package ident

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	suffixLen    = 6
	base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	mu        sync.Mutex
	lastStamp string
	seen      map[string]struct{}
)

// New returns a fresh identifier with the given prefix. Suffixes are
// tracked per timestamp, so a session never hands out the same id
// twice even under a tight generation loop.
func New(prefix string) string {
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	mu.Lock()
	if stamp != lastStamp {
		lastStamp = stamp
		seen = make(map[string]struct{})
	}
	suffix := randomSuffix()
	for {
		if _, dup := seen[suffix]; !dup {
			break
		}
		suffix = randomSuffix()
	}
	seen[suffix] = struct{}{}
	mu.Unlock()

	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(stamp) + 1 + suffixLen)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(stamp)
	b.WriteByte('-')
	b.WriteString(suffix)
	return b.String()
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	for i := range buf {
		buf[i] = base36Digits[rand.IntN(len(base36Digits))]
	}
	return string(buf)
}
