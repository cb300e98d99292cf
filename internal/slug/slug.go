// Package slug turns single path segments into ASCII, URL-safe tokens.
//
// Two different segments can map to the same token ("Fuji Japan" and
// "fuji-japan"). Collisions are neither detected nor resolved here.
package slug

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidPathShape indicates the input is not exactly one path component.
	ErrInvalidPathShape = errors.New("path must have exactly one component")

	// ErrEncoding indicates the input is not valid UTF-8.
	ErrEncoding = errors.New("path is not valid UTF-8")
)

// NFD cannot decompose these letters into a base letter plus marks.
var transliterations = map[rune]string{
	'ß': "ss",
	'æ': "ae", 'Æ': "ae",
	'œ': "oe", 'Œ': "oe",
	'ø': "o", 'Ø': "o",
	'ł': "l", 'Ł': "l",
	'đ': "d", 'Đ': "d",
	'ð': "d", 'Ð': "d",
	'þ': "th", 'Þ': "th",
	'ı': "i",
}

// ToWebPath converts a single path segment into a token suitable for a URL.
// When the segment has an extension, the text after the final dot is kept
// verbatim and only the stem is slugified.
func ToWebPath(segment string) (string, error) {
	if err := checkShape(segment); err != nil {
		return "", &fs.PathError{Op: "slug", Path: segment, Err: err}
	}
	segment = strings.TrimSuffix(segment, "/")

	if i := strings.LastIndexByte(segment, '.'); i >= 0 {
		return Slugify(segment[:i]) + segment[i:], nil
	}
	return Slugify(segment), nil
}

func checkShape(segment string) error {
	if !utf8.ValidString(segment) {
		return ErrEncoding
	}
	trimmed := strings.TrimSuffix(segment, "/")
	switch {
	case trimmed == "", trimmed == ".", trimmed == "..":
		return ErrInvalidPathShape
	case strings.ContainsRune(trimmed, '/'), strings.ContainsRune(trimmed, filepath.Separator):
		return ErrInvalidPathShape
	}
	return nil
}

// Slugify lower-cases s, strips accents, transliterates a few letters that have
// no decomposition and collapses every run of other characters into a single
// hyphen. Hyphens already present in s are kept as they are.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	emit := func(r rune) {
		if pendingSep && b.Len() > 0 && r != '-' && !strings.HasSuffix(b.String(), "-") {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(r)
	}

	for _, r := range folded {
		if t, ok := transliterations[r]; ok {
			for _, tr := range t {
				emit(tr)
			}
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			emit(r)
		default:
			pendingSep = true
		}
	}

	if b.Len() == 0 && s != "" {
		return fallback(s)
	}
	return b.String()
}

// fallback gives stems without any transliterable character a stable token.
func fallback(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("x%08x", h.Sum32())
}
