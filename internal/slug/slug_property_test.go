//go:build property

package slug

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSlugProperties checks the URL token contract over generated segments.
func TestSlugProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ascii alphanumerics and hyphens map to themselves up to case", prop.ForAll(
		func(segment string) bool {
			got, err := ToWebPath(segment)
			return err == nil && got == strings.ToLower(segment)
		},
		gen.RegexMatch(`^[A-Za-z0-9-]{1,24}$`),
	))

	properties.Property("multi-component paths are rejected", prop.ForAll(
		func(a, b string) bool {
			_, err := ToWebPath(a + "/" + b)
			return err != nil
		},
		gen.RegexMatch(`^[A-Za-z0-9 ._-]{1,12}$`),
		gen.RegexMatch(`^[A-Za-z0-9 ._-]{1,12}$`),
	))

	properties.Property("text after the final dot is preserved", prop.ForAll(
		func(stem, ext string) bool {
			got, err := ToWebPath(stem + "." + ext)
			if err != nil {
				return false
			}
			return strings.HasSuffix(got, "."+ext) && !strings.Contains(strings.TrimSuffix(got, "."+ext), ".")
		},
		gen.RegexMatch(`^[A-Za-zÀ-ÿ0-9 ,.()-]{1,20}$`),
		gen.RegexMatch(`^[A-Za-z0-9]{1,5}$`),
	))

	properties.Property("slugs are url safe", prop.ForAll(
		func(s string) bool {
			for _, r := range Slugify(s) {
				if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
