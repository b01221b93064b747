//go:build property
// +build property

package sitemap

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestEscapeProperties tests the XML escaper against protocol invariants.
func TestEscapeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("output never contains raw markup characters", prop.ForAll(
		func(input string) bool {
			return !strings.ContainsAny(Escape(input), "<>\"'")
		},
		gen.AnyString(),
	))

	properties.Property("output length never shrinks", prop.ForAll(
		func(input string) bool {
			return len(Escape(input)) >= len(input)
		},
		gen.AnyString(),
	))

	properties.Property("escaping is identity on entity-free input", prop.ForAll(
		func(input string) bool {
			if strings.ContainsAny(input, `&'"<>`) {
				return true // Only entity-free strings are fixed points
			}
			return Escape(input) == input
		},
		gen.AnyString(),
	))

	properties.Property("every ampersand in output starts a known entity", prop.ForAll(
		func(input string) bool {
			escaped := Escape(input)
			for i := 0; i < len(escaped); i++ {
				if escaped[i] != '&' {
					continue
				}
				rest := escaped[i:]
				if !strings.HasPrefix(rest, "&amp;") &&
					!strings.HasPrefix(rest, "&apos;") &&
					!strings.HasPrefix(rest, "&quot;") &&
					!strings.HasPrefix(rest, "&gt;") &&
					!strings.HasPrefix(rest, "&lt;") {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
