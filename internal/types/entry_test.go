package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/sitemap/internal/errors"
)

func TestEntryBuilder_ValidLocations(t *testing.T) {
	tests := []struct {
		name string
		loc  string
	}{
		{"https", "https://example.com/page"},
		{"http", "http://example.com"},
		{"https with query", "https://example.com/p?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewEntry(tt.loc).Build()
			require.NoError(t, err)
			assert.Equal(t, tt.loc, entry.Loc())
		})
	}
}

func TestEntryBuilder_InvalidLocations(t *testing.T) {
	tests := []struct {
		name string
		loc  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no scheme", "example.com/page"},
		{"wrong scheme", "ftp://example.com"},
		{"relative path", "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewEntry(tt.loc).Build()
			assert.Nil(t, entry)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestEntryBuilder_PriorityRange(t *testing.T) {
	for _, p := range []float64{0.0, 0.5, 1.0} {
		entry, err := NewEntry("https://example.com").Priority(p).Build()
		require.NoError(t, err)
		require.NotNil(t, entry.Priority())
		assert.Equal(t, p, *entry.Priority())
	}

	for _, p := range []float64{-0.1, 1.1, 2.0} {
		_, err := NewEntry("https://example.com").Priority(p).Build()
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	}
}

func TestEntryBuilder_OptionalFieldsDefaultAbsent(t *testing.T) {
	entry, err := NewEntry("https://example.com").Build()
	require.NoError(t, err)

	assert.Nil(t, entry.LastMod())
	assert.Nil(t, entry.Priority())
	assert.Equal(t, ChangeFreqUnset, entry.ChangeFreq())
	assert.False(t, entry.HasAlternates())
	assert.Nil(t, entry.Alternates())
}

func TestEntryBuilder_AlternatesOrderAndReplace(t *testing.T) {
	entry, err := NewEntry("https://example.com").
		Alternate("en", "https://example.com/en").
		Alternate("pt", "https://example.com/pt").
		Alternate("en", "https://example.com/en-replaced").
		Alternate("x-default", "https://example.com/en-replaced").
		Build()
	require.NoError(t, err)

	alternates := entry.Alternates()
	require.Len(t, alternates, 3)
	// Replacing en keeps its original position
	assert.Equal(t, Alternate{Hreflang: "en", Href: "https://example.com/en-replaced"}, alternates[0])
	assert.Equal(t, "pt", alternates[1].Hreflang)
	assert.Equal(t, "x-default", alternates[2].Hreflang)
}

func TestEntry_AlternatesAreDefensivelyCopied(t *testing.T) {
	source := []Alternate{
		{Hreflang: "en", Href: "https://example.com/en"},
		{Hreflang: "pt", Href: "https://example.com/pt"},
	}
	entry, err := NewEntry("https://example.com").Alternates(source).Build()
	require.NoError(t, err)

	// Mutating the input after Build must not affect the entry
	source[0].Href = "https://evil.test"
	assert.Equal(t, "https://example.com/en", entry.Alternates()[0].Href)

	// Mutating the returned slice must not affect the entry
	got := entry.Alternates()
	got[1].Href = "https://evil.test"
	assert.Equal(t, "https://example.com/pt", entry.Alternates()[1].Href)
}

func TestEntry_AccessorPointersAreCopies(t *testing.T) {
	lastMod := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	entry, err := NewEntry("https://example.com").
		Priority(0.8).
		LastMod(lastMod).
		Build()
	require.NoError(t, err)

	// Writing through the returned pointers must not affect the entry
	*entry.Priority() = 5.0
	require.NotNil(t, entry.Priority())
	assert.Equal(t, 0.8, *entry.Priority())

	*entry.LastMod() = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, entry.LastMod())
	assert.Equal(t, lastMod, *entry.LastMod())
}

func TestEntryBuilder_LastMod(t *testing.T) {
	lastMod := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	entry, err := NewEntry("https://example.com").LastMod(lastMod).Build()
	require.NoError(t, err)
	require.NotNil(t, entry.LastMod())
	assert.Equal(t, lastMod, *entry.LastMod())
}

func TestParseChangeFreq(t *testing.T) {
	tests := []struct {
		input   string
		want    ChangeFreq
		wantErr bool
	}{
		{"", ChangeFreqUnset, false},
		{"always", ChangeFreqAlways, false},
		{"hourly", ChangeFreqHourly, false},
		{"daily", ChangeFreqDaily, false},
		{"WEEKLY", ChangeFreqWeekly, false},
		{" monthly ", ChangeFreqMonthly, false},
		{"yearly", ChangeFreqYearly, false},
		{"never", ChangeFreqNever, false},
		{"sometimes", ChangeFreqUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChangeFreq(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangeFreq_String(t *testing.T) {
	assert.Equal(t, "", ChangeFreqUnset.String())
	assert.Equal(t, "weekly", ChangeFreqWeekly.String())
	assert.Equal(t, "never", ChangeFreqNever.String())
}
