package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchable(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"  ", false},
		{"eg", false},
		{"  eg  ", false},
		{"egg", true},
		{"épi", true},
		{"öl", false},
		{"chicken breast", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, searchable(tt.query))
		})
	}
}

func TestUpstreamQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "cheddar cheese", "cheddar cheese"},
		{"ampersand", "mac & cheese", "mac and cheese"},
		{"special chars", "peanut butter (crunchy)!", "peanut butter crunchy"},
		{"whitespace", "  whole \t milk  ", "whole milk"},
		{"hash and percent", "2% milk #1", "2 milk 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, upstreamQuery(tt.input))
		})
	}
}

func TestUpstreamQuery_Length(t *testing.T) {
	long := strings.Repeat("banana ", 30)
	got := upstreamQuery(long)
	assert.LessOrEqual(t, len(got), maxQueryLength)
	assert.False(t, strings.HasSuffix(got, " "))
	assert.True(t, strings.HasSuffix(got, "banana"))

	noSpaces := strings.Repeat("é", 80)
	got = upstreamQuery(noSpaces)
	assert.LessOrEqual(t, len(got), maxQueryLength)
	assert.True(t, strings.HasPrefix(noSpaces, got))
}

func TestSearchCacheKey(t *testing.T) {
	assert.Equal(t, "food:search:whole milk", searchCacheKey("  Whole   MILK "))
	assert.Equal(t, searchCacheKey("Crème brûlée"), searchCacheKey("creme brulee"))
}
