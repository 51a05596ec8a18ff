package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"don't", true},
		{"well-known", true},
		{"caf\u00e9", true},
		{"cafe\u0301", true},
		{"abc123", true},
		{"", false},
		{"12345", false},
		{"hello!", false},
		{"a@b", false},
		{"www", false},
		{"ééé", false},
		{"ww", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidInput(tc.input))
		})
	}
}

func TestIsOnlyNumbers(t *testing.T) {
	assert.True(t, IsOnlyNumbers("0042"))
	assert.False(t, IsOnlyNumbers(""))
	assert.False(t, IsOnlyNumbers("4a"))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Cat")
	assert.False(t, f.ShouldInclude("cat"), "the input itself is excluded")
	assert.True(t, f.ShouldInclude("Bat"))
	assert.False(t, f.ShouldInclude("BAT"))
	assert.True(t, f.ShouldInclude("cap"))
}

func TestSuggestionFilterFoldsUnicode(t *testing.T) {
	f := NewSuggestionFilter("Stra\u00dfe")
	assert.False(t, f.ShouldInclude("STRASSE"), "sharp s folds to ss")
	assert.True(t, f.ShouldInclude("Caf\u00e9"))
	assert.False(t, f.ShouldInclude("CAFE\u0301"), "decomposed form is the same word")
}
