package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knowledge-engine/suggester/internal/search"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Punctuation is dropped", "Hello, World! This is a test.", []string{"Hello", "World", "This", "is", "a", "test"}},
		{"Case is preserved", "Green WOOD plank", []string{"Green", "WOOD", "plank"}},
		{"Apostrophes stay inside tokens", "don't stop", []string{"don't", "stop"}},
		{"Underscores and digits are word characters", "brick_02 v2-final", []string{"brick_02", "v2", "final"}},
		{"Unicode letters", "café crème", []string{"café", "crème"}},
		{"Single letters are kept", "a b c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, search.Tokenize(tt.text))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, search.Tokenize(""))
	assert.Empty(t, search.Tokenize("   "))
	assert.Empty(t, search.Tokenize("?!.,;-"))
}
