package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "x = (", "x = ("},
		{"first line only", "x = (\ny = 2", "x = ("},
		{"ascii cut", strings.Repeat("a", 40), strings.Repeat("a", 30)},
		{"multibyte cut on rune boundary", strings.Repeat("é", 40), strings.Repeat("é", 30)},
		{"mixed width", "ab" + strings.Repeat("日本", 20), "ab" + strings.Repeat("日本", 14)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippet(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
