package improve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromoteHeading(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		promoted bool
	}{
		{
			name:     "short opening line",
			input:    "<p>Sea View Flat</p><p>Bright rooms.</p>",
			expected: "<h2>Sea View Flat</h2><p>Bright rooms.</p>",
			promoted: true,
		},
		{
			name:     "existing heading",
			input:    "<p>Sea View Flat</p><h3>Rooms</h3><p>Bright rooms.</p>",
			expected: "<p>Sea View Flat</p><h3>Rooms</h3><p>Bright rooms.</p>",
		},
		{
			name:     "opening sentence",
			input:    "<p>The flat is bright.</p><p>Bright rooms.</p>",
			expected: "<p>The flat is bright.</p><p>Bright rooms.</p>",
		},
		{
			name:     "long opening paragraph",
			input:    "<p>one two three four five six seven eight nine ten eleven</p><p>More.</p>",
			expected: "<p>one two three four five six seven eight nine ten eleven</p><p>More.</p>",
		},
		{
			name:     "only paragraph",
			input:    "<p>Sea View Flat</p>",
			expected: "<p>Sea View Flat</p>",
		},
		{
			name:     "opening paragraph with markup",
			input:    "<p><strong>Sea View</strong></p><p>More.</p>",
			expected: "<p><strong>Sea View</strong></p><p>More.</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := PromoteHeading(tt.input)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.promoted, ok)
		})
	}
}

func TestSplitLongParagraphs(t *testing.T) {
	long := "<p>One. Two. Three. Four. Five. Six. Seven.</p>"
	out, n := SplitLongParagraphs(long)
	assert.Equal(t, 1, n)
	assert.Equal(t, "<p>One. Two. Three.</p><p>Four. Five. Six.</p><p>Seven.</p>", out)

	short := "<p>One. Two. Three.</p><p>Four <b>bold</b>. Five. Six. Seven. Eight. Nine.</p>"
	out, n = SplitLongParagraphs(short)
	assert.Equal(t, 0, n)
	assert.Equal(t, short, out)
}
