package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no entities", "plain text", "plain text"},
		{"escaped tags", "&lt;h2&gt;Title&lt;/h2&gt;", "<h2>Title</h2>"},
		{"double escaped", "&amp;lt;p&amp;gt;Hi&amp;lt;/p&amp;gt;", "<p>Hi</p>"},
		{"numeric", "&#39;quoted&#39;", "'quoted'"},
		{"unknown entity kept", "&bogus; text", "&bogus; text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeEntities(tt.input))
		})
	}
}
