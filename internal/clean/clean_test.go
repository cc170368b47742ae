package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "   ", ""},
		{"repeated sentence dropped", "Sentence one. Sentence one. Sentence two.", "Sentence one. Sentence two."},
		{"placeholders removed", "Bright living room [image: living room] with views [alt text].", "Bright living room with views."},
		{"template placeholder removed", "Call {{ agent_name }} today for a viewing.", "Call today for a viewing."},
		{"ai self reference removed", "As an AI language model, I think this flat is great.", "I think this flat is great."},
		{"code fences removed", "```html\n<p>Hello there</p>\n```", "<p>Hello there</p>"},
		{"labelled marker removed", "[AI generated] A quiet street near the park.", "A quiet street near the park."},
		{
			"stock phrase kept once",
			"In recent years, prices rose. In recent years, demand grew.",
			"In recent years, prices rose. Demand grew.",
		},
		{
			"turkish stock phrase",
			"Günümüzde ev almak zor. Günümüzde kira da yüksek.",
			"Günümüzde ev almak zor. Kira da yüksek.",
		},
		{
			"markup of duplicate kept",
			"<p>Sentence one here.</p><p>Sentence one here.</p>",
			"<p>Sentence one here.</p><p></p>",
		},
		{
			"dots inside tags do not split",
			`<p>See <a href="https://example.com/a.html">the listing</a> today.</p>`,
			`<p>See <a href="https://example.com/a.html">the listing</a> today.</p>`,
		},
		{"short sentences never deduplicated", "Yes. Yes. Yes.", "Yes. Yes. Yes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestClean_ScenarioRepetition(t *testing.T) {
	out := Clean("Sentence one. Sentence one. Sentence two.")
	assert.Equal(t, 1, strings.Count(out, "Sentence one."))
	assert.Equal(t, 1, strings.Count(out, "Sentence two."))
}

func TestCleanWithReport(t *testing.T) {
	input := "Great garden with roses. TODO: add photos. [FIXME check size] " +
		"[photo] Great garden with roses!"
	out, report := CleanWithReport(input)

	assert.NotContains(t, out, "TODO")
	assert.NotContains(t, out, "FIXME")
	assert.NotContains(t, out, "[photo]")
	assert.Equal(t, 1, strings.Count(out, "Great garden with roses"))
	assert.Equal(t, 1, report.Placeholders)
	assert.Equal(t, 2, report.Notes)
	assert.Equal(t, 1, report.DuplicateSentences)
	assert.True(t, report.Changed())

	_, clean := CleanWithReport("A perfectly ordinary sentence.")
	assert.False(t, clean.Changed())
}

func TestRemoveDuplicateSentences_NearDuplicates(t *testing.T) {
	// 11 shared significant words out of 13
	a := "The bright apartment offers large windows, modern kitchen and private garden views."
	b := "The bright apartment offers large windows, modern kitchen and private garden access."
	out, removed := RemoveDuplicateSentences(a + " " + b)

	assert.Equal(t, 1, removed)
	assert.Equal(t, a, out)
}
