package detection

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-quality/internal/types"
)

func TestDetect_Rules(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		category   types.PatternCategory
		confidence float64
	}{
		{"opener", "In today's fast-paced world, homes sell quickly.", types.CategoryGenericPhrase, 0.8},
		{"conclusion", "In conclusion, the flat is bright.", types.CategoryConclusion, 0.8},
		{"transition", "It is important to note that parking is free.", types.CategoryTransition, 0.8},
		{"call to action", "Don't miss this opportunity to buy.", types.CategoryGenericPhrase, 0.7},
		{"placeholder", "[image: sea view] A view of the sea.", types.CategoryPlaceholder, 0.9},
		{"turkish conclusion", "Sonuç olarak daire çok ferah.", types.CategoryConclusion, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Detect(tt.text)
			require.Len(t, matches, 1)
			assert.Equal(t, tt.category, matches[0].Category)
			assert.InDelta(t, tt.confidence, matches[0].Confidence, 1e-9)
			require.NotNil(t, matches[0].Offset)
			assert.Equal(t, 0, *matches[0].Offset)
		})
	}
}

func TestDetect_EveryMatchReported(t *testing.T) {
	text := "Moreover, the garden is big. Moreover, the pool is heated."
	matches := Detect(text)

	require.Len(t, matches, 2)
	assert.Equal(t, "Moreover", matches[0].Pattern)
	assert.Equal(t, 0, *matches[0].Offset)
	assert.Equal(t, 29, *matches[1].Offset)
}

func TestDetect_CleanText(t *testing.T) {
	assert.Empty(t, Detect(""))
	assert.Empty(t, Detect("Three bedrooms, two baths and a south-facing terrace."))
}

func TestDetectRepetition(t *testing.T) {
	text := "This home is perfect for families. This home is perfect for families. " +
		"This home is perfect for families. A garden too."
	matches := DetectRepetition(text)

	require.Len(t, matches, 1)
	assert.Equal(t, types.CategoryRepetitive, matches[0].Category)
	assert.Equal(t, "this home is perfect for families", matches[0].Pattern)
	assert.InDelta(t, 0.9, matches[0].Confidence, 1e-9)
	assert.Nil(t, matches[0].Offset)

	assert.Empty(t, DetectRepetition("Same. Same. Different."))
}

func TestDetectRepetition_GroupsByPrefix(t *testing.T) {
	long := "The apartment is located in a quiet neighbourhood close to"
	text := long + " schools. " + long + " shops. " + long + " parks. " + long + " the sea."
	matches := DetectRepetition(text)

	require.Len(t, matches, 1)
	assert.Len(t, []rune(matches[0].Pattern), 50)
	assert.InDelta(t, 0.9, matches[0].Confidence, 1e-9)
}

func TestDetector_CustomRules(t *testing.T) {
	d := &Detector{Rules: []Rule{
		{Matcher: regexp.MustCompile(`(?i)dream home`), Category: types.CategoryGenericPhrase, Confidence: 0.3},
	}}
	matches := d.Detect("Your dream home awaits.")

	require.Len(t, matches, 1)
	assert.Equal(t, "dream home", matches[0].Pattern)
}

func TestProbabilityAndConfident(t *testing.T) {
	assert.Equal(t, 0.0, Probability(nil))

	matches := []types.AIPatternMatch{{Confidence: 0.8}, {Confidence: 0.4}, {Confidence: 0.9}}
	assert.InDelta(t, 0.7, Probability(matches), 1e-9)
	assert.Len(t, Confident(matches), 2)
}
