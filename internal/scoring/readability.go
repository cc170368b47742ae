package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

// vowels includes the Turkish vowels and circumflexed forms
const vowels = "aeıioöuüâîû"

const (
	maxAvgSentenceWords = 20
	maxAvgSyllables     = 3
)

// Readability grade labels
const (
	GradeVeryHard = "very hard"
	GradeHard     = "hard"
	GradeMedium   = "medium"
	GradeEasy     = "easy"
	GradeVeryEasy = "very easy"
)

// Readability scores text with the Flesch reading-ease formula, counting one
// syllable per vowel (at least one per word)
func Readability(text string) types.ReadabilityResult {
	plain := textutil.StripTags(text)
	sentences := textutil.Sentences(plain)
	words := textutil.Words(plain)

	if len(sentences) == 0 || len(words) == 0 {
		return types.ReadabilityResult{
			Score:  0,
			Grade:  Grade(0),
			Issues: []string{"No readable text: content has no complete sentences or words"},
		}
	}

	syllables := 0
	for _, w := range words {
		syllables += Syllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))

	raw := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	score := int(math.Round(math.Max(0, math.Min(100, raw))))

	issues := []string{}
	if wordsPerSentence > maxAvgSentenceWords {
		issues = append(issues, fmt.Sprintf("Sentences are long (%.1f words on average); aim for %d or fewer", wordsPerSentence, maxAvgSentenceWords))
	}
	if syllablesPerWord > maxAvgSyllables {
		issues = append(issues, fmt.Sprintf("Words are long (%.1f syllables on average); prefer simpler words", syllablesPerWord))
	}

	return types.ReadabilityResult{Score: score, Grade: Grade(score), Issues: issues}
}

// Syllables counts vowel characters in word, with a minimum of one
func Syllables(word string) int {
	count := 0
	for _, r := range textutil.Lower(word) {
		if strings.ContainsRune(vowels, r) {
			count++
		}
	}
	return max(1, count)
}

// Grade maps a readability score to its label
func Grade(score int) string {
	switch {
	case score < 30:
		return GradeVeryHard
	case score < 50:
		return GradeHard
	case score < 70:
		return GradeMedium
	case score < 90:
		return GradeEasy
	default:
		return GradeVeryEasy
	}
}
