package detection

import (
	"regexp"

	"github.com/jonathan/content-quality/internal/types"
)

// Rule is one weighted pattern. Every match of Matcher is reported with the
// rule's category and confidence.
type Rule struct {
	Matcher    *regexp.Regexp
	Category   types.PatternCategory
	Confidence float64
}

func rule(pattern string, category types.PatternCategory, confidence float64) Rule {
	return Rule{Matcher: regexp.MustCompile(pattern), Category: category, Confidence: confidence}
}

// DefaultRules covers English and Turkish generator phrasing
var DefaultRules = []Rule{
	// Generic openers
	rule(`(?i)\bin today's (?:fast-paced |digital |modern )?world\b`, types.CategoryGenericPhrase, 0.8),
	rule(`(?i)\bin recent years\b`, types.CategoryGenericPhrase, 0.5),
	rule(`(?i)\bwhen it comes to\b`, types.CategoryGenericPhrase, 0.5),
	rule(`(?i)\bdelv(?:e|es|ing) (?:deep )?into\b`, types.CategoryGenericPhrase, 0.8),
	rule(`(?i)\ba testament to\b`, types.CategoryGenericPhrase, 0.7),
	rule(`(?i)\bnestled (?:in|among|within)\b`, types.CategoryGenericPhrase, 0.6),
	rule(`(?i)\b(?:look no further|whether you're looking for)\b`, types.CategoryGenericPhrase, 0.7),
	rule(`(?i)\bgünümüzde\b`, types.CategoryGenericPhrase, 0.4),
	rule(`(?i)\bson yıllarda\b`, types.CategoryGenericPhrase, 0.4),

	// Call-to-action cliches
	rule(`(?i)\bdon't miss (?:out on )?this (?:opportunity|chance)\b`, types.CategoryGenericPhrase, 0.7),
	rule(`(?i)\bunlock the (?:potential|power|secrets)\b`, types.CategoryGenericPhrase, 0.8),
	rule(`(?i)\bcontact us today\b`, types.CategoryGenericPhrase, 0.5),
	rule(`(?i)\bbu fırsatı kaçırmayın\b`, types.CategoryGenericPhrase, 0.6),

	// Templated conclusions
	rule(`(?i)\bin conclusion\b`, types.CategoryConclusion, 0.8),
	rule(`(?i)\bto sum (?:it )?up\b`, types.CategoryConclusion, 0.7),
	rule(`(?i)\bin summary\b`, types.CategoryConclusion, 0.6),
	rule(`(?i)\ball in all\b`, types.CategoryConclusion, 0.5),
	rule(`(?i)\bsonuç olarak\b`, types.CategoryConclusion, 0.6),
	rule(`(?i)özetle\b`, types.CategoryConclusion, 0.5),

	// Transition cliches
	rule(`(?i)\bit is (?:important|worth) (?:to note|noting) that\b`, types.CategoryTransition, 0.8),
	rule(`(?i)\bfurthermore\b`, types.CategoryTransition, 0.4),
	rule(`(?i)\bmoreover\b`, types.CategoryTransition, 0.4),
	rule(`(?i)\badditionally\b`, types.CategoryTransition, 0.4),
	rule(`(?i)şunu belirtmek gerekir ki\b`, types.CategoryTransition, 0.7),

	// Placeholder tokens
	rule(`(?i)\[(?:image|img|photo|görsel|resim|alt text|placeholder|insert)[^\]]*\]`, types.CategoryPlaceholder, 0.9),
	rule(`\{\{[^{}]*\}\}`, types.CategoryPlaceholder, 0.9),
	rule(`(?i)\blorem ipsum\b`, types.CategoryPlaceholder, 0.9),
}
