package types

// IssueType categorizes a quality issue
type IssueType string

// IssueType values
const (
	IssueAIPattern     IssueType = "ai_pattern"
	IssueHTMLStructure IssueType = "html_structure"
	IssueSEO           IssueType = "seo"
	IssueReadability   IssueType = "readability"
	IssueEngagement    IssueType = "engagement"
	IssueUniqueness    IssueType = "uniqueness"
	IssueStructure     IssueType = "structure"
)

// Severity of a quality issue
type Severity string

// Severity values
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// QualityIssue is a single finding produced by a scorer
type QualityIssue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Location   string    `json:"location,omitempty"`
}

// PatternCategory groups AI-likeness patterns
type PatternCategory string

// PatternCategory values
const (
	CategoryGenericPhrase PatternCategory = "generic_phrase"
	CategoryRepetitive    PatternCategory = "repetitive"
	CategoryPlaceholder   PatternCategory = "placeholder"
	CategoryConclusion    PatternCategory = "conclusion"
	CategoryTransition    PatternCategory = "transition"
)

// AIPatternMatch is one AI-likeness signal found in text
type AIPatternMatch struct {
	Pattern    string          `json:"pattern"`
	Category   PatternCategory `json:"category"`
	Confidence float64         `json:"confidence"`
	// Offset is the byte offset of the match, nil for aggregate signals
	Offset *int `json:"offset,omitempty"`
}

// ReadabilityResult is the output of the readability scorer
type ReadabilityResult struct {
	Score  int      `json:"score"`
	Grade  string   `json:"grade"`
	Issues []string `json:"issues"`
}

// SEOReport is the output of the SEO compliance checker
type SEOReport struct {
	Score                 int      `json:"score"`
	Passed                bool     `json:"passed"`
	Issues                []string `json:"issues"`
	Suggestions           []string `json:"suggestions"`
	KeywordDensity        float64  `json:"keyword_density"`
	MetaDescriptionLength int      `json:"meta_description_length"`
	TitleLength           int      `json:"title_length"`
}

// Meta carries optional page metadata used by the SEO checker
type Meta struct {
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// QualityScore is the aggregate assessment of a piece of content
type QualityScore struct {
	Overall       int            `json:"overall"`
	Readability   int            `json:"readability"`
	SEO           int            `json:"seo"`
	Engagement    int            `json:"engagement"`
	Uniqueness    int            `json:"uniqueness"`
	Issues        []QualityIssue `json:"issues"`
	Suggestions   []string       `json:"suggestions"`
	AIProbability float64        `json:"ai_probability"`
}

// ImprovedContent is the result of one improvement call
type ImprovedContent struct {
	Content            string   `json:"content"`
	OriginalScore      int      `json:"original_score"`
	ImprovedScore      int      `json:"improved_score"`
	Improvements       []string `json:"improvements"`
	UsedRemoteEnhancer bool     `json:"used_remote_enhancer"`
}

// CorpusItem is an existing article or listing used for duplicate detection
type CorpusItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

// SimilarArticle is a corpus item that resembles the candidate content
type SimilarArticle struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Slug  string  `json:"slug"`
	Score float64 `json:"score"`
}

// DuplicateReport is the output of the duplicate detector
type DuplicateReport struct {
	IsDuplicate     bool             `json:"is_duplicate"`
	Similarity      float64          `json:"similarity"`
	SimilarArticles []SimilarArticle `json:"similar_articles"`
}
