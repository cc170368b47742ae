package scoring

import (
	"sort"

	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

const (
	// similarThreshold is the similarity an item must exceed to be reported
	similarThreshold = 0.3
	// duplicateThreshold is the top similarity above which content is a duplicate
	duplicateThreshold = 0.7
	maxSimilar         = 5
)

// Duplicates compares text against each corpus item by Jaccard similarity of
// their significant word sets and reports the five most similar above 0.3
func Duplicates(text string, corpus []types.CorpusItem) types.DuplicateReport {
	report := types.DuplicateReport{SimilarArticles: []types.SimilarArticle{}}
	words := textutil.WordSet(textutil.StripTags(text))
	if len(words) == 0 {
		return report
	}

	for _, item := range corpus {
		sim := textutil.Jaccard(words, textutil.WordSet(textutil.StripTags(item.Content)))
		if sim <= similarThreshold {
			continue
		}
		report.SimilarArticles = append(report.SimilarArticles, types.SimilarArticle{
			ID:    item.ID,
			Title: item.Title,
			Slug:  item.Slug,
			Score: sim,
		})
	}

	sort.SliceStable(report.SimilarArticles, func(i, j int) bool {
		return report.SimilarArticles[i].Score > report.SimilarArticles[j].Score
	})
	if len(report.SimilarArticles) > maxSimilar {
		report.SimilarArticles = report.SimilarArticles[:maxSimilar]
	}

	if len(report.SimilarArticles) > 0 {
		report.Similarity = report.SimilarArticles[0].Score
	}
	report.IsDuplicate = report.Similarity > duplicateThreshold
	return report
}
