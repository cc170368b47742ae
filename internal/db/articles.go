package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/content-quality/internal/types"
)

// ListArticles returns up to limit articles, least recently assessed first
func (db *DB) ListArticles(ctx context.Context, limit int) ([]types.ArticleRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, slug, content, quality_score, quality_issues, updated_at
		 FROM articles
		 ORDER BY updated_at ASC NULLS FIRST, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var records []types.ArticleRecord
	for rows.Next() {
		var rec types.ArticleRecord
		var issues []byte
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Slug, &rec.Content, &rec.QualityScore, &issues, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		if rec.QualityIssues, err = decodeIssues(issues); err != nil {
			return nil, fmt.Errorf("article %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return records, nil
}

// GetArticle retrieves an article by ID, nil when it does not exist
func (db *DB) GetArticle(ctx context.Context, id string) (*types.ArticleRecord, error) {
	var rec types.ArticleRecord
	var issues []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, quality_score, quality_issues, updated_at
		 FROM articles WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Title, &rec.Slug, &rec.Content, &rec.QualityScore, &issues, &rec.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	if rec.QualityIssues, err = decodeIssues(issues); err != nil {
		return nil, fmt.Errorf("article %s: %w", id, err)
	}
	return &rec, nil
}

// UpsertArticle inserts or replaces an article's title, slug and content
func (db *DB) UpsertArticle(ctx context.Context, rec types.ArticleRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO articles (id, title, slug, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET title = $2, slug = $3, content = $4`,
		rec.ID, rec.Title, rec.Slug, rec.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to save article %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateQuality writes the score, issues and update time of an article. A
// non-nil content also replaces the article body.
func (db *DB) UpdateQuality(ctx context.Context, id string, score int, issues []types.QualityIssue, content *string) error {
	issuesJSON, err := encodeIssues(issues)
	if err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE articles
		 SET quality_score = $2, quality_issues = $3, updated_at = $4, content = COALESCE($5, content)
		 WHERE id = $1`,
		id, score, issuesJSON, time.Now().UTC(), content,
	)
	if err != nil {
		return fmt.Errorf("failed to update quality for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update quality for %s: %w", id, ErrArticleNotFound)
	}
	return nil
}

func encodeIssues(issues []types.QualityIssue) ([]byte, error) {
	if issues == nil {
		issues = []types.QualityIssue{}
	}
	data, err := json.Marshal(issues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quality issues: %w", err)
	}
	return data, nil
}

func decodeIssues(data []byte) ([]types.QualityIssue, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var issues []types.QualityIssue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quality issues: %w", err)
	}
	return issues, nil
}
