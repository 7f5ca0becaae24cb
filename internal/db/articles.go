package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrArticleNotFound indicates the requested article does not exist.
var ErrArticleNotFound = errors.New("article not found")

// Article represents one generated article, successful or failed.
// Failed items carry the failure marker in Keyword and the error text in Content.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Keyword   string    `json:"keyword"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertArticle inserts the article, or updates it in place when the id already
// exists (image regeneration rewrites content under the same id; created_at is
// preserved). A zero ID is assigned by the store. Returns the full history list
// so callers always observe the store's view rather than an optimistic copy.
func (db *DB) UpsertArticle(ctx context.Context, article Article) ([]Article, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO articles (id, keyword, content, language, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET keyword = $2, content = $3, language = $4`,
		article.ID, article.Keyword, article.Content, article.Language, article.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert article: %w", err)
	}

	return db.ListArticles(ctx)
}

// ListArticles retrieves all articles, newest first.
func (db *DB) ListArticles(ctx context.Context) ([]Article, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, keyword, content, language, created_at
		 FROM articles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Keyword, &a.Content, &a.Language, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle retrieves a single article by id.
func (db *DB) GetArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	var a Article
	err := db.pool.QueryRow(ctx,
		`SELECT id, keyword, content, language, created_at
		 FROM articles WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Keyword, &a.Content, &a.Language, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &a, nil
}

// DeleteArticle removes an article and returns the remaining history list.
func (db *DB) DeleteArticle(ctx context.Context, id uuid.UUID) ([]Article, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrArticleNotFound
	}

	return db.ListArticles(ctx)
}
