package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayane/letterdrop/internal/model"
)

// PostgresNewsletterRepo はPostgreSQLを使用したニュースレターリポジトリ。
// 配信パイプラインからは読み取り専用。
type PostgresNewsletterRepo struct {
	db *sql.DB
}

// NewPostgresNewsletterRepo はPostgresNewsletterRepoを生成する。
func NewPostgresNewsletterRepo(db *sql.DB) *PostgresNewsletterRepo {
	return &PostgresNewsletterRepo{db: db}
}

// FindByID は指定IDのニュースレターを取得する。見つからない場合はnilを返す。
func (r *PostgresNewsletterRepo) FindByID(ctx context.Context, id string) (*model.Newsletter, error) {
	n := &model.Newsletter{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject, preview_text, content, slug, created_at
		 FROM newsletters WHERE id = $1`,
		id,
	).Scan(&n.ID, &n.Subject, &n.PreviewText, &n.Content, &n.Slug, &n.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ニュースレターの取得に失敗しました: %w", err)
	}

	return n, nil
}

// FindBySlug はスラッグでニュースレターを検索する。見つからない場合はnilを返す。
func (r *PostgresNewsletterRepo) FindBySlug(ctx context.Context, slug string) (*model.Newsletter, error) {
	n := &model.Newsletter{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject, preview_text, content, slug, created_at
		 FROM newsletters WHERE slug = $1`,
		slug,
	).Scan(&n.ID, &n.Subject, &n.PreviewText, &n.Content, &n.Slug, &n.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ニュースレターの検索に失敗しました: %w", err)
	}

	return n, nil
}

// compile-time interface check
var _ NewsletterRepository = (*PostgresNewsletterRepo)(nil)
