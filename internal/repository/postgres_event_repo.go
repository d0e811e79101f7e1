package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayane/letterdrop/internal/model"
)

// PostgresEventRepo はPostgreSQLを使用したエンゲージメントイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

// Create はイベントを1件追記する。重複排除は行わない。
// RecipientIDが空文字列の場合はNULLとして保存する。
func (r *PostgresEventRepo) Create(ctx context.Context, event *model.NewsletterEvent) error {
	var recipientID any
	if event.RecipientID != "" {
		recipientID = event.RecipientID
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO newsletter_events (newsletter_id, recipient_id, event_type)
		 VALUES ($1, $2, $3)`,
		event.NewsletterID, recipientID, event.Type,
	)
	if err != nil {
		return fmt.Errorf("イベントの記録に失敗しました: %w", err)
	}
	return nil
}

// CountOpens は指定ニュースレターの開封イベント数を返す。
func (r *PostgresEventRepo) CountOpens(ctx context.Context, newsletterID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_events WHERE newsletter_id = $1 AND event_type = $2`,
		newsletterID, model.EventTypeOpen,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("開封数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ NewsletterEventRepository = (*PostgresEventRepo)(nil)
