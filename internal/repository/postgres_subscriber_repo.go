package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ayane/letterdrop/internal/model"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = "23505"

// PostgresSubscriberRepo はPostgreSQLを使用した購読者リポジトリ。
type PostgresSubscriberRepo struct {
	db *sql.DB
}

// NewPostgresSubscriberRepo はPostgresSubscriberRepoを生成する。
func NewPostgresSubscriberRepo(db *sql.DB) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{db: db}
}

// FindByEmail は正規化済みメールアドレスで購読者を検索する。見つからない場合はnilを返す。
func (r *PostgresSubscriberRepo) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, status, source, segments, created_at
		 FROM subscribers WHERE email = $1`,
		email,
	)

	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("購読者の検索に失敗しました: %w", err)
	}

	return sub, nil
}

// Create は購読者を作成する。
// メールアドレスのユニーク制約違反の場合はmodel.ErrDuplicateEmailを返す。
func (r *PostgresSubscriberRepo) Create(ctx context.Context, sub *model.Subscriber) error {
	segments, err := json.Marshal(sub.Segments)
	if err != nil {
		return fmt.Errorf("セグメントのシリアライズに失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO subscribers (id, email, status, source, segments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.Email, sub.Status, sub.Source, segments, sub.CreatedAt,
	)
	if err != nil {
		// ユニーク制約違反は呼び出し側が競合として扱えるよう区別して返す
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrDuplicateEmail
		}
		return fmt.Errorf("購読者の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateSegments は購読者の興味セグメントを更新する。
func (r *PostgresSubscriberRepo) UpdateSegments(ctx context.Context, id string, segments []string) error {
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("セグメントのシリアライズに失敗しました: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE subscribers SET segments = $2 WHERE id = $1`,
		id, data,
	)
	if err != nil {
		return fmt.Errorf("セグメントの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("購読者が見つかりません: %s", id)
	}
	return nil
}

// UpdateStatusByEmail は正規化済みメールアドレスで購読者のステータスを更新する。
// 該当行が存在しない場合はfalseを返す。
func (r *PostgresSubscriberRepo) UpdateStatusByEmail(ctx context.Context, email string, status model.SubscriberStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscribers SET status = $2 WHERE email = $1`,
		email, status,
	)
	if err != nil {
		return false, fmt.Errorf("ステータスの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListActive は配信対象の購読者一覧をcreated_at昇順で返す。
func (r *PostgresSubscriberRepo) ListActive(ctx context.Context) ([]*model.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, status, source, segments, created_at
		 FROM subscribers WHERE status = $1 ORDER BY created_at ASC`,
		model.StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("配信対象一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("購読者行の読み取りに失敗しました: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("配信対象一覧の走査に失敗しました: %w", err)
	}
	return subs, nil
}

// Delete は指定IDの購読者を物理削除する。
func (r *PostgresSubscriberRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscribers WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("購読者の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("購読者が見つかりません: %s", id)
	}
	return nil
}

// rowScanner は*sql.Rowと*sql.RowsのScanを共通化するインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSubscriber は1行分の購読者データを読み取る。segments(JSONB)はデコードして返す。
func scanSubscriber(row rowScanner) (*model.Subscriber, error) {
	sub := &model.Subscriber{}
	var segments []byte

	if err := row.Scan(&sub.ID, &sub.Email, &sub.Status, &sub.Source, &segments, &sub.CreatedAt); err != nil {
		return nil, err
	}

	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &sub.Segments); err != nil {
			return nil, fmt.Errorf("セグメントのデコードに失敗しました: %w", err)
		}
	}

	return sub, nil
}

// compile-time interface check
var _ SubscriberRepository = (*PostgresSubscriberRepo)(nil)
