// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/ayane/letterdrop/internal/model"
)

// SubscriberRepository は購読者データの永続化インターフェース。
// メールアドレスは呼び出し側で正規化済み（小文字・前後空白除去）であることを前提とする。
type SubscriberRepository interface {
	// FindByEmail は正規化済みメールアドレスで購読者を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Subscriber, error)

	// Create は購読者を作成する。
	// メールアドレスのユニーク制約違反の場合はmodel.ErrDuplicateEmailを返す。
	// アプリケーション側でロックは取らないため、並行登録の競合はこのエラーで検出する。
	Create(ctx context.Context, sub *model.Subscriber) error

	// UpdateSegments は購読者の興味セグメントを更新する。
	UpdateSegments(ctx context.Context, id string, segments []string) error

	// UpdateStatusByEmail は正規化済みメールアドレスで購読者のステータスを更新する。
	// 該当行が存在しない場合はfalseを返す（エラーにはしない）。
	UpdateStatusByEmail(ctx context.Context, email string, status model.SubscriberStatus) (bool, error)

	// ListActive は配信対象（status = active）の購読者一覧をcreated_at昇順で返す。
	ListActive(ctx context.Context) ([]*model.Subscriber, error)

	// Delete は指定IDの購読者を物理削除する。管理者操作専用。
	Delete(ctx context.Context, id string) error
}

// NewsletterRepository はニュースレターデータの読み取りインターフェース。
// 作成・編集は管理画面側の責務のため、配信パイプラインからは参照のみ。
type NewsletterRepository interface {
	// FindByID は指定IDのニュースレターを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Newsletter, error)

	// FindBySlug はスラッグでニュースレターを検索する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Newsletter, error)
}

// NewsletterEventRepository はエンゲージメントイベントの永続化インターフェース。
type NewsletterEventRepository interface {
	// Create はイベントを1件追記する。重複排除は行わない。
	Create(ctx context.Context, event *model.NewsletterEvent) error

	// CountOpens は指定ニュースレターの開封イベント数を返す。
	CountOpens(ctx context.Context, newsletterID string) (int, error)
}
