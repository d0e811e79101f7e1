// Package model はドメインモデルを定義する。
package model

import "time"

// Subscriber はニュースレターの購読者を表す。
// Emailは正規化済み（小文字・前後空白除去）のユニークキー。
type Subscriber struct {
	ID        string
	Email     string
	Status    SubscriberStatus
	Segments  []string
	Source    string
	CreatedAt time.Time
}

// SubscriberStatus は購読者の配信ステータスを表す。
type SubscriberStatus string

const (
	// StatusActive は配信対象のステータス。作成時の初期値。
	StatusActive SubscriberStatus = "active"
	// StatusUnsubscribed は配信停止ステータス。
	// active → unsubscribed の一方向遷移のみ許可され、自動での再有効化は行わない。
	StatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// 購読者のSource既定値。
const (
	// SourceUnknown は出所不明の購読登録を表す。
	SourceUnknown = "unknown"
	// SourceAdmin は管理者による手動追加を表す。
	SourceAdmin = "admin"
)

// IsActive は購読者が配信対象かどうかを返す。
func (s *Subscriber) IsActive() bool {
	return s.Status == StatusActive
}
