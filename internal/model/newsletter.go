// Package model はドメインモデルを定義する。
package model

import "time"

// Newsletter は配信対象のニュースレター号を表す。
// 作成・編集は管理画面側の責務であり、配信パイプラインからは読み取り専用。
type Newsletter struct {
	ID          string
	Subject     string
	PreviewText string
	Content     string
	Slug        string
	CreatedAt   time.Time
}

// NewsletterEvent はニュースレターに対するエンゲージメントイベントを表す。
// 同一購読者の複数回の開封はそれぞれ別の行として記録される
// （重複排除しない。回数自体がエンゲージメントのシグナルであるため）。
type NewsletterEvent struct {
	ID           int64
	NewsletterID string
	// RecipientID はビーコンに購読者コンテキストが無い場合は空文字列（DB上はNULL）。
	RecipientID string
	Type        EventType
	CreatedAt   time.Time
}

// EventType はエンゲージメントイベントの種別を表す。
type EventType string

const (
	// EventTypeOpen はメール開封イベント。
	EventTypeOpen EventType = "open"
)
