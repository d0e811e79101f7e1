// Package mailer は外部メール配信APIへの送信機能を提供する。
// 外部プロバイダは1リクエスト1通のJSON APIで、公表されたレート上限を持つ。
// レート制御は呼び出し側（broadcastパッケージ）の責務。
package mailer

import "context"

// Message は外部プロバイダに渡す1通分のメールを表す。
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
	// Headers はList-Unsubscribe等の追加ヘッダー。
	Headers map[string]string
}

// Sender はメール送信能力のインターフェース。
// 1回の呼び出しで1通を送信し、失敗はエラーで返す。
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
