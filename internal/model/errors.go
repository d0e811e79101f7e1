// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateEmail は正規化済みメールアドレスのユニーク制約違反を表すセンチネルエラー。
// 同一メールアドレスに対する並行した購読登録の競合検出に使用する。
var ErrDuplicateEmail = errors.New("email already registered")

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, newsletter, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrCodeSubscriberNotFound = "SUBSCRIBER_NOT_FOUND"
	ErrCodeNewsletterNotFound = "NEWSLETTER_NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewInvalidEmailError は無効なメールアドレスエラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスの形式が正しくありません。",
		Category: "validation",
		Action:   "正しいメールアドレスを入力してください。",
	}
}

// NewAlreadySubscribedError は登録済みメールアドレスの管理者追加エラーを生成する。
// 公開の購読フォームとは異なり、管理者による明示的な追加操作では重複をエラーとして通知する。
func NewAlreadySubscribedError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadySubscribed,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "newsletter",
		Action:   "購読者一覧から該当の購読者を確認してください。",
	}
}

// NewSubscriberNotFoundError は購読者未検出エラーを生成する。
func NewSubscriberNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeSubscriberNotFound,
		Message:  fmt.Sprintf("指定された購読者が見つかりません: %s", id),
		Category: "newsletter",
		Action:   "購読者IDを確認してください。",
	}
}

// NewNewsletterNotFoundError はニュースレター未検出エラーを生成する。
func NewNewsletterNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeNewsletterNotFound,
		Message:  fmt.Sprintf("指定されたニュースレターが見つかりません: %s", id),
		Category: "newsletter",
		Action:   "ニュースレターIDを確認してください。",
	}
}

// NewUnauthorizedError は認可エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "この操作には管理者権限が必要です。",
		Category: "auth",
		Action:   "管理者トークンを確認してください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ残し、利用者には一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
