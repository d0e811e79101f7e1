// Package auth は管理操作の認可コンテキストを提供する。
// セッションやトークンの検証方法には依存せず、「呼び出し元が認可済みの
// オペレーターかどうか」という能力だけをサービス層へ明示的に引き渡す。
package auth

// Context は管理操作の呼び出し元が持つ認可情報を表す。
// 暗黙のグローバル状態を持たず、各サービス呼び出しに明示的に渡す。
type Context struct {
	// Authorized は呼び出し元が認可済みオペレーターである場合にtrue。
	Authorized bool
	// Operator は監査ログ用のオペレーター識別子。未認可の場合は空。
	Operator string
}

// Anonymous は未認可の呼び出し元を表すContextを返す。
func Anonymous() Context {
	return Context{}
}

// Operator は認可済みオペレーターのContextを返す。
func Operator(name string) Context {
	return Context{Authorized: true, Operator: name}
}
