package auth

import "context"

type contextKey string

const authContextKey contextKey = "auth_context"

// WithContext はリクエストコンテキストに認可情報を格納する。
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext はリクエストコンテキストから認可情報を取り出す。
// 格納されていない場合は未認可のContextを返す。
func FromContext(ctx context.Context) Context {
	if ac, ok := ctx.Value(authContextKey).(Context); ok {
		return ac
	}
	return Anonymous()
}
