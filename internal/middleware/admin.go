package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ayane/letterdrop/internal/auth"
	"github.com/ayane/letterdrop/internal/model"
)

// NewAdminAuthMiddleware は管理者トークンによる認可ミドルウェアを返す。
// Authorization: Bearer <token> を設定値と定数時間比較で検証し、
// 成功した場合はリクエストコンテキストに認可情報を格納する。
// トークンが未設定の場合は管理操作を全て拒否する（フェイルクローズ）。
func NewAdminAuthMiddleware(adminToken string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			token, ok := bearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := auth.WithContext(r.Context(), auth.Operator("admin-token"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
