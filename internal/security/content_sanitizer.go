// Package security はコンテンツの無害化機能を提供する。
//
// ContentSanitizerService はニュースレター本文のHTMLをサニタイズし、
// 配信メールにスクリプト等の危険な要素が混入することを防ぐ。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
// ニュースレター本文を外部メールAPIへ渡す前に使用される。
type ContentSanitizerService interface {
	// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
	// 許可タグのみを通過させ、script, iframe, styleタグおよびon*イベント属性を除去する。
	// imgタグのsrc属性はhttpsスキームのみ許可される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// ポリシーの内容:
//   - 許可タグ: h1-h3, p, br, hr, a, ul, ol, li, blockquote, pre, code, strong, em, img, table系
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
//   - imgのsrc属性: httpsスキームのみ許可
//   - aタグ: href属性を許可（メールクライアント向けのためtarget付与は行わない）
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// メール本文で一般的な構造タグ。
	// script, iframe, style等は許可リストに含めないことで自動的に除去される。
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される。
	p.AllowElements(
		"h1", "h2", "h3",
		"p", "br", "hr", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
		"table", "thead", "tbody", "tr", "th", "td",
	)

	// aタグ: href属性のみ許可。相対URLは配信メールでは解決できないため不許可。
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)

	// imgタグ: src属性はhttpsスキームのみ許可（http, javascript, data等は拒否）。
	// alt属性はアクセシビリティ確保のため許可。
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{policy: p}
}

// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
