package security

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractText はHTMLからテキストのみを抽出する。
// マルチパートメールのtext/plainパート生成に使用する。
// ブロック要素の境界は改行に変換し、連続する空白行は1行にまとめる。
// パースに失敗した場合は入力をそのまま返す（送信自体は止めない）。
func ExtractText(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	var b strings.Builder
	walkText(doc, &b)

	return collapseBlankLines(b.String())
}

// blockElements は改行区切りとして扱うブロック要素。
var blockElements = map[string]bool{
	"p": true, "br": true, "hr": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "blockquote": true,
	"table": true, "tr": true, "pre": true,
}

// skipElements はテキスト抽出の対象外とする要素。
var skipElements = map[string]bool{
	"script": true, "style": true, "head": true,
}

func walkText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skipElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteString("\n")
	}
}

// collapseBlankLines は3行以上連続する改行を2行（空行1行）にまとめ、前後の空白を除去する。
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
