package security

import (
	"strings"
	"testing"
)

// scriptタグが除去されることを検証する。
func TestContentSanitizer_RemovesScriptTag(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<p>hello</p><script>alert("xss")</script>`)

	if strings.Contains(got, "<script") {
		t.Errorf("script tag should be removed: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("safe content should be preserved: %q", got)
	}
}

// iframe, styleタグが除去されることを検証する。
func TestContentSanitizer_RemovesIframeAndStyle(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<iframe src="https://evil.example.com"></iframe><style>body{}</style><p>ok</p>`)

	if strings.Contains(got, "<iframe") || strings.Contains(got, "<style") {
		t.Errorf("iframe/style tags should be removed: %q", got)
	}
}

// on*イベント属性が除去されることを検証する。
func TestContentSanitizer_RemovesEventHandlers(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<p onclick="alert(1)">click</p>`)

	if strings.Contains(got, "onclick") {
		t.Errorf("onclick attribute should be removed: %q", got)
	}
	if !strings.Contains(got, "click") {
		t.Errorf("text content should be preserved: %q", got)
	}
}

// imgのsrcはhttpsのみ許可されることを検証する。
func TestContentSanitizer_ImageSchemes(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name    string
		input   string
		wantSrc bool
	}{
		{"httpsは許可", `<img src="https://example.com/a.png" alt="a">`, true},
		{"httpは拒否", `<img src="http://example.com/a.png">`, false},
		{"javascriptは拒否", `<img src="javascript:alert(1)">`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			hasSrc := strings.Contains(got, "src=")
			if hasSrc != tt.wantSrc {
				t.Errorf("Sanitize(%q) = %q, src present = %v, want %v", tt.input, got, hasSrc, tt.wantSrc)
			}
		})
	}
}

// 空文字列には空文字列を返すことを検証する。
func TestContentSanitizer_EmptyInput(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want \"\"", got)
	}
}

// 同一入力に対して冪等であることを検証する。
func TestContentSanitizer_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	input := `<h1>Title</h1><p>body <strong>bold</strong></p><a href="https://example.com">link</a>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize should be idempotent: first=%q second=%q", once, twice)
	}
}
