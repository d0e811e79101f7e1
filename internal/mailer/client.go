package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Client は外部メール配信APIのクライアント。
// Bearerトークン認証のJSON APIに対して1通ずつ送信する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientにはタイムアウト設定済みのクライアントを渡すこと。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// sendRequest は送信APIのリクエストボディ。
type sendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Text    string            `json:"text,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Send は1通のメールを外部APIに送信する。
// 2xx以外のレスポンスはエラーとして返す。レスポンスボディの詳細はログにのみ残す。
func (c *Client) Send(ctx context.Context, msg *Message) error {
	payload := sendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		Headers: msg.Headers,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("リクエストボディのシリアライズに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Letterdrop/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("送信APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// プロバイダのエラー詳細はログにのみ残す（64KBで打ち切り）
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		c.logger.Error("送信APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("detail", string(detail)),
		)
		return fmt.Errorf("送信APIがステータス %d を返しました", resp.StatusCode)
	}

	return nil
}

// compile-time interface check
var _ Sender = (*Client)(nil)
