// Package tracking はニュースレターの開封計測機能を提供する。
// ビーコンの応答を阻害しないよう、記録の失敗は呼び出し元に返さない。
package tracking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayane/letterdrop/internal/model"
	"github.com/ayane/letterdrop/internal/repository"
)

// MetricsRecorder は開封メトリクスの記録インターフェース。nil可。
type MetricsRecorder interface {
	RecordOpen()
}

// Recorder は開封イベントの記録と集計を提供する。
type Recorder struct {
	eventRepo repository.NewsletterEventRepository
	logger    *slog.Logger
	metrics   MetricsRecorder
}

// NewRecorder はRecorderの新しいインスタンスを生成する。metricsはnil可。
func NewRecorder(eventRepo repository.NewsletterEventRepository, logger *slog.Logger, metrics MetricsRecorder) *Recorder {
	return &Recorder{
		eventRepo: eventRepo,
		logger:    logger,
		metrics:   metrics,
	}
}

// RecordOpen は開封イベントを1件記録する。重複排除は行わない（同一受信者の再開封も追記する）。
// ニュースレターIDが空の場合やストレージ障害の場合もエラーを返さない。
// ビーコンの応答はイベントの記録可否に依存してはならないため、失敗はログにのみ残す。
func (r *Recorder) RecordOpen(ctx context.Context, newsletterID, subscriberID string) {
	if newsletterID == "" {
		r.logger.Warn("ニュースレターID未指定の開封ビーコンを受信しました")
		return
	}

	event := &model.NewsletterEvent{
		NewsletterID: newsletterID,
		RecipientID:  subscriberID,
		Type:         model.EventTypeOpen,
	}

	if err := r.eventRepo.Create(ctx, event); err != nil {
		r.logger.Error("開封イベントの記録に失敗しました",
			slog.String("newsletter_id", newsletterID),
			slog.String("subscriber_id", subscriberID),
			slog.String("error", err.Error()),
		)
		return
	}

	if r.metrics != nil {
		r.metrics.RecordOpen()
	}
}

// CountOpens は指定ニュースレターの開封イベント数を返す。管理者向けの集計に使用する。
func (r *Recorder) CountOpens(ctx context.Context, newsletterID string) (int, error) {
	count, err := r.eventRepo.CountOpens(ctx, newsletterID)
	if err != nil {
		return 0, fmt.Errorf("開封数の集計に失敗しました: %w", err)
	}
	return count, nil
}
