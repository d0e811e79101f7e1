package broadcast

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ayane/letterdrop/internal/mailer"
)

// MetricsRecorder は配信メトリクスの記録インターフェース。
// 実装はmetricsパッケージが提供する。nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordSendSuccess()
	RecordSendFail()
	ObserveSendLatency(seconds float64)
}

// Dispatcher はメッセージ列を逐次送信する。
// トークンバケット（バースト1）により連続する送信呼び出しの間隔が
// 最低intervalだけ空くことを保証する。先頭の送信は待機しない。
type Dispatcher struct {
	sender  mailer.Sender
	logger  *slog.Logger
	limiter *rate.Limiter
	metrics MetricsRecorder
}

// NewDispatcher はDispatcherの新しいインスタンスを生成する。
// intervalは連続送信の最小間隔。metricsはnil可。
func NewDispatcher(sender mailer.Sender, logger *slog.Logger, interval time.Duration, metrics MetricsRecorder) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		metrics: metrics,
	}
}

// Dispatch はメッセージ列を渡された順に1通ずつ送信し、結果集計を返す。
// 個別の送信失敗はログと集計に記録して処理を継続する。
// コンテキストがキャンセルされた場合はその時点の集計とctx.Err()を返す。
// 未処理のメッセージは成功にも失敗にも数えない。
func (d *Dispatcher) Dispatch(ctx context.Context, msgs []*mailer.Message) (*Report, error) {
	report := &Report{}

	for _, msg := range msgs {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("配信がキャンセルされました",
				slog.Int("sent_count", report.SentCount),
				slog.Int("error_count", report.ErrorCount),
				slog.Int("remaining", len(msgs)-report.Attempted()),
			)
			return report, err
		}

		start := time.Now()
		err := d.sender.Send(ctx, msg)
		if d.metrics != nil {
			d.metrics.ObserveSendLatency(time.Since(start).Seconds())
		}

		if err != nil {
			// 1件の失敗で配信全体を止めない
			report.AddFailure()
			if d.metrics != nil {
				d.metrics.RecordSendFail()
			}
			d.logger.Error("メール送信に失敗しました",
				slog.String("to", msg.To),
				slog.String("error", err.Error()),
			)
			continue
		}

		report.AddSuccess()
		if d.metrics != nil {
			d.metrics.RecordSendSuccess()
		}
	}

	return report, nil
}
