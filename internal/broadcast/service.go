package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ayane/letterdrop/internal/mailer"
	"github.com/ayane/letterdrop/internal/model"
	"github.com/ayane/letterdrop/internal/repository"
	"github.com/ayane/letterdrop/internal/security"
)

// Service はニュースレター配信のビジネスロジックを提供する。
// ニュースレター本文のサニタイズ、受信者ごとのメッセージ組み立て、
// Dispatcherによる逐次送信を統括する。
type Service struct {
	subscriberRepo repository.SubscriberRepository
	newsletterRepo repository.NewsletterRepository
	dispatcher     *Dispatcher
	sanitizer      security.ContentSanitizerService
	logger         *slog.Logger
	baseURL        string
	fromAddress    string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	subscriberRepo repository.SubscriberRepository,
	newsletterRepo repository.NewsletterRepository,
	dispatcher *Dispatcher,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
	baseURL string,
	fromAddress string,
) *Service {
	return &Service{
		subscriberRepo: subscriberRepo,
		newsletterRepo: newsletterRepo,
		dispatcher:     dispatcher,
		sanitizer:      sanitizer,
		logger:         logger,
		baseURL:        baseURL,
		fromAddress:    fromAddress,
	}
}

// Send は指定ニュースレターを全アクティブ購読者に配信し、結果集計を返す。
// 受信者は取得順（created_at昇順）に処理される。
// 本文のサニタイズは配信全体で1回だけ行い、受信者ごとには
// 配信停止リンクと開封計測ピクセルのみを差し込む。
func (s *Service) Send(ctx context.Context, newsletterID string) (*Report, error) {
	newsletter, err := s.newsletterRepo.FindByID(ctx, newsletterID)
	if err != nil {
		return nil, fmt.Errorf("ニュースレターの取得に失敗しました: %w", err)
	}
	if newsletter == nil {
		return nil, model.NewNewsletterNotFoundError(newsletterID)
	}

	subscribers, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("配信対象の取得に失敗しました: %w", err)
	}

	if len(subscribers) == 0 {
		s.logger.Info("配信対象の購読者がいません", slog.String("newsletter_id", newsletter.ID))
		return &Report{}, nil
	}

	safeHTML := s.sanitizer.Sanitize(newsletter.Content)
	plainText := security.ExtractText(safeHTML)

	msgs := make([]*mailer.Message, 0, len(subscribers))
	for _, sub := range subscribers {
		msgs = append(msgs, s.buildMessage(newsletter, sub, safeHTML, plainText))
	}

	s.logger.Info("配信を開始します",
		slog.String("newsletter_id", newsletter.ID),
		slog.Int("recipient_count", len(msgs)),
	)

	report, err := s.dispatcher.Dispatch(ctx, msgs)
	if err != nil {
		return report, err
	}

	s.logger.Info("配信が完了しました",
		slog.String("newsletter_id", newsletter.ID),
		slog.Int("sent_count", report.SentCount),
		slog.Int("error_count", report.ErrorCount),
	)

	return report, nil
}

// buildMessage は受信者1名分のメールを組み立てる。
func (s *Service) buildMessage(newsletter *model.Newsletter, sub *model.Subscriber, safeHTML, plainText string) *mailer.Message {
	unsubURL := s.unsubscribeURL(sub.Email)
	beaconURL := s.beaconURL(newsletter.ID, sub.ID)

	html := safeHTML +
		fmt.Sprintf(`<p><a href="%s">配信停止はこちら</a></p>`, unsubURL) +
		fmt.Sprintf(`<img src="%s" width="1" height="1" alt="">`, beaconURL)

	text := plainText + "\n\n配信停止: " + unsubURL

	return &mailer.Message{
		From:    s.fromAddress,
		To:      sub.Email,
		Subject: newsletter.Subject,
		HTML:    html,
		Text:    text,
		Headers: map[string]string{
			"List-Unsubscribe": "<" + unsubURL + ">",
		},
	}
}

func (s *Service) unsubscribeURL(email string) string {
	q := url.Values{}
	q.Set("email", email)
	return s.baseURL + "/unsubscribe?" + q.Encode()
}

func (s *Service) beaconURL(newsletterID, subscriberID string) string {
	q := url.Values{}
	q.Set("id", newsletterID)
	q.Set("sub", subscriberID)
	return s.baseURL + "/tracking/open?" + q.Encode()
}
