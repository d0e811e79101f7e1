// Package subscriber は購読者登録・解除のドメインロジックを提供する。
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayane/letterdrop/internal/auth"
	"github.com/ayane/letterdrop/internal/model"
	"github.com/ayane/letterdrop/internal/repository"
)

// emailPattern は購読登録時のメールアドレス形式検証に使用する。
// 厳密なRFC準拠ではなく、明らかに不正な入力をストアアクセス前に弾くことが目的。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MetricsRecorder は購読操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSubscribe()
	RecordSubscribeDuplicate()
	RecordUnsubscribe()
}

// SubscribeResult は購読登録の結果を表す。
// サービス境界からエラーは伝播させず、失敗もこの結果型で返す。
type SubscribeResult struct {
	Success bool
	Code    string // 失敗時のエラーコード（model.ErrCode*）。成功時は空。
	Message string // ユーザー向けメッセージ
}

// Service は購読者管理のサービス層。
// 購読登録、購読解除、管理者による追加・削除のビジネスロジックを提供する。
type Service struct {
	repo    repository.SubscriberRepository
	logger  *slog.Logger
	metrics MetricsRecorder // nil可
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.SubscriberRepository, logger *slog.Logger, metrics MetricsRecorder) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// NormalizeEmail はメールアドレスを正規化する（小文字化・前後空白除去）。
// 購読者レジストリの自然キーはこの正規化済み文字列。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe はメールアドレスを購読者レジストリに登録する。
//
// 既存の購読者が存在する場合はセグメントの和集合でプリファレンスのみを更新する。
// ステータスは変更しない（unsubscribedの購読者が再度フォームから登録しても
// 自動では再有効化されない）。
//
// 新規作成が並行登録との競合でユニーク制約違反になった場合は「登録済み」として
// 成功を返す。これにより同一メールアドレスへの並行したSubscribe呼び出しは冪等になる。
//
// ストア障害はログに記録し、一般的な失敗メッセージにマップする。
// このメソッドはエラーを返さない（すべて結果型に畳み込む）。
func (s *Service) Subscribe(ctx context.Context, email, source string, segments []string) *SubscribeResult {
	normalized := NormalizeEmail(email)

	// バリデーション失敗時はストアアクセスを行わない
	if normalized == "" || !emailPattern.MatchString(normalized) {
		return &SubscribeResult{
			Success: false,
			Code:    model.ErrCodeInvalidEmail,
			Message: "メールアドレスの形式が正しくありません。",
		}
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		return s.storeFailure("購読者の検索に失敗しました", normalized, err)
	}

	if existing != nil {
		merged := MergeSegments(existing.Segments, segments)
		if err := s.repo.UpdateSegments(ctx, existing.ID, merged); err != nil {
			return s.storeFailure("セグメントの更新に失敗しました", normalized, err)
		}

		if s.metrics != nil {
			s.metrics.RecordSubscribeDuplicate()
		}
		return &SubscribeResult{
			Success: true,
			Message: "既にご登録いただいています。配信設定を更新しました。",
		}
	}

	if source == "" {
		source = model.SourceUnknown
	}

	sub := &model.Subscriber{
		ID:        uuid.NewString(),
		Email:     normalized,
		Status:    model.StatusActive,
		Segments:  MergeSegments(nil, segments),
		Source:    source,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		// 並行登録との競合。相手側の行が生き残っているため登録済みとして成功を返す。
		if errors.Is(err, model.ErrDuplicateEmail) {
			s.logger.Info("並行した購読登録の競合を検出しました",
				slog.String("email", normalized),
			)
			if s.metrics != nil {
				s.metrics.RecordSubscribeDuplicate()
			}
			return &SubscribeResult{
				Success: true,
				Message: "既にご登録いただいています。",
			}
		}
		return s.storeFailure("購読者の作成に失敗しました", normalized, err)
	}

	if s.metrics != nil {
		s.metrics.RecordSubscribe()
	}
	s.logger.Info("購読者を登録しました",
		slog.String("subscriber_id", sub.ID),
		slog.String("source", sub.Source),
	)

	return &SubscribeResult{
		Success: true,
		Message: "ご登録ありがとうございます。",
	}
}

// UnsubscribeByEmail は指定メールアドレスの購読者を配信停止にする。
// 該当購読者が存在しない場合や既に停止済みの場合も成功として扱う
// （購読者の存在有無を外部に漏らさないため）。
func (s *Service) UnsubscribeByEmail(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)

	updated, err := s.repo.UpdateStatusByEmail(ctx, normalized, model.StatusUnsubscribed)
	if err != nil {
		return fmt.Errorf("配信停止の処理に失敗しました: %w", err)
	}

	if updated {
		if s.metrics != nil {
			s.metrics.RecordUnsubscribe()
		}
		s.logger.Info("購読者を配信停止にしました")
	}

	return nil
}

// AdminAdd は管理者が購読者を手動追加する。
// 認可済みの呼び出し元であることを要求し、登録済みメールアドレスに対しては
// 明示的なエラーを返す（公開フォームの冪等な成功とは意図的に異なる挙動）。
func (s *Service) AdminAdd(ctx context.Context, authCtx auth.Context, email string) error {
	if !authCtx.Authorized {
		return model.NewUnauthorizedError()
	}

	normalized := NormalizeEmail(email)
	if normalized == "" || !emailPattern.MatchString(normalized) {
		return model.NewInvalidEmailError()
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		return fmt.Errorf("購読者の検索に失敗しました: %w", err)
	}
	if existing != nil {
		return model.NewAlreadySubscribedError(normalized)
	}

	sub := &model.Subscriber{
		ID:        uuid.NewString(),
		Email:     normalized,
		Status:    model.StatusActive,
		Segments:  MergeSegments(nil, nil),
		Source:    model.SourceAdmin,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return model.NewAlreadySubscribedError(normalized)
		}
		return fmt.Errorf("購読者の作成に失敗しました: %w", err)
	}

	s.logger.Info("管理者が購読者を追加しました",
		slog.String("subscriber_id", sub.ID),
		slog.String("operator", authCtx.Operator),
	)

	return nil
}

// AdminRemove は管理者が購読者を物理削除する。
// 認可済みの呼び出し元であることを要求する。
func (s *Service) AdminRemove(ctx context.Context, authCtx auth.Context, id string) error {
	if !authCtx.Authorized {
		return model.NewUnauthorizedError()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("購読者の削除に失敗しました: %w", err)
	}

	s.logger.Info("管理者が購読者を削除しました",
		slog.String("subscriber_id", id),
		slog.String("operator", authCtx.Operator),
	)

	return nil
}

// storeFailure はストア障害をログに記録し、一般的な失敗結果を返す。
// 内部エラーの詳細は利用者に漏らさない。
func (s *Service) storeFailure(msg, email string, err error) *SubscribeResult {
	s.logger.Error(msg,
		slog.String("email", email),
		slog.String("error", err.Error()),
	)
	return &SubscribeResult{
		Success: false,
		Code:    model.ErrCodeInternal,
		Message: "処理に失敗しました。しばらく待ってから再度お試しください。",
	}
}
