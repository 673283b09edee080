// Package review はレビュー投稿と一覧のロジックを提供する。
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/repository"
	"github.com/hitoshi/kissaten/internal/security"
)

// UserFinder は投稿ユーザーの解決に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// Service はレビューのサービス層。
// レビューは追記専用で、更新・削除の操作は存在しない。
type Service struct {
	reviewRepo repository.ReviewRepository
	users      UserFinder
	sanitizer  security.CommentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(reviewRepo repository.ReviewRepository, users UserFinder, sanitizer security.CommentSanitizerService) *Service {
	return &Service{
		reviewRepo: reviewRepo,
		users:      users,
		sanitizer:  sanitizer,
	}
}

// Create はレビューを投稿し、投稿ユーザー情報付きで返す。
// 投稿者は検証済みセッションから導出されたuserIDであり、
// クライアント申告の投稿者は受け付けない。
// 評価は1〜5の整数、コメントはサニタイズ後に非空であることをサーバー側で強制する。
func (s *Service) Create(ctx context.Context, userID int64, rating int, comment string) (*model.ReviewWithUser, error) {
	if !model.ValidRating(rating) {
		return nil, model.NewInvalidInputError(
			fmt.Sprintf("ratingは%d〜%dの整数である必要があります", model.MinRating, model.MaxRating))
	}

	sanitized := s.sanitizer.Sanitize(comment)
	if sanitized == "" {
		return nil, model.NewInvalidInputError("commentは必須です")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("投稿ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthenticatedError()
	}

	review := &model.Review{
		UserID:  userID,
		Rating:  rating,
		Comment: sanitized,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("レビューの保存に失敗しました: %w", err)
	}

	slog.Info("レビューを投稿しました",
		slog.Int64("review_id", review.ID),
		slog.Int64("user_id", userID),
		slog.Int("rating", rating),
	)

	return &model.ReviewWithUser{
		Review:    *review,
		UserName:  user.Name,
		UserEmail: user.Email,
	}, nil
}

// List は全レビューを投稿ユーザー情報付きで新しい順に返す。
// 認証不要の公開操作。
func (s *Service) List(ctx context.Context) ([]model.ReviewWithUser, error) {
	reviews, err := s.reviewRepo.ListWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("レビューの取得に失敗しました: %w", err)
	}
	return reviews, nil
}
