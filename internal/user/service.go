// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/repository"
)

// Service はユーザー管理のサービス層。
// ロール昇格・降格のビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// SetRole は指定メールアドレスのユーザーのロールを変更する。
// ロールの判定はログイン時のセッション取得を通じて行われるため、
// 降格時は該当ユーザーの既存セッションを全て破棄し即時反映する。
// 運用者がCLIの昇格コマンドから実行する。HTTP経由の昇格経路は提供しない。
func (s *Service) SetRole(ctx context.Context, email string, role model.Role) error {
	if !role.Valid() {
		return model.NewInvalidInputError(fmt.Sprintf("不明なロール: %s", role))
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	updated, err := s.userRepo.UpdateRoleByEmail(ctx, email, role)
	if err != nil {
		return fmt.Errorf("ロールの更新に失敗しました: %w", err)
	}
	if !updated {
		return model.NewUserNotFoundError()
	}

	// 降格は既存セッションを破棄して即時反映する
	if role != model.RoleAdmin {
		if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	slog.Info("ユーザーのロールを変更しました",
		slog.Int64("user_id", user.ID),
		slog.String("email", email),
		slog.String("role", string(role)),
	)

	return nil
}

// AdminCount は管理者ユーザーの人数を返す。
// 昇格コマンドが初回セットアップかどうかを運用者に示すために使用する。
func (s *Service) AdminCount(ctx context.Context) (int, error) {
	count, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("管理者数の取得に失敗しました: %w", err)
	}
	return count, nil
}
