// Package authz は管理者権限の判定ポリシーを提供する。
package authz

import (
	"context"
	"fmt"

	"github.com/hitoshi/kissaten/internal/model"
)

// UserFinder はユーザー取得の最小インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// Policy はユーザーのロール属性に基づいて権限を判定する。
// 判定は常にサーバー側で永続化されたロールを参照し、
// リクエスト本文の申告値は一切信用しない。
type Policy struct {
	users UserFinder
}

// NewPolicy はPolicyを生成する。
func NewPolicy(users UserFinder) *Policy {
	return &Policy{users: users}
}

// RequireAdmin は指定ユーザーが管理者であることを検証する。
// 管理者でない場合はForbiddenエラーを返す。
func (p *Policy) RequireAdmin(ctx context.Context, userID int64) error {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUnauthenticatedError()
	}
	if !user.IsAdmin() {
		return model.NewForbiddenError()
	}
	return nil
}
