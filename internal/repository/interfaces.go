// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kissaten/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpsertByEmail はメールアドレスをキーにユーザーをupsertする。
	// 既存ユーザーの場合はnameのみ更新し、存在しない場合は次のシリアルIDで作成する。
	// ユーザー作成はこの経路のみ。作成時のroleはcustomer。
	UpsertByEmail(ctx context.Context, email, name string) (*model.User, error)

	// UpdateRoleByEmail は指定メールアドレスのユーザーのロールを変更する。
	// 該当ユーザーが存在しない場合はfalseを返す。
	UpdateRoleByEmail(ctx context.Context, email string, role model.Role) (bool, error)

	// CountByRole は指定ロールのユーザー数を返す。
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// MenuRepository はメニュー項目の永続化インターフェース。
type MenuRepository interface {
	// Create はメニュー項目を作成し、採番されたIDとタイムスタンプを書き戻す。
	Create(ctx context.Context, item *model.MenuItem) error

	// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.MenuItem, error)

	// List は全メニュー項目をカテゴリ昇順で返す。
	List(ctx context.Context) ([]*model.MenuItem, error)

	// Update は部分更新を行う。nilフィールドは既存の値を維持する。
	// 該当行が存在しない場合はnilを返す。
	Update(ctx context.Context, id int64, update model.MenuItemUpdate) (*model.MenuItem, error)

	// Delete は指定IDのメニュー項目を削除する。
	// 該当行が存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, id int64) (bool, error)
}

// ReviewRepository はレビューの永続化インターフェース。追記専用。
type ReviewRepository interface {
	// Create はレビューを作成し、採番されたIDと作成日時を書き戻す。
	Create(ctx context.Context, review *model.Review) error

	// ListWithUsers は全レビューを投稿ユーザー付きで作成日時の降順で返す。
	ListWithUsers(ctx context.Context) ([]model.ReviewWithUser, error)
}
