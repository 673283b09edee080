// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
// 権限はIDの値や登録順ではなく、明示的なロール属性で判定する。
type Role string

const (
	// RoleCustomer は一般顧客。ユーザー作成時のデフォルト。
	RoleCustomer Role = "customer"
	// RoleAdmin はメニューの作成・更新・削除を許可される管理者。
	RoleAdmin Role = "admin"
)

// Valid はロールが定義済みの値かを返す。
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User はサービス利用ユーザーを表す。
// Google認証で検証済みのメールアドレスをキーとしてupsertされる。
// IDは作成順に単調増加する整数。
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin はユーザーが管理者ロールを持つかを返す。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
// ログイン成功時に発行され、明示的なログアウトまたは有効期限切れで破棄される。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
