// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeMenuItemNotFound = "MENU_ITEM_NOT_FOUND"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeItemUnavailable  = "ITEM_UNAVAILABLE"
	ErrCodeInvalidImageURL  = "INVALID_IMAGE_URL"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
)

// NewUnauthenticatedError は未認証エラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
// 管理者専用の操作を一般ユーザーが実行しようとした場合に返す。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作には管理者権限が必要です。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}

// NewInvalidTokenError はIDトークン検証失敗エラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "Googleトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewInvalidInputError は入力検証エラーを生成する。
func NewInvalidInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("入力が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewMenuItemNotFoundError はメニュー項目未検出エラーを生成する。
func NewMenuItemNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeMenuItemNotFound,
		Message:  fmt.Sprintf("指定されたメニュー項目が見つかりません: %d", id),
		Category: "catalog",
		Action:   "メニュー項目IDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewItemUnavailableError は販売停止中の商品を注文しようとした場合のエラーを生成する。
func NewItemUnavailableError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeItemUnavailable,
		Message:  fmt.Sprintf("現在注文できない商品が含まれています: %s", name),
		Category: "catalog",
		Action:   "カートから該当商品を削除して再度お試しください。",
	}
}

// NewInvalidImageURLError は画像URL検証失敗エラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("画像URLが不正です: %s", reason),
		Category: "validation",
		Action:   "公開されているhttp/httpsの画像URLを指定してください。",
	}
}

// NewUpstreamFailureError はストレージ等の内部障害エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewUpstreamFailureError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailure,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
