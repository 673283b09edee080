package model

import "time"

// MenuItem はメニュー項目を表す。
// 価格は通貨の最小単位（セント）の整数で保持し、丸め誤差を避ける。
// 表示用のドル変換はプレゼンテーション層でのみ行う。
type MenuItem struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Category    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuItemUpdate はメニュー項目の部分更新を表す。
// nilフィールドは変更せず、既存の値を維持する。
type MenuItemUpdate struct {
	Name        *string
	Description *string
	PriceCents  *int64
	ImageURL    *string
	Category    *string
	Available   *bool
}
