package model

import "time"

// Review はメニューに対するユーザーレビューを表す。
// 追記専用であり、更新・削除操作は存在しない。
type Review struct {
	ID        int64
	UserID    int64
	Rating    int // 1〜5
	Comment   string
	CreatedAt time.Time
}

// ReviewWithUser はレビューと投稿ユーザーを結合した読み取り用モデル。
// レビュー一覧APIのレスポンスに使用する。
type ReviewWithUser struct {
	Review
	UserName  string
	UserEmail string
}

// 評価値の境界。表示層だけでなくサービス層で必ず検証する。
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating は評価値が許容範囲内かを返す。
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
