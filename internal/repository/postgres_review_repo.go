package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kissaten/internal/model"
)

// PostgresReviewRepo はPostgreSQLを使用したレビューリポジトリ。
type PostgresReviewRepo struct {
	db *sql.DB
}

// NewPostgresReviewRepo はPostgresReviewRepoを生成する。
func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

// Create はレビューを作成し、採番されたIDと作成日時を書き戻す。
func (r *PostgresReviewRepo) Create(ctx context.Context, review *model.Review) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reviews (user_id, rating, comment)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// ListWithUsers は全レビューを投稿ユーザー付きで作成日時の降順で返す。
func (r *PostgresReviewRepo) ListWithUsers(ctx context.Context) ([]model.ReviewWithUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.rating, r.comment, r.created_at, u.name, u.email
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.ReviewWithUser{}
	for rows.Next() {
		var rv model.ReviewWithUser
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.UserName, &rv.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

// compile-time interface check
var _ ReviewRepository = (*PostgresReviewRepo)(nil)
