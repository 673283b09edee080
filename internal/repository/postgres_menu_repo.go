package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kissaten/internal/model"
)

// PostgresMenuRepo はPostgreSQLを使用したメニューリポジトリ。
type PostgresMenuRepo struct {
	db *sql.DB
}

// NewPostgresMenuRepo はPostgresMenuRepoを生成する。
func NewPostgresMenuRepo(db *sql.DB) *PostgresMenuRepo {
	return &PostgresMenuRepo{db: db}
}

const menuColumns = `id, name, description, price_cents, image_url, category, available, created_at, updated_at`

func scanMenuItem(row interface {
	Scan(dest ...interface{}) error
}) (*model.MenuItem, error) {
	item := &model.MenuItem{}
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.PriceCents,
		&item.ImageURL, &item.Category, &item.Available,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create はメニュー項目を作成し、採番されたIDとタイムスタンプを書き戻す。
func (r *PostgresMenuRepo) Create(ctx context.Context, item *model.MenuItem) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (name, description, price_cents, image_url, category, available)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		item.Name, item.Description, item.PriceCents, item.ImageURL, item.Category, item.Available,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
func (r *PostgresMenuRepo) FindByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRowContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`,
		id,
	))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item: %w", err)
	}

	return item, nil
}

// List は全メニュー項目をカテゴリ昇順、同一カテゴリ内は名前昇順で返す。
func (r *PostgresMenuRepo) List(ctx context.Context) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items ORDER BY category ASC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	items := []*model.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// Update は部分更新を行う。nilフィールドはCOALESCEで既存の値を維持する。
// 該当行が存在しない場合はnilを返す。
func (r *PostgresMenuRepo) Update(ctx context.Context, id int64, update model.MenuItemUpdate) (*model.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRowContext(ctx,
		`UPDATE menu_items
		 SET name        = COALESCE($2::text, name),
		     description = COALESCE($3::text, description),
		     price_cents = COALESCE($4::bigint, price_cents),
		     image_url   = COALESCE($5::text, image_url),
		     category    = COALESCE($6::text, category),
		     available   = COALESCE($7::boolean, available),
		     updated_at  = now()
		 WHERE id = $1
		 RETURNING `+menuColumns,
		id,
		update.Name, update.Description, update.PriceCents,
		update.ImageURL, update.Category, update.Available,
	))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	return item, nil
}

// Delete は指定IDのメニュー項目を削除する。
// 該当行が存在しなかった場合はfalseを返す。
func (r *PostgresMenuRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// compile-time interface check
var _ MenuRepository = (*PostgresMenuRepo)(nil)
