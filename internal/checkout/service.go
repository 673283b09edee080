// Package checkout はカート内容の確定処理を提供する。
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kissaten/internal/cart"
	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/repository"
)

// LineInput はクライアントから送信されるカート行。
// 価格はクライアント申告値を信用せず、必ずサーバー側のカタログから引き直す。
type LineInput struct {
	ItemID   int64
	Quantity int
}

// MaxLineQuantity は1行あたりの数量の上限。
// 超過はInvalidInputとして拒否する。
const MaxLineQuantity = 99

// Order は確定済み注文を表す。
type Order struct {
	Reference  string    // 注文参照番号（UUID）
	UserID     int64
	Lines      cart.Cart // カタログ価格で再構築された注文内容
	TotalCents int64
	CreatedAt  time.Time
}

// Service はチェックアウトのサービス層。
type Service struct {
	menuRepo repository.MenuRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(menuRepo repository.MenuRepository) *Service {
	return &Service{menuRepo: menuRepo}
}

// Checkout はカート内容を検証し注文を確定する。
// 各行についてメニュー項目の存在と販売可否を確認し、
// 合計金額はカタログの現在価格から再計算する。
func (s *Service) Checkout(ctx context.Context, userID int64, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, model.NewInvalidInputError("カートが空です")
	}

	var c cart.Cart
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, model.NewInvalidInputError("quantityは1以上である必要があります")
		}
		if line.Quantity > MaxLineQuantity {
			return nil, model.NewInvalidInputError(
				fmt.Sprintf("quantityは%d以下である必要があります", MaxLineQuantity))
		}

		item, err := s.menuRepo.FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("メニュー項目の取得に失敗しました: %w", err)
		}
		if item == nil {
			return nil, model.NewMenuItemNotFoundError(line.ItemID)
		}
		if !item.Available {
			return nil, model.NewItemUnavailableError(item.Name)
		}

		snapshot := cart.Item{
			ID:         item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			ImageURL:   item.ImageURL,
		}
		c = cart.AddN(c, snapshot, line.Quantity)
	}

	order := &Order{
		Reference:  uuid.NewString(),
		UserID:     userID,
		Lines:      c,
		TotalCents: cart.Total(c),
		CreatedAt:  time.Now(),
	}

	slog.Info("注文を確定しました",
		slog.String("order_ref", order.Reference),
		slog.Int64("user_id", userID),
		slog.Int64("total_cents", order.TotalCents),
		slog.Int("item_count", cart.ItemCount(c)),
	)

	return order, nil
}
