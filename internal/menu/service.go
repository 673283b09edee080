// Package menu はメニューカタログの管理ロジックを提供する。
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/repository"
	"github.com/hitoshi/kissaten/internal/security"
)

// AdminPolicy は管理者権限判定のインターフェース。
type AdminPolicy interface {
	RequireAdmin(ctx context.Context, userID int64) error
}

// ServiceConfig はメニューサービスの設定。
type ServiceConfig struct {
	// ImageCheckTimeout は画像URL到達確認のタイムアウト。
	ImageCheckTimeout time.Duration
	// VerifyImageReachability は画像URLへのHEADリクエストによる到達確認を行うか。
	// テストおよびオフライン環境ではfalseにする。
	VerifyImageReachability bool
}

// Service はメニューカタログのサービス層。
// 閲覧は誰でも可能だが、作成・更新・削除は管理者のみが実行できる。
type Service struct {
	menuRepo   repository.MenuRepository
	policy     AdminPolicy
	imageGuard security.ImageURLGuardService
	httpClient *http.Client
	config     ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	menuRepo repository.MenuRepository,
	policy AdminPolicy,
	imageGuard security.ImageURLGuardService,
	config ServiceConfig,
) *Service {
	var client *http.Client
	if config.VerifyImageReachability {
		client = imageGuard.NewSafeClient(config.ImageCheckTimeout)
	}
	return &Service{
		menuRepo:   menuRepo,
		policy:     policy,
		imageGuard: imageGuard,
		httpClient: client,
		config:     config,
	}
}

// CreateInput はメニュー項目作成の入力。
type CreateInput struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Category    string
	Available   bool
}

// List は全メニュー項目をカテゴリ昇順、同一カテゴリ内は名前昇順で返す。
// 認証不要の公開操作。
func (s *Service) List(ctx context.Context) ([]*model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("メニューの取得に失敗しました: %w", err)
	}
	return items, nil
}

// Get は指定IDのメニュー項目を返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("メニュー項目の取得に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewMenuItemNotFoundError(id)
	}
	return item, nil
}

// Create はメニュー項目を作成する。管理者のみ実行可能。
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (*model.MenuItem, error) {
	if err := s.policy.RequireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.PriceCents); err != nil {
		return nil, err
	}
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if input.ImageURL != "" {
		if err := s.validateImageURL(ctx, input.ImageURL); err != nil {
			return nil, err
		}
	}

	item := &model.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Category:    strings.TrimSpace(input.Category),
		Available:   input.Available,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("メニュー項目の作成に失敗しました: %w", err)
	}

	slog.Info("メニュー項目を作成しました",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.Int64("user_id", userID),
	)

	return item, nil
}

// Update はメニュー項目を部分更新する。管理者のみ実行可能。
// nilフィールドは既存の値を維持する。該当行が存在しない場合は404相当のエラーを返す。
func (s *Service) Update(ctx context.Context, userID, id int64, update model.MenuItemUpdate) (*model.MenuItem, error) {
	if err := s.policy.RequireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	if update.Name != nil {
		if err := validateName(*update.Name); err != nil {
			return nil, err
		}
	}
	if update.PriceCents != nil {
		if err := validatePrice(*update.PriceCents); err != nil {
			return nil, err
		}
	}
	if update.Category != nil {
		if err := validateCategory(*update.Category); err != nil {
			return nil, err
		}
	}
	if update.ImageURL != nil && *update.ImageURL != "" {
		if err := s.validateImageURL(ctx, *update.ImageURL); err != nil {
			return nil, err
		}
	}

	item, err := s.menuRepo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("メニュー項目の更新に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewMenuItemNotFoundError(id)
	}

	slog.Info("メニュー項目を更新しました",
		slog.Int64("item_id", id),
		slog.Int64("user_id", userID),
	)

	return item, nil
}

// Delete はメニュー項目を削除する。管理者のみ実行可能。
// 既存レビューは注文履歴の裏付けとして残すため影響を受けない。
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.policy.RequireAdmin(ctx, userID); err != nil {
		return err
	}

	deleted, err := s.menuRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("メニュー項目の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewMenuItemNotFoundError(id)
	}

	slog.Info("メニュー項目を削除しました",
		slog.Int64("item_id", id),
		slog.Int64("user_id", userID),
	)

	return nil
}

// validateImageURL は画像URLの静的検証と、設定に応じた到達確認を行う。
func (s *Service) validateImageURL(ctx context.Context, rawURL string) error {
	if err := s.imageGuard.ValidateURL(rawURL); err != nil {
		return model.NewInvalidImageURLError(err.Error())
	}

	if !s.config.VerifyImageReachability {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return model.NewInvalidImageURLError(err.Error())
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return model.NewInvalidImageURLError("画像URLに到達できません")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return model.NewInvalidImageURLError(fmt.Sprintf("画像URLがステータス%dを返しました", resp.StatusCode))
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewInvalidInputError("nameは必須です")
	}
	return nil
}

func validatePrice(priceCents int64) error {
	if priceCents < 0 {
		return model.NewInvalidInputError("priceは0以上である必要があります")
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return model.NewInvalidInputError("categoryは必須です")
	}
	return nil
}
