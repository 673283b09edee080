package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kissaten/internal/cart"
	"github.com/hitoshi/kissaten/internal/menu"
	"github.com/hitoshi/kissaten/internal/metrics"
	"github.com/hitoshi/kissaten/internal/middleware"
	"github.com/hitoshi/kissaten/internal/model"
)

// MenuServiceInterface はメニューハンドラーが必要とするサービスインターフェース。
type MenuServiceInterface interface {
	List(ctx context.Context) ([]*model.MenuItem, error)
	Get(ctx context.Context, id int64) (*model.MenuItem, error)
	Create(ctx context.Context, userID int64, input menu.CreateInput) (*model.MenuItem, error)
	Update(ctx context.Context, userID, id int64, update model.MenuItemUpdate) (*model.MenuItem, error)
	Delete(ctx context.Context, userID, id int64) error
}

// MenuHandler はメニューカタログのHTTPハンドラー。
type MenuHandler struct {
	service MenuServiceInterface
	metrics metrics.MetricsCollector
}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler(service MenuServiceInterface, collector metrics.MetricsCollector) *MenuHandler {
	return &MenuHandler{
		service: service,
		metrics: collector,
	}
}

// menuItemRequest はメニュー項目作成・更新リクエストのボディ。
// 価格はドル単位の数値で受け取り、内部ではセント整数に変換して保持する。
type menuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
}

// menuItemResponse はメニュー項目のAPIレスポンス。
type menuItemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	PriceDisplay string    `json:"priceDisplay"`
	ImageURL     string    `json:"imageUrl"`
	Category     string    `json:"category"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toMenuItemResponse(item *model.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        cart.USD(item.PriceCents),
		PriceDisplay: cart.FormatUSD(item.PriceCents),
		ImageURL:     item.ImageURL,
		Category:     item.Category,
		Available:    item.Available,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// List はメニュー一覧を返す。
// GET /api/menu
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	responses := make([]menuItemResponse, len(items))
	for i, item := range items {
		responses[i] = toMenuItemResponse(item)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// Get はメニュー項目の詳細を返す。
// GET /api/menu/{id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMenuItemResponse(item))
}

// Create はメニュー項目を作成する。管理者のみ。
// POST /api/menu
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Name == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("nameは必須です"))
		return
	}
	if req.Price == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("priceは必須です"))
		return
	}
	if req.Category == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("categoryは必須です"))
		return
	}

	input := menu.CreateInput{
		Name:       *req.Name,
		PriceCents: cart.CentsFromUSD(*req.Price),
		Category:   *req.Category,
		Available:  true,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.ImageURL != nil {
		input.ImageURL = *req.ImageURL
	}
	if req.Available != nil {
		input.Available = *req.Available
	}

	item, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	h.metrics.RecordMenuMutation("create")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toMenuItemResponse(item))
}

// Update はメニュー項目を部分更新する。管理者のみ。
// PUT /api/menu/{id}
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("リクエストボディの解析に失敗しました"))
		return
	}

	update := model.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	}
	if req.Price != nil {
		cents := cart.CentsFromUSD(*req.Price)
		update.PriceCents = &cents
	}

	item, err := h.service.Update(r.Context(), userID, id, update)
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	h.metrics.RecordMenuMutation("update")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMenuItemResponse(item))
}

// Delete はメニュー項目を削除する。管理者のみ。
// DELETE /api/menu/{id}
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	h.metrics.RecordMenuMutation("delete")

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam はパスパラメータのIDを解析する。不正な場合は400を書き込みfalseを返す。
func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("idは正の整数である必要があります"))
		return 0, false
	}
	return id, true
}

// requireUserID はコンテキストから認証済みユーザーIDを取得する。
// 取得できない場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return 0, false
	}
	return userID, true
}
