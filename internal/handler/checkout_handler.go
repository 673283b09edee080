package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kissaten/internal/cart"
	"github.com/hitoshi/kissaten/internal/checkout"
	"github.com/hitoshi/kissaten/internal/metrics"
	"github.com/hitoshi/kissaten/internal/middleware"
	"github.com/hitoshi/kissaten/internal/model"
)

// CheckoutServiceInterface はチェックアウトハンドラーが必要とするサービスインターフェース。
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID int64, lines []checkout.LineInput) (*checkout.Order, error)
}

// CheckoutHandlerConfig はチェックアウトハンドラーの設定。
// 表示用通貨換算の固定レートと通貨記号を保持する。
type CheckoutHandlerConfig struct {
	CurrencyRate   float64
	CurrencySymbol string
}

// CheckoutHandler は注文確定のHTTPハンドラー。
type CheckoutHandler struct {
	service CheckoutServiceInterface
	config  CheckoutHandlerConfig
	metrics metrics.MetricsCollector
}

// NewCheckoutHandler はCheckoutHandlerを生成する。
func NewCheckoutHandler(service CheckoutServiceInterface, config CheckoutHandlerConfig, collector metrics.MetricsCollector) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		config:  config,
		metrics: collector,
	}
}

// checkoutRequest は注文確定リクエストのボディ。
// 金額は一切受け取らず、サーバー側のカタログ価格から再計算する。
type checkoutRequest struct {
	Items []checkoutLineRequest `json:"items"`
}

type checkoutLineRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// orderResponse は確定済み注文のAPIレスポンス。
type orderResponse struct {
	Reference    string              `json:"reference"`
	Items        []orderLineResponse `json:"items"`
	Total        float64             `json:"total"`
	TotalDisplay string              `json:"totalDisplay"`
	ItemCount    int                 `json:"itemCount"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type orderLineResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Checkout は注文を確定する。認証必須。
// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("リクエストボディの解析に失敗しました"))
		return
	}

	lines := make([]checkout.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = checkout.LineInput{ItemID: item.ID, Quantity: item.Quantity}
	}

	order, err := h.service.Checkout(r.Context(), userID, lines)
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	h.metrics.RecordOrderPlaced(order.TotalCents)

	lineResponses := make([]orderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lineResponses[i] = orderLineResponse{
			ID:       line.Item.ID,
			Name:     line.Item.Name,
			Price:    cart.USD(line.Item.PriceCents),
			Quantity: line.Quantity,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(orderResponse{
		Reference:    order.Reference,
		Items:        lineResponses,
		Total:        cart.USD(order.TotalCents),
		TotalDisplay: h.config.CurrencySymbol + cart.ConvertDisplay(order.TotalCents, h.config.CurrencyRate),
		ItemCount:    cart.ItemCount(order.Lines),
		CreatedAt:    order.CreatedAt,
	})
}
