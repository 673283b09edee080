package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kissaten/internal/metrics"
	"github.com/hitoshi/kissaten/internal/middleware"
	"github.com/hitoshi/kissaten/internal/model"
)

// ReviewServiceInterface はレビューハンドラーが必要とするサービスインターフェース。
type ReviewServiceInterface interface {
	Create(ctx context.Context, userID int64, rating int, comment string) (*model.ReviewWithUser, error)
	List(ctx context.Context) ([]model.ReviewWithUser, error)
}

// ReviewHandler はレビューのHTTPハンドラー。
type ReviewHandler struct {
	service ReviewServiceInterface
	metrics metrics.MetricsCollector
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(service ReviewServiceInterface, collector metrics.MetricsCollector) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		metrics: collector,
	}
}

// createReviewRequest はレビュー投稿リクエストのボディ。
// 投稿者は検証済みセッションから導出するため、ボディには含めない。
type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// reviewResponse はレビューのAPIレスポンス。
type reviewResponse struct {
	ID        int64          `json:"id"`
	Rating    int            `json:"rating"`
	Comment   string         `json:"comment"`
	CreatedAt time.Time      `json:"createdAt"`
	User      reviewUserInfo `json:"user"`
}

// reviewUserInfo はレビューに付随する投稿ユーザーの公開情報。
type reviewUserInfo struct {
	Name string `json:"name"`
}

// Create はレビューを投稿する。認証必須。
// POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidInputError("リクエストボディの解析に失敗しました"))
		return
	}

	review, err := h.service.Create(r.Context(), userID, req.Rating, req.Comment)
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	h.metrics.RecordReviewPosted(review.Rating)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reviewResponse{
		ID:        review.ID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		User:      reviewUserInfo{Name: review.UserName},
	})
}

// List は全レビューを投稿ユーザー付きで新しい順に返す。認証不要。
// GET /api/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		middleware.HandleServiceError(w, r, err)
		return
	}

	responses := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		responses[i] = reviewResponse{
			ID:        rv.ID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
			User:      reviewUserInfo{Name: rv.UserName},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
