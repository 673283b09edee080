package review

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/security"
)

type mockReviewRepo struct {
	createFn        func(ctx context.Context, review *model.Review) error
	listWithUsersFn func(ctx context.Context) ([]model.ReviewWithUser, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	return m.createFn(ctx, review)
}
func (m *mockReviewRepo) ListWithUsers(ctx context.Context) ([]model.ReviewWithUser, error) {
	return m.listWithUsersFn(ctx)
}

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func newTestService(repo *mockReviewRepo) *Service {
	users := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Email: "taro@example.com", Name: "Taro", Role: model.RoleCustomer}, nil
		},
	}
	return NewService(repo, users, security.NewCommentSanitizer())
}

func TestCreate_ValidReview_Succeeds(t *testing.T) {
	var saved *model.Review
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, review *model.Review) error {
			review.ID = 1
			saved = review
			return nil
		},
	}

	review, err := newTestService(repo).Create(context.Background(), 42, 5, "豆の香りが素晴らしい")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if review.ID != 1 {
		t.Errorf("review ID = %d, want 1", review.ID)
	}
	if saved.UserID != 42 {
		t.Errorf("user ID = %d, want 42", saved.UserID)
	}
	if saved.Rating != 5 {
		t.Errorf("rating = %d, want 5", saved.Rating)
	}
	if review.UserName != "Taro" {
		t.Errorf("user name = %q, want %q", review.UserName, "Taro")
	}
}

// セッションに対応するユーザーが存在しない場合は未認証として扱う。
func TestCreate_UnknownUser_ReturnsUnauthenticated(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, review *model.Review) error {
			t.Error("Create should not be called")
			return nil
		},
	}
	users := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, nil },
	}
	service := NewService(repo, users, security.NewCommentSanitizer())

	_, err := service.Create(context.Background(), 42, 4, "コメント")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthenticated {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
}

// 評価は1〜5の整数のみ受け付ける。
func TestCreate_RatingBounds(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, review *model.Review) error { return nil },
	}
	service := newTestService(repo)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := service.Create(context.Background(), 42, rating, "コメント")
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidInput {
			t.Errorf("rating=%d: expected invalid input error, got %v", rating, err)
		}
	}

	for _, rating := range []int{1, 2, 3, 4, 5} {
		if _, err := service.Create(context.Background(), 42, rating, "コメント"); err != nil {
			t.Errorf("rating=%d: expected no error, got %v", rating, err)
		}
	}
}

func TestCreate_EmptyComment_ReturnsInvalidInput(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, review *model.Review) error {
			t.Error("Create should not be called")
			return nil
		},
	}
	service := newTestService(repo)

	for _, comment := range []string{"", "   ", "<script>alert(1)</script>"} {
		_, err := service.Create(context.Background(), 42, 3, comment)
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidInput {
			t.Errorf("comment=%q: expected invalid input error, got %v", comment, err)
		}
	}
}

// コメントはHTMLタグを除去して保存される。
func TestCreate_SanitizesComment(t *testing.T) {
	var saved *model.Review
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, review *model.Review) error {
			saved = review
			return nil
		},
	}

	_, err := newTestService(repo).Create(context.Background(), 42, 4, `美味しい<script>alert('xss')</script>です`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.Comment != "美味しいです" {
		t.Errorf("comment = %q, want %q", saved.Comment, "美味しいです")
	}
}

func TestList_ReturnsReviewsWithUsers(t *testing.T) {
	repo := &mockReviewRepo{
		listWithUsersFn: func(ctx context.Context) ([]model.ReviewWithUser, error) {
			return []model.ReviewWithUser{
				{Review: model.Review{ID: 2, Rating: 5, Comment: "最高"}, UserName: "Taro"},
				{Review: model.Review{ID: 1, Rating: 3, Comment: "普通"}, UserName: "Hanako"},
			}, nil
		},
	}

	reviews, err := newTestService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("len(reviews) = %d, want 2", len(reviews))
	}
	if reviews[0].UserName != "Taro" {
		t.Errorf("first review user = %q, want Taro", reviews[0].UserName)
	}
}
