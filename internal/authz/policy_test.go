package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/kissaten/internal/model"
)

// mockUserFinder はUserFinderのモック。
type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func TestRequireAdmin_AdminUser_Allows(t *testing.T) {
	policy := NewPolicy(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleAdmin}, nil
		},
	})

	if err := policy.RequireAdmin(context.Background(), 7); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestRequireAdmin_CustomerUser_ReturnsForbidden(t *testing.T) {
	policy := NewPolicy(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleCustomer}, nil
		},
	})

	err := policy.RequireAdmin(context.Background(), 7)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

// 最初に登録したユーザーであってもロールがcustomerなら管理者ではない。
func TestRequireAdmin_FirstUserWithoutAdminRole_ReturnsForbidden(t *testing.T) {
	policy := NewPolicy(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, Role: model.RoleCustomer}, nil
		},
	})

	err := policy.RequireAdmin(context.Background(), 1)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestRequireAdmin_UnknownUser_ReturnsUnauthenticated(t *testing.T) {
	policy := NewPolicy(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	})

	err := policy.RequireAdmin(context.Background(), 99)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthenticated {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
}

func TestRequireAdmin_RepositoryError_Propagates(t *testing.T) {
	policy := NewPolicy(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, errors.New("db down")
		},
	})

	err := policy.RequireAdmin(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("expected plain error, got APIError %v", apiErr)
	}
}
