// Package auth はGoogle IDトークンによるログインとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/kissaten/internal/model"
	"github.com/hitoshi/kissaten/internal/repository"
)

// IdentityVerifier は外部IdPのIDトークン検証のインターフェース。
// 検証に成功した場合のみ(email, name)を返す。
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*VerifiedIdentity, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	verifier    IdentityVerifier
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	verifier IdentityVerifier,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		verifier:    verifier,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// LoginWithIDToken はIDトークンを検証し、ユーザーをupsertしてセッションを発行する。
// ユーザー作成はこの経路のみ。既存メールアドレスの場合はnameだけが更新される。
// トークン検証失敗はInvalidTokenエラーとして返す。
func (s *Service) LoginWithIDToken(ctx context.Context, idToken string) (*model.User, *model.Session, error) {
	// 1. IDトークンの検証
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		slog.Warn("id token verification failed", slog.String("error", err.Error()))
		return nil, nil, model.NewInvalidTokenError()
	}

	// 2. 検証済みメールアドレスをキーにユーザーをupsert
	user, err := s.userRepo.UpsertByEmail(ctx, identity.Email, identity.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// 3. セッションを発行（同一ブラウザでは新しいCookieが旧セッションを置き換える）
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, session, nil
}

// Logout はセッションを破棄する。
// 存在しないセッションIDに対しても成功する（冪等）。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthenticatedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID int64) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
