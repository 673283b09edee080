package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// allowedIssuers はGoogle発行のIDトークンとして受け入れるissクレーム。
var allowedIssuers = []string{
	"accounts.google.com",
	"https://accounts.google.com",
}

// VerifiedIdentity はIDトークン検証で得られた検証済みのユーザー情報を表す。
type VerifiedIdentity struct {
	Email string
	Name  string
}

// GoogleVerifierConfig はGoogle IDトークン検証の設定。
type GoogleVerifierConfig struct {
	ClientID string

	// テスト用にオーバーライド可能なURL
	TokenInfoURL string
}

// GoogleVerifier はGoogleのtokeninfoエンドポイントによるIDトークン検証を提供する。
// 署名検証はGoogle側で行われ、こちらではaudience・issuer・有効期限・
// emailクレームの存在を検証する。状態を持たない。
type GoogleVerifier struct {
	config GoogleVerifierConfig
	client *http.Client
}

// NewGoogleVerifier はGoogleVerifierを生成する。
func NewGoogleVerifier(config GoogleVerifierConfig) *GoogleVerifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultTokenInfoURL
	}
	return &GoogleVerifier{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// tokenInfoResponse はtokeninfoエンドポイントのレスポンス。
// 数値クレームは文字列で返される。
type tokenInfoResponse struct {
	Iss           string `json:"iss"`
	Aud           string `json:"aud"`
	Exp           string `json:"exp"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// Verify はIDトークンを検証し、検証済みの(email, name)を返す。
// 検証失敗・不正なペイロード・emailクレーム欠落のいずれもエラーを返す。
// 表示名が無い場合はメールアドレスのローカル部をnameとして使用する。
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*VerifiedIdentity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("empty ID token")
	}

	info, err := v.fetchTokenInfo(ctx, idToken)
	if err != nil {
		return nil, err
	}

	// 1. audience検証: このアプリ向けに発行されたトークンか
	if info.Aud != v.config.ClientID {
		return nil, fmt.Errorf("token audience mismatch")
	}

	// 2. issuer検証
	if !isAllowedIssuer(info.Iss) {
		return nil, fmt.Errorf("unexpected token issuer: %s", info.Iss)
	}

	// 3. 有効期限検証
	exp, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if time.Now().Unix() >= exp {
		return nil, fmt.Errorf("token has expired")
	}

	// 4. emailクレームの存在検証
	if info.Email == "" {
		return nil, fmt.Errorf("no email claim in token")
	}

	name := info.Name
	if name == "" {
		name = localPart(info.Email)
	}

	return &VerifiedIdentity{
		Email: info.Email,
		Name:  name,
	}, nil
}

// fetchTokenInfo はtokeninfoエンドポイントにトークンを問い合わせる。
// Googleは署名が無効なトークンに対して非200を返す。
func (v *GoogleVerifier) fetchTokenInfo(ctx context.Context, idToken string) (*tokenInfoResponse, error) {
	reqURL := v.config.TokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	return &info, nil
}

// isAllowedIssuer はissクレームが許可リストに含まれるかを検証する。
func isAllowedIssuer(iss string) bool {
	for _, allowed := range allowedIssuers {
		if iss == allowed {
			return true
		}
	}
	return false
}

// localPart はメールアドレスの@より前の部分を返す。
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// compile-time interface check
var _ IdentityVerifier = (*GoogleVerifier)(nil)
