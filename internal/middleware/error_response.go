package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kissaten/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewUpstreamFailureError())
}

// statusForErrorCode はAPIErrorのコードをHTTPステータスコードに対応付ける。
var statusForErrorCode = map[string]int{
	model.ErrCodeUnauthenticated:  http.StatusUnauthorized,
	model.ErrCodeInvalidToken:     http.StatusUnauthorized,
	model.ErrCodeForbidden:        http.StatusForbidden,
	model.ErrCodeInvalidInput:     http.StatusBadRequest,
	model.ErrCodeInvalidImageURL:  http.StatusBadRequest,
	model.ErrCodeMenuItemNotFound: http.StatusNotFound,
	model.ErrCodeUserNotFound:     http.StatusNotFound,
	model.ErrCodeItemUnavailable:  http.StatusConflict,
	model.ErrCodeUpstreamFailure:  http.StatusInternalServerError,
}

// HandleServiceError はサービス層から返されたエラーをHTTPレスポンスに変換する。
// APIError以外のエラーは詳細をログに記録し、一般的な500レスポンスを返す。
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		status, ok := statusForErrorCode[apiErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		WriteErrorResponse(w, status, apiErr)
		return
	}

	slog.Error("unexpected error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	WriteInternalServerError(w)
}
