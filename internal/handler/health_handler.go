package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// healthResponse はヘルスチェックのAPIレスポンス。
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health はサーバーの稼働状態を返す。認証不要。
// GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}
