package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// CommentSanitizerService はレビューコメントのサニタイズ機能のインターフェースを定義する。
// レビュー保存前に使用され、コメントをプレーンテキストとして正規化する。
type CommentSanitizerService interface {
	// Sanitize はコメントから全てのHTMLタグを除去し、前後の空白を削除する。
	// レビューコメントはプレーンテキストとして扱うため、許可タグは存在しない。
	// script等の危険なタグだけでなく、装飾タグもすべて除去される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// commentSanitizer はCommentSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type commentSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer はCommentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全てのタグと属性を除去する許可リストなしのポリシー。
func NewCommentSanitizer() *commentSanitizer {
	return &commentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はコメントから全てのHTMLタグを除去し、前後の空白を削除する。
// StrictPolicyはテキストをHTMLエンティティにエスケープするため、
// プレーンテキストとして保存できるようにアンエスケープして返す。
func (s *commentSanitizer) Sanitize(raw string) string {
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
