// Package cart はカートの集計ロジックを提供する。
//
// カートはネットワークにも永続化にも依存しない純粋なデータ構造であり、
// すべての操作は新しいカートを返す。行の順序は追加順を維持する。
// 金額は通貨の最小単位（セント）の整数で扱い、加算を繰り返しても
// 丸め誤差が蓄積しない。小数表記への変換は表示時にのみ行う。
package cart

import (
	"fmt"
	"math"
	"strconv"
)

// Item はカートに追加される商品のスナップショット。
// 追加時点のid・名前・価格・画像を保持し、以後のカタログ変更の影響を受けない。
type Item struct {
	ID         int64
	Name       string
	PriceCents int64
	ImageURL   string
}

// Line はカート内の1行を表す。同一商品IDの行は高々1つ。
type Line struct {
	Item     Item
	Quantity int
}

// Cart は追加順に並んだ行の列。
type Cart []Line

// Add は商品をカートに追加した新しいカートを返す。
// 同一IDの行が既に存在する場合は数量を1増やし、
// 存在しない場合は数量1の新しい行を末尾に追加する。
// 元のカートは変更しない。
func Add(c Cart, item Item) Cart {
	next := make(Cart, len(c))
	copy(next, c)

	for i := range next {
		if next[i].Item.ID == item.ID {
			next[i].Quantity++
			return next
		}
	}

	return append(next, Line{Item: item, Quantity: 1})
}

// AddN は商品を指定数量だけ追加した新しいカートを返す。
// 同一IDの行が既に存在する場合は数量をn増やし、
// 存在しない場合は数量nの新しい行を末尾に追加する。
// nが1未満の場合はカートをそのまま複製して返す。元のカートは変更しない。
func AddN(c Cart, item Item, n int) Cart {
	next := make(Cart, len(c))
	copy(next, c)

	if n < 1 {
		return next
	}

	for i := range next {
		if next[i].Item.ID == item.ID {
			next[i].Quantity += n
			return next
		}
	}

	return append(next, Line{Item: item, Quantity: n})
}

// Remove は指定商品の数量を1減らした新しいカートを返す。
// 数量が0になった行は削除する。数量が負になることはない。
// 該当IDの行が存在しない場合はカートをそのまま複製して返す。
func Remove(c Cart, itemID int64) Cart {
	next := make(Cart, 0, len(c))

	for _, line := range c {
		if line.Item.ID == itemID {
			if line.Quantity > 1 {
				line.Quantity--
				next = append(next, line)
			}
			// 数量1の行は落とす
			continue
		}
		next = append(next, line)
	}

	return next
}

// Total はカート合計をセント単位で返す。
// 整数演算のため内部丸めは発生しない。
func Total(c Cart) int64 {
	var total int64
	for _, line := range c {
		total += line.Item.PriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount は全行の数量の合計を返す。バッジ表示用。
func ItemCount(c Cart) int {
	count := 0
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// CentsFromUSD はドル建ての金額をセントに変換する。
// 入力はAPIのJSONボディ由来のため、最近接のセントに丸める。
func CentsFromUSD(usd float64) int64 {
	return int64(math.Round(usd * 100))
}

// USD はセントをドル建てのfloatに変換する。APIレスポンス用。
func USD(cents int64) float64 {
	return float64(cents) / 100
}

// FormatUSD はセントを小数2桁のドル表記にフォーマットする。
// 丸めはこの表示変換でのみ発生する。
func FormatUSD(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ConvertDisplay は合計金額を固定レートで副通貨表示に変換する。
// 最近接の整数単位に丸めた文字列を返す。表示専用であり、
// この値がTotalに影響することはない。
func ConvertDisplay(totalCents int64, rate float64) string {
	converted := math.Round(USD(totalCents) * rate)
	return strconv.FormatInt(int64(converted), 10)
}
