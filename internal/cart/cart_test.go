package cart

import (
	"math/rand"
	"testing"
)

var (
	espresso   = Item{ID: 1, Name: "Espresso", PriceCents: 299, ImageURL: "https://example.com/espresso.jpg"}
	cappuccino = Item{ID: 2, Name: "Cappuccino", PriceCents: 399, ImageURL: "https://example.com/cappuccino.jpg"}
	latte      = Item{ID: 3, Name: "Latte", PriceCents: 449}
)

func TestAdd_NewItem_AppendsLineWithQuantityOne(t *testing.T) {
	c := Add(nil, espresso)

	if len(c) != 1 {
		t.Fatalf("len = %d, want 1", len(c))
	}
	if c[0].Item != espresso {
		t.Errorf("line item = %+v, want %+v", c[0].Item, espresso)
	}
	if c[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", c[0].Quantity)
	}
}

func TestAdd_ExistingItem_IncrementsQuantity(t *testing.T) {
	c := Add(Add(nil, espresso), espresso)

	if len(c) != 1 {
		t.Fatalf("len = %d, want 1 (no duplicate line)", len(c))
	}
	if c[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", c[0].Quantity)
	}
}

func TestAddN_NewItem_AppendsLineWithGivenQuantity(t *testing.T) {
	c := AddN(nil, espresso, 5)

	if len(c) != 1 {
		t.Fatalf("len = %d, want 1", len(c))
	}
	if c[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", c[0].Quantity)
	}
}

func TestAddN_ExistingItem_AddsToQuantity(t *testing.T) {
	c := AddN(Add(nil, espresso), espresso, 3)

	if len(c) != 1 {
		t.Fatalf("len = %d, want 1 (no duplicate line)", len(c))
	}
	if c[0].Quantity != 4 {
		t.Errorf("quantity = %d, want 4", c[0].Quantity)
	}
}

// AddN(c, item, n) はAddをn回適用した結果と等しい。
func TestAddN_EquivalentToRepeatedAdd(t *testing.T) {
	repeated := Add(nil, cappuccino)
	for i := 0; i < 3; i++ {
		repeated = Add(repeated, espresso)
	}

	batched := AddN(Add(nil, cappuccino), espresso, 3)

	if Total(repeated) != Total(batched) {
		t.Errorf("total mismatch: repeated = %d, batched = %d", Total(repeated), Total(batched))
	}
	if ItemCount(repeated) != ItemCount(batched) {
		t.Errorf("item count mismatch: repeated = %d, batched = %d", ItemCount(repeated), ItemCount(batched))
	}
}

func TestAddN_NonPositiveQuantity_CopiesCartUnchanged(t *testing.T) {
	original := Add(nil, espresso)

	for _, n := range []int{0, -1} {
		c := AddN(original, cappuccino, n)
		if len(c) != 1 || c[0].Quantity != 1 {
			t.Errorf("n=%d: cart changed: %+v", n, c)
		}
	}
}

func TestAddN_DoesNotMutateOriginal(t *testing.T) {
	original := Add(nil, espresso)
	_ = AddN(original, espresso, 10)

	if original[0].Quantity != 1 {
		t.Errorf("original cart mutated: quantity = %d, want 1", original[0].Quantity)
	}
}

func TestAdd_DoesNotMutateOriginal(t *testing.T) {
	original := Add(nil, espresso)
	_ = Add(original, espresso)

	if original[0].Quantity != 1 {
		t.Errorf("original cart mutated: quantity = %d, want 1", original[0].Quantity)
	}
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := Add(Add(Add(nil, cappuccino), espresso), cappuccino)

	if c[0].Item.ID != cappuccino.ID || c[1].Item.ID != espresso.ID {
		t.Errorf("insertion order not preserved: %+v", c)
	}
}

// 追加時点のスナップショットを保持し、後からのカタログ編集が反映されないことを検証する。
func TestAdd_SnapshotsItemAtAddTime(t *testing.T) {
	item := Item{ID: 9, Name: "Mocha", PriceCents: 500}
	c := Add(nil, item)

	// カタログ側の値上げに相当する変更
	item.PriceCents = 600
	item.Name = "Mocha (new)"

	if c[0].Item.PriceCents != 500 {
		t.Errorf("line price = %d, want snapshot 500", c[0].Item.PriceCents)
	}
	if c[0].Item.Name != "Mocha" {
		t.Errorf("line name = %q, want snapshot %q", c[0].Item.Name, "Mocha")
	}
}

// スペックのシナリオ: Espresso($2.99) → Cappuccino($3.99) → Espresso
func TestScenario_TwoEspressosOneCappuccino(t *testing.T) {
	c := Add(Add(Add(nil, espresso), cappuccino), espresso)

	if len(c) != 2 {
		t.Fatalf("lines = %d, want 2", len(c))
	}
	if c[0].Item.ID != espresso.ID || c[0].Quantity != 2 {
		t.Errorf("espresso line = %+v, want quantity 2", c[0])
	}
	if got := Total(c); got != 997 {
		t.Errorf("total = %d cents, want 997", got)
	}
	if got := FormatUSD(Total(c)); got != "9.97" {
		t.Errorf("formatted total = %q, want %q", got, "9.97")
	}
	if got := ItemCount(c); got != 3 {
		t.Errorf("item count = %d, want 3", got)
	}
}

// ItemCountはAdd呼び出し回数と常に一致し、行数は異なる商品ID数を超えない。
func TestItemCount_EqualsNumberOfAdds(t *testing.T) {
	items := []Item{espresso, cappuccino, latte}
	adds := 0
	var c Cart

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		c = Add(c, items[r.Intn(len(items))])
		adds++

		if got := ItemCount(c); got != adds {
			t.Fatalf("after %d adds: item count = %d", adds, got)
		}
		if len(c) > len(items) {
			t.Fatalf("lines = %d, exceeds distinct items %d", len(c), len(items))
		}
	}
}

// Totalは同じ多重集合に対してAddの順序に依存しない。
func TestTotal_InvariantUnderReordering(t *testing.T) {
	seq1 := []Item{espresso, espresso, cappuccino, latte, cappuccino}
	seq2 := []Item{latte, cappuccino, espresso, cappuccino, espresso}

	var c1, c2 Cart
	for _, it := range seq1 {
		c1 = Add(c1, it)
	}
	for _, it := range seq2 {
		c2 = Add(c2, it)
	}

	if Total(c1) != Total(c2) {
		t.Errorf("totals differ: %d vs %d", Total(c1), Total(c2))
	}
	if ItemCount(c1) != ItemCount(c2) {
		t.Errorf("item counts differ: %d vs %d", ItemCount(c1), ItemCount(c2))
	}
}

func TestTotal_EmptyCart_IsZero(t *testing.T) {
	if got := Total(nil); got != 0 {
		t.Errorf("total = %d, want 0", got)
	}
	if got := ItemCount(nil); got != 0 {
		t.Errorf("item count = %d, want 0", got)
	}
}

func TestRemove_DecrementsQuantity(t *testing.T) {
	c := Add(Add(nil, espresso), espresso)
	c = Remove(c, espresso.ID)

	if len(c) != 1 {
		t.Fatalf("lines = %d, want 1", len(c))
	}
	if c[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", c[0].Quantity)
	}
}

// 数量が0になった行は削除され、負の数量は発生しない。
func TestRemove_DeletesLineAtZero(t *testing.T) {
	c := Add(nil, espresso)
	c = Remove(c, espresso.ID)

	if len(c) != 0 {
		t.Fatalf("lines = %d, want 0", len(c))
	}

	// 存在しないIDの削除は無変化
	c = Remove(c, espresso.ID)
	if len(c) != 0 {
		t.Errorf("remove on empty cart changed it: %+v", c)
	}
}

func TestRemove_UnknownID_LeavesCartUnchanged(t *testing.T) {
	c := Add(nil, espresso)
	got := Remove(c, 999)

	if len(got) != 1 || got[0].Quantity != 1 {
		t.Errorf("cart changed by removing unknown id: %+v", got)
	}
}

func TestCentsFromUSD_RoundsToNearestCent(t *testing.T) {
	tests := []struct {
		usd  float64
		want int64
	}{
		{2.99, 299},
		{3.99, 399},
		{0, 0},
		{10, 1000},
		{4.49, 449},
	}
	for _, tt := range tests {
		if got := CentsFromUSD(tt.usd); got != tt.want {
			t.Errorf("CentsFromUSD(%v) = %d, want %d", tt.usd, got, tt.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{997, "9.97"},
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{123456, "1234.56"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.cents); got != tt.want {
			t.Errorf("FormatUSD(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

// 副通貨変換は表示専用で、最近接の整数単位に丸める。
func TestConvertDisplay_FixedRate(t *testing.T) {
	// $9.97 * 83.0 = 827.51 → "828"
	if got := ConvertDisplay(997, 83.0); got != "828" {
		t.Errorf("ConvertDisplay(997, 83.0) = %q, want %q", got, "828")
	}
	// $1.00 * 83.0 = 83
	if got := ConvertDisplay(100, 83.0); got != "83" {
		t.Errorf("ConvertDisplay(100, 83.0) = %q, want %q", got, "83")
	}
	if got := ConvertDisplay(0, 83.0); got != "0" {
		t.Errorf("ConvertDisplay(0, 83.0) = %q, want %q", got, "0")
	}
}

// ConvertDisplayがTotalに影響しないことの確認。
func TestConvertDisplay_DoesNotAffectTotal(t *testing.T) {
	c := Add(Add(nil, espresso), cappuccino)
	before := Total(c)
	_ = ConvertDisplay(before, 83.0)
	if Total(c) != before {
		t.Error("ConvertDisplay must not feed back into Total")
	}
}
