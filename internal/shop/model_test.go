package shop

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartContent(t *testing.T) {
	tests := []struct {
		name  string
		start CartContent
		apply func(c CartContent)
		want  CartContent
	}{
		{
			name:  "add to existing",
			start: CartContent{"foo": 42},
			apply: func(c CartContent) { c.Add("foo", 3) },
			want:  CartContent{"foo": 45},
		},
		{
			name:  "add new",
			start: CartContent{},
			apply: func(c CartContent) { c.Add("bar", 2) },
			want:  CartContent{"bar": 2},
		},
		{
			name:  "remove some",
			start: CartContent{"foo": 42},
			apply: func(c CartContent) { c.Remove("foo", 2) },
			want:  CartContent{"foo": 40},
		},
		{
			name:  "remove all drops key",
			start: CartContent{"foo": 42},
			apply: func(c CartContent) { c.Remove("foo", 42) },
			want:  CartContent{},
		},
		{
			name:  "remove more than held",
			start: CartContent{"foo": 1, "bar": 1},
			apply: func(c CartContent) { c.Remove("foo", 5) },
			want:  CartContent{"bar": 1},
		},
		{
			name:  "remove absent",
			start: CartContent{"bar": 1},
			apply: func(c CartContent) { c.Remove("foo", 1) },
			want:  CartContent{"bar": 1},
		},
		{
			name:  "prune",
			start: CartContent{"foo": 0, "bar": -1, "baz": 2},
			apply: func(c CartContent) { c.Prune() },
			want:  CartContent{"baz": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply(tt.start)
			assert.Equal(t, tt.want, tt.start)
		})
	}
}

func TestCartContent_ProductIDsSorted(t *testing.T) {
	c := CartContent{"c": 1, "a": 1, "b": 1}
	assert.Equal(t, []string{"a", "b", "c"}, c.ProductIDs())
}

func TestLineItemSubtotal(t *testing.T) {
	item := LineItem{Product: Product{Price: decimal.RequireFromString("0.10")}, Units: 3}
	assert.Equal(t, "0.30", item.Subtotal().StringFixed(2))
}
