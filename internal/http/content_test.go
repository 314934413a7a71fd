package httpapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

func delta(id string, units int) shop.CartDelta {
	return shop.CartDelta{ProductID: id, Units: units}
}

func TestDecodeCartDeltas(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []shop.CartDelta
	}{
		{
			name: "document order",
			body: `{"content": {"zeta": 1, "alpha": -2, "mid": 0}}`,
			want: []shop.CartDelta{delta("zeta", 1), delta("alpha", -2), delta("mid", 0)},
		},
		{
			name: "duplicates kept",
			body: `{"content": {"foo": 1, "foo": 2}}`,
			want: []shop.CartDelta{delta("foo", 1), delta("foo", 2)},
		},
		{
			name: "other fields ignored",
			body: `{"_links": {"self": {"href": "x"}}, "content": {"foo": 3}, "sessionId": "s1"}`,
			want: []shop.CartDelta{delta("foo", 3)},
		},
		{
			name: "null content",
			body: `{"content": null}`,
			want: []shop.CartDelta{},
		},
		{
			name: "no content",
			body: `{}`,
			want: []shop.CartDelta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCartDeltas(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCartDeltas_Invalid(t *testing.T) {
	bodies := []string{
		``,
		`[]`,
		`{"content": []}`,
		`{"content": {"foo": "1"}}`,
		`{"content": {"foo": 1.5}}`,
		`{"content": {"foo": 1}`,
	}
	for _, body := range bodies {
		_, err := decodeCartDeltas(strings.NewReader(body))
		assert.Error(t, err, body)
	}
}
