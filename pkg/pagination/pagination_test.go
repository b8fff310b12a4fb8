package pagination

import "testing"

func TestNormalizeClampsValues(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"defaults", Params{}, Params{Limit: DefaultLimit, Offset: 0}},
		{"negative", Params{Limit: -5, Offset: -3}, Params{Limit: DefaultLimit, Offset: 0}},
		{"capped", Params{Limit: 500, Offset: 20}, Params{Limit: MaxLimit, Offset: 20}},
		{"passthrough", Params{Limit: 25, Offset: 50}, Params{Limit: 25, Offset: 50}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestNewPageNeverReturnsNilItems(t *testing.T) {
	page := NewPage[int](nil, 0, Params{Limit: 10})
	if page.Items == nil {
		t.Fatal("items must be an empty slice, not nil")
	}
	if page.Total != 0 || page.Limit != 10 {
		t.Fatalf("unexpected page %+v", page)
	}
}
