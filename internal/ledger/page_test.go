package ledger

import "testing"

func TestParsePage(t *testing.T) {
	tests := []struct {
		limit, skip string
		want        Page
	}{
		{"", "", Page{Limit: 50, Skip: 0}},
		{"10", "20", Page{Limit: 10, Skip: 20}},
		{"0", "-5", Page{Limit: 50, Skip: 0}},
		{"abc", "x", Page{Limit: 50, Skip: 0}},
		{"100000", "3", Page{Limit: MaxLimit, Skip: 3}},
	}
	for _, tt := range tests {
		if got := ParsePage(tt.limit, tt.skip); got != tt.want {
			t.Errorf("ParsePage(%q, %q) = %+v, want %+v", tt.limit, tt.skip, got, tt.want)
		}
	}
}

func TestPagesIsCeiling(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{7, 3, 3},
	}
	for _, tt := range tests {
		if got := newPagination(tt.total, Page{Limit: tt.limit}).Pages; got != tt.want {
			t.Errorf("pages(total=%d, limit=%d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
