package handlers

import "testing"

func TestParsePageNumberFallsBackToOne(t *testing.T) {
	tests := []string{"", "  ", "abc", "0", "-3", "1.5"}
	for _, raw := range tests {
		if got := parsePageNumber(raw); got != 1 {
			t.Fatalf("expected page 1 for input %q, got %d", raw, got)
		}
	}
}

func TestParsePageNumberAcceptsValidPages(t *testing.T) {
	if got := parsePageNumber("3"); got != 3 {
		t.Fatalf("expected page 3, got %d", got)
	}
	if got := parsePageNumber(" 12 "); got != 12 {
		t.Fatalf("expected page 12, got %d", got)
	}
}

func TestTotalPagesRoundsUp(t *testing.T) {
	tests := []struct {
		count, pageSize, want int64
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{18, 9, 2},
		{19, 9, 3},
		{41, 10, 5},
	}
	for _, tt := range tests {
		if got := totalPages(tt.count, tt.pageSize); got != tt.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tt.count, tt.pageSize, got, tt.want)
		}
	}
}

func TestTotalPagesRejectsZeroPageSize(t *testing.T) {
	if got := totalPages(10, 0); got != 0 {
		t.Fatalf("expected 0 pages for pageSize=0, got %d", got)
	}
}
