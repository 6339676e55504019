package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/expenses/", 1, 20},
		{"explicit values", "/expenses/?page=3&limit=50", 3, 50},
		{"oversized limit falls back", "/expenses/?limit=500", 1, 20},
		{"invalid values fall back", "/expenses/?page=abc&limit=-2", 1, 20},
		{"zero page falls back", "/expenses/?page=0", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit := GetPaginationParams(r)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
