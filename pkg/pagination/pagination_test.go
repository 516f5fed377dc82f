package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"/?limit=10&offset=40", 10, 40},
		{"/", DefaultLimit, 0},
		{"/?limit=0", DefaultLimit, 0},
		{"/?limit=5000", MaxLimit, 0},
		{"/?offset=-3", DefaultLimit, 0},
	}
	for _, tt := range tests {
		got := paramsFor(tt.target)
		if got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
			t.Errorf("FromContext(%q) = %+v, want limit %d offset %d",
				tt.target, got, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !resp.HasMore {
		t.Error("expected HasMore with 10 total and first page of 3")
	}
	resp = NewResponse([]int{1}, 1, 20, 0)
	if resp.HasMore {
		t.Error("expected HasMore false when everything fits one page")
	}
}
