package pagination

import (
	"errors"
	"testing"

	"github.com/taman-kehati/taman-kehati/internal/validation"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int
		wantOffset     int
		wantTotalPages int
		wantErr        bool
	}{
		{"first page", 1, 10, 25, 0, 3, false},
		{"middle page", 2, 10, 25, 10, 3, false},
		{"last partial page", 3, 10, 25, 20, 3, false},
		{"exact division", 2, 5, 10, 5, 2, false},
		{"empty set", 1, 10, 0, 0, 0, false},
		{"page beyond last is allowed", 99, 10, 25, 980, 3, false},
		{"single row", 1, 20, 1, 0, 1, false},
		{"zero page", 0, 10, 5, 0, 0, true},
		{"negative page", -1, 10, 5, 0, 0, true},
		{"zero limit", 1, 0, 5, 0, 0, true},
		{"negative total", 1, 10, -1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.page, tt.limit, tt.total)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Paginate(%d, %d, %d) error = %v, wantErr %v",
					tt.page, tt.limit, tt.total, err, tt.wantErr)
			}
			if tt.wantErr {
				var ve *validation.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %v, want *validation.ValidationError", err)
				}
				return
			}
			if got.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", got.Offset, tt.wantOffset)
			}
			if got.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantTotalPages)
			}
			if got.Page != tt.page || got.Limit != tt.limit || got.Total != tt.total {
				t.Errorf("echoed fields = (%d,%d,%d), want (%d,%d,%d)",
					got.Page, got.Limit, got.Total, tt.page, tt.limit, tt.total)
			}
		})
	}
}
