package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page, limit int
		wantPages   int
		wantShowing string
	}{
		{"empty", 0, 1, 20, 0, "0 of 0"},
		{"first page", 45, 1, 20, 3, "1-20 of 45"},
		{"last partial page", 45, 3, 20, 3, "41-45 of 45"},
		{"past the end", 45, 4, 20, 3, "0 of 45"},
		{"exact fit", 40, 2, 20, 2, "21-40 of 40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, showing := Summarize(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.wantPages, pages)
			assert.Equal(t, tt.wantShowing, showing)
		})
	}
}
