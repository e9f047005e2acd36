package pagination

import (
	"fmt"
	"math"
)

// Summarize returns the page count and a "from-to of total" label for a
// list response.
func Summarize(total int64, page, limit int) (totalPages int, showing string) {
	if limit <= 0 {
		return 0, "0 of 0"
	}
	totalPages = int(math.Ceil(float64(total) / float64(limit)))
	if total == 0 {
		return totalPages, "0 of 0"
	}
	from := (page-1)*limit + 1
	to := min(page*limit, int(total))
	if from > to {
		return totalPages, fmt.Sprintf("0 of %d", total)
	}
	return totalPages, fmt.Sprintf("%d-%d of %d", from, to, total)
}
