package engine

import (
	"math"
)

func GetNumberOfPages(total int, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// ClampPage keeps page within [1, numberOfPages]. An empty result set has
// the single page 1.
func ClampPage(page int, numberOfPages int) int {
	if page > numberOfPages {
		page = numberOfPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

func SliceSearchResults(results []SearchResult, currentPage int, pageSize int) []SearchResult {
	total := len(results)
	low := (currentPage - 1) * pageSize
	high := currentPage * pageSize
	if low > total {
		low = total
	}
	if high > total {
		high = total
	}
	return results[low:high]
}
