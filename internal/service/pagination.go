package service

import "math"

const (
	DefaultPageSize        = 10
	MaxPageSize            = 50
	DefaultCommentPageSize = 3
)

// normalizePage clamps page to at least 1 and size into [1, MaxPageSize],
// using def when size is unset.
func normalizePage(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func pageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// pageOffset is the number of items before page. It saturates at
// math.MaxInt, which every caller treats as past the end.
func pageOffset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return size * (page - 1)
}
