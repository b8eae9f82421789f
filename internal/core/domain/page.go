package domain

import "math"

const defaultPageSize = 10

// PageRequest drives keyset pagination: Cursor is the id of the last row the
// caller has seen, Size the page size. Both are optional.
type PageRequest struct {
	Cursor *int64 `json:"cursor"`
	Size   *int32 `json:"size"`
}

// CursorOrMax returns the exclusive upper bound for the next page. An absent
// cursor means an unbounded first page.
func (r PageRequest) CursorOrMax() int64 {
	if r.Cursor != nil {
		return *r.Cursor
	}
	return math.MaxInt64
}

func (r PageRequest) Limit() int32 {
	if r.Size != nil {
		return *r.Size
	}
	return defaultPageSize
}

// PageResponse holds one page of rows in descending id order. NextCursor is
// the id of the last row returned, absent when the page is empty.
type PageResponse[T any] struct {
	Data       []T    `json:"data"`
	NextCursor *int64 `json:"next_cursor"`
	Size       int32  `json:"size"`
}

// MapPage converts the rows of a page while keeping its cursor metadata.
func MapPage[T, U any](page PageResponse[T], fn func(T) U) PageResponse[U] {
	data := make([]U, 0, len(page.Data))
	for _, item := range page.Data {
		data = append(data, fn(item))
	}
	return PageResponse[U]{
		Data:       data,
		NextCursor: page.NextCursor,
		Size:       page.Size,
	}
}
