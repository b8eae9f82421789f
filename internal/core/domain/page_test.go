package domain

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestDefaults(t *testing.T) {
	var page PageRequest
	assert.Equal(t, int64(math.MaxInt64), page.CursorOrMax())
	assert.Equal(t, int32(10), page.Limit())

	cursor := int64(55)
	size := int32(3)
	page = PageRequest{Cursor: &cursor, Size: &size}
	assert.Equal(t, int64(55), page.CursorOrMax())
	assert.Equal(t, int32(3), page.Limit())
}

func TestMapPageKeepsCursor(t *testing.T) {
	cursor := int64(9)
	page := PageResponse[int]{Data: []int{1, 2, 3}, NextCursor: &cursor, Size: 3}

	mapped := MapPage(page, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, mapped.Data)
	assert.Equal(t, &cursor, mapped.NextCursor)
	assert.Equal(t, int32(3), mapped.Size)
}
