package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, PageSize: DefaultPageSize}, PageRequest{Page: 3, PageSize: 500}.Normalize())
	assert.Equal(t, 40, PageRequest{Page: 3, PageSize: 20}.Offset())
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 1, NewPage[int](nil, 0, PageRequest{Page: 1, PageSize: 10}).TotalPages())
	assert.Equal(t, 3, NewPage([]int{1}, 21, PageRequest{Page: 3, PageSize: 10}).TotalPages())
	assert.NotNil(t, NewPage[string](nil, 0, PageRequest{}).Items)
}
