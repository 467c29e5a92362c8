package repository

import (
	"testing"

	"github.com/shenikar/irdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestWhere_NumbersPlaceholders(t *testing.T) {
	w := &where{}
	w.add("organization_id = ?", "org")
	w.add("status = ?", "open")
	w.addSearch("db_01%", "title", "description")

	assert.Equal(t,
		" WHERE organization_id = $1 AND status = $2 AND (title ILIKE $3 OR description ILIKE $4)",
		w.String())
	assert.Equal(t, []any{"org", "open", `%db\_01\%%`, `%db\_01\%%`}, w.args)
}

func TestWhere_EmptyAndBlankSearch(t *testing.T) {
	w := &where{}
	w.addSearch("   ", "name")

	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestWhere_Page(t *testing.T) {
	w := &where{}
	w.add("organization_id = ?", "org")

	limit, args := w.page(models.PageRequest{Page: 3, PageSize: 10})

	assert.Equal(t, " LIMIT $2 OFFSET $3", limit)
	assert.Equal(t, []any{"org", 10, 20}, args)
	assert.Len(t, w.args, 1, "paging must not leak into the count arguments")
}

func TestWhere_PageNormalizes(t *testing.T) {
	w := &where{}

	limit, args := w.page(models.PageRequest{Page: 0, PageSize: 1000})

	assert.Equal(t, " LIMIT $1 OFFSET $2", limit)
	assert.Equal(t, []any{models.DefaultPageSize, 0}, args)
}

func TestNonNil(t *testing.T) {
	var tags []string
	assert.NotNil(t, nonNil(tags))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
