package repository

import (
	"strconv"
	"strings"

	"github.com/shenikar/irdesk/internal/models"
)

// where accumulates AND-ed conditions with positional pgx arguments.
// Every "?" in a condition is replaced by the next argument placeholder.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// addSearch matches term case-insensitively against any of columns.
func (w *where) addSearch(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE ?"
	}
	pattern := "%" + escapeLike(term) + "%"
	args := make([]any, len(columns))
	for i := range args {
		args[i] = pattern
	}
	w.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page returns the LIMIT/OFFSET clause and the arguments including paging.
func (w *where) page(p models.PageRequest) (string, []any) {
	p = p.Normalize()
	n := len(w.args)
	args := append(append([]any(nil), w.args...), p.PageSize, p.Offset())
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
