package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tekashi/storefront/internal/api/request"
)

// filter accumulates WHERE conditions with positional arguments. A "?" in a
// condition is replaced by the next $n placeholder.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(f.args))))
}

func (f *filter) addRaw(cond string) {
	f.conds = append(f.conds, cond)
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page appends ORDER BY, LIMIT and OFFSET for params. Sort keys outside
// allowed fall back to the first allowed column. A qualified sort column
// ("f.created_at") qualifies the id tiebreaker with the same alias.
func (f *filter) page(params request.ListParams, allowed ...string) string {
	sortCol := allowed[0]
	for _, c := range allowed {
		if params.Sort == c {
			sortCol = c
		}
	}
	order := "DESC"
	if params.Order == "asc" {
		order = "ASC"
	}
	f.args = append(f.args, params.Limit+1)
	limitIdx := len(f.args)
	f.args = append(f.args, cursorOffset(params.Cursor))
	offsetIdx := len(f.args)
	idCol := "id"
	if i := strings.IndexByte(sortCol, '.'); i > 0 {
		idCol = sortCol[:i+1] + "id"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s LIMIT $%d OFFSET $%d", sortCol, order, idCol, limitIdx, offsetIdx)
}

// cursorOffset decodes an opaque list cursor into a row offset.
func cursorOffset(cursor string) int {
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// trimPage drops the lookahead row and reports whether more rows exist.
func trimPage[T any](items []T, limit int) ([]T, bool) {
	if len(items) > limit {
		return items[:limit], true
	}
	return items, false
}

// qualify prefixes every column of a comma separated list with alias.
func qualify(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
