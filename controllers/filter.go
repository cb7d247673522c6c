package controllers

import (
	"database/sql"
	"net/http"
	"strings"

	"outreach-portal/utils"
)

const pageSize = 100

// Filter accumulates WHERE predicates once, so the count query and the page
// query are always built from the same clause and can never disagree.
type Filter struct {
	conds []string
	args  []interface{}
}

func (f *Filter) Equals(expr string, value interface{}) {
	f.conds = append(f.conds, expr+" = ?")
	f.args = append(f.args, value)
}

// Search appends one OR group: case-insensitive substring matches over
// likeExprs, plus exact matches over exactExprs (used when the term looks
// numeric, so "50" also finds a 50.00 donation).
func (f *Filter) Search(term string, likeExprs []string, exactExprs ...string) {
	pattern := "%" + strings.ToLower(term) + "%"
	var ors []string
	for _, expr := range likeExprs {
		ors = append(ors, "LOWER("+expr+") LIKE ?")
		f.args = append(f.args, pattern)
	}
	for _, expr := range exactExprs {
		ors = append(ors, expr+" = ?")
		f.args = append(f.args, term)
	}
	f.conds = append(f.conds, "("+strings.Join(ors, " OR ")+")")
}

func (f *Filter) Clause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func (f *Filter) Args() []interface{} {
	return f.args
}

func countRows(db *sql.DB, from string, f *Filter) (int, error) {
	var total int
	err := db.QueryRow("SELECT COUNT(*) "+from+f.Clause(), f.Args()...).Scan(&total)
	return total, err
}

type Page struct {
	Number     int
	Size       int
	TotalRows  int
	TotalPages int
	Offset     int
	Query      string
}

func (p Page) Prev() int { return p.Number - 1 }
func (p Page) Next() int { return p.Number + 1 }

func newPage(r *http.Request, totalRows int) Page {
	number := 1
	if n, err := utils.StrToInt(r.URL.Query().Get("page")); err == nil && n > 0 {
		number = n
	}
	return Page{
		Number:     number,
		Size:       pageSize,
		TotalRows:  totalRows,
		TotalPages: (totalRows + pageSize - 1) / pageSize,
		Offset:     (number - 1) * pageSize,
		Query:      r.URL.Query().Get("q"),
	}
}
