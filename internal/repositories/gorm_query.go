package repositories

import (
	"strings"

	"garden/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// whereParams applies search and filters. Column names come from the query schema
// whitelist, never from the request.
func whereParams(p query.Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.SearchTerm != "" && len(p.Search) > 0 {
			term := "%" + escapeLike(strings.ToLower(p.SearchTerm)) + "%"
			conds := make([]string, 0, len(p.Search))
			args := make([]any, 0, len(p.Search))
			for _, f := range p.Search {
				conds = append(conds, "LOWER("+f.Column+") LIKE ? ESCAPE '\\'")
				args = append(args, term)
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
		for _, f := range p.Filters {
			db = db.Where(clause.Eq{Column: clause.Column{Name: f.Field.Column}, Value: f.Value})
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern escaped with '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// pageParams applies ordering, projection and the page window.
func pageParams(p query.Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range p.Sort {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field.Column}, Desc: s.Desc})
		}
		if len(p.Fields) > 0 {
			columns := make([]string, len(p.Fields))
			for i, f := range p.Fields {
				columns[i] = f.Column
			}
			db = db.Select(columns)
		}
		if p.Limit > 0 {
			db = db.Offset(p.Offset()).Limit(p.Limit)
		}
		return db
	}
}
