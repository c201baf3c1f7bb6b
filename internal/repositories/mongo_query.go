package repositories

import (
	"regexp"

	"garden/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoFilter builds the document filter for p on top of base.
func mongoFilter(base bson.M, p query.Params) bson.M {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}
	if p.SearchTerm != "" && len(p.Search) > 0 {
		pattern := regexp.QuoteMeta(p.SearchTerm)
		or := make(bson.A, 0, len(p.Search))
		for _, f := range p.Search {
			or = append(or, bson.M{f.DocKey: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	for _, f := range p.Filters {
		filter[f.Field.DocKey] = f.Value
	}
	return filter
}

// mongoFindOptions translates ordering, projection and the page window.
func mongoFindOptions(p query.Params) *options.FindOptions {
	opts := options.Find()
	if len(p.Sort) > 0 {
		sort := make(bson.D, 0, len(p.Sort))
		for _, s := range p.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field.DocKey, Value: dir})
		}
		opts.SetSort(sort)
	}
	if len(p.Fields) > 0 {
		projection := bson.M{}
		for _, f := range p.Fields {
			projection[f.DocKey] = 1
		}
		opts.SetProjection(projection)
	}
	if p.Limit > 0 {
		opts.SetSkip(int64(p.Offset())).SetLimit(int64(p.Limit))
	}
	return opts
}
