// Package query builds MongoDB find parameters from raw URL query values.
// Filter, sort, field selection and pagination compose into a single lazy
// description; no I/O happens until a repository executes the result.
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPage  = 1
	defaultLimit = 100
)

// reserved keys drive sorting and pagination and are never filter criteria.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// opKey matches keys of the form field[gte] produced by query strings like
// price[gte]=500.
var opKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\[(gte|gt|lte|lt)\]$`)

// Features assembles a Mongo query from URL parameters. The four transform
// methods mutate and return the receiver so calls chain in the conventional
// filter-sort-fields-paginate order.
type Features struct {
	values     url.Values
	filter     bson.M
	sort       bson.D
	projection bson.M
	skip       int64
	limit      int64
}

// New creates a Features builder over raw URL query values.
func New(values url.Values) *Features {
	return &Features{
		values: values,
		filter: bson.M{},
		limit:  defaultLimit,
	}
}

// Filter turns non-reserved parameters into match criteria. Keys of the form
// field[op] with op in gte/gt/lte/lt become range conditions; everything else
// is an exact match. Numeric and boolean literals are coerced so comparisons
// against stored numbers behave as expected.
func (f *Features) Filter() *Features {
	for key, vals := range f.values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		val := vals[0]
		if m := opKey.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			cond, ok := f.filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
			}
			cond[op] = coerce(val)
			f.filter[field] = cond
			continue
		}
		f.filter[key] = coerce(val)
	}
	return f
}

// Sort parses the comma-separated sort parameter; a leading '-' means
// descending. Without a sort parameter results come back descending by name.
func (f *Features) Sort() *Features {
	raw := f.values.Get("sort")
	if raw == "" {
		f.sort = bson.D{{Key: "name", Value: -1}}
		return f
	}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		f.sort = append(f.sort, bson.E{Key: field, Value: dir})
	}
	return f
}

// LimitFields restricts the returned document to the comma-separated fields
// parameter. A leading '-' excludes a field instead. Without the parameter
// the full document is returned.
func (f *Features) LimitFields() *Features {
	raw := f.values.Get("fields")
	if raw == "" {
		return f
	}
	f.projection = bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.HasPrefix(field, "-") {
			f.projection[field[1:]] = 0
			continue
		}
		f.projection[field] = 1
	}
	return f
}

// Paginate computes skip/limit from the page and limit parameters. Invalid or
// non-positive values silently fall back to page 1 and limit 100; this quirk
// is deliberate and covered by tests.
func (f *Features) Paginate() *Features {
	page := positiveIntOr(f.values.Get("page"), defaultPage)
	limit := positiveIntOr(f.values.Get("limit"), defaultLimit)
	f.skip = int64(page-1) * int64(limit)
	f.limit = int64(limit)
	return f
}

// Build returns the assembled filter document and find options.
func (f *Features) Build() (bson.M, *options.FindOptions) {
	opts := options.Find().SetSkip(f.skip).SetLimit(f.limit)
	if len(f.sort) > 0 {
		opts.SetSort(f.sort)
	}
	if len(f.projection) > 0 {
		opts.SetProjection(f.projection)
	}
	return f.filter, opts
}

func positiveIntOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// coerce converts a raw parameter value into the type Mongo should compare
// with: number, boolean, or string.
func coerce(val string) any {
	if n, err := strconv.ParseFloat(val, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}
