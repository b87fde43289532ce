// Package query translates the flat list-endpoint parameters into a Mongo
// filter, sort, and offset-based pagination window.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"product-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Params is the flat parameter set of GET /api/products.
type Params struct {
	Search   string
	Ratings  string
	PriceMin *float64
	PriceMax *float64
	Category string
	Colours  []string
	Variants []string
	Size     []string
	Sort     string
	Page     int64
	Limit    int64
}

// sortOptions maps the nine recognized sort keys to a field direction.
// Anything else yields natural order.
var sortOptions = map[string]bson.D{
	"name":          {{Key: "name", Value: 1}},
	"priceAsc":      {{Key: "price", Value: 1}},
	"priceDesc":     {{Key: "price", Value: -1}},
	"createdAtAsc":  {{Key: "createdAt", Value: 1}},
	"createdAtDesc": {{Key: "createdAt", Value: -1}},
	"updatedAtAsc":  {{Key: "updatedAt", Value: 1}},
	"updatedAtDesc": {{Key: "updatedAt", Value: -1}},
	"ratingsAsc":    {{Key: "ratings", Value: 1}},
	"ratingsDesc":   {{Key: "ratings", Value: -1}},
}

// Parse builds Params from a request query string. Malformed numeric values
// drop the corresponding bound or fall back to the default, they never error.
func Parse(values url.Values) Params {
	p := Params{
		Search:   values.Get("search"),
		Ratings:  values.Get("ratings"),
		Category: values.Get("category"),
		Colours:  listParam(values, "colours"),
		Variants: listParam(values, "variants"),
		Size:     listParam(values, "size"),
		Sort:     values.Get("sort"),
		Page:     DefaultPage,
		Limit:    DefaultLimit,
	}

	if raw := values.Get("priceMin"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			p.PriceMin = &f
		}
	}
	if raw := values.Get("priceMax"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			p.PriceMax = &f
		}
	}
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 1 {
			p.Limit = n
		}
	}

	return p
}

// listParam accepts both repeated keys (?colours=red&colours=blue) and a
// single comma-separated value (?colours=red,blue).
func listParam(values url.Values, key string) []string {
	raw := values[key]
	if len(raw) == 0 {
		return nil
	}

	var out []string
	for _, v := range raw {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// Filter builds the Mongo filter document.
func (p Params) Filter() bson.M {
	filter := bson.M{}

	if p.Search != "" {
		filter["name"] = primitive.Regex{Pattern: p.Search, Options: "i"}
	}

	if p.Ratings != "" {
		if min, err := strconv.ParseFloat(p.Ratings, 64); err == nil {
			filter["ratings"] = bson.M{"$gte": min}
		}
	}

	if p.PriceMin != nil || p.PriceMax != nil {
		price := bson.M{}
		if p.PriceMin != nil {
			price["$gte"] = *p.PriceMin
		}
		if p.PriceMax != nil {
			price["$lte"] = *p.PriceMax
		}
		filter["price"] = price
	}

	// Attribute filters are scoped to the category they belong to:
	// electronics carry variants, clothing carries sizes, both carry colours.
	switch p.Category {
	case model.CategoryElectronics:
		if len(p.Colours) > 0 {
			filter["colours"] = bson.M{"$in": p.Colours}
		}
		if len(p.Variants) > 0 {
			filter["variants"] = bson.M{"$in": p.Variants}
		}
	case model.CategoryClothing:
		if len(p.Colours) > 0 {
			filter["colours"] = bson.M{"$in": p.Colours}
		}
		if len(p.Size) > 0 {
			filter["size"] = bson.M{"$in": p.Size}
		}
	}

	return filter
}

// SortDoc returns the sort document for the requested key, or nil for
// natural order when the key is absent or unrecognized.
func (p Params) SortDoc() bson.D {
	return sortOptions[p.Sort]
}

// Skip returns the offset of the requested page.
func (p Params) Skip() int64 {
	return (p.Page - 1) * p.Limit
}
