// Package catalog turns a worker index into the concrete parameter set for one
// probe. The query list and the shared search parameters are fixed for the
// whole run.
package catalog

import (
	"errors"
	"net/url"
	"strconv"
)

// DefaultQueries is the seed list used when no catalog file is configured.
var DefaultQueries = []string{
	"copec",
	"restaurant santiago",
	"pharmacy chile",
	"bank santiago",
	"hospital chile",
	"shopping mall",
	"gas station",
	"coffee shop",
	"supermarket",
	"hotel santiago",
}

// Shared holds the static parameters attached to every probe.
type Shared struct {
	Key      string
	Location string
	Radius   int
	Language string
}

// Params is the full parameter set for a single probe.
type Params struct {
	Query    string
	Key      string
	Location string
	Radius   int
	Language string
}

// Values encodes the parameter set as URL query values.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("query", p.Query)
	v.Set("key", p.Key)
	v.Set("location", p.Location)
	v.Set("radius", strconv.Itoa(p.Radius))
	v.Set("language", p.Language)
	return v
}

// Catalog is an immutable query list plus the run's shared parameters.
type Catalog struct {
	queries []string
	shared  Shared
}

// New builds a catalog from the given query list. The list is copied so later
// mutation by the caller cannot affect the run.
func New(queries []string, shared Shared) (*Catalog, error) {
	if len(queries) == 0 {
		return nil, errors.New("catalog requires at least one query")
	}
	return &Catalog{
		queries: append([]string(nil), queries...),
		shared:  shared,
	}, nil
}

// Len returns the number of queries in the catalog.
func (c *Catalog) Len() int {
	return len(c.queries)
}

// ParamsFor deterministically selects the query for a 1-based worker index by
// cycling through the list, and returns it with the shared parameters.
func (c *Catalog) ParamsFor(workerID int) Params {
	idx := (workerID - 1) % len(c.queries)
	if idx < 0 {
		idx += len(c.queries)
	}
	return Params{
		Query:    c.queries[idx],
		Key:      c.shared.Key,
		Location: c.shared.Location,
		Radius:   c.shared.Radius,
		Language: c.shared.Language,
	}
}
