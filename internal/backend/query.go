package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
)

// Query is a single call to the data API built with [Client.From]. Builder
// methods mutate and return the receiver; a Query is not reused after
// Execute.
type Query struct {
	client *Client
	table  string

	method    string
	params    url.Values
	body      any
	single    bool
	returning bool
	count     bool
}

// From starts a query against table.
func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		method: http.MethodGet,
		params: url.Values{},
	}
}

// Select sets the columns to return. On Insert or Update it asks the
// backend to return the written rows.
func (q *Query) Select(columns string) *Query {
	columns = strings.Join(strings.Fields(columns), "")
	if columns == "" {
		columns = "*"
	}
	q.params.Set("select", columns)
	if q.method != http.MethodGet {
		q.returning = true
	}
	return q
}

// Insert turns the query into an insert of rows (a struct, map or slice).
func (q *Query) Insert(rows any) *Query {
	q.method = http.MethodPost
	q.body = rows
	if q.params.Has("select") {
		q.returning = true
	}
	return q
}

// Update turns the query into a partial update with values. Filters select
// the rows to change.
func (q *Query) Update(values any) *Query {
	q.method = http.MethodPatch
	q.body = values
	if q.params.Has("select") {
		q.returning = true
	}
	return q
}

// Delete turns the query into a delete of the filtered rows.
func (q *Query) Delete() *Query {
	q.method = http.MethodDelete
	return q
}

// Eq keeps rows where column equals value.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

// In keeps rows where column is one of values.
func (q *Query) In(column string, values ...string) *Query {
	quoted := make([]string, len(values))
	for i, v := range values {
		if strings.ContainsAny(v, ",()\"") {
			v = strconv.Quote(v)
		}
		quoted[i] = v
	}
	q.params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	order := column + "." + dir
	if prev := q.params.Get("order"); prev != "" {
		order = prev + "," + order
	}
	q.params.Set("order", order)
	return q
}

// Limit caps the number of rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Offset skips the first n rows.
func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", strconv.Itoa(n))
	return q
}

// Single expects exactly one row and returns it as an object instead of an
// array. Zero or several rows fail with [adapter.ErrNotAcceptable].
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Count asks for the exact number of matching rows in [Result.Count].
func (q *Query) Count() *Query {
	q.count = true
	return q
}

// Result is the outcome of [Query.Execute].
type Result struct {
	Status int
	Data   json.RawMessage
	// Count is -1 unless Count was requested.
	Count int
}

// Decode unmarshals the returned rows into dst.
func (r Result) Decode(dst any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("%w: empty body", adapter.ErrDecodeResponse)
	}
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return fmt.Errorf("%w: %w", adapter.ErrDecodeResponse, err)
	}
	return nil
}

// Execute sends the query authorised with the current access token, or with
// the public key when nobody is signed in.
func (q *Query) Execute(ctx context.Context) (Result, error) {
	if q.table == "" {
		return Result{}, ErrEmptyTable
	}

	token, err := q.client.accessToken(ctx)
	if err != nil {
		return Result{}, err
	}

	resp, err := q.client.adapter.Rest(ctx, adapter.RestRequest{
		Method:               q.method,
		Table:                q.table,
		Query:                q.params,
		Body:                 q.body,
		AccessToken:          token,
		Single:               q.single,
		ReturnRepresentation: q.returning,
		Count:                q.count,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Status: resp.Status, Data: resp.Body, Count: resp.Total}, nil
}

// ExecuteInto runs the query and decodes the rows into dst.
func (q *Query) ExecuteInto(ctx context.Context, dst any) error {
	res, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	return res.Decode(dst)
}
