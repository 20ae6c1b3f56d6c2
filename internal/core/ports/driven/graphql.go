package driven

import (
	"context"
	"encoding/json"
)

// GraphQLResponse is the raw outcome of one GraphQL request. The body is
// kept undecoded so callers can unmarshal into their own query shapes and
// inspect the top-level errors array themselves.
type GraphQLResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a success status.
func (r *GraphQLResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into v.
func (r *GraphQLResponse) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// GraphQLExecutor executes a single GraphQL request. A non-nil error means
// the request never produced a usable response (transport failure); API
// level failures are reported through the response status and body instead.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error)
}
