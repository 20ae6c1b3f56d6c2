// Package githubql executes GraphQL queries against the GitHub API.
//
// The client speaks raw HTTP rather than a typed GraphQL binding because the
// retry layer above it decides what to do from the HTTP status code and the
// response body's top-level errors array, both of which typed bindings hide.
//
// # Authentication
//
// Requests authenticate with a bearer token obtained from a
// [driven.TokenProvider]. The token is resolved lazily on the first request,
// so constructing a client never blocks on credential lookup.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits requests to approximately
//     1.2 requests per second, staying well under the 5,000/hour limit.
//
//  2. Reactive handling: the client monitors X-RateLimit-Remaining and
//     X-RateLimit-Reset headers. When the remaining quota drops below a
//     buffer, it waits until the reset time before continuing.
//
// A 429 response, or a 403 with the quota exhausted, is surfaced as a
// [RateLimitError] rather than a plain response.
package githubql
