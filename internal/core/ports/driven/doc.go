// Package driven defines the capabilities the core depends on: executing
// GraphQL requests, resolving secrets, providing tokens and writing the
// final artifact. Adapters implement these interfaces; the core never
// constructs them itself.
package driven
