package driven

import "context"

// SecretResolver resolves a named secret to its value. Token exchange for
// API authorisation happens upstream of the core; the core only ever sees
// the resolved value.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}
