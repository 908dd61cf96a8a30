package location

import (
	"context"
)

// FakeTransport is an in-memory Transport for deterministic unit tests.
type FakeTransport struct {
	Payload map[string]interface{}
	Err     error
	Lookups int
}

// Lookup implements Transport.
func (t *FakeTransport) Lookup(context.Context) (map[string]interface{}, error) {
	t.Lookups++
	if t.Err != nil {
		return nil, t.Err
	}
	return t.Payload, nil
}
