// Package scope carries caller attributes (document id, verse ref and the
// like) through a context so the locator can attach them to its logs
package scope

import "context"

// Scope holds cross boundary attributes
type Scope struct {
	Values map[string]string
}

type key struct{}

// With returns a child context whose scope is the parent's merged with kv.
// The parent scope is never mutated
func With(ctx context.Context, kv map[string]string) context.Context {
	parent := From(ctx)
	s := Scope{Values: make(map[string]string, len(parent.Values)+len(kv))}
	for k, v := range parent.Values {
		s.Values[k] = v
	}
	for k, v := range kv {
		s.Values[k] = v
	}
	return context.WithValue(ctx, key{}, s)
}

// Get returns a value and a boolean
func Get(ctx context.Context, k string) (string, bool) {
	v, ok := From(ctx).Values[k]
	return v, ok
}

// From returns scope on ctx or an empty one
func From(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{Values: map[string]string{}}
	}
	s, _ := ctx.Value(key{}).(Scope)
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	return s
}

// Fields returns the values in the shape zerolog's Event.Fields accepts
func (s Scope) Fields() map[string]any {
	out := make(map[string]any, len(s.Values))
	for k, v := range s.Values {
		out[k] = v
	}
	return out
}
