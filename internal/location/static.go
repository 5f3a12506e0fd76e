package location

import "context"

// StaticProvider is a PositionProvider backed by a fixed value. With a nil
// Fix it always fails, which makes Resolve fall through to the default
// resolution; server deployments without a device position source use it
// that way, tests use it with a value.
type StaticProvider struct {
	Fix *Fix
}

// Locate implements PositionProvider.
func (p *StaticProvider) Locate(context.Context) (*Fix, error) {
	if p.Fix == nil {
		return nil, ErrLocationUnavailable
	}
	f := *p.Fix
	return &f, nil
}
