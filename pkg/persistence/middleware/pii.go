package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/waypoint/pkg/codec"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SnapshotStore
	codecs   *codec.Set
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks payload fields whose names
// match any of the patterns before the snapshot reaches the inner store.
// Nested objects are masked too. Restoring a masked entry yields the mask, so
// only use it for fields the destination can live without.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	codecs := codec.NewSet()
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, codecs: codecs, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snap *domain.StackSnapshot) error {
	// Work on a copy; the caller may keep using snap.
	cloned := snap.Clone()
	for i := range cloned.Entries {
		rec := &cloned.Entries[i]
		if rec.Payload == nil || !rec.Payload.IsEncoded() {
			continue
		}
		masked, err := m.mask(*rec.Payload)
		if err != nil {
			return fmt.Errorf("mask %s: %w", rec.ScreenKey, err)
		}
		rec.Payload = &masked
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) mask(p domain.Payload) (domain.Payload, error) {
	c, err := m.codecs.Lookup(p.Format)
	if err != nil {
		return p, err
	}
	var raw any
	if err := c.Decode(p.Encoded, &raw); err != nil {
		return p, err
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return p, nil
	}
	maskMap(fields, m.patterns)

	data, err := c.Encode(fields)
	if err != nil {
		return p, err
	}
	return domain.Serialized(p.Format, data), nil
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.StackSnapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if masked {
			continue
		}

		switch sub := v.(type) {
		case map[string]any:
			maskMap(sub, patterns)
		case []any:
			for _, item := range sub {
				if obj, ok := item.(map[string]any); ok {
					maskMap(obj, patterns)
				}
			}
		}
	}
}
