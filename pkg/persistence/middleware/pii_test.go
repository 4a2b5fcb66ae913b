package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
)

func TestPII_MasksMatchingFields(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{"(?i)password", "^ssn$"})(inner)

	profile := domain.Serialized(domain.FormatJSON,
		`{"id":7,"Password":"hunter2","owner":{"ssn":"123","name":"ana"},"cards":[{"ssn":"9"}]}`)
	prefs := domain.Serialized(domain.FormatYAML, "theme: dark\npassword: x\n")
	snap := &domain.StackSnapshot{Entries: []domain.EntryRecord{
		{ScreenKey: "home-1", Kind: "home"},
		{ScreenKey: "profile-2", Kind: "profile", Payload: &profile},
		{ScreenKey: "prefs-3", Kind: "prefs", Payload: &prefs},
	}}

	require.NoError(t, store.Save(ctx, "s1", snap))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":7,"Password":"***","owner":{"ssn":"***","name":"ana"},"cards":[{"ssn":"***"}]}`,
		loaded.Entries[1].Payload.Encoded)
	assert.Equal(t, domain.FormatJSON, loaded.Entries[1].Payload.Format)
	assert.Contains(t, loaded.Entries[2].Payload.Encoded, "theme: dark")
	assert.Contains(t, loaded.Entries[2].Payload.Encoded, "***")
	assert.NotContains(t, loaded.Entries[2].Payload.Encoded, "password: x")

	// The caller's snapshot is untouched.
	assert.Contains(t, snap.Entries[1].Payload.Encoded, "hunter2")
}

func TestPII_LeavesNonObjectsAlone(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{"password"})(inner)

	p := domain.Serialized(domain.FormatJSON, `"password"`)
	require.NoError(t, store.Save(ctx, "s1", &domain.StackSnapshot{Entries: []domain.EntryRecord{
		{ScreenKey: "x-1", Kind: "x", Payload: &p},
	}}))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, `"password"`, loaded.Entries[0].Payload.Encoded)
}

func TestPII_UnknownFormat(t *testing.T) {
	store := middleware.NewPIIMiddleware([]string{"password"})(memory.NewStore())
	p := domain.Serialized("toml", `password = "x"`)
	err := store.Save(context.Background(), "s1", &domain.StackSnapshot{Entries: []domain.EntryRecord{
		{ScreenKey: "x-1", Kind: "x", Payload: &p},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mask x-1")
}

func TestChain_RedactsBeforeEncrypting(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	key := newKey(t)
	store := middleware.Chain(inner,
		middleware.NewPIIMiddleware([]string{"password"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	require.NoError(t, store.Save(ctx, "s1", sampleSnapshot()))

	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "__encrypted__", raw.Entries[0].Kind)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"password":"***"}`, loaded.Entries[1].Payload.Encoded)
}
