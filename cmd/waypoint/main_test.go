package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidate(t *testing.T) {
	path := writeFile(t, `
routes: [{kind: home}, {kind: detail, params: {id: int}}]
root:
  stack:
    key: root
    children:
      - screen: {key: home, kind: home}
      - screen: {key: d, kind: detail, data: {id: 1}}
`)
	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, path, termenv.Ascii))
	assert.Equal(t, "Routes: [detail home]\n"+
		"* root stack(2)\n"+
		"    home [home]\n"+
		"  * d [detail]\n", buf.String())
}

func TestRunValidate_ListsEveryProblem(t *testing.T) {
	path := writeFile(t, `
routes: [{kind: detail, params: {id: int}}]
root:
  stack:
    key: root
    children:
      - screen: {kind: missing}
      - screen: {kind: detail, data: {id: nope}}
`)
	var buf bytes.Buffer
	assert.Error(t, runValidate(&buf, path, termenv.Ascii))
	assert.Contains(t, buf.String(), "Validation failed with 2 problem(s):\n")
	assert.Contains(t, buf.String(), "root.stack[0].screen")
	assert.Contains(t, buf.String(), "root.stack[1].screen.data")
}

func TestRunValidate_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runValidate(&buf, filepath.Join(t.TempDir(), "nope.yaml"), termenv.Ascii))
	assert.Contains(t, buf.String(), "Validation failed:")
}

func TestSnapshotMarkdown(t *testing.T) {
	p := domain.Serialized(domain.FormatJSON, `{"a":"x|y"}`)
	snap := &domain.StackSnapshot{
		SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Entries: []domain.EntryRecord{
			{ScreenKey: "home-1", Kind: "home"},
			{ScreenKey: "detail-2", Kind: "detail", Payload: &p, SavedState: []byte("abc")},
		},
	}

	md := snapshotMarkdown("alice", snap)
	assert.Contains(t, md, "# Session `alice`")
	assert.Contains(t, md, "Saved at 2026-01-02 03:04:05 UTC, 2 entries.")
	assert.Contains(t, md, "| 1 | detail-2 | detail | `{\"a\":\"x\\|y\"}` | 3 bytes |\n| 0 | home-1 | home | - | - |\n")
}

func TestStoreMiddlewares(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{2}, 32))

	mws, err := storeMiddlewares(nil, "", "")
	require.NoError(t, err)
	assert.Empty(t, mws)

	mws, err = storeMiddlewares([]string{"(?i)password"}, key, old+", ")
	require.NoError(t, err)
	assert.Len(t, mws, 2)

	_, err = storeMiddlewares([]string{"("}, "", "")
	assert.ErrorContains(t, err, "--redact")

	_, err = storeMiddlewares(nil, "not base64!", "")
	assert.ErrorContains(t, err, "WAYPOINT_ENCRYPTION_KEY")

	_, err = storeMiddlewares(nil, base64.StdEncoding.EncodeToString([]byte("short")), "")
	assert.ErrorContains(t, err, "32 bytes")

	_, err = storeMiddlewares(nil, key, "bad!")
	assert.ErrorContains(t, err, "WAYPOINT_ENCRYPTION_FALLBACK_KEYS")
}
