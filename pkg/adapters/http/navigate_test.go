package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint"
	inspector "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/schema"
	"github.com/aretw0/waypoint/pkg/session"
)

const navDefinition = `
routes:
  - kind: home
  - kind: detail
    params: {id: int}
root:
  stack:
    key: root
    children:
      - screen: {key: home, kind: home}
`

func navServer(t *testing.T) (*inspector.Server, *session.Manager) {
	t.Helper()
	doc, err := schema.Parse([]byte(navDefinition))
	require.NoError(t, err)
	eng, err := waypoint.FromDocument(doc)
	require.NoError(t, err)

	mgr := session.NewManager(memory.NewStore())
	srv := inspector.NewServer(mgr,
		inspector.WithGatherer(prometheus.NewRegistry()),
		inspector.WithNavigation(eng, mgr),
	)
	return srv, mgr
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, inspector.NavigateResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var resp inspector.NavigateResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestNavigate_PushAndBack(t *testing.T) {
	srv, mgr := navServer(t)
	h := srv.Handler()

	rec, resp := post(t, h, "/sessions/bob/navigate", `{"op":"push","kind":"detail","data":{"id":1}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, inspector.NavigateResponse{Moved: true, ScreenKey: "detail-2", Kind: "detail", Size: 2}, resp)

	snap, err := mgr.Load(t.Context(), "bob")
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2)
	assert.JSONEq(t, `{"id":1}`, snap.Entries[1].Payload.Encoded)

	rec, resp = post(t, h, "/sessions/bob/navigate", `{"op":"back"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Moved)
	assert.Equal(t, "home", resp.Kind)
	assert.Equal(t, 1, resp.Size)

	rec, resp = post(t, h, "/sessions/bob/navigate", `{"op":"back"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Moved)

	rec, resp = post(t, h, "/sessions/bob/navigate", `{"op":"clear","kind":"detail","data":{"id":5}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Size)
	assert.Equal(t, "detail", resp.Kind)
}

func TestNavigate_BadRequests(t *testing.T) {
	srv, mgr := navServer(t)
	h := srv.Handler()

	for name, body := range map[string]string{
		"malformed":      `{"op":`,
		"unknown op":     `{"op":"jump"}`,
		"unknown kind":   `{"op":"push","kind":"nowhere"}`,
		"invalid params": `{"op":"push","kind":"detail","data":{"id":"x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, _ := post(t, h, "/sessions/carol/navigate", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	_, err := mgr.Load(t.Context(), "carol")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "failed requests must not create the session")
}

func TestNavigate_StreamsOnlyTheRequestedStep(t *testing.T) {
	srv, _ := navServer(t)
	h := srv.Handler()

	ch, cancel := srv.Streams.Subscribe("dave")
	defer cancel()

	rec, _ := post(t, h, "/sessions/dave/navigate", `{"op":"push","kind":"detail","data":{"id":3}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var types []domain.EventType
	for len(ch) > 0 {
		var e domain.NavigationEvent
		require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
		types = append(types, e.Type)
	}
	assert.Equal(t, []domain.EventType{domain.EventPush, domain.EventExit, domain.EventEnter}, types)
}

func TestNavigate_DisabledWithoutEngine(t *testing.T) {
	h := inspector.NewHandler(memory.NewStore(), inspector.WithGatherer(prometheus.NewRegistry()))
	rec, _ := post(t, h, "/sessions/bob/navigate", `{"op":"back"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
