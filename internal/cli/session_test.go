package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/session"
)

const playgroundDefinition = `
routes:
  - kind: home
  - kind: settings
  - kind: detail
    params: {id: int}
root:
  tabs:
    key: tabs
    tabs:
      - id: main
        root:
          stack:
            key: main-stack
            children:
              - screen: {key: home, kind: home}
      - id: settings
        root:
          stack:
            key: settings-stack
            children:
              - screen: {key: settings, kind: settings}
`

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(playgroundDefinition), 0o644))
	return path
}

func run(t *testing.T, opts RunOptions, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	opts.In = strings.NewReader(strings.Join(lines, "\n") + "\n")
	opts.Out = &out
	opts.Quiet = true
	opts.Profile = termenv.Ascii
	require.NoError(t, Execute(context.Background(), opts))
	return out.String()
}

func TestExecute_TreeMode(t *testing.T) {
	out := run(t, RunOptions{DefinitionPath: writeDefinition(t)},
		`push detail {"id": 1}`,
		"back",
		"tab tabs settings",
		"pane tabs primary",
		"push detail {\"id\": \"one\"}",
		"bogus",
		"quit",
		"push detail {\"id\": 2}",
	)

	assert.Contains(t, out, "* tabs tabs active=main\n")
	assert.Contains(t, out, ">>> push detail-3 (3 screens)\n")
	assert.Contains(t, out, ">>> pop home-1 (2 screens)\n")
	assert.Contains(t, out, ">>> switch settings-2 (2 screens)\n")
	assert.Contains(t, out, `>>> error: invalid node "tabs": not a pane container`)
	assert.Contains(t, out, ">>> error: detail params:")
	assert.Contains(t, out, `>>> error: unknown command "bogus" (try help)`)
	assert.NotContains(t, out, "detail-4", "commands after quit must not run")
}

func TestExecute_GraphAndHelp(t *testing.T) {
	out := run(t, RunOptions{DefinitionPath: writeDefinition(t)}, "graph", "help")

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, "class home_1 current;")
	assert.Contains(t, out, "Commands:")
}

func TestExecute_StackModePersists(t *testing.T) {
	path := writeDefinition(t)
	sessions := session.NewManager(memory.NewStore())
	opts := RunOptions{DefinitionPath: path, SessionID: "demo", Sessions: sessions}

	out := run(t, opts, `push detail {"id": 2}`, "tab tabs settings")
	assert.Contains(t, out, ">>> clear home-1 (1 screens)\n")
	assert.Contains(t, out, ">>> push detail-2 (2 screens)\n")
	assert.Contains(t, out, ">>> error: tab is only available without --session")

	snap, err := sessions.Load(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "detail", snap.Entries[1].Kind)

	out = run(t, opts, "back", "show")
	assert.Contains(t, out, ">>> restore detail-2 (2 screens)\n")
	assert.Contains(t, out, ">>> pop home-1 (1 screens)\n")
	assert.Contains(t, out, "* home-1 [home]\n")

	snap, err = sessions.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 1)
}

func TestExecute_Errors(t *testing.T) {
	err := Execute(context.Background(), RunOptions{})
	assert.Error(t, err)

	err = Execute(context.Background(), RunOptions{DefinitionPath: "x.yaml", SessionID: "s"})
	assert.Error(t, err)

	err = Execute(context.Background(), RunOptions{
		DefinitionPath: filepath.Join(t.TempDir(), "missing.yaml"),
		In:             strings.NewReader(""),
		Out:            &bytes.Buffer{},
		Quiet:          true,
	})
	assert.Error(t, err)
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("abc"), cancel)

	buf := make([]byte, 3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.NoError(t, handleExecutionError(err))
}

func TestExecute_RejectsOversizedLines(t *testing.T) {
	out := run(t, RunOptions{DefinitionPath: writeDefinition(t), MaxInputSize: 8},
		`push detail {"id": 1}`, "show", "quit")

	assert.Contains(t, out, ">>> error: input exceeds maximum allowed size")
	assert.NotContains(t, out, "push detail")
}
