package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navigator"
	"github.com/aretw0/waypoint/pkg/navtree"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/session"
)

const helpText = `Commands:
  push <kind> [json]     navigate to a destination
  replace <kind> [json]  replace the current screen
  clear <kind> [json]    clear the stack and navigate
  back                   go back one step
  tab <tabs-key> <id>    switch tab (tree mode)
  pane <panes-key> <role> focus a pane (tree mode)
  show                   print the navigation state
  graph                  print the tree as a Mermaid diagram (tree mode)
  help                   show this help
  quit                   leave the playground`

// driver adapts a navigator to the playground commands.
type driver interface {
	push(dest domain.Destination) (string, error)
	replace(dest domain.Destination) (string, error)
	clear(dest domain.Destination) (string, error)
	back() bool
	show(w io.Writer, p termenv.Profile)
}

type treeDriver struct{ tree *navigator.Tree }

func keyOf(s *navtree.ScreenNode, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return s.Key(), nil
}

func (d treeDriver) push(dest domain.Destination) (string, error) {
	return keyOf(d.tree.Navigate(dest))
}

func (d treeDriver) replace(dest domain.Destination) (string, error) {
	return keyOf(d.tree.NavigateAndReplace(dest))
}

func (d treeDriver) clear(dest domain.Destination) (string, error) {
	return keyOf(d.tree.NavigateAndClearAll(dest))
}

func (d treeDriver) back() bool { return d.tree.NavigateBack() }

func (d treeDriver) show(w io.Writer, p termenv.Profile) {
	tui.RenderTree(w, d.tree.Root(), p)
}

// stackDriver persists the stack after every change.
type stackDriver struct {
	ctx       context.Context
	stack     *navigator.Stack
	sessions  *session.Manager
	sessionID string
}

func (d stackDriver) checkpoint() error {
	return d.sessions.Checkpoint(d.ctx, d.sessionID, d.stack)
}

func (d stackDriver) push(dest domain.Destination) (string, error) {
	e := d.stack.Navigate(dest)
	return e.ScreenKey, d.checkpoint()
}

func (d stackDriver) replace(dest domain.Destination) (string, error) {
	e := d.stack.NavigateAndReplace(dest)
	return e.ScreenKey, d.checkpoint()
}

func (d stackDriver) clear(dest domain.Destination) (string, error) {
	e := d.stack.NavigateAndClearAll(dest)
	return e.ScreenKey, d.checkpoint()
}

func (d stackDriver) back() bool {
	if !d.stack.NavigateBack() {
		return false
	}
	// A failed checkpoint is reported by the next explicit command.
	_ = d.checkpoint()
	return true
}

func (d stackDriver) show(w io.Writer, p termenv.Profile) {
	entries := d.stack.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		marker := "  "
		if i == len(entries)-1 {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%s [%s]\n", marker, entries[i].ScreenKey, entries[i].Destination.Kind())
	}
}

// RunSession loads the definition and processes commands from opts.In.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger := createLogger(opts.Debug)
	out := opts.Out

	if !opts.Quiet {
		tui.PrintBanner(out, opts.Profile)
	}

	hooks := navigator.Hooks{
		OnNavigate: func(e *domain.NavigationEvent) {
			printSystemMessage(out, "%s %s (%d screens)", e.Type, e.ScreenKey, e.Size)
		},
	}
	eng, err := waypoint.New(opts.DefinitionPath,
		waypoint.WithLogger(logger),
		waypoint.WithHooks(observability.MergeHooks(hooks, observability.LogHooks(logger))),
	)
	if err != nil {
		return fmt.Errorf("error loading definition: %w", err)
	}

	var (
		drv  driver
		tree *navigator.Tree
	)
	if opts.SessionID != "" {
		stack := eng.NewStack()
		home, ok := eng.Home()
		if !ok {
			return fmt.Errorf("definition has no active screen to start from")
		}
		resumed, err := opts.Sessions.ResumeOrStart(ctx, opts.SessionID, stack, eng.Routes(), home)
		if err != nil {
			return fmt.Errorf("failed to init session: %w", err)
		}
		if resumed {
			logger.Info("Session Resumed", "session_id", opts.SessionID)
		} else {
			logger.Info("Session Created", "session_id", opts.SessionID)
		}
		drv = stackDriver{ctx: ctx, stack: stack, sessions: opts.Sessions, sessionID: opts.SessionID}
	} else {
		tree, err = eng.NewTree()
		if err != nil {
			return err
		}
		drv = treeDriver{tree: tree}
	}

	drv.show(out, opts.Profile)

	limit := maxInputSize(opts.MaxInputSize)
	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}

		line, err := sanitizeLine(scanner.Text(), limit)
		if err != nil {
			printSystemMessage(out, "error: %v", err)
			continue
		}
		quit, err := execute(eng, drv, tree, out, opts.Profile, line)
		if err != nil {
			printSystemMessage(out, "error: %v", err)
		}
		if quit {
			return nil
		}
	}
}

// execute runs one playground command line.
func execute(eng *waypoint.Engine, drv driver, tree *navigator.Tree, out io.Writer, p termenv.Profile, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help":
		fmt.Fprintln(out, helpText)
		return false, nil
	case "show":
		drv.show(out, p)
		return false, nil
	case "back":
		if !drv.back() {
			printSystemMessage(out, "nothing to go back to")
		}
		return false, nil
	case "push", "replace", "clear":
		dest, err := parseDestination(eng, rest)
		if err != nil {
			return false, err
		}
		switch cmd {
		case "push":
			_, err = drv.push(dest)
		case "replace":
			_, err = drv.replace(dest)
		default:
			_, err = drv.clear(dest)
		}
		return false, err
	case "tab", "pane", "graph":
		if tree == nil {
			return false, fmt.Errorf("%s is only available without --session", cmd)
		}
		return false, treeCommand(tree, out, cmd, strings.Fields(rest))
	}
	return false, fmt.Errorf("unknown command %q (try help)", cmd)
}

func treeCommand(tree *navigator.Tree, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "graph":
		fmt.Fprint(out, graph.GenerateMermaid(tree.Root()))
		return nil
	case "tab":
		if len(args) != 2 {
			return errors.New("usage: tab <tabs-key> <id>")
		}
		return tree.SwitchTab(args[0], args[1])
	default:
		if len(args) != 2 {
			return errors.New("usage: pane <panes-key> <role>")
		}
		role, err := navtree.ParsePaneRole(args[1])
		if err != nil {
			return err
		}
		return tree.SetActivePane(args[0], role)
	}
}

// parseDestination reads "<kind> [json object]".
func parseDestination(eng *waypoint.Engine, args string) (domain.Destination, error) {
	kind, raw, _ := strings.Cut(args, " ")
	if kind == "" {
		return nil, errors.New("missing destination kind")
	}

	var data map[string]any
	if raw = strings.TrimSpace(raw); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("error parsing destination data: %w", err)
		}
	}
	return eng.Destination(kind, data)
}
