package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/waypoint/pkg/session"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	DefinitionPath string
	SessionID      string // Enables flat stack mode with persistence
	Sessions       *session.Manager
	Debug          bool
	Quiet          bool // Skip the banner
	MaxInputSize   int  // Longest accepted command line; 0 reads WAYPOINT_MAX_INPUT_SIZE

	In      io.Reader
	Out     io.Writer
	Profile termenv.Profile
}

// Execute runs the interactive playground until the input ends, a quit
// command is read or ctx is cancelled.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.DefinitionPath == "" {
		return fmt.Errorf("a navigation definition is required")
	}
	if opts.SessionID != "" && opts.Sessions == nil {
		return fmt.Errorf("--session requires a session store")
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	err := RunSession(sigCtx, opts)
	if sig := sigCtx.Signal(); sig != nil && !opts.Quiet {
		fmt.Fprintf(opts.Out, "\n")
		printSystemMessage(opts.Out, "Interrupted by %v.", sig)
	}
	return handleExecutionError(err)
}
