// Package workflow wires the decrypt-and-launch sequence into a DAG: vault
// image validation, mount-state query, best-effort credential manager,
// attach, browser session with the profile picked by the mount outcome and
// the final eject.
package workflow

import (
	"context"
	"fmt"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/config"
	"github.com/rs/zerolog"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"
)

type State struct {
	Logger zerolog.Logger
	Config *config.Config
	FS     vfs.FS       // filesystem probe, swapped for a test fs in specs
	Runner utils.Runner // child-process execution

	// Mount outcome, written once by query-mount or attach-image and read
	// by every later step. The secure-vs-personal decision is never
	// re-evaluated after launch-browser looked at it.
	mounted    bool
	mountPoint string

	// launchErr is the browser-step failure. Kept off the fatal path so the
	// eject still runs; Run returns it once the graph finished.
	launchErr error
}

// Mounted reports the mount outcome recorded so far.
func (s *State) Mounted() (string, bool) {
	return s.mountPoint, s.mounted
}

// Run executes the graph. Herd only surfaces errors of ops marked fatal, so
// the browser outcome, which must let the eject run first, is folded into
// the result afterwards.
func (s *State) Run(ctx context.Context, g *herd.Graph) error {
	if err := g.Run(ctx); err != nil {
		return err
	}
	return s.launchErr
}

// WriteDAG writes the dag
func (s *State) WriteDAG(g *herd.Graph) (out string) {
	for i, layer := range g.Analyze() {
		out += fmt.Sprintf("%d.\n", i+1)
		for _, op := range layer {
			if op.Error != nil {
				out += fmt.Sprintf(" <%s> (error: %s) (background: %t) (weak: %t)\n", op.Name, op.Error.Error(), op.Background, op.WeakDeps)
			} else {
				out += fmt.Sprintf(" <%s> (background: %t) (weak: %t)\n", op.Name, op.Background, op.WeakDeps)
			}
		}
	}
	return
}

// LogIfError will log if there is an error with the given context as message
// Context can be empty
func (s *State) LogIfError(e error, msgContext string) {
	if e != nil {
		s.Logger.Err(e).Msg(msgContext)
	}
}

// LogIfErrorAndReturn will log if there is an error with the given context as message
// Context can be empty
// Will also return the error
func (s *State) LogIfErrorAndReturn(e error, msgContext string) error {
	if e != nil {
		s.Logger.Err(e).Msg(msgContext)
	}
	return e
}
