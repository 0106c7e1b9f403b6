package workflow

import (
	"github.com/spectrocloud-labs/herd"
)

// Register wires the full decrypt-and-launch sequence into the graph. The
// chain is linear: validate, query, credential manager, attach, browser,
// eject. Branching on the mount outcome happens inside the steps, every run
// takes exactly one of the secure or personal paths.
func (s *State) Register(g *herd.Graph) error {
	if err := s.LogIfErrorAndReturn(s.ValidateImageDagStep(g), "registering validate-image"); err != nil {
		return err
	}
	if err := s.LogIfErrorAndReturn(s.QueryMountDagStep(g), "registering query-mount"); err != nil {
		return err
	}
	if err := s.LogIfErrorAndReturn(s.KeychainDagStep(g), "registering credential-manager launch"); err != nil {
		return err
	}
	if err := s.LogIfErrorAndReturn(s.AttachImageDagStep(g), "registering attach"); err != nil {
		return err
	}
	if err := s.LogIfErrorAndReturn(s.LaunchBrowserDagStep(g), "registering browser launch"); err != nil {
		return err
	}
	return s.LogIfErrorAndReturn(s.DetachVolumeDagStep(g), "registering eject")
}
