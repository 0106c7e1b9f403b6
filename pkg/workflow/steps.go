package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	cnst "github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/constants"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/hdiutil"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/launcher"
	"github.com/avast/retry-go"
	"github.com/spectrocloud-labs/herd"
)

// ValidateImageDagStep fails the whole run early when the configured image
// file is absent. Everything else depends on it, strongly.
func (s *State) ValidateImageDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpValidateImage,
		append(opts, herd.FatalOp, herd.WithCallback(func(_ context.Context) error {
			if !utils.Exists(s.FS, s.Config.Image) {
				s.Logger.Error().Str("image", s.Config.Image).Msg("Disk image not found")
				return fmt.Errorf("%w: %s", cnst.ErrImageNotFound, s.Config.Image)
			}
			s.Logger.Debug().Str("image", s.Config.Image).Str("volume", utils.VolumeLabel(s.Config.Image)).Msg("Disk image present")
			return nil
		}))...)
}

// QueryMountDagStep asks the disk-image tool whether the image is already
// attached, so we never prompt or attach redundantly. An info failure is
// logged and treated as not mounted.
func (s *State) QueryMountDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpQueryMount,
		append(opts, herd.FatalOp, herd.WithDeps(cnst.OpValidateImage),
			herd.WithCallback(func(_ context.Context) error {
				images, err := hdiutil.Info(s.Runner)
				if err != nil {
					s.Logger.Warn().Err(err).Msg("Querying attached images")
					return nil
				}
				if mp, ok := hdiutil.MountPoint(images, s.Config.Image); ok {
					s.mounted = true
					s.mountPoint = mp
					s.Logger.Info().Str("volume", utils.VolumeLabel(s.Config.Image)).Str("mountpoint", mp).Msg("Already mounted")
				}
				return nil
			}))...)
}

// KeychainDagStep fires off the credential manager so the user can look the
// passphrase up while the attach prompt is open. Strictly best-effort: a
// missing or failing app is logged and ignored.
func (s *State) KeychainDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpKeychain,
		append(opts, herd.WithDeps(cnst.OpQueryMount),
			herd.WithCallback(func(_ context.Context) error {
				if s.mounted {
					return nil
				}
				if !launcher.Installed(s.FS, s.Config.KeychainApp) {
					s.Logger.Info().Str("app", s.Config.KeychainApp).Msg("Credential manager not installed, continuing without it")
					return nil
				}
				if err := launcher.Open(s.Runner, s.Config.KeychainApp, false, ""); err != nil {
					s.Logger.Warn().Err(err).Msg("Launching credential manager")
				}
				return nil
			}))...)
}

// AttachImageDagStep mounts the image. The tool blocks on its own passphrase
// prompt, we never time it out. A cancellation-looking failure leaves the
// run on the personal-profile path, anything else is fatal. Apparent success
// without a resolvable mount point is fatal too.
func (s *State) AttachImageDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpAttachImage,
		append(opts, herd.FatalOp, herd.WithDeps(cnst.OpQueryMount), herd.WithWeakDeps(cnst.OpKeychain),
			herd.WithCallback(func(_ context.Context) error {
				if s.mounted {
					return nil
				}
				l := s.Logger.With().Str("image", s.Config.Image).Logger()

				out, err := hdiutil.Attach(s.Runner, s.Config.Image)
				if err != nil {
					if hdiutil.Cancelled(out) {
						l.Warn().Msg("Mount cancelled, falling back to the personal profile")
						return nil
					}
					l.Error().Err(err).Str("output", out).Msg("Attach failed")
					return fmt.Errorf("attaching %s: %w", s.Config.Image, err)
				}

				mp, err := s.resolveMountPoint(out)
				if err != nil {
					l.Error().Err(err).Str("output", out).Msg("Mount point not resolvable")
					return err
				}
				s.mounted = true
				s.mountPoint = mp
				l.Info().Str("mountpoint", mp).Msg("Mounted")
				return nil
			}))...)
}

// resolveMountPoint re-queries the tool for the fresh mount point, retrying
// as the volume can register late, and falls back to scanning the raw attach
// output last.
func (s *State) resolveMountPoint(attachOut string) (string, error) {
	var mp string
	err := retry.Do(func() error {
		images, err := hdiutil.Info(s.Runner)
		if err != nil {
			return err
		}
		found, ok := hdiutil.MountPoint(images, s.Config.Image)
		if !ok {
			return cnst.ErrNoMountPoint
		}
		mp = found
		return nil
	}, retry.Attempts(3), retry.Delay(200*time.Millisecond), retry.LastErrorOnly(true))
	if err == nil {
		return mp, nil
	}

	s.Logger.Debug().Err(err).Msg("Info query did not resolve the mount point, parsing attach output")
	if parsed, ok := hdiutil.ParseAttachOutput(attachOut, s.Config.VolumesRoot); ok {
		return parsed, nil
	}
	return "", cnst.ErrNoMountPoint
}

// LaunchBrowserDagStep runs the browser session. Mounted: synchronous, with
// the secure profile when it exists under the mount point, and a failure is
// the step's error. Not mounted: fire-and-forget with the expanded personal
// profile when present, failures logged only. The installed check is
// unconditional and fatal either way. The op is deliberately not marked
// fatal, a failure here must not stop the graph before the eject; the error
// is recorded on the state and folded into the run result by Run.
func (s *State) LaunchBrowserDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpLaunchBrowser,
		append(opts, herd.WithDeps(cnst.OpAttachImage),
			herd.WithCallback(func(_ context.Context) error {
				if !launcher.Installed(s.FS, s.Config.Browser) {
					s.Logger.Error().Str("app", s.Config.Browser).Msg("Browser not installed")
					s.launchErr = fmt.Errorf("%w: %s", cnst.ErrAppNotFound, s.Config.Browser)
					return s.launchErr
				}

				if s.mounted {
					profile := filepath.Join(s.mountPoint, s.Config.SecureProfile)
					if !utils.DirExists(s.FS, profile) {
						s.Logger.Warn().Str("profile", profile).Msg("Secure profile missing on the volume, using the default profile")
						profile = ""
					}
					s.Logger.Info().Str("profile", profile).Msg("Opening browser, waiting for it to quit")
					if err := launcher.Open(s.Runner, s.Config.Browser, true, profile); err != nil {
						s.Logger.Error().Err(err).Msg("Browser session failed")
						s.launchErr = err
						return err
					}
					return nil
				}

				profile := utils.ExpandHome(s.Config.PersonalProfile)
				if !utils.DirExists(s.FS, profile) {
					s.Logger.Warn().Str("profile", profile).Msg("Personal profile missing, using the default profile")
					profile = ""
				}
				s.Logger.Info().Str("profile", profile).Msg("Opening browser")
				if err := launcher.Open(s.Runner, s.Config.Browser, false, profile); err != nil {
					s.Logger.Warn().Err(err).Msg("Launching browser")
				}
				return nil
			}))...)
}

// DetachVolumeDagStep ejects the volume after the secure session. Weak deps:
// it must run exactly once even when the browser step failed. Eject failure
// is logged, never an error of its own, so it cannot mask the browser
// outcome.
func (s *State) DetachVolumeDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpDetachVolume,
		append(opts, herd.WithWeakDeps(cnst.OpAttachImage, cnst.OpLaunchBrowser),
			herd.WithCallback(func(_ context.Context) error {
				if !s.mounted {
					return nil
				}
				out, err := hdiutil.Detach(s.Runner, s.mountPoint)
				if err != nil {
					s.Logger.Warn().Err(err).Str("mountpoint", s.mountPoint).Str("output", out).Msg("Eject failed")
					return nil
				}
				s.Logger.Info().Str("mountpoint", s.mountPoint).Msg("Ejected")
				return nil
			}))...)
}
