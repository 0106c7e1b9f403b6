// Package launcher starts desktop applications through the OS `open`
// facility, either waiting for the application to quit or fire-and-forget.
package launcher

import (
	"fmt"
	"strings"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/twpayne/go-vfs/v4"
)

// Installed reports whether the application bundle exists at its configured
// location.
func Installed(fs vfs.FS, appPath string) bool {
	return utils.Exists(fs, appPath)
}

// Open launches the application, passing the profile-selection argument pair
// when profile is non-empty. With wait set the call only returns once the
// application quit; otherwise the process is detached and not waited on.
func Open(r utils.Runner, appPath string, wait bool, profile string) error {
	var args []string
	if wait {
		args = append(args, "-W")
	}
	args = append(args, "-a", appPath)
	if profile != "" {
		args = append(args, "--args", "--profile", profile)
	}

	if !wait {
		return r.Start("open", args...)
	}

	out, err := r.Run("open", args...)
	if err != nil {
		return fmt.Errorf("open %s: %w: %s", appPath, err, strings.TrimSpace(out))
	}
	return nil
}
