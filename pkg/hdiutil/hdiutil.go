// Package hdiutil wraps the OS disk-image tool. The tool owns all
// encryption, mounting and the interactive passphrase prompt; this package
// only invokes it and reads its output back.
package hdiutil

import (
	"fmt"
	"strings"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/constants"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
)

// Entity is one system entity of an attached image. Only some entities
// carry a mount point.
type Entity struct {
	Device     string
	MountPoint string
}

// Image is one known disk image as reported by `hdiutil info`.
type Image struct {
	Path     string
	Entities []Entity
}

// Info queries the tool for all currently attached images.
func Info(r utils.Runner) ([]Image, error) {
	out, err := r.Run("hdiutil", "info")
	if err != nil {
		return nil, fmt.Errorf("hdiutil info: %w: %s", err, strings.TrimSpace(out))
	}
	return parseInfo(out), nil
}

// Attach mounts the image without auto-opening it in the file browser. The
// call blocks while the tool prompts the user for the passphrase. Combined
// output is returned also on failure so the caller can classify it.
func Attach(r utils.Runner, imagePath string) (string, error) {
	return r.Run("hdiutil", "attach", "-nobrowse", imagePath)
}

// Detach ejects the volume at mountPoint.
func Detach(r utils.Runner, mountPoint string) (string, error) {
	return r.Run("hdiutil", "detach", mountPoint)
}

// MountPoint returns the first mount point reported for imagePath.
func MountPoint(images []Image, imagePath string) (string, bool) {
	for _, img := range images {
		if img.Path != imagePath {
			continue
		}
		for _, e := range img.Entities {
			if e.MountPoint != "" {
				return e.MountPoint, true
			}
		}
	}
	return "", false
}

// ParseAttachOutput scans raw attach output for a tab-separated field under
// the volumes root. Fallback for when the info query does not resolve the
// fresh mount yet. The mount path is expected in the last column.
func ParseAttachOutput(out, volumesRoot string) (string, bool) {
	prefix := volumesRoot
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		for i := len(fields) - 1; i >= 0; i-- {
			f := strings.TrimSpace(fields[i])
			if strings.HasPrefix(f, prefix) {
				return f, true
			}
		}
	}
	return "", false
}

// Cancelled reports whether failed attach output looks like the user
// dismissed the passphrase prompt rather than a real error.
func Cancelled(out string) bool {
	for _, marker := range constants.CancellationMarkers() {
		if strings.Contains(out, marker) {
			return true
		}
	}
	return false
}

// parseInfo reads the plain text block format of `hdiutil info`: blocks
// separated by ==== lines, a `image-path : <path>` header per image and one
// tab-separated line per device entity, mount point last when present.
func parseInfo(out string) []Image {
	var images []Image
	var current *Image

	flush := func() {
		if current != nil {
			images = append(images, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "="):
			flush()
		case strings.HasPrefix(trimmed, "image-path"):
			dat := strings.SplitN(trimmed, ":", 2)
			if len(dat) == 2 {
				flush()
				current = &Image{Path: strings.TrimSpace(dat[1])}
			}
		case strings.HasPrefix(trimmed, "/dev/"):
			if current == nil {
				continue
			}
			fields := strings.Split(line, "\t")
			entity := Entity{Device: strings.TrimSpace(fields[0])}
			for _, f := range fields[1:] {
				f = strings.TrimSpace(f)
				if strings.HasPrefix(f, "/") && !strings.HasPrefix(f, "/dev/") {
					entity.MountPoint = f
				}
			}
			current.Entities = append(current.Entities, entity)
		}
	}
	flush()
	return images
}
