package utils

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/twpayne/go-vfs/v4"
)

// VolumeLabel derives a human readable label from an image path, e.g.
// /foo/Profile.dmg -> Profile. Used for status messages only.
func VolumeLabel(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExpandHome resolves ~-relative notation to an absolute path. Paths that
// are not home-relative are returned untouched.
func ExpandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Exists reports whether path exists on the given filesystem.
func Exists(fs vfs.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(fs vfs.FS, path string) bool {
	fi, err := fs.Stat(path)
	return err == nil && fi.IsDir()
}

// ReadEnv parses an env file into a map. A missing file is not an error,
// overrides are strictly optional.
func ReadEnv(fs vfs.FS, file string) (map[string]string, error) {
	f, err := fs.Open(file)
	if err != nil {
		return map[string]string{}, nil
	}
	defer f.Close()

	return godotenv.Parse(f)
}
