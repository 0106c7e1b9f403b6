// Package config holds the static path configuration of the workflow.
// Values come from built-in defaults, an optional YAML file and
// VAULTBROWSE_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/constants"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/hashicorp/go-multierror"
	"github.com/twpayne/go-vfs/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Image is the encrypted disk image to attach.
	Image string `yaml:"image"`
	// KeychainApp is the credential manager offered to the user before the
	// passphrase prompt. Best-effort, may be absent.
	KeychainApp string `yaml:"credential_manager"`
	// Browser is the application launched with the selected profile.
	Browser string `yaml:"browser"`
	// SecureProfile is the profile directory relative to the mount point.
	SecureProfile string `yaml:"secure_profile"`
	// PersonalProfile is the fallback profile, may be ~-relative.
	PersonalProfile string `yaml:"personal_profile"`
	// VolumesRoot prefixes every mount point the OS hands out.
	VolumesRoot string `yaml:"volumes_root"`
}

var envKeys = map[string]string{
	"VAULTBROWSE_IMAGE":              "image",
	"VAULTBROWSE_CREDENTIAL_MANAGER": "credential_manager",
	"VAULTBROWSE_BROWSER":            "browser",
	"VAULTBROWSE_SECURE_PROFILE":     "secure_profile",
	"VAULTBROWSE_PERSONAL_PROFILE":   "personal_profile",
	"VAULTBROWSE_VOLUMES_ROOT":       "volumes_root",
}

func Default() *Config {
	return &Config{
		Image:           constants.DefaultImagePath,
		KeychainApp:     constants.DefaultKeychainApp,
		Browser:         constants.DefaultBrowserApp,
		SecureProfile:   constants.DefaultSecureProfile,
		PersonalProfile: constants.DefaultPersonalProfile,
		VolumesRoot:     constants.VolumesRoot,
	}
}

// Load builds the effective configuration. A missing config file is fine,
// the defaults cover it. path overrides the default file location.
func Load(fs vfs.FS, path string) (*Config, error) {
	c := Default()
	dir := utils.ExpandHome(constants.ConfigDir)
	if path == "" {
		path = filepath.Join(dir, constants.ConfigFile)
	}

	if f, err := fs.Open(path); err == nil {
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	env, err := utils.ReadEnv(fs, filepath.Join(dir, constants.EnvFile))
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	c.applyEnv(env)
	c.applyEnv(processEnv())

	// The image is validated and matched against info output, so it has to
	// be absolute already. The personal profile stays unexpanded until it
	// is actually needed.
	c.Image = utils.ExpandHome(c.Image)

	return c, c.Validate()
}

func (c *Config) applyEnv(env map[string]string) {
	for key, field := range envKeys {
		v := env[key]
		if v == "" {
			continue
		}
		switch field {
		case "image":
			c.Image = v
		case "credential_manager":
			c.KeychainApp = v
		case "browser":
			c.Browser = v
		case "secure_profile":
			c.SecureProfile = v
		case "personal_profile":
			c.PersonalProfile = v
		case "volumes_root":
			c.VolumesRoot = v
		}
	}
}

// Validate collects every problem instead of stopping at the first one.
func (c *Config) Validate() error {
	var allErrors error
	if c.Image == "" {
		allErrors = multierror.Append(allErrors, errors.New("image path is required"))
	}
	if c.Browser == "" {
		allErrors = multierror.Append(allErrors, errors.New("browser application path is required"))
	}
	if c.SecureProfile == "" {
		allErrors = multierror.Append(allErrors, errors.New("secure profile directory is required"))
	}
	if c.PersonalProfile == "" {
		allErrors = multierror.Append(allErrors, errors.New("personal profile directory is required"))
	}
	if c.VolumesRoot == "" || !filepath.IsAbs(c.VolumesRoot) {
		allErrors = multierror.Append(allErrors, errors.New("volumes root must be an absolute path"))
	}
	if c.Image != "" && !filepath.IsAbs(utils.ExpandHome(c.Image)) {
		allErrors = multierror.Append(allErrors, errors.New("image path must be absolute"))
	}
	if c.Browser != "" && !filepath.IsAbs(c.Browser) {
		allErrors = multierror.Append(allErrors, errors.New("browser application path must be absolute"))
	}
	if filepath.IsAbs(c.SecureProfile) {
		allErrors = multierror.Append(allErrors, errors.New("secure profile must be relative to the mount point"))
	}
	return allErrors
}

func processEnv() map[string]string {
	env := map[string]string{}
	for key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}
