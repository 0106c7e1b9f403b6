package constants

import "errors"

// CancellationMarkers returns the substrings the disk-image tool is known to
// emit when the user dismisses the passphrase prompt. Matching any of them
// makes a failed attach recoverable instead of fatal. Case-sensitive on
// purpose, the wording is stable per tool release.
func CancellationMarkers() []string {
	return []string{
		"cancelled",
		"canceled",
		"authentication error",
		"attach canceled",
		"Authentication_Canceled",
		"AUTH_CANCELED",
	}
}

var (
	ErrImageNotFound = errors.New("disk image not found")
	ErrAppNotFound   = errors.New("application not found")
	ErrNoMountPoint  = errors.New("attach succeeded but no mount point could be determined")
)

const (
	OpValidateImage = "validate-image"
	OpQueryMount    = "query-mount"
	OpKeychain      = "launch-credential-manager"
	OpAttachImage   = "attach-image"
	OpLaunchBrowser = "launch-browser"
	OpDetachVolume  = "detach-volume"

	// VolumesRoot is where the OS surfaces attached images.
	VolumesRoot = "/Volumes"

	// Defaults, overridable via the config file and VAULTBROWSE_* env vars.
	DefaultImagePath       = "~/Vault/Profile.dmg"
	DefaultKeychainApp     = "/Applications/KeePassXC.app"
	DefaultBrowserApp      = "/Applications/Firefox.app"
	DefaultSecureProfile   = "Secure"
	DefaultPersonalProfile = "~/Library/Application Support/Firefox/Profiles/personal"

	ConfigDir  = "~/.config/vaultbrowse"
	ConfigFile = "config.yaml"
	EnvFile    = "vaultbrowse.env"

	EnvDebug      = "VAULTBROWSE_DEBUG"
	EnvConfigPath = "VAULTBROWSE_CONFIG"
)
