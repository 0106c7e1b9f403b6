package utils

import (
	"os"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/constants"
	"github.com/rs/zerolog"
)

// Log is the generic logger we pass around and derive subloggers from.
var Log zerolog.Logger

// SetLogger configures the global logger. Debug level is enabled either
// explicitly or through the environment.
func SetLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug || os.Getenv(constants.EnvDebug) != "" {
		level = zerolog.DebugLevel
	}

	Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
