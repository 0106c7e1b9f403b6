package cmd

import (
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/config"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/hdiutil"
	"github.com/twpayne/go-vfs/v4"
	"github.com/urfave/cli/v2"
)

var Commands = []*cli.Command{
	{
		Name:  "status",
		Usage: "show whether the configured disk image is currently mounted",
		Action: func(c *cli.Context) error {
			utils.SetLogger(c.Bool("debug"))
			cfg, err := config.Load(vfs.OSFS, c.String("config"))
			if err != nil {
				return err
			}

			images, err := hdiutil.Info(utils.NewRunner())
			if err != nil {
				return err
			}
			label := utils.VolumeLabel(cfg.Image)
			if mp, ok := hdiutil.MountPoint(images, cfg.Image); ok {
				utils.Log.Info().Str("volume", label).Str("mountpoint", mp).Msg("Mounted")
			} else {
				utils.Log.Info().Str("volume", label).Msg("Not mounted")
			}
			return nil
		},
	},
	{
		Name:  "eject",
		Usage: "detach the configured disk image if it is mounted",
		Action: func(c *cli.Context) error {
			utils.SetLogger(c.Bool("debug"))
			cfg, err := config.Load(vfs.OSFS, c.String("config"))
			if err != nil {
				return err
			}

			runner := utils.NewRunner()
			images, err := hdiutil.Info(runner)
			if err != nil {
				return err
			}
			mp, ok := hdiutil.MountPoint(images, cfg.Image)
			if !ok {
				utils.Log.Info().Str("volume", utils.VolumeLabel(cfg.Image)).Msg("Not mounted, nothing to eject")
				return nil
			}
			out, err := hdiutil.Detach(runner, mp)
			if err != nil {
				utils.Log.Error().Err(err).Str("output", out).Msg("Eject failed")
				return err
			}
			utils.Log.Info().Str("mountpoint", mp).Msg("Ejected")
			return nil
		},
	},
}
