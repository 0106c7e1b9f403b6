package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/cmd"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/constants"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/utils"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/internal/version"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/config"
	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/workflow"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"
	"github.com/urfave/cli/v2"
)

// Mount the encrypted vault and open the browser with the profile the mount
// outcome selects.
func main() {
	app := cli.NewApp()
	app.Name = "vaultbrowse"
	app.Usage = "mount an encrypted vault image and launch the browser with the matching profile"
	app.Version = version.GetVersion()
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to the config file",
			EnvVars: []string{constants.EnvConfigPath},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print the workflow dag without executing it",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
	app.Action = func(c *cli.Context) error {
		utils.SetLogger(c.Bool("debug"))

		v := version.Get()
		utils.Log.Info().Str("commit", v.GitCommit).Str("compiled with", v.GoVersion).Str("version", v.Version).Msg("vaultbrowse")

		cfg, err := config.Load(vfs.OSFS, c.String("config"))
		if err != nil {
			return err
		}

		g := herd.DAG()
		s := &workflow.State{
			Logger: utils.Log,
			Config: cfg,
			FS:     vfs.OSFS,
			Runner: utils.NewRunner(),
		}

		if err := s.Register(g); err != nil {
			return err
		}

		utils.Log.Debug().Msg(s.WriteDAG(g))

		if c.Bool("dry-run") {
			utils.Log.Info().Msg(s.WriteDAG(g))
			return nil
		}

		err = s.Run(context.Background(), g)
		utils.Log.Debug().Msg(s.WriteDAG(g))
		if err != nil {
			return err
		}
		utils.Log.Info().Str("volume", utils.VolumeLabel(cfg.Image)).Msg("Workflow complete")
		return nil
	}
	app.Commands = append([]*cli.Command{
		{
			Name:  "version",
			Usage: "version",
			Action: func(c *cli.Context) error {
				utils.SetLogger(c.Bool("debug"))
				v := version.Get()
				utils.Log.Info().Str("commit", v.GitCommit).Str("compiled with", v.GoVersion).Str("version", v.Version).Msg("vaultbrowse")
				return nil
			},
		},
	}, cmd.Commands...)

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
