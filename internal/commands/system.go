package commands

import (
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"lumen/internal/database"
)

func newHealthCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			h, err := a.API.Health(cmd.Context())
			if err != nil {
				return err
			}
			return rt.emit(h, func() error {
				rt.printer.Print("%s %s", rt.printer.StatusBadge(h.Status), a.API.BaseURL())
				if h.Version != "" {
					rt.printer.Print("%s", rt.printer.Dim(fmt.Sprintf("version %s (%s)", h.Version, h.Environment)))
				}
				return nil
			})
		},
	}
}

func newServeCmd(rt *runtime) *cobra.Command {
	var addr, key string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web app",
		Long: `Run the local web app until interrupted. It shares the session of the CLI.

Set LUMEN_SERVE_KEY or --key to require an X-Lumen-Key header on every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				rt.cfg.ListenAddr = addr
			}
			if key != "" {
				rt.cfg.ServeKey = key
			}
			a, err := rt.App()
			if err != nil {
				return err
			}
			rt.printer.Info("Serving on http://%s (backend %s)", rt.cfg.ListenAddr, a.API.BaseURL())
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from LUMEN_LISTEN_ADDR)")
	cmd.Flags().StringVar(&key, "key", "", "key every request must present")
	return cmd
}

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down [N]|version]",
		Short: "Create, upgrade or roll back the local store",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := database.NewManager(rt.dbCfg)
			if err != nil {
				return fmt.Errorf("failed to open local store: %w", err)
			}
			defer mgr.Close()

			action := "up"
			if len(args) > 0 {
				action = args[0]
			}
			switch action {
			case "up":
				if err := mgr.Migrate(); err != nil {
					return err
				}
				rt.printer.Success("Local store is up to date (%s)", rt.dbCfg.Driver)
			case "down":
				steps := 1
				if len(args) > 1 {
					if steps, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("invalid step count: %w", err)
					}
				}
				if err := mgr.Rollback(steps); err != nil {
					return err
				}
				rt.printer.Success("Rolled back %d migration(s)", steps)
			case "version":
				v, dirty, err := mgr.Version()
				if err != nil {
					return err
				}
				rt.printer.Print("Version: %d, Dirty: %v", v, dirty)
			default:
				return fmt.Errorf("unknown migrate action %q (use up, down, or version)", action)
			}
			return nil
		},
	}
}

func newVersionCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goVersion := "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
			}
			return rt.emit(map[string]string{"version": version, "go": goVersion}, func() error {
				rt.printer.Print("lumen %s (%s)", version, goVersion)
				return nil
			})
		},
	}
}
