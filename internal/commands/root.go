// Package commands contains the lumen CLI.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"lumen/internal/app"
	"lumen/internal/config"
	"lumen/internal/database"
	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
	"lumen/internal/output"
	"lumen/internal/toast"
)

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// runtime is the state shared by every command of one invocation.
type runtime struct {
	apiURL    string
	storePath string
	colorMode string
	quiet     bool
	jsonOut   bool
	verbose   bool

	cfg     *config.Config
	dbCfg   *database.Config
	printer *output.Printer
	app     *app.App
}

// Execute runs the CLI until it finishes or receives SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, rt := newRoot()
	defer rt.close()
	return root.ExecuteContext(ctx)
}

func newRoot() (*cobra.Command, *runtime) {
	rt := &runtime{}
	root := &cobra.Command{
		Use:   "lumen",
		Short: "Lumen personal and business finance client",
		Long: `lumen talks to the Lumen backend: sign in, review flagged transactions,
upload receipts, ask the assistant and watch your dashboard.

Example usage:
  lumen login --email you@example.com      # Sign in (password read from stdin)
  lumen transactions list --limit 10       # Latest transactions
  lumen review list                        # Flagged transactions awaiting review
  lumen upload receipt.jpg                 # Upload a receipt or invoice
  lumen serve                              # Run the local web app`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			rt.flushToasts()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.apiURL, "api-url", "", "backend URL (default from LUMEN_API_URL)")
	flags.StringVar(&rt.storePath, "store", "", "path of the local sqlite store (default from STORE_PATH)")
	flags.StringVar(&rt.colorMode, "color", "auto", "color output: auto, always or never")
	flags.BoolVarP(&rt.quiet, "quiet", "q", false, "only print errors")
	flags.BoolVar(&rt.jsonOut, "json", false, "print results as JSON")
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newLoginCmd(rt),
		newRegisterCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newProfileCmd(rt),
		newTransactionsCmd(rt),
		newReviewCmd(rt),
		newWatchCmd(rt),
		newChatCmd(rt),
		newUploadCmd(rt),
		newAddCmd(rt),
		newGmailCmd(rt),
		newHealthCmd(rt),
		newServeCmd(rt),
		newMigrateCmd(rt),
		newVersionCmd(rt),
	)
	return root, rt
}

// init loads configuration and applies flag overrides. The app itself is
// built on first use so commands like version never touch storage.
func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if rt.apiURL != "" {
		cfg.APIBaseURL = rt.apiURL
	}
	if rt.verbose {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	dbCfg, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("loading store config: %w", err)
	}
	if rt.storePath != "" {
		dbCfg.Driver = database.DriverSQLite
		dbCfg.Path = rt.storePath
	}

	mode, err := output.ParseColorMode(rt.colorMode)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.dbCfg = dbCfg
	rt.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, rt.quiet)
	return nil
}

// App returns the wired application, opening local storage on first call.
func (rt *runtime) App() (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}
	a, err := app.New(rt.cfg, rt.dbCfg)
	if err != nil {
		return nil, err
	}
	rt.app = a
	return a, nil
}

// session returns the app after checking that someone is signed in.
func (rt *runtime) session() (*app.App, error) {
	a, err := rt.App()
	if err != nil {
		return nil, err
	}
	if !a.Sessions.IsAuthenticated() {
		return nil, apperrors.WithMessage(apperrors.ErrNotAuthenticated, "Not logged in. Run `lumen login` first.")
	}
	return a, nil
}

// emit prints v as JSON when --json is set, otherwise calls human.
func (rt *runtime) emit(v any, human func() error) error {
	if rt.jsonOut {
		return rt.printer.JSON(v)
	}
	return human()
}

// flushToasts prints the notifications raised while the command ran.
func (rt *runtime) flushToasts() {
	if rt.app == nil || rt.jsonOut {
		return
	}
	for _, t := range rt.app.Toasts.List() {
		switch t.Kind {
		case toast.KindSuccess:
			rt.printer.Success("%s", t.Message)
		case toast.KindError:
			rt.printer.Error("%s", t.Message)
		case toast.KindWarning:
			rt.printer.Warning("%s", t.Message)
		default:
			rt.printer.Info("%s", t.Message)
		}
		rt.app.Toasts.Remove(t.ID)
	}
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	if err := rt.app.Close(); err != nil {
		logger.Get().Warnw("failed to close local store", "error", err)
	}
	rt.app = nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid transaction id "+strconv.Quote(arg))
	}
	return id, nil
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 0, 64) + "%"
}
