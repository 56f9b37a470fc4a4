package main

import (
	"os"

	"github.com/go-generalize/golf-score-memo/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
)

var (
	configPath string
	verbose    bool
	projectID  string
	uid        string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "golfmemo",
	Short: "Golf score memo backed by Firebase",
	Long: `golfmemo records rounds of golf hole by hole (score, putts, shot shapes and penalties)
in Cloud Firestore and exports completed rounds to CSV or Excel.

Run "golfmemo serve" to drive the memo from a browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if projectID != "" {
			cfg.Firebase.ProjectID = projectID
		}

		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return xerrors.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func newLogger(c config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if c.Level != "" {
		level, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zc.Build()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", config.FileName, "path to the configuration file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&projectID, "project", "", "Firebase project id (overrides the configuration)")
	pf.StringVar(&uid, "uid", "", "use this user id without signing in (Firestore emulator only)")

	rootCmd.AddCommand(
		serveCmd,
		listCmd,
		exportCmd,
		signupCmd,
		resetPasswordCmd,
		initCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
