package main

import (
	"context"
	"fmt"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-generalize/golf-score-memo/auth"
	"github.com/go-generalize/golf-score-memo/controller"
	"github.com/go-generalize/golf-score-memo/server"
	"github.com/go-generalize/golf-score-memo/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

var (
	servePort   int
	serveOpen   bool
	syncTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sign in and serve the score memo API on localhost",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from configuration)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the browser after starting")
	serveCmd.Flags().DurationVar(&syncTimeout, "sync-timeout", 30*time.Second, "how long to wait for the first round sync")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// ログアウトで serve を終了し、購読を解除する
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	endOnSignOut(a.session, cancel)

	rounds := store.New(a.rounds, logger)
	if err := rounds.Start(ctx); err != nil {
		return err
	}
	defer rounds.Stop()

	ctrl := controller.New(rounds, logger)
	defer ctrl.Close()

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	srv := server.New(ctrl, server.Options{
		Email:       a.user.Email,
		Development: cfg.Log.Development,
		Logger:      logger,
		SignOut:     a.session.SignOut,
	})

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(egCtx, addr)
	})
	eg.Go(func() error {
		waitCtx, cancel := context.WithTimeout(egCtx, syncTimeout)
		defer cancel()

		if err := rounds.WaitSynced(waitCtx); err != nil {
			if egCtx.Err() != nil {
				return nil
			}
			return xerrors.Errorf("rounds did not sync: %w", err)
		}
		logger.Info("rounds synced", zap.Int("count", len(rounds.Rounds())))
		if r := rounds.InProgress(); r != nil {
			logger.Info("round in progress",
				zap.String("id", r.ID),
				zap.Int("completedHoles", r.CompletedHoles()),
				zap.Int("nextHole", r.FirstIncompleteHole()),
			)
		}

		if serveOpen || cfg.Server.OpenBrowser {
			openBrowser("http://" + addr + "/api/state")
		}
		return nil
	})

	return eg.Wait()
}

// endOnSignOut calls cancel once the session signs out
func endOnSignOut(session *auth.Session, cancel context.CancelFunc) {
	session.OnChange(func(u *auth.User) {
		if u == nil {
			logger.Info("signed out")
			cancel()
		}
	})
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
	}
}
