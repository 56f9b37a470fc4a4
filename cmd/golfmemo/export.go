package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-generalize/golf-score-memo/export"
	"github.com/go-generalize/golf-score-memo/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

var (
	exportDir  string
	exportXLSX bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write completed rounds to golf_scores_<date>.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rounds, err := a.rounds.List(cmd.Context())
		if err != nil {
			return err
		}

		path, err := writeExport(exportDir, exportXLSX, time.Now(), rounds)
		if err != nil {
			return err
		}

		logger.Info("exported", zap.String("path", path), zap.Int("rounds", len(export.Completed(rounds))))
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "directory to write the file to")
	exportCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "write an Excel workbook instead of CSV")
}

func writeExport(dir string, xlsx bool, now time.Time, rounds []*model.Round) (path string, err error) {
	name := export.FileName(now)
	if xlsx {
		name = export.XLSXFileName(now)
	}
	path = filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", xerrors.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = xerrors.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if xlsx {
		err = export.WriteXLSX(f, rounds)
	} else {
		err = export.WriteCSV(f, rounds)
	}
	if err != nil {
		return "", err
	}

	return path, nil
}
