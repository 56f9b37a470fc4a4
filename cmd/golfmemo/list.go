package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-generalize/golf-score-memo/model"
	"github.com/go-utils/plural"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rounds, most recently updated first",
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

		printRounds(cmd.OutOrStdout(), rounds)
		return nil
	},
}

var (
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	completedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func countLabel(n int, word string) string {
	if n != 1 {
		word = plural.Convert(word)
	}
	return fmt.Sprintf("%d %s", n, word)
}

// recordedShots counts the shot slots in use on saved holes
func recordedShots(r *model.Round) int {
	n := 0
	for i := 1; i <= model.HoleCount; i++ {
		if h := r.Hole(i); h.Completed {
			n += len(h.UsedShots())
		}
	}
	return n
}

func printRounds(w io.Writer, rounds []*model.Round) {
	if len(rounds) == 0 {
		fmt.Fprintln(w, "ラウンドがありません。golfmemo serve で新しいラウンドを始めましょう。")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "日付", "ゴルフ場", "ホール", "合計", "ショット", "状態")

	playing := 0
	for _, r := range rounds {
		status := completedStyle.Render("完了")
		if r.InProgress {
			status = inProgressStyle.Render("プレイ中")
			playing++
		}
		t.Row(
			r.ID,
			r.Date,
			r.CourseName,
			fmt.Sprintf("%d/%d", r.CompletedHoles(), model.HoleCount),
			strconv.Itoa(r.TotalScore()),
			strconv.Itoa(recordedShots(r)),
			status,
		)
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%s, %d in progress\n", countLabel(len(rounds), "round"), playing)
}
