// Package export projects completed rounds into flat tabular files
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-generalize/golf-score-memo/model"
	"golang.org/x/xerrors"
)

// BOM is written before the CSV body so spreadsheet tools detect UTF-8
var BOM = []byte{0xef, 0xbb, 0xbf}

const (
	arrowSep = "→"
	mark     = "○"
)

// Header is the column layout of an export
var Header = func() []string {
	h := []string{"日時", "ゴルフ場名", "メモ", "コース名", "ホール", "スコア", "パット数"}
	for i := 1; i <= model.NumShots; i++ {
		h = append(h,
			fmt.Sprintf("%d打目クラブ", i),
			fmt.Sprintf("%d打目方向", i),
			fmt.Sprintf("%d打目結果", i),
			fmt.Sprintf("%d打目OB", i),
			fmt.Sprintf("%d打目ペナルティ", i),
		)
	}
	return append(h, "100Y以内", "アプローチ数", "OB", "バンカー", "ペナルティ")
}()

// Completed returns the rounds that are no longer in progress, keeping their order
func Completed(rounds []*model.Round) []*model.Round {
	res := make([]*model.Round, 0, len(rounds))
	for _, r := range rounds {
		if r != nil && !r.InProgress {
			res = append(res, r)
		}
	}
	return res
}

func flag(b bool) string {
	if b {
		return mark
	}
	return ""
}

// Rows returns one row per hole of every completed round, in round order then hole 1 to 18.
// Numeric columns are ints so that spreadsheet writers keep them as numbers.
func Rows(rounds []*model.Round) [][]interface{} {
	completed := Completed(rounds)
	rows := make([][]interface{}, 0, len(completed)*model.HoleCount)

	for _, r := range completed {
		for i := 1; i <= model.HoleCount; i++ {
			h := r.Hole(i)

			row := make([]interface{}, 0, len(Header))
			row = append(row,
				r.Date, r.CourseName, r.Memo, r.CourseNameFor(i), fmt.Sprintf("%d番", i),
				h.Score, h.Putts,
			)
			for _, s := range h.Shots {
				row = append(row,
					string(s.Club),
					string(s.DirectionStart)+arrowSep+string(s.DirectionCurve),
					string(s.Result),
					flag(s.OB),
					flag(s.Penalty),
				)
			}
			row = append(row, h.Within100Yards, h.Approach(), h.OB, h.Bunker, h.Penalty)

			rows = append(rows, row)
		}
	}

	return rows
}

const memoColumn = 2

// quote escapes only the memo column; other fields are written verbatim
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV writes the BOM, the header and the rows of every completed round to w
func WriteCSV(w io.Writer, rounds []*model.Round) error {
	var b strings.Builder

	b.WriteString(strings.Join(Header, ","))
	b.WriteString("\n")

	for _, row := range Rows(rounds) {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = fmt.Sprint(v)
		}
		fields[memoColumn] = quote(fields[memoColumn])

		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	if _, err := w.Write(BOM); err != nil {
		return xerrors.Errorf("failed to write BOM: %w", err)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return xerrors.Errorf("failed to write csv: %w", err)
	}

	return nil
}

// CSV returns the export as bytes
func CSV(rounds []*model.Round) []byte {
	buf := new(bytes.Buffer)

	// bytes.Buffer への書き込みは失敗しない
	_ = WriteCSV(buf, rounds)

	return buf.Bytes()
}

// FileName returns the download name for an export made at t
func FileName(t time.Time) string {
	return fmt.Sprintf("golf_scores_%s.csv", model.FormatDate(t))
}
