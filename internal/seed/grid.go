package seed

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/regrow/internal/domain/calendar"
)

var bandGlyph = map[calendar.Band]string{
	calendar.BandFuture: "·",
	calendar.BandNone:   "○",
	calendar.BandLow:    "░",
	calendar.BandMid:    "▒",
	calendar.BandHigh:   "█",
}

// WriteGrid renders grid one week per line. Today is wrapped in brackets.
func WriteGrid(w io.Writer, grid calendar.Grid) error {
	if len(grid) == 0 {
		_, err := fmt.Fprintln(w, "protocol not started")
		return err
	}
	var b strings.Builder
	for i, week := range grid {
		fmt.Fprintf(&b, "W%-2d ", i+1)
		for _, c := range week {
			g := bandGlyph[c.Band]
			if c.IsToday {
				fmt.Fprintf(&b, "[%s]", g)
				continue
			}
			fmt.Fprintf(&b, " %s ", g)
		}
		b.WriteByte('\n')
	}
	b.WriteString("    · future  ○ 0%  ░ <50%  ▒ <80%  █ 80%+\n")
	_, err := io.WriteString(w, b.String())
	return err
}
