package calendar

// Band is the heat-map bucket of a grid cell.
type Band string

// Heat-map buckets.
const (
	BandFuture Band = "future"
	BandNone   Band = "none"
	BandLow    Band = "low"
	BandMid    Band = "mid"
	BandHigh   Band = "high"
)

// BandFor buckets a percentage of a past or current day.
func BandFor(pct int) Band {
	switch {
	case pct <= 0:
		return BandNone
	case pct < 50:
		return BandLow
	case pct < 80:
		return BandMid
	default:
		return BandHigh
	}
}

// Cell is one day of the calendar grid. Percentage is nil for future days
// so stray data recorded for a future date never reaches the display.
type Cell struct {
	Date       Date `json:"date"`
	DayNumber  int  `json:"dayNumber"`
	Percentage *int `json:"percentage"`
	IsFuture   bool `json:"isFuture"`
	IsToday    bool `json:"isToday"`
	Band       Band `json:"band"`
}

// Grid is the 12×7 protocol calendar, indexed [week][weekday offset].
type Grid [][]Cell

// PercentFunc returns the completion percentage recorded for a date.
type PercentFunc func(Date) int

// BuildGrid lays out the protocol calendar for a protocol started on start.
// It returns an empty grid when start is unset.
func BuildGrid(start, today Date, percent PercentFunc) Grid {
	if start.IsZero() {
		return Grid{}
	}
	current := DayNumber(start, today)
	grid := make(Grid, ProtocolWeeks)
	for w := range ProtocolWeeks {
		week := make([]Cell, DaysPerWeek)
		for d := range DaysPerWeek {
			offset := w*DaysPerWeek + d
			cell := Cell{
				Date:      start.AddDays(offset),
				DayNumber: offset + 1,
			}
			cell.IsToday = cell.DayNumber == current
			if cell.DayNumber > current {
				cell.IsFuture = true
				cell.Band = BandFuture
			} else {
				pct := 0
				if percent != nil {
					pct = percent(cell.Date)
				}
				cell.Percentage = &pct
				cell.Band = BandFor(pct)
			}
			week[d] = cell
		}
		grid[w] = week
	}
	return grid
}

// Cell returns the cell of the given protocol day, if it is on the grid.
func (g Grid) Cell(dayNumber int) (Cell, bool) {
	if dayNumber < 1 || dayNumber > len(g)*DaysPerWeek {
		return Cell{}, false
	}
	i := dayNumber - 1
	return g[i/DaysPerWeek][i%DaysPerWeek], true
}
