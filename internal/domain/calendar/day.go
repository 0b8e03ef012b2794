package calendar

// Protocol length.
const (
	ProtocolDays  = 84
	DaysPerWeek   = 7
	DaysPerMonth  = 28
	ProtocolWeeks = ProtocolDays / DaysPerWeek
)

// DayInfo is the derived position inside the protocol. All fields are 0
// when the protocol has not started.
type DayInfo struct {
	DayNumber   int `json:"dayNumber"`
	WeekNumber  int `json:"weekNumber"`
	MonthNumber int `json:"monthNumber"`
}

// Started reports whether a start date was set.
func (i DayInfo) Started() bool { return i.DayNumber > 0 }

// ProgressPercent is the share of the protocol elapsed, 0..100.
func (i DayInfo) ProgressPercent() int {
	return i.DayNumber * 100 / ProtocolDays
}

// DayNumber returns the 1-indexed protocol day of today for a protocol
// started on start, clamped to [1, ProtocolDays]. It returns 0 when start
// is unset. Days past the end keep reporting ProtocolDays.
func DayNumber(start, today Date) int {
	if start.IsZero() {
		return 0
	}
	n := today.DaysSince(start) + 1
	switch {
	case n < 1:
		return 1
	case n > ProtocolDays:
		return ProtocolDays
	}
	return n
}

// Derive returns day, week and month numbers for today.
func Derive(start, today Date) DayInfo {
	day := DayNumber(start, today)
	return DayInfo{
		DayNumber:   day,
		WeekNumber:  ceilDiv(day, DaysPerWeek),
		MonthNumber: ceilDiv(day, DaysPerMonth),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
