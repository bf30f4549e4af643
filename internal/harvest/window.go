package harvest

import "time"

// DefaultWindowHours is how far back a run reads history.
const DefaultWindowHours = 25

// Window is the time range a run reads. It is computed once and shared by
// every channel of the run.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window of the given length ending at now, expressed in
// loc and truncated to whole seconds.
func NewWindow(now time.Time, hours int, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	end := now.In(loc).Truncate(time.Second)
	return Window{
		Start: end.Add(-time.Duration(hours) * time.Hour),
		End:   end,
	}
}
