package performance

import (
	"time"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/pkg/formulas"
)

// DrawdownWindow is a (start, end) date pair delimiting a drawdown episode.
// Valid is false when the window could not be located, e.g. for an empty series.
type DrawdownWindow struct {
	Start time.Time
	End   time.Time
	Valid bool
}

// StartDate renders the start as YYYY-MM-DD, or "" for an invalid window.
func (w DrawdownWindow) StartDate() string {
	if !w.Valid {
		return ""
	}
	return domain.FormatDate(w.Start)
}

// EndDate renders the end as YYYY-MM-DD, or "" for an invalid window.
func (w DrawdownWindow) EndDate() string {
	if !w.Valid {
		return ""
	}
	return domain.FormatDate(w.End)
}

func windowAt(ret domain.Series, start, end int, ok bool) DrawdownWindow {
	if !ok {
		return DrawdownWindow{}
	}
	return DrawdownWindow{Start: ret.Date(start), End: ret.Date(end), Valid: true}
}

// DailyDrawdown returns the drawdown from the running peak on every date of ret.
func DailyDrawdown(ret domain.Series) domain.Series {
	return domain.MustSeries(ret.Dates(), formulas.DailyDrawdown(ret.Values()))
}

// MaxDrawdownWindow returns the window of the worst drawdown: the trough date
// and the running-sum peak before it.
func MaxDrawdownWindow(ret domain.Series) DrawdownWindow {
	start, end, ok := formulas.MaxDrawdownWindow(ret.Values())
	return windowAt(ret, start, end, ok)
}

// LongestDrawdownWindow returns the window of the drawdown episode spanning
// the most periods.
func LongestDrawdownWindow(ret domain.Series) DrawdownWindow {
	start, end, ok := formulas.LongestDrawdownWindow(ret.Values())
	return windowAt(ret, start, end, ok)
}
