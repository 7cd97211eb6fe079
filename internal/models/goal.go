package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Period keys a reading goal: a whole year when Month is 0, otherwise one month.
type Period struct {
	Year  int
	Month int
}

// Yearly returns the period covering all of year.
func Yearly(year int) Period { return Period{Year: year} }

// Monthly returns the period covering one month of year.
func Monthly(year, month int) Period { return Period{Year: year, Month: month} }

// IsMonthly reports whether the period is a single month.
func (p Period) IsMonthly() bool { return p.Month != 0 }

// Path is the API path of the goal for this period.
func (p Period) Path() string {
	if p.IsMonthly() {
		return fmt.Sprintf("/goals/%d/%d", p.Year, p.Month)
	}
	return fmt.Sprintf("/goals/%d", p.Year)
}

func (p Period) String() string {
	if p.IsMonthly() {
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
	return fmt.Sprintf("%04d", p.Year)
}

// ParsePeriod reads "2025" or "2025-03".
func ParsePeriod(s string) (Period, error) {
	yearPart, monthPart, monthly := strings.Cut(strings.TrimSpace(s), "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: year must be a number", s)
	}
	if !monthly {
		return Yearly(year), nil
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: month must be a number", s)
	}
	return Monthly(year, month), nil
}

// Next steps a monthly period forward one month and a yearly period one year.
func (p Period) Next() Period {
	if !p.IsMonthly() {
		return Yearly(p.Year + 1)
	}
	if p.Month == 12 {
		return Monthly(p.Year+1, 1)
	}
	return Monthly(p.Year, p.Month+1)
}

// Prev is the inverse of [Period.Next].
func (p Period) Prev() Period {
	if !p.IsMonthly() {
		return Yearly(p.Year - 1)
	}
	if p.Month == 1 {
		return Monthly(p.Year-1, 12)
	}
	return Monthly(p.Year, p.Month-1)
}

// GoalInput is the body of POST /goals.
type GoalInput struct {
	Year        int `json:"year" validate:"gte=1000,lte=9999"`
	Month       int `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	TargetBooks int `json:"target_books" validate:"gte=1"`
}

// GoalFor builds the request body for a target on period p.
func GoalFor(p Period, target int) GoalInput {
	return GoalInput{Year: p.Year, Month: p.Month, TargetBooks: target}
}

// GoalProgress is the backend's view of a goal. IsCompleted is reported by
// the backend and never recomputed on the client.
type GoalProgress struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"`
	Target      int  `json:"target"`
	Current     int  `json:"current"`
	IsCompleted bool `json:"is_completed"`
}

// Percent is the share of the target reached, capped at 100.
func (g GoalProgress) Percent() float64 {
	return GoalPercent(g.Current, g.Target)
}

// GoalPercent returns min(current/target*100, 100), or 0 when target is not positive.
func GoalPercent(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	return min(float64(current)/float64(target)*100, 100)
}
