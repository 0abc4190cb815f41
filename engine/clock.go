package engine

// daysInMonth is fixed at 28 for February: the simulation never models
// leap years, grounded on the original's sdays_in_month table.
var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

const secsPerHour = 3600
const secsPerDay = secsPerHour * 24

// Clock tracks the simulation's wall-clock position: a fixed start/end
// bound plus a running year/month/day/second-of-day cursor. Each new
// fire season resets month/day/hour to the configured start.
type Clock struct {
	StartYear, StartMonth, StartDay, StartHour int
	EndYear, EndMonth, EndDay, EndHour         int

	Year, Month, Day int
	SecOfDay         int
}

// NewClock positions the cursor at the configured start of the run.
func NewClock(startYear, startMonth, startDay, startHour, endYear, endMonth, endDay, endHour int) *Clock {
	c := &Clock{
		StartYear: startYear, StartMonth: startMonth, StartDay: startDay, StartHour: startHour,
		EndYear: endYear, EndMonth: endMonth, EndDay: endDay, EndHour: endHour,
	}
	c.ResetToSeasonStart()
	return c
}

// ResetToSeasonStart repositions month/day/hour to the configured season
// start for the clock's current year, called at the top of each simulated
// year.
func (c *Clock) ResetToSeasonStart() {
	if c.Year == 0 {
		c.Year = c.StartYear
	}
	c.Month = c.StartMonth
	c.Day = c.StartDay
	c.SecOfDay = c.StartHour * secsPerHour
}

// Hour returns the current military-time hour-of-day (e.g. 1430 for 2:30pm).
func (c *Clock) Hour() int {
	h := c.SecOfDay / secsPerHour
	m := (c.SecOfDay % secsPerHour) / 60
	return h*100 + m
}

// Advance moves the clock forward by secs seconds, wrapping
// second-of-day -> day -> month -> year using the fixed-length calendar.
func (c *Clock) Advance(secs int) {
	c.SecOfDay += secs
	for c.SecOfDay >= secsPerDay {
		c.SecOfDay -= secsPerDay
		c.Day++
		if c.Day > daysInMonth[c.Month] {
			c.Day = 1
			c.Month++
			if c.Month > 12 {
				c.Month = 1
				c.Year++
			}
		}
	}
}

// AtOrPastEnd reports whether the clock has reached or passed the
// configured run end.
func (c *Clock) AtOrPastEnd() bool {
	if c.Year != c.EndYear {
		return c.Year > c.EndYear
	}
	if c.Month != c.EndMonth {
		return c.Month > c.EndMonth
	}
	if c.Day != c.EndDay {
		return c.Day > c.EndDay
	}
	return c.Hour() >= c.EndHour
}

// AtOrPastSeasonEnd reports whether the clock has reached the end of the
// current year's fire season, using the same month/day/hour bound applied
// every year (the end-of-season bound, independent of EndYear).
func (c *Clock) AtOrPastSeasonEnd() bool {
	if c.Month != c.EndMonth {
		return c.Month > c.EndMonth
	}
	if c.Day != c.EndDay {
		return c.Day > c.EndDay
	}
	return c.Hour() >= c.EndHour
}

// DayOfYear returns a 1-based day-of-year count under the fixed 28-day
// February calendar, used for Santa-Ana window membership tests.
func (c *Clock) DayOfYear() int {
	d := c.Day
	for m := 1; m < c.Month; m++ {
		d += daysInMonth[m]
	}
	return d
}
