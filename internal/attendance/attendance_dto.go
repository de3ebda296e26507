package attendance

// CalendarQuery carries the optional month, year and employee_id query
// parameters. Zero month or year means the current one.
type CalendarQuery struct {
	Month      int    `form:"month"`
	Year       int    `form:"year"`
	EmployeeID string `form:"employee_id"`
}

type CalendarDay struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type CalendarResponse struct {
	EmployeeID   string        `json:"employee_id"`
	Month        string        `json:"month"`
	Year         int           `json:"year"`
	CalendarView []CalendarDay `json:"calendar_view"`
}
