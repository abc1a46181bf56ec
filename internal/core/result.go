package core

// Result records are built fresh for every query and never mutated afterwards.

type DayResult struct {
	Date                  string  `json:"date"`
	Category              string  `json:"category"`
	YearlySum             float64 `json:"yearly_sum"`
	DailyKwh              float64 `json:"daily_kwh"`
	DailyPercentageOfYear float64 `json:"daily_percentage_of_year"`
}

type DailyValue struct {
	Date             string  `json:"date"`
	Kwh              float64 `json:"kwh"`
	PercentageOfYear float64 `json:"percentage_of_year"`
}

type MonthResult struct {
	Month           string       `json:"month"`
	Category        string       `json:"category"`
	YearlySum       float64      `json:"yearly_sum"`
	CategoryName    string       `json:"category_name"`
	TotalKwh        float64      `json:"total_kwh"`
	TotalPercentage float64      `json:"total_percentage"`
	DailyValues     []DailyValue `json:"daily_values"`
}

type MonthlyValue struct {
	MonthNum      int     `json:"month_num"`
	MonthName     string  `json:"month_name"`
	Kwh           float64 `json:"kwh"`
	PercentOfYear float64 `json:"percent_of_year"`
}

type YearMonthsResult struct {
	Year          int            `json:"year"`
	Category      string         `json:"category"`
	YearlySum     float64        `json:"yearly_sum"`
	CategoryName  string         `json:"category_name"`
	TotalKwh      float64        `json:"total_kwh"`
	MonthlyValues []MonthlyValue `json:"monthly_values"`
}

type YearDaysResult struct {
	Year         int          `json:"year"`
	Category     string       `json:"category"`
	YearlySum    float64      `json:"yearly_sum"`
	CategoryName string       `json:"category_name"`
	TotalKwh     float64      `json:"total_kwh"`
	DailyValues  []DailyValue `json:"daily_values"`
}

type HourlyValue struct {
	Hour       string  `json:"hour"` // "07:00"
	Kwh        float64 `json:"kwh"`
	Percentage float64 `json:"percentage"`
}

type QuarterHourlyValue struct {
	Timestamp  string  `json:"timestamp"` // "07:15:00"
	Kwh        float64 `json:"kwh"`
	Percentage float64 `json:"percentage"`
}

type DayProfileResult struct {
	Date                string               `json:"date"`
	Category            string               `json:"category"`
	YearlySum           float64              `json:"yearly_sum"`
	CategoryName        string               `json:"category_name"`
	TotalKwh            float64              `json:"total_kwh"`
	TotalPercentage     float64              `json:"total_percentage"`
	HourlyValues        []HourlyValue        `json:"hourly_values"`
	QuarterHourlyValues []QuarterHourlyValue `json:"quarter_hourly_values"`
}
