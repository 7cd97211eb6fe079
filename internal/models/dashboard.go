package models

// DashboardStats is the body of GET /dashboard.
type DashboardStats struct {
	TotalBooks       int     `json:"total_books"`
	CurrentlyReading int     `json:"currently_reading"`
	BooksFinished    int     `json:"books_finished"`
	AverageRating    float64 `json:"average_rating"`
	GoalTarget       int     `json:"goal_target"`
	MonthlyTarget    int     `json:"monthly_target"`
	MonthlyFinished  int     `json:"monthly_finished"`
	YearlyTarget     int     `json:"yearly_target"`
	GoalsSetCount    int     `json:"goals_set_count"`
}
