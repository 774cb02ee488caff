package core

// CategoryTotal is an amount aggregated by expense category.
type CategoryTotal struct {
	Category string
	Amount   Money
}

// MonthTotal is an amount aggregated into a year-month bucket ("2006-01").
type MonthTotal struct {
	Month  string
	Amount Money
}
