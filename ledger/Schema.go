package ledger

import "fmt"
import "time"

type Category string

const (
	Housing       Category = "Housing"
	Utilities     Category = "Utilities"
	Food          Category = "Food"
	Transport     Category = "Transport"
	Internet      Category = "Internet"
	Mobile        Category = "Mobile"
	Clothes       Category = "Clothes"
	Medicine      Category = "Medicine"
	LoanInterest  Category = "Loan interest"
	Household     Category = "Household"
	Appliances    Category = "Appliances"
	Haircut       Category = "Haircut"
	Entertainment Category = "Entertainment"
	Education     Category = "Education"
	Gifts         Category = "Gifts"
	Misc          Category = "Misc"
)

const (
	SalaryCash  Category = "Salary (cash)"
	SalaryCard  Category = "Salary (card)"
	SideJobs    Category = "Side jobs"
	OtherIncome Category = "Other income"
)

// CategorySchema maps categories to grid rows and months to grid columns.
// The column layout starts the sheet at August (C) and wraps to July (N) -
// the layout of the budget template the grid was modeled on. The schema is
// immutable and shared process-wide.
type CategorySchema struct {
	version int

	rows    map[Category]int
	columns map[time.Month]string

	income  []Category // rows 3..6, in row order
	expense []Category // rows 13..28, in row order
}

const monthNameRow = 12
const incomeFirstRow = 3
const expenseFirstRow = 13

func NewCategorySchema() *CategorySchema {
	s := &CategorySchema{version: 1}

	s.income = []Category{SalaryCash, SalaryCard, SideJobs, OtherIncome}
	s.expense = []Category{Housing, Utilities, Food, Transport, Internet, Mobile,
		Clothes, Medicine, LoanInterest, Household, Appliances, Haircut,
		Entertainment, Education, Gifts, Misc}

	s.rows = make(map[Category]int, len(s.income)+len(s.expense))
	for i, c := range s.income {
		s.rows[c] = incomeFirstRow + i
	}
	for i, c := range s.expense {
		s.rows[c] = expenseFirstRow + i
	}

	s.columns = map[time.Month]string{
		time.January: "H", time.February: "I", time.March: "J", time.April: "K",
		time.May: "L", time.June: "M", time.July: "N", time.August: "C",
		time.September: "D", time.October: "E", time.November: "F", time.December: "G"}

	return s
}

func (s *CategorySchema) Version() int {
	return s.version
}

// CellAddress resolves (category, month) to a grid cell like "H15".
func (s *CategorySchema) CellAddress(category Category, month time.Month) (string, error) {
	row, found := s.rows[category]
	if !found {
		return "", fmt.Errorf("%w: category '%s'", ErrUnknownCategory, category)
	}
	column, found := s.columns[month]
	if !found {
		return "", fmt.Errorf("%w: month '%s'", ErrUnknownCategory, month)
	}
	return fmt.Sprintf("%s%d", column, row), nil
}

// MonthNameCell is the header cell of the month's column (the row just above
// the expense block).
func (s *CategorySchema) MonthNameCell(month time.Month) (string, error) {
	column, found := s.columns[month]
	if !found {
		return "", fmt.Errorf("%w: month '%s'", ErrUnknownCategory, month)
	}
	return fmt.Sprintf("%s%d", column, monthNameRow), nil
}

func (s *CategorySchema) IncomeCategories() []Category {
	return s.income
}

func (s *CategorySchema) ExpenseCategories() []Category {
	return s.expense
}

func (s *CategorySchema) KindOf(category Category) (TransactionKind, bool) {
	row, found := s.rows[category]
	if !found {
		return Expense, false
	}
	if row < expenseFirstRow {
		return Income, true
	}
	return Expense, true
}

// Lookup maps a raw label (e.g. from callback data) back to a schema category.
func (s *CategorySchema) Lookup(label string) (Category, bool) {
	_, found := s.rows[Category(label)]
	return Category(label), found
}
