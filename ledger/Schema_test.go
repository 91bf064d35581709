package ledger

import "errors"
import "testing"
import "time"

func TestCellAddresses(t *testing.T) {
	s := NewCategorySchema()

	cases := []struct {
		category Category
		month    time.Month
		cell     string
	}{
		{Food, time.January, "H15"},
		{Housing, time.January, "H13"},
		{Misc, time.December, "G28"},
		{SalaryCash, time.August, "C3"},
		{OtherIncome, time.July, "N6"},
	}
	for _, c := range cases {
		cell, err := s.CellAddress(c.category, c.month)
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %s", c.category, c.month, err)
		}
		if cell != c.cell {
			t.Errorf("%s/%s: got cell %s, want %s", c.category, c.month, cell, c.cell)
		}
	}
}

func TestCellAddressUnknownCategory(t *testing.T) {
	s := NewCategorySchema()
	if _, err := s.CellAddress(Category("Yachts"), time.March); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got: %v", err)
	}
}

func TestAllAddressesDistinct(t *testing.T) {
	s := NewCategorySchema()
	categories := append(append([]Category{}, s.IncomeCategories()...), s.ExpenseCategories()...)
	if len(categories) != 20 {
		t.Fatalf("expected 16 expense + 4 income categories, got %d", len(categories))
	}

	seen := make(map[string]bool)
	for _, c := range categories {
		for month := time.January; month <= time.December; month++ {
			cell, err := s.CellAddress(c, month)
			if err != nil {
				t.Fatalf("%s/%s: %s", c, month, err)
			}
			if seen[cell] {
				t.Errorf("cell %s is mapped twice", cell)
			}
			seen[cell] = true
		}
	}
	if len(seen) != 20*12 {
		t.Errorf("expected 240 distinct cells, got %d", len(seen))
	}
}

func TestLookupAndKind(t *testing.T) {
	s := NewCategorySchema()

	c, found := s.Lookup("Food")
	if !found || c != Food {
		t.Errorf("Lookup(Food) failed: %v %v", c, found)
	}
	if _, found := s.Lookup("Yachts"); found {
		t.Error("Lookup accepted an unknown label")
	}

	if kind, found := s.KindOf(SalaryCard); !found || kind != Income {
		t.Errorf("SalaryCard should be income, got %v %v", kind, found)
	}
	if kind, found := s.KindOf(Haircut); !found || kind != Expense {
		t.Errorf("Haircut should be expense, got %v %v", kind, found)
	}
}

func TestMonthNameCell(t *testing.T) {
	s := NewCategorySchema()
	cell, err := s.MonthNameCell(time.January)
	if err != nil {
		t.Fatal(err)
	}
	if cell != "H12" {
		t.Errorf("got %s, want H12", cell)
	}
}
