package ledger

import "fmt"
import "log"
import "os"
import "path"
import "strconv"
import "time"

import "github.com/xuri/excelize/v2"

// AggregateStore keeps one spreadsheet per ledger with a sheet per calendar
// year; each category/month pair accumulates into a fixed cell resolved via
// the schema. Every mutation is a whole-file read-modify-write; the save goes
// through a temp file and rename so a crash mid-write cannot leave a
// truncated spreadsheet behind.
type AggregateStore struct {
	dir    string
	schema *CategorySchema
}

func NewAggregateStore(dir string, schema *CategorySchema) *AggregateStore {
	store := &AggregateStore{dir: dir,
		schema: schema}
	return store
}

func (s *AggregateStore) FilePath(id LedgerId) string {
	return path.Join(s.dir, string(id), fmt.Sprintf("%s.xlsx", id))
}

func sheetName(t time.Time) string {
	return strconv.Itoa(t.Year())
}

// Create makes a blank template grid for the ledger, replacing any existing
// file. The template carries the schema labels for the year of 't'.
func (s *AggregateStore) Create(id LedgerId, t time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := s.fillTemplate(f, sheet); err != nil {
		return err
	}

	filePath := s.FilePath(id)
	if err := os.MkdirAll(path.Dir(filePath), 0755); err != nil {
		return err
	}
	log.Printf("Creating blank aggregate grid for ledger '%s' at %s (sheet %s)", id, filePath, sheet)
	return saveAtomic(f, filePath)
}

// fillTemplate writes the schema labels onto a fresh year sheet.
func (s *AggregateStore) fillTemplate(f *excelize.File, sheet string) error {
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", incomeFirstRow-1), "Income"); err != nil {
		return err
	}
	for _, c := range s.schema.IncomeCategories() {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", s.schema.rows[c]), string(c)); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", expenseFirstRow-1), "Expenses"); err != nil {
		return err
	}
	for _, c := range s.schema.ExpenseCategories() {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", s.schema.rows[c]), string(c)); err != nil {
			return err
		}
	}
	for month := time.January; month <= time.December; month++ {
		cell, err := s.schema.MonthNameCell(month)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, month.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *AggregateStore) load(id LedgerId) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.FilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return f, nil
}

// ReadCell returns the accumulated total for (category, month of 't').
// An absent year sheet or empty cell reads as 0.
func (s *AggregateStore) ReadCell(id LedgerId, category Category, t time.Time) (int, error) {
	address, err := s.schema.CellAddress(category, t.Month())
	if err != nil {
		return 0, err
	}

	f, err := s.load(id)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sheet := sheetName(t)
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return 0, err
	}
	if index == -1 {
		return 0, nil
	}

	raw, err := f.GetCellValue(sheet, address)
	if err != nil {
		return 0, err
	}
	return parseCellValue(raw, sheet, address)
}

// Accumulate adds delta to the (category, month of 't') cell and writes the
// whole grid back. The read and the write are not atomic with respect to
// other writers of the same file; callers must serialize per ledger.
func (s *AggregateStore) Accumulate(id LedgerId, category Category, t time.Time, delta int) error {
	address, err := s.schema.CellAddress(category, t.Month())
	if err != nil {
		return err
	}

	f, err := s.load(id)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := sheetName(t)
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if index == -1 {
		// first transaction of a new year
		log.Printf("Adding year sheet %s to aggregate grid of ledger '%s'", sheet, id)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := s.fillTemplate(f, sheet); err != nil {
			return err
		}
	}

	raw, err := f.GetCellValue(sheet, address)
	if err != nil {
		return err
	}
	current, err := parseCellValue(raw, sheet, address)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, address, current+delta); err != nil {
		return err
	}
	return saveAtomic(f, s.FilePath(id))
}

// Remove discards the grid file; a missing file is not an error.
func (s *AggregateStore) Remove(id LedgerId) error {
	err := os.Remove(s.FilePath(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func parseCellValue(raw, sheet, address string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("cell %s!%s holds non-numeric value '%s'", sheet, address, raw)
	}
	return value, nil
}

func saveAtomic(f *excelize.File, dst string) error {
	// SaveAs validates the target extension, so the temp name must stay a workbook
	tmp := dst + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
