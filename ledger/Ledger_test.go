package ledger

import "sync"
import "testing"
import "time"

func newTestLedger(t *testing.T) *Ledger {
	dir := t.TempDir()
	schema := NewCategorySchema()
	return NewLedger(NewRamRegistry(), schema, NewAggregateStore(dir, schema), NewLogStore(dir))
}

func TestCommitAmendScenario(t *testing.T) {
	l := newTestLedger(t)
	owner := OwnerId(1)
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	if err := l.Init(owner, at); err != nil {
		t.Fatal(err)
	}

	day, tm, err := l.Commit(owner, *NewTransaction(Expense, Food, 500, at))
	if err != nil {
		t.Fatal(err)
	}
	if day != "01.01.2025" || tm != "12:00:00" {
		t.Fatalf("unexpected commit keys: %s %s", day, tm)
	}

	value, err := l.ReadCell(owner, Food, at)
	if err != nil {
		t.Fatal(err)
	}
	if value != 500 {
		t.Errorf("aggregate cell holds %d, want 500", value)
	}

	entries, err := l.ReadDay(owner, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Kind != Expense || entries[0].Category != Food || entries[0].Amount != 500 || entries[0].Description != nil {
		t.Errorf("log entry does not match the committed transaction: %+v", entries[0])
	}

	if err := l.Amend(owner, day, tm, "lunch"); err != nil {
		t.Fatal(err)
	}
	entries, err = l.ReadDay(owner, day)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Description == nil || *entries[0].Description != "lunch" {
		t.Errorf("amend did not set the description: %+v", entries[0].Description)
	}

	// descriptions never affect the aggregate
	value, err = l.ReadCell(owner, Food, at)
	if err != nil {
		t.Fatal(err)
	}
	if value != 500 {
		t.Errorf("aggregate cell changed after amend: %d", value)
	}
}

func TestCommitWithoutInit(t *testing.T) {
	l := newTestLedger(t)
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	if _, _, err := l.Commit(OwnerId(5), *NewTransaction(Expense, Food, 1, at)); err != ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized, got: %v", err)
	}
	if err := l.Amend(OwnerId(5), "01.01.2025", "12:00:00", "x"); err != ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized, got: %v", err)
	}
}

func TestReset(t *testing.T) {
	l := newTestLedger(t)
	owner := OwnerId(1)
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	if err := l.Init(owner, at); err != nil {
		t.Fatal(err)
	}
	day, _, err := l.Commit(owner, *NewTransaction(Expense, Food, 500, at))
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Reset(owner, at); err != nil {
		t.Fatal(err)
	}

	value, err := l.ReadCell(owner, Food, at)
	if err != nil {
		t.Fatal(err)
	}
	if value != 0 {
		t.Errorf("aggregate cell holds %d after reset, want 0", value)
	}
	entries, err := l.ReadDay(owner, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("log still holds %d entries after reset", len(entries))
	}
}

func TestMonthExpenses(t *testing.T) {
	l := newTestLedger(t)
	owner := OwnerId(1)
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	if err := l.Init(owner, at); err != nil {
		t.Fatal(err)
	}
	commits := []struct {
		kind     TransactionKind
		category Category
		amount   int
	}{
		{Expense, Food, 500},
		{Expense, Transport, 200},
		{Income, SalaryCard, 10000},
	}
	for i, c := range commits {
		if _, _, err := l.Commit(owner, *NewTransaction(c.kind, c.category, c.amount, at.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}

	total, err := l.MonthExpenses(owner, at)
	if err != nil {
		t.Fatal(err)
	}
	if total != 700 {
		t.Errorf("month expenses are %d, want 700 (income must not count)", total)
	}
}

// An entry committed late in a local day west of UTC must land under the UTC
// day, or the digest (which walks days in UTC) would never cover it.
func TestCommitKeysUseUTC(t *testing.T) {
	l := newTestLedger(t)
	owner := OwnerId(1)
	westOfUTC := time.FixedZone("UTC-11", -11*60*60)
	at := time.Date(2025, time.January, 1, 23, 0, 0, 0, westOfUTC)

	if err := l.Init(owner, at); err != nil {
		t.Fatal(err)
	}
	day, tm, err := l.Commit(owner, *NewTransaction(Expense, Food, 500, at))
	if err != nil {
		t.Fatal(err)
	}
	if day != "02.01.2025" || tm != "10:00:00" {
		t.Fatalf("commit keys are %s %s, want the UTC rendering 02.01.2025 10:00:00", day, tm)
	}

	entries, err := l.ReadDay(owner, "02.01.2025")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("the UTC day holds %d entries, want 1", len(entries))
	}
}

// The coordinator's per-owner lock is what makes concurrent commits safe
// despite the stores' non-atomic read-modify-write cycles.
func TestConcurrentCommitsDoNotLoseUpdates(t *testing.T) {
	l := newTestLedger(t)
	owner := OwnerId(1)
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	if err := l.Init(owner, at); err != nil {
		t.Fatal(err)
	}

	const workers = 4
	const perWorker = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, _, err := l.Commit(owner, *NewTransaction(Expense, Food, 7, at)); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	value, err := l.ReadCell(owner, Food, at)
	if err != nil {
		t.Fatal(err)
	}
	if value != workers*perWorker*7 {
		t.Errorf("aggregate cell holds %d, want %d", value, workers*perWorker*7)
	}
	entries, err := l.ReadDay(owner, "01.01.2025")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != workers*perWorker {
		t.Errorf("log holds %d entries, want %d (colliding seconds must not drop entries)", len(entries), workers*perWorker)
	}
}
