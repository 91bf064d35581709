package ledger

import "log"
import "sync"
import "time"

// Ledger coordinates the two per-user stores. All store access for a given
// owner is serialized behind a per-owner mutex so commit, amend and digest
// reads never interleave with each other.
type Ledger struct {
	registry Registry
	schema   *CategorySchema
	grid     *AggregateStore
	records  *LogStore

	mu         sync.Mutex
	ownerLocks map[OwnerId]*sync.Mutex
}

func NewLedger(registry Registry, schema *CategorySchema, grid *AggregateStore, records *LogStore) *Ledger {
	l := &Ledger{registry: registry,
		schema:     schema,
		grid:       grid,
		records:    records,
		ownerLocks: make(map[OwnerId]*sync.Mutex, 0)}
	return l
}

func (l *Ledger) Schema() *CategorySchema {
	return l.schema
}

func (l *Ledger) lockOwner(owner OwnerId) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, found := l.ownerLocks[owner]
	if !found {
		m = &sync.Mutex{}
		l.ownerLocks[owner] = m
	}
	return m
}

// Initialized reports whether the owner has a registered ledger.
func (l *Ledger) Initialized(owner OwnerId) (bool, error) {
	_, err := l.registry.GetLedgerForOwner(owner, false)
	if err == ErrNotInitialized {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Init registers the owner (if needed) and lays down the blank grid.
func (l *Ledger) Init(owner OwnerId, now time.Time) error {
	id, err := l.registry.GetLedgerForOwner(owner, true)
	if err != nil {
		return err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()
	return l.grid.Create(id, now)
}

// Reset irrecoverably discards both stores and reinitializes the grid from
// the blank template. The owner's registration and ledger id survive.
func (l *Ledger) Reset(owner OwnerId, now time.Time) error {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()

	log.Printf("Resetting all records of owner %d (ledger '%s')", owner, id)
	if err := l.records.Remove(id); err != nil {
		return err
	}
	return l.grid.Create(id, now)
}

// Commit writes the transaction to the detailed log first and only then
// accumulates it into the monthly grid: if the process dies between the two
// steps the log remains the authoritative record and the grid could be
// rebuilt from it. There is no rollback - an aggregate failure after a
// successful log write leaves the stores diverged and is surfaced to the
// caller. The returned (day, time) keys address the entry for amendments.
func (l *Ledger) Commit(owner OwnerId, transaction Transaction) (string, string, error) {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return "", "", err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()

	day, tm, err := l.records.Append(id, transaction)
	if err != nil {
		log.Printf("Could not append transaction to log of owner %d; error: %s", owner, err)
		return "", "", err
	}
	if err := l.grid.Accumulate(id, transaction.Category, transaction.Time, transaction.Amount); err != nil {
		log.Printf("Aggregate update failed after log write for owner %d (entry %s %s); stores have diverged; error: %s", owner, day, tm, err)
		return day, tm, err
	}
	log.Printf("Committed %s of %d (category '%s') for owner %d at %s %s", transaction.Kind, transaction.Amount, transaction.Category, owner, day, tm)
	return day, tm, nil
}

// Amend attaches a description to the log entry at (day, tm). The grid is
// never touched: descriptions do not affect totals.
func (l *Ledger) Amend(owner OwnerId, day, tm, description string) error {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()
	return l.records.AmendDescription(id, day, tm, description)
}

// ReadDay returns the log entries of the given day, time-ascending. It takes
// the owner lock so digests never observe a half-written file.
func (l *Ledger) ReadDay(owner OwnerId, day string) ([]LogEntry, error) {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return nil, err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()
	return l.records.ReadDay(id, day)
}

func (l *Ledger) ReadCell(owner OwnerId, category Category, t time.Time) (int, error) {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return 0, err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()
	return l.grid.ReadCell(id, category, t)
}

// MonthExpenses sums the expense cells of the month of 't'.
func (l *Ledger) MonthExpenses(owner OwnerId, t time.Time) (int, error) {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return 0, err
	}
	m := l.lockOwner(owner)
	m.Lock()
	defer m.Unlock()

	total := 0
	for _, category := range l.schema.ExpenseCategories() {
		value, err := l.grid.ReadCell(id, category, t)
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total, nil
}

// FilePath locates the owner's grid file for document delivery.
func (l *Ledger) FilePath(owner OwnerId) (string, error) {
	id, err := l.registry.GetLedgerForOwner(owner, false)
	if err != nil {
		return "", err
	}
	return l.grid.FilePath(id), nil
}

// Owners exposes the registry index for digest scheduling.
func (l *Ledger) Owners() (map[OwnerId]OwnerData, error) {
	return l.registry.GetAllOwners()
}

func (l *Ledger) SetDigestTime(owner OwnerId, t *time.Duration) error {
	return l.registry.SetDigestTime(owner, t)
}
