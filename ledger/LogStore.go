package ledger

import "encoding/json"
import "fmt"
import "log"
import "os"
import "path"
import "sort"
import "strconv"
import "strings"

// LogStore keeps the detailed per-ledger transaction record: a JSON file
// keyed date-string -> time-string -> entry. Like the aggregate grid, every
// mutation loads the whole structure, changes it in memory and writes it
// back through a temp file + rename.
type LogStore struct {
	dir string
}

func NewLogStore(dir string) *LogStore {
	return &LogStore{dir: dir}
}

type logEntry struct {
	Description *string `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      int     `json:"amount"`
}

type logFile map[string]map[string]logEntry

// LogEntry is the read model returned by ReadDay. Time is the entry's key
// within its day, possibly carrying a collision suffix (see Append).
type LogEntry struct {
	Time        string
	Kind        TransactionKind
	Category    Category
	Amount      int
	Description *string
}

func (s *LogStore) FilePath(id LedgerId) string {
	return path.Join(s.dir, string(id), fmt.Sprintf("%s.json", id))
}

func (s *LogStore) loadAll(id LedgerId) (logFile, error) {
	raw, err := os.ReadFile(s.FilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return logFile{}, nil
		}
		return nil, err
	}
	var data logFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("log file of ledger '%s' is corrupted: %v", id, err)
	}
	return data, nil
}

func (s *LogStore) saveAll(id LedgerId, data logFile) error {
	filePath := s.FilePath(id)
	if err := os.MkdirAll(path.Dir(filePath), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filePath)
}

// Append stores the transaction under its (day, time) key and returns the
// keys actually used. Time resolution is whole seconds, so a second
// transaction in the same second would collide; the committed policy is to
// admit it under the next free "HH:MM:SS.n" key rather than drop it.
func (s *LogStore) Append(id LedgerId, transaction Transaction) (string, string, error) {
	day := DayKey(transaction.Time)
	tm := TimeKey(transaction.Time)

	data, err := s.loadAll(id)
	if err != nil {
		return "", "", err
	}

	if _, found := data[day]; !found {
		data[day] = make(map[string]logEntry)
	}
	key := tm
	for n := 1; ; n++ {
		if _, taken := data[day][key]; !taken {
			break
		}
		key = fmt.Sprintf("%s.%d", tm, n)
	}
	if key != tm {
		log.Printf("Time key %s of %s is already taken in ledger '%s'; admitting the entry as %s", tm, day, id, key)
	}

	data[day][key] = logEntry{Description: transaction.Description,
		Type:     transaction.Kind.String(),
		Category: string(transaction.Category),
		Amount:   transaction.Amount}

	return day, key, s.saveAll(id, data)
}

// AmendDescription sets the description of the entry at (day, tm). A missing
// key leaves the entry set unchanged, but the file is rewritten either way.
func (s *LogStore) AmendDescription(id LedgerId, day, tm, description string) error {
	data, err := s.loadAll(id)
	if err != nil {
		return err
	}

	if entries, found := data[day]; found {
		if entry, found := entries[tm]; found {
			entry.Description = &description
			entries[tm] = entry
		} else {
			log.Printf("No entry at %s %s in ledger '%s'; nothing to amend", day, tm, id)
		}
	} else {
		log.Printf("No entries on %s in ledger '%s'; nothing to amend", day, id)
	}

	return s.saveAll(id, data)
}

// ReadDay returns the day's entries ordered by time ascending. An absent
// ledger or day yields an empty slice.
func (s *LogStore) ReadDay(id LedgerId, day string) ([]LogEntry, error) {
	data, err := s.loadAll(id)
	if err != nil {
		return nil, err
	}

	raw := data[day]
	entries := make([]LogEntry, 0, len(raw))
	for key, e := range raw {
		kind, err := ParseTransactionKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %s %s of ledger '%s': %v", day, key, id, err)
		}
		entries = append(entries, LogEntry{Time: key,
			Kind:        kind,
			Category:    Category(e.Category),
			Amount:      e.Amount,
			Description: e.Description})
	}
	sort.Slice(entries, func(i, j int) bool { return lessTimeKey(entries[i].Time, entries[j].Time) })
	return entries, nil
}

// Remove discards the log file; a missing file is not an error.
func (s *LogStore) Remove(id LedgerId) error {
	err := os.Remove(s.FilePath(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// lessTimeKey orders "HH:MM:SS" keys with their optional ".n" collision
// suffixes: base time first, then suffix number.
func lessTimeKey(a, b string) bool {
	aBase, aN := splitTimeKey(a)
	bBase, bN := splitTimeKey(b)
	if aBase != bBase {
		return aBase < bBase
	}
	return aN < bN
}

func splitTimeKey(key string) (string, int) {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		return key, 0
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return key, 0
	}
	return key[:i], n
}
