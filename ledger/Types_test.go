package ledger

import "testing"
import "time"

func TestParseAmount(t *testing.T) {
	good := map[string]int{
		"0":    0,
		"500":  500,
		"0042": 42,
	}
	for text, want := range good {
		got, err := ParseAmount(text)
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error: %s", text, err)
		}
		if got != want {
			t.Errorf("ParseAmount(%q) = %d, want %d", text, got, want)
		}
	}

	bad := []string{"", "-1", "+5", "12.50", "12,50", "500 ", "abc", "1e3", "99999999999999999999"}
	for _, text := range bad {
		if _, err := ParseAmount(text); err != ErrBadAmount {
			t.Errorf("ParseAmount(%q): expected ErrBadAmount, got: %v", text, err)
		}
	}
}

func TestKeyFormats(t *testing.T) {
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	if DayKey(at) != "01.01.2025" {
		t.Errorf("DayKey = %s", DayKey(at))
	}
	if TimeKey(at) != "12:00:00" {
		t.Errorf("TimeKey = %s", TimeKey(at))
	}
}

func TestTransactionTimeNormalizedToUTC(t *testing.T) {
	westOfUTC := time.FixedZone("UTC-11", -11*60*60)
	at := time.Date(2025, time.January, 1, 23, 0, 0, 0, westOfUTC)

	transaction := NewTransaction(Expense, Food, 1, at)
	if DayKey(transaction.Time) != "02.01.2025" {
		t.Errorf("DayKey = %s, want the UTC day 02.01.2025", DayKey(transaction.Time))
	}
	if TimeKey(transaction.Time) != "10:00:00" {
		t.Errorf("TimeKey = %s, want the UTC time 10:00:00", TimeKey(transaction.Time))
	}
}

func TestParseTransactionKind(t *testing.T) {
	if kind, err := ParseTransactionKind("income"); err != nil || kind != Income {
		t.Errorf("income: %v %v", kind, err)
	}
	if kind, err := ParseTransactionKind("expense"); err != nil || kind != Expense {
		t.Errorf("expense: %v %v", kind, err)
	}
	if _, err := ParseTransactionKind("transfer"); err == nil {
		t.Error("unknown kind was accepted")
	}
}
