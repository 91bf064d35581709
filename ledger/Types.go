package ledger

import "errors"
import "regexp"
import "strconv"
import "time"

type OwnerId int64

// LedgerId identifies the pair of per-user files (grid + log) on disk.
// It is minted by the registry when an owner is first registered.
type LedgerId string

type TransactionKind int

const (
	Expense TransactionKind = iota
	Income
)

func (k TransactionKind) String() string {
	if k == Income {
		return "income"
	}
	return "expense"
}

func ParseTransactionKind(s string) (TransactionKind, error) {
	switch s {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return Expense, errors.New("unknown transaction kind: " + s)
}

type Transaction struct {
	Kind        TransactionKind
	Category    Category
	Amount      int
	Time        time.Time
	Description *string
}

// NewTransaction normalizes the timestamp to UTC: the persisted day and time
// keys must not depend on the host timezone, or the digest (which walks days
// in UTC) would skip entries committed late in a local day.
func NewTransaction(kind TransactionKind, category Category, amount int, t time.Time) *Transaction {
	transaction := &Transaction{Kind: kind,
		Category: category,
		Amount:   amount,
		Time:     t.UTC()}
	return transaction
}

// Key formats of the two persisted stores: log days are keyed day-month-year,
// log times hour:minute:second (whole seconds).
const dayKeyFormat = "02.01.2006"
const timeKeyFormat = "15:04:05"

func DayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

func TimeKey(t time.Time) string {
	return t.Format(timeKeyFormat)
}

type OwnerData struct {
	LedgerId   *LedgerId
	DigestTime *time.Duration // from UTC midnight; nil means the bot-wide default applies
}

var amountRe *regexp.Regexp = regexp.MustCompile("^\\d+$")

// ParseAmount validates user-entered amount text: a bare non-negative integer
// literal and nothing else.
func ParseAmount(text string) (int, error) {
	if !amountRe.MatchString(text) {
		return 0, ErrBadAmount
	}
	amount, err := strconv.Atoi(text)
	if err != nil {
		// matched the regexp but overflows int
		return 0, ErrBadAmount
	}
	return amount, nil
}
