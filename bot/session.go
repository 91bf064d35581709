package bot

import "errors"
import "log"
import "sync"
import "time"

import "github.com/AbuOrstho/fin-assistant/ledger"

type convState int

const (
	stateAwaitingCategory convState = iota
	stateAwaitingAmount
	stateAwaitingAction
	stateAwaitingDescription
)

func (s convState) String() string {
	switch s {
	case stateAwaitingCategory:
		return "awaiting category"
	case stateAwaitingAmount:
		return "awaiting amount"
	case stateAwaitingAction:
		return "awaiting action"
	case stateAwaitingDescription:
		return "awaiting description"
	}
	return "unknown"
}

// errWrongState: the intent does not match the current conversation state;
// the caller reports it and the state stays unchanged.
var errWrongState = errors.New("request does not match the current conversation state")

const sessionIdleTimeout = 10 * time.Minute

// conversation holds the partially collected transaction of one owner.
// Owners with no conversation entry are idle.
type conversation struct {
	state    convState
	kind     ledger.TransactionKind
	category ledger.Category

	// log entry key captured at commit time, target of a later amendment
	commitDay  string
	commitTime string

	lastActivity time.Time
}

type sessionTracker struct {
	mu       sync.Mutex
	sessions map[ledger.OwnerId]*conversation
}

func newSessionTracker() *sessionTracker {
	t := &sessionTracker{sessions: make(map[ledger.OwnerId]*conversation, 0)}
	return t
}

// beginTransaction opens (or restarts) a conversation in category selection.
func (t *sessionTracker) beginTransaction(owner ledger.OwnerId, kind ledger.TransactionKind, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[owner] = &conversation{state: stateAwaitingCategory,
		kind:         kind,
		lastActivity: now}
}

func (t *sessionTracker) selectCategory(owner ledger.OwnerId, category ledger.Category, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found || c.state != stateAwaitingCategory {
		return errWrongState
	}
	c.category = category
	c.state = stateAwaitingAmount
	c.lastActivity = now
	return nil
}

// pendingAmount returns the collected kind and category while the amount is
// awaited. It does not transition; the transition happens in committed once
// the coordinator accepted the transaction.
func (t *sessionTracker) pendingAmount(owner ledger.OwnerId) (ledger.TransactionKind, ledger.Category, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found || c.state != stateAwaitingAmount {
		return ledger.Expense, "", errWrongState
	}
	return c.kind, c.category, nil
}

func (t *sessionTracker) committed(owner ledger.OwnerId, day, tm string, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found || c.state != stateAwaitingAmount {
		return errWrongState
	}
	c.commitDay = day
	c.commitTime = tm
	c.state = stateAwaitingAction
	c.lastActivity = now
	return nil
}

func (t *sessionTracker) requestDescription(owner ledger.OwnerId, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found || c.state != stateAwaitingAction {
		return errWrongState
	}
	c.state = stateAwaitingDescription
	c.lastActivity = now
	return nil
}

func (t *sessionTracker) pendingDescription(owner ledger.OwnerId) (string, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found || c.state != stateAwaitingDescription {
		return "", "", errWrongState
	}
	return c.commitDay, c.commitTime, nil
}

// finish discards the conversation on normal completion.
func (t *sessionTracker) finish(owner ledger.OwnerId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, owner)
}

// cancel discards the in-memory context without side effects and reports
// whether there was anything to discard. An already committed transaction is
// never rolled back.
func (t *sessionTracker) cancel(owner ledger.OwnerId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, found := t.sessions[owner]
	delete(t.sessions, owner)
	return found
}

// awaitingText reports whether the owner's conversation expects free text
// (an amount or a description); the dispatcher routes such messages here.
func (t *sessionTracker) awaitingText(owner ledger.OwnerId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, found := t.sessions[owner]
	if !found {
		return false
	}
	return c.state == stateAwaitingAmount || c.state == stateAwaitingDescription
}

// sweep drops conversations idle for longer than sessionIdleTimeout.
func (t *sessionTracker) sweep(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for owner, c := range t.sessions {
		if now.Sub(c.lastActivity) > sessionIdleTimeout {
			log.Printf("Conversation of owner %d (%s) timed out, discarding it", owner, c.state)
			delete(t.sessions, owner)
		}
	}
}

func (t *sessionTracker) sweepLoop() {
	for {
		time.Sleep(time.Minute)
		t.sweep(time.Now())
	}
}
