package ledger

import "time"

// Registry is the explicit index of known owners; digest delivery and resets
// go through it instead of enumerating the storage directory.
type Registry interface {
	CreateOwner(owner OwnerId) (LedgerId, error)
	GetLedgerForOwner(owner OwnerId, createIfAbsent bool) (LedgerId, error)

	GetAllOwners() (map[OwnerId]OwnerData, error)
	SetDigestTime(owner OwnerId, t *time.Duration) error
}
