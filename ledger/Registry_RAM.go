package ledger

import "fmt"
import "time"

// ramRegistry is the in-memory registry used by tests.
type ramRegistry struct {
	owners map[OwnerId]OwnerData

	nextLedgerId int
}

func NewRamRegistry() Registry {
	registry := &ramRegistry{
		owners:       make(map[OwnerId]OwnerData, 0),
		nextLedgerId: 1}
	return registry
}

func (s *ramRegistry) CreateOwner(owner OwnerId) (LedgerId, error) {
	if _, found := s.owners[owner]; found {
		return "", ErrOwnerExists
	}
	id := LedgerId(fmt.Sprintf("%d", s.nextLedgerId))
	s.nextLedgerId++
	s.owners[owner] = OwnerData{LedgerId: &id}
	return id, nil
}

func (s *ramRegistry) GetLedgerForOwner(owner OwnerId, createIfAbsent bool) (LedgerId, error) {
	data, found := s.owners[owner]
	if !found || data.LedgerId == nil {
		if createIfAbsent {
			return s.CreateOwner(owner)
		}
		return "", ErrNotInitialized
	}
	return *data.LedgerId, nil
}

func (s *ramRegistry) GetAllOwners() (map[OwnerId]OwnerData, error) {
	owners := make(map[OwnerId]OwnerData, len(s.owners))
	for id, data := range s.owners {
		owners[id] = data
	}
	return owners, nil
}

func (s *ramRegistry) SetDigestTime(owner OwnerId, t *time.Duration) error {
	data, found := s.owners[owner]
	if !found {
		return ErrNotInitialized
	}
	data.DigestTime = t
	s.owners[owner] = data
	return nil
}
