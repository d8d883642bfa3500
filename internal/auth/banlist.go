package auth

import (
	"sync"

	"github.com/google/uuid"
)

// BanList is the process-local revocation set. Membership denies a subject on
// every authenticated request even while its token is still valid. Reads
// vastly outnumber writes, so readers share an RLock. The set is not
// persisted here; the startup path reloads it from the users table.
type BanList struct {
	mu     sync.RWMutex
	banned map[uuid.UUID]struct{}
}

func NewBanList() *BanList {
	return &BanList{banned: map[uuid.UUID]struct{}{}}
}

func (b *BanList) Ban(userID uuid.UUID) {
	b.mu.Lock()
	b.banned[userID] = struct{}{}
	b.mu.Unlock()
}

func (b *BanList) Unban(userID uuid.UUID) {
	b.mu.Lock()
	delete(b.banned, userID)
	b.mu.Unlock()
}

func (b *BanList) IsBanned(userID uuid.UUID) bool {
	b.mu.RLock()
	_, found := b.banned[userID]
	b.mu.RUnlock()
	return found
}
