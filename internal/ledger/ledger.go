// Package ledger stores contribution actions, weights and run history in SQL.
package ledger

import (
	"sync"

	"github.com/udithaR/Alitheia-Core/internal/contract"
)

// StoreManager hands out the ledger and the diff cache.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	ledger       contract.Ledger
	cache        contract.DiffCache
}

var _ contract.LedgerManager = &StoreManager{} // Compile-time check

// GetLedger returns the contribution ledger.
func (mgr *StoreManager) GetLedger() contract.Ledger {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.ledger
}

// GetDiffCache returns the diff cache.
func (mgr *StoreManager) GetDiffCache() contract.DiffCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}
