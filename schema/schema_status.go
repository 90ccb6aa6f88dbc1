package schema

import "time"

// CacheStatus represents the status of the diff cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// LedgerStatus represents the status of the contribution ledger.
type LedgerStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalActions  int64            `json:"total_actions"`
	Developers    int              `json:"developers"`
	Resources     int              `json:"resources"`
	Weights       int              `json:"weights"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
