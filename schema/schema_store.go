package schema

import "time"

// Action is one ledger row keyed by (Project, DeveloperID, ResourceID, Type).
// When handed to an upsert, Total is the delta to add.
type Action struct {
	Project     string     `json:"project" db:"project"`
	DeveloperID string     `json:"developer_id" db:"developer_id"`
	ResourceID  string     `json:"resource_id" db:"resource_id"`
	Type        ActionType `json:"action_type" db:"action_type"`
	Total       int64      `json:"total" db:"total"`
}

// NewAction builds an action carrying delta for the given key.
func NewAction(developer, resourceID string, t ActionType, delta int64) Action {
	return Action{DeveloperID: developer, ResourceID: resourceID, Type: t, Total: delta}
}

// Weight is a calibrated share in [0,100] of a category or an action type.
type Weight struct {
	Kind      WeightKind `json:"kind" db:"kind"`
	Key       string     `json:"key" db:"weight_key"`
	Value     float64    `json:"value" db:"value"`
	UpdatedAt time.Time  `json:"updated_at" db:"-"`
}

// ActionTotals is one consistent snapshot of the ledger aggregates.
type ActionTotals struct {
	Global     int64
	ByCategory map[ActionCategory]int64
	ByType     map[ActionType]int64
}

// NewActionTotals returns empty totals ready to accumulate into.
func NewActionTotals() ActionTotals {
	return ActionTotals{
		ByCategory: make(map[ActionCategory]int64),
		ByType:     make(map[ActionType]int64),
	}
}

// WeightSet indexes weights for score computation.
type WeightSet struct {
	Categories map[ActionCategory]float64
	Types      map[ActionType]float64
}

// NewWeightSet indexes a flat list of weights.
func NewWeightSet(weights []Weight) WeightSet {
	set := WeightSet{
		Categories: make(map[ActionCategory]float64),
		Types:      make(map[ActionType]float64),
	}
	for _, w := range weights {
		switch w.Kind {
		case CategoryWeight:
			set.Categories[ActionCategory(w.Key)] = w.Value
		case TypeWeight:
			set.Types[ActionType(w.Key)] = w.Value
		}
	}
	return set
}

// RunRecord represents a row from the contrib_runs table.
type RunRecord struct {
	RunID         string
	Project       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	Processed     int
	Skipped       int
	Failed        int
	ConfigParams  *string
}
