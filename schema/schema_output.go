package schema

import "time"

// DeveloperScore is the score of one developer within a project.
// Computed is false when the project has never been evaluated.
type DeveloperScore struct {
	Developer string                     `json:"developer"`
	Score     float64                    `json:"score"`
	Computed  bool                       `json:"computed"`
	Breakdown map[ActionCategory]float64 `json:"breakdown,omitempty"`
}

// ActionRow is one taxonomy entry paired with its current weight, if any.
type ActionRow struct {
	ActionTypeInfo
	Weight         *float64 `json:"weight,omitempty"`
	CategoryWeight *float64 `json:"category_weight,omitempty"`
}

// ResourceFailure records why a resource could not be processed.
type ResourceFailure struct {
	ResourceID string `json:"resource_id"`
	Kind       string `json:"kind"`
	Error      string `json:"error"`
}

// RunReport summarizes one processing run.
type RunReport struct {
	RunID        string            `json:"run_id"`
	Project      string            `json:"project"`
	Processed    int               `json:"processed"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	FileWarnings int               `json:"file_warnings"`
	Calibrations int               `json:"calibrations"`
	Failures     []ResourceFailure `json:"failures,omitempty"`
	Duration     time.Duration     `json:"duration"`
}

// CleanupReport summarizes a project purge.
type CleanupReport struct {
	Project        string `json:"project"`
	Resources      int    `json:"resources"`
	ActionsRemoved int64  `json:"actions_removed"`
	WeightsRemoved int64  `json:"weights_removed"`
}

// TouchedResult answers whether any action references a resource.
type TouchedResult struct {
	Resource ResourceRef `json:"resource"`
	Touched  bool        `json:"touched"`
}
