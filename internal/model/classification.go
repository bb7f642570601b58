package model

// Category is one of the six civic issue buckets every classification
// resolves to
type Category string

const (
	CategoryWater          Category = "Water"
	CategoryElectricity    Category = "Electricity"
	CategoryRoads          Category = "Roads"
	CategorySanitation     Category = "Sanitation"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryOthers         Category = "Others"
)

// Categories lists all valid categories in display order
var Categories = []Category{
	CategoryWater,
	CategoryElectricity,
	CategoryRoads,
	CategorySanitation,
	CategoryInfrastructure,
	CategoryOthers,
}

// IsValid reports whether c is one of the six known categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority indicates how urgently an issue needs municipal attention
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// ClassificationResult is the common output shape every image
// classification provider maps its raw labels into
type ClassificationResult struct {
	Title       string   `json:"title"`                // Short human-readable label
	Category    Category `json:"category"`             // Always one of the six buckets
	Description string   `json:"description"`          // Free-text summary
	Confidence  float64  `json:"confidence"`           // Provider's raw score for the winning label, 0..1
	Priority    Priority `json:"priority"`             // Defaults to Medium when the provider gives no signal
	Provider    string   `json:"provider,omitempty"`   // Which adapter produced the result
	IsMock      bool     `json:"is_mock"`              // Placeholder data, not a real provider answer
	Degraded    bool     `json:"degraded,omitempty"`   // All adapters failed; terminal mock fallback
}
