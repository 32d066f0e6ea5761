package model

// PricingMethod identifies how a line item was priced.
type PricingMethod string

const (
	// MethodLaborRate prices a task from published benchmark hourly rates.
	MethodLaborRate PricingMethod = "labor_rate_estimation"
	// MethodSemanticSearch prices a material from the best catalog match.
	MethodSemanticSearch PricingMethod = "semantic_search"
	// MethodNotFound marks a material with no usable catalog match.
	MethodNotFound PricingMethod = "not_found"
)

// Metadata carries proposal-level context supplied by the contractor.
type Metadata struct {
	City     string `json:"city"`
	Region   string `json:"region"`
	JobType  string `json:"jobType"`
	Language string `json:"language"`
}

// Task is a single labor line in a proposal.
type Task struct {
	ID          string  `json:"id,omitempty"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Zone        string  `json:"zone,omitempty"`
	Phase       string  `json:"phase"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity"`
	Duration    string  `json:"duration"`
}

// Material is a single product line in a proposal. UsedIn lists the task
// labels the material serves (pass-through, not used for pricing).
type Material struct {
	Label    string   `json:"label"`
	Unit     string   `json:"unit,omitempty"`
	Quantity float64  `json:"quantity"`
	UsedIn   []string `json:"usedIn,omitempty"`
}

// Proposal is the structured input submitted for pricing.
type Proposal struct {
	Title            string     `json:"title"`
	Metadata         Metadata   `json:"metadata"`
	Tasks            []Task     `json:"tasks"`
	Materials        []Material `json:"materials"`
	ContractorMargin float64    `json:"contractor_margin"`
}

// PricedTask is a task line with the full deterministic cost breakdown.
// AdjustedCost = BaseCost + FeedbackAdjustment; WithMargin = AdjustedCost × (1 + margin).
type PricedTask struct {
	Task
	HourlyRate         float64       `json:"hourly_rate"`
	DurationHours      float64       `json:"duration_hours"`
	PhaseMultiplier    float64       `json:"phase_multiplier"`
	RegionalModifier   float64       `json:"regional_modifier"`
	BaseCost           float64       `json:"base_cost"`
	FeedbackAdjustment float64       `json:"feedback_adjustment"`
	AdjustedCost       float64       `json:"adjusted_cost"`
	WithMargin         float64       `json:"with_margin"`
	PricingMethod      PricingMethod `json:"pricing_method"`
	PricingDetails     string        `json:"pricing_details"`
}

// MaterialMatch is the best catalog hit for a material label.
type MaterialMatch struct {
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	Unit            string   `json:"unit"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	URL             string   `json:"url"`
	ProductID       string   `json:"product_id"`
	Distance        float64  `json:"distance"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// PricedMaterial is a material line with pricing derived from a catalog
// match. All monetary pointers are nil when no match was found.
type PricedMaterial struct {
	Material
	Match              *MaterialMatch `json:"match,omitempty"`
	UnitPrice          *float64       `json:"unit_price"`
	TotalPrice         *float64       `json:"total_price"`
	FeedbackAdjustment float64        `json:"feedback_adjustment"`
	AdjustedCost       *float64       `json:"adjusted_cost"`
	WithMargin         *float64       `json:"with_margin"`
	ConfidenceScore    float64        `json:"confidence_score"`
	PricingMethod      PricingMethod  `json:"pricing_method"`
	PricingDetails     string         `json:"pricing_details"`
}

// Summary aggregates the priced lines of one proposal.
type Summary struct {
	TotalTasks     float64 `json:"total_tasks"`
	TotalMaterials float64 `json:"total_materials"`
	Total          float64 `json:"total"`
	MarginApplied  float64 `json:"margin_applied"`
	Currency       string  `json:"currency"`
}

// PricedProposal is the fully priced output for one proposal request.
type PricedProposal struct {
	Title           string           `json:"title"`
	Metadata        Metadata         `json:"metadata"`
	PricedTasks     []PricedTask     `json:"priced_tasks"`
	PricedMaterials []PricedMaterial `json:"priced_materials"`
	Summary         Summary          `json:"summary"`
}
