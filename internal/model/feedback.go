package model

import "time"

// ItemType says whether a feedback record refers to a task or a material.
type ItemType string

const (
	ItemTypeTask     ItemType = "task"
	ItemTypeMaterial ItemType = "material"
)

// FeedbackRecord is one human price correction. Records are immutable once
// written; the engine never updates or deletes them.
type FeedbackRecord struct {
	ID           string    `json:"id"`
	ProposalID   string    `json:"proposal_id"`
	ItemType     ItemType  `json:"item_type"`
	ItemLabel    string    `json:"item_label"`
	FeedbackType string    `json:"feedback_type"`
	ActualPrice  *float64  `json:"actual_price"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
