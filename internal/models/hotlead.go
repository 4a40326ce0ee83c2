package models

import (
	"time"

	"gorm.io/gorm"
)

// HotLead is the priority-attention record created when a call is classified
// hot, either automatically by the scorer or manually via the flag_hot_lead
// tool. At most one per call by convention.
type HotLead struct {
	gorm.Model

	CallRef        uint   `json:"call_ref" gorm:"index"` // Call surrogate id
	CallerName     string `json:"caller_name"`
	CallerPhone    string `json:"caller_phone" gorm:"index"`
	UrgencyReason  string `json:"urgency_reason"`
	DealValue      string `json:"deal_value"`
	HasCompetition bool   `json:"has_competition" gorm:"default:false"` // only set via manual flagging

	NotifiedAt time.Time `json:"notified_at"`
}
