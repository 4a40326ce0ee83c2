package models

import "gorm.io/gorm"

// Callback is a scheduled callback request. Append-only: every
// schedule_callback tool call creates a new row, repeats included.
type Callback struct {
	gorm.Model

	CallRef       uint   `json:"call_ref" gorm:"index"`
	CallerName    string `json:"caller_name"`
	CallbackPhone string `json:"callback_phone"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Timezone      string `json:"timezone"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
}

// PropertyRequest is a request to send property information to the caller.
// Append-only, same as Callback.
type PropertyRequest struct {
	gorm.Model

	CallRef              uint   `json:"call_ref" gorm:"index"`
	Email                string `json:"email"`
	PropertyType         string `json:"property_type"`
	Location             string `json:"location"`
	BudgetRange          string `json:"budget_range"`
	SpecificRequirements string `json:"specific_requirements"`
	Status               string `json:"status"`
}

// Status constants
const (
	CallbackStatusScheduled      = "scheduled"
	PropertyRequestStatusPending = "pending"
)
