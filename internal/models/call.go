package models

import "gorm.io/gorm"

// Call represents one phone call handled by the voice agent.
// Using gorm.Model gives us ID (uint), CreatedAt, UpdatedAt, DeletedAt automatically.
// The uint ID is the internal surrogate key; CallID is the identifier Vapi
// supplies (or a generated UUID when Vapi sends none).
type Call struct {
	gorm.Model

	CallID          string `json:"call_id" gorm:"index"`
	CallerName      string `json:"caller_name"`
	CallerPhone     string `json:"caller_phone" gorm:"index"`
	CallerEmail     string `json:"caller_email"`
	CallerRole      string `json:"caller_role"` // e.g. "buyer", "investor", "broker"
	AssetType       string `json:"asset_type"`  // e.g. "multifamily", "industrial"
	Location        string `json:"location"`
	DealSize        string `json:"deal_size"` // free text, e.g. "$10M", "500k-750k"
	Urgency         string `json:"urgency"`   // "immediate", "1-3 months", ...
	InquirySummary  string `json:"inquiry_summary"`
	AdditionalNotes string `json:"additional_notes"`
	LeadScore       int    `json:"lead_score"` // 0-100
	IsHotLead       bool   `json:"is_hot_lead" gorm:"index;default:false"`
	HotLeadReason   string `json:"hot_lead_reason"`
	RawPayload      []byte `json:"-" gorm:"type:jsonb"` // original webhook body, kept for debugging
}

// UnknownCallID is the sentinel Vapi sends when it has no call identifier.
// A record stored under it gets a generated UUID instead.
const UnknownCallID = "unknown"

// ConversationTopic is a child row of a Call; the full set is replaced
// whenever the owning call record is updated.
type ConversationTopic struct {
	gorm.Model

	CallRef uint   `json:"call_ref" gorm:"index"` // Call surrogate id
	Topic   string `json:"topic"`
}

// QuestionAsked is a child row of a Call, same lifecycle as ConversationTopic.
type QuestionAsked struct {
	gorm.Model

	CallRef  uint   `json:"call_ref" gorm:"index"`
	Question string `json:"question"`
}
