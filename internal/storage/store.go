package storage

import (
	"errors"

	"github.com/realflow-ai/realflow-backend/internal/models"
)

// ErrNotFound is returned by lookup operations when no matching record exists.
// Callers treat it as a normal miss, not a failure.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for storage operations
type Store interface {
	// Call operations
	GetCallByCallID(callID string) (*models.Call, error)
	GetLatestCallByPhone(phone string) (*models.Call, error)
	CreateCall(call *models.Call) (*models.Call, error)
	UpdateCall(call *models.Call) error
	SetCallHotStatus(id uint, isHot bool, reason string) error
	GetCalls(limit, offset int) ([]*models.Call, error)
	GetHotLeadCalls() ([]*models.Call, error)
	CountCalls() (int64, error)
	CountHotLeadCalls() (int64, error)
	AverageLeadScore() (float64, error)

	// Conversation topic / question operations (children of Call)
	DeleteTopicsByCall(callRef uint) error
	CreateTopic(topic *models.ConversationTopic) error
	GetTopicsByCall(callRef uint) ([]*models.ConversationTopic, error)
	DeleteQuestionsByCall(callRef uint) error
	CreateQuestion(question *models.QuestionAsked) error
	GetQuestionsByCall(callRef uint) ([]*models.QuestionAsked, error)

	// Hot lead operations
	GetHotLeadByCall(callRef uint) (*models.HotLead, error)
	GetLatestHotLeadByPhone(phone string) (*models.HotLead, error)
	CreateHotLead(lead *models.HotLead) (*models.HotLead, error)
	UpdateHotLead(lead *models.HotLead) error

	// Callback and property request operations (append-only)
	CreateCallback(callback *models.Callback) (*models.Callback, error)
	GetCallbacksByCall(callRef uint) ([]*models.Callback, error)
	CreatePropertyRequest(request *models.PropertyRequest) (*models.PropertyRequest, error)
	GetPropertyRequestsByCall(callRef uint) ([]*models.PropertyRequest, error)
}
