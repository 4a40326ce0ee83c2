package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/realflow-ai/realflow-backend/internal/models"
)

// DatabaseStore implements Store backed by PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Call operations

func (d *DatabaseStore) GetCallByCallID(callID string) (*models.Call, error) {
	var call models.Call
	err := d.db.Where("call_id = ?", callID).Order("created_at DESC").First(&call).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &call, nil
}

func (d *DatabaseStore) GetLatestCallByPhone(phone string) (*models.Call, error) {
	var call models.Call
	err := d.db.Where("caller_phone = ?", phone).Order("created_at DESC").First(&call).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &call, nil
}

func (d *DatabaseStore) CreateCall(call *models.Call) (*models.Call, error) {
	if err := d.db.Create(call).Error; err != nil {
		return nil, err
	}
	return call, nil
}

func (d *DatabaseStore) UpdateCall(call *models.Call) error {
	return d.db.Save(call).Error
}

func (d *DatabaseStore) SetCallHotStatus(id uint, isHot bool, reason string) error {
	return d.db.Model(&models.Call{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_hot_lead":     isHot,
		"hot_lead_reason": reason,
	}).Error
}

func (d *DatabaseStore) GetCalls(limit, offset int) ([]*models.Call, error) {
	var calls []*models.Call
	err := d.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&calls).Error
	return calls, err
}

func (d *DatabaseStore) GetHotLeadCalls() ([]*models.Call, error) {
	var calls []*models.Call
	err := d.db.Where("is_hot_lead = ?", true).Order("created_at DESC").Find(&calls).Error
	return calls, err
}

func (d *DatabaseStore) CountCalls() (int64, error) {
	var count int64
	err := d.db.Model(&models.Call{}).Count(&count).Error
	return count, err
}

func (d *DatabaseStore) CountHotLeadCalls() (int64, error) {
	var count int64
	err := d.db.Model(&models.Call{}).Where("is_hot_lead = ?", true).Count(&count).Error
	return count, err
}

func (d *DatabaseStore) AverageLeadScore() (float64, error) {
	var avg float64
	err := d.db.Model(&models.Call{}).Select("COALESCE(AVG(lead_score), 0)").Scan(&avg).Error
	return avg, err
}

// Conversation topic / question operations

func (d *DatabaseStore) DeleteTopicsByCall(callRef uint) error {
	return d.db.Where("call_ref = ?", callRef).Delete(&models.ConversationTopic{}).Error
}

func (d *DatabaseStore) CreateTopic(topic *models.ConversationTopic) error {
	return d.db.Create(topic).Error
}

func (d *DatabaseStore) GetTopicsByCall(callRef uint) ([]*models.ConversationTopic, error) {
	var topics []*models.ConversationTopic
	err := d.db.Where("call_ref = ?", callRef).Find(&topics).Error
	return topics, err
}

func (d *DatabaseStore) DeleteQuestionsByCall(callRef uint) error {
	return d.db.Where("call_ref = ?", callRef).Delete(&models.QuestionAsked{}).Error
}

func (d *DatabaseStore) CreateQuestion(question *models.QuestionAsked) error {
	return d.db.Create(question).Error
}

func (d *DatabaseStore) GetQuestionsByCall(callRef uint) ([]*models.QuestionAsked, error) {
	var questions []*models.QuestionAsked
	err := d.db.Where("call_ref = ?", callRef).Find(&questions).Error
	return questions, err
}

// Hot lead operations

func (d *DatabaseStore) GetHotLeadByCall(callRef uint) (*models.HotLead, error) {
	var lead models.HotLead
	err := d.db.Where("call_ref = ?", callRef).First(&lead).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &lead, nil
}

func (d *DatabaseStore) GetLatestHotLeadByPhone(phone string) (*models.HotLead, error) {
	var lead models.HotLead
	err := d.db.Where("caller_phone = ?", phone).Order("created_at DESC").First(&lead).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &lead, nil
}

func (d *DatabaseStore) CreateHotLead(lead *models.HotLead) (*models.HotLead, error) {
	if err := d.db.Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (d *DatabaseStore) UpdateHotLead(lead *models.HotLead) error {
	return d.db.Save(lead).Error
}

// Callback and property request operations

func (d *DatabaseStore) CreateCallback(callback *models.Callback) (*models.Callback, error) {
	if err := d.db.Create(callback).Error; err != nil {
		return nil, err
	}
	return callback, nil
}

func (d *DatabaseStore) GetCallbacksByCall(callRef uint) ([]*models.Callback, error) {
	var callbacks []*models.Callback
	err := d.db.Where("call_ref = ?", callRef).Find(&callbacks).Error
	return callbacks, err
}

func (d *DatabaseStore) CreatePropertyRequest(request *models.PropertyRequest) (*models.PropertyRequest, error) {
	if err := d.db.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (d *DatabaseStore) GetPropertyRequestsByCall(callRef uint) ([]*models.PropertyRequest, error) {
	var requests []*models.PropertyRequest
	err := d.db.Where("call_ref = ?", callRef).Find(&requests).Error
	return requests, err
}

// notFoundOr maps GORM's record-not-found to the storage sentinel.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
