package storage

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/realflow-ai/realflow-backend/internal/models"
)

// MemoryStore holds all data in memory, used for tests and local development
// without a database (USE_MEMORY_STORE=true).
type MemoryStore struct {
	calls     map[uint]*models.Call
	topics    []*models.ConversationTopic
	questions []*models.QuestionAsked
	hotLeads  map[uint]*models.HotLead
	callbacks []*models.Callback
	requests  []*models.PropertyRequest

	// Mutexes for thread safety
	callMu    sync.RWMutex
	childMu   sync.RWMutex
	hotMu     sync.RWMutex
	requestMu sync.RWMutex

	// Counters for ID generation
	callCounter    uint
	childCounter   uint
	hotCounter     uint
	requestCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		calls:    make(map[uint]*models.Call),
		hotLeads: make(map[uint]*models.HotLead),
	}
}

// Call operations

func (m *MemoryStore) GetCallByCallID(callID string) (*models.Call, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	var latest *models.Call
	for _, call := range m.calls {
		if call.CallID != callID {
			continue
		}
		if latest == nil || newer(call.CreatedAt, call.ID, latest.CreatedAt, latest.ID) {
			latest = call
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) GetLatestCallByPhone(phone string) (*models.Call, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	var latest *models.Call
	for _, call := range m.calls {
		if call.CallerPhone != phone {
			continue
		}
		if latest == nil || newer(call.CreatedAt, call.ID, latest.CreatedAt, latest.ID) {
			latest = call
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) CreateCall(call *models.Call) (*models.Call, error) {
	m.callMu.Lock()
	defer m.callMu.Unlock()

	m.callCounter++
	stored := *call
	stored.RawPayload = append([]byte(nil), call.RawPayload...)
	stored.Model = gorm.Model{
		ID:        m.callCounter,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.calls[stored.ID] = &stored

	*call = stored
	return call, nil
}

func (m *MemoryStore) UpdateCall(call *models.Call) error {
	m.callMu.Lock()
	defer m.callMu.Unlock()

	existing, ok := m.calls[call.ID]
	if !ok {
		return ErrNotFound
	}

	stored := *call
	stored.RawPayload = append([]byte(nil), call.RawPayload...)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.calls[stored.ID] = &stored
	return nil
}

func (m *MemoryStore) SetCallHotStatus(id uint, isHot bool, reason string) error {
	m.callMu.Lock()
	defer m.callMu.Unlock()

	call, ok := m.calls[id]
	if !ok {
		return ErrNotFound
	}
	call.IsHotLead = isHot
	call.HotLeadReason = reason
	call.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetCalls(limit, offset int) ([]*models.Call, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	all := m.sortedCallsLocked()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryStore) GetHotLeadCalls() ([]*models.Call, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	var hot []*models.Call
	for _, call := range m.sortedCallsLocked() {
		if call.IsHotLead {
			hot = append(hot, call)
		}
	}
	return hot, nil
}

func (m *MemoryStore) CountCalls() (int64, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()
	return int64(len(m.calls)), nil
}

func (m *MemoryStore) CountHotLeadCalls() (int64, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	var count int64
	for _, call := range m.calls {
		if call.IsHotLead {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) AverageLeadScore() (float64, error) {
	m.callMu.RLock()
	defer m.callMu.RUnlock()

	if len(m.calls) == 0 {
		return 0, nil
	}
	var sum int
	for _, call := range m.calls {
		sum += call.LeadScore
	}
	return float64(sum) / float64(len(m.calls)), nil
}

// sortedCallsLocked returns all calls newest first. Caller must hold callMu.
func (m *MemoryStore) sortedCallsLocked() []*models.Call {
	all := make([]*models.Call, 0, len(m.calls))
	for _, call := range m.calls {
		all = append(all, call)
	}
	sort.Slice(all, func(i, j int) bool {
		return newer(all[i].CreatedAt, all[i].ID, all[j].CreatedAt, all[j].ID)
	})
	return all
}

// Conversation topic / question operations

func (m *MemoryStore) DeleteTopicsByCall(callRef uint) error {
	m.childMu.Lock()
	defer m.childMu.Unlock()

	kept := m.topics[:0]
	for _, topic := range m.topics {
		if topic.CallRef != callRef {
			kept = append(kept, topic)
		}
	}
	m.topics = kept
	return nil
}

func (m *MemoryStore) CreateTopic(topic *models.ConversationTopic) error {
	m.childMu.Lock()
	defer m.childMu.Unlock()

	m.childCounter++
	stored := *topic
	stored.Model = gorm.Model{ID: m.childCounter, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.topics = append(m.topics, &stored)

	*topic = stored
	return nil
}

func (m *MemoryStore) GetTopicsByCall(callRef uint) ([]*models.ConversationTopic, error) {
	m.childMu.RLock()
	defer m.childMu.RUnlock()

	var topics []*models.ConversationTopic
	for _, topic := range m.topics {
		if topic.CallRef == callRef {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func (m *MemoryStore) DeleteQuestionsByCall(callRef uint) error {
	m.childMu.Lock()
	defer m.childMu.Unlock()

	kept := m.questions[:0]
	for _, question := range m.questions {
		if question.CallRef != callRef {
			kept = append(kept, question)
		}
	}
	m.questions = kept
	return nil
}

func (m *MemoryStore) CreateQuestion(question *models.QuestionAsked) error {
	m.childMu.Lock()
	defer m.childMu.Unlock()

	m.childCounter++
	stored := *question
	stored.Model = gorm.Model{ID: m.childCounter, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.questions = append(m.questions, &stored)

	*question = stored
	return nil
}

func (m *MemoryStore) GetQuestionsByCall(callRef uint) ([]*models.QuestionAsked, error) {
	m.childMu.RLock()
	defer m.childMu.RUnlock()

	var questions []*models.QuestionAsked
	for _, question := range m.questions {
		if question.CallRef == callRef {
			questions = append(questions, question)
		}
	}
	return questions, nil
}

// Hot lead operations

func (m *MemoryStore) GetHotLeadByCall(callRef uint) (*models.HotLead, error) {
	m.hotMu.RLock()
	defer m.hotMu.RUnlock()

	for _, lead := range m.hotLeads {
		if lead.CallRef == callRef {
			return lead, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetLatestHotLeadByPhone(phone string) (*models.HotLead, error) {
	m.hotMu.RLock()
	defer m.hotMu.RUnlock()

	var latest *models.HotLead
	for _, lead := range m.hotLeads {
		if lead.CallerPhone != phone {
			continue
		}
		if latest == nil || newer(lead.CreatedAt, lead.ID, latest.CreatedAt, latest.ID) {
			latest = lead
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) CreateHotLead(lead *models.HotLead) (*models.HotLead, error) {
	m.hotMu.Lock()
	defer m.hotMu.Unlock()

	m.hotCounter++
	stored := *lead
	stored.Model = gorm.Model{ID: m.hotCounter, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.hotLeads[stored.ID] = &stored

	*lead = stored
	return lead, nil
}

func (m *MemoryStore) UpdateHotLead(lead *models.HotLead) error {
	m.hotMu.Lock()
	defer m.hotMu.Unlock()

	existing, ok := m.hotLeads[lead.ID]
	if !ok {
		return ErrNotFound
	}

	stored := *lead
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.hotLeads[stored.ID] = &stored
	return nil
}

// Callback and property request operations

func (m *MemoryStore) CreateCallback(callback *models.Callback) (*models.Callback, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	m.requestCounter++
	stored := *callback
	stored.Model = gorm.Model{ID: m.requestCounter, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.callbacks = append(m.callbacks, &stored)

	*callback = stored
	return callback, nil
}

func (m *MemoryStore) GetCallbacksByCall(callRef uint) ([]*models.Callback, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var callbacks []*models.Callback
	for _, callback := range m.callbacks {
		if callback.CallRef == callRef {
			callbacks = append(callbacks, callback)
		}
	}
	return callbacks, nil
}

func (m *MemoryStore) CreatePropertyRequest(request *models.PropertyRequest) (*models.PropertyRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	m.requestCounter++
	stored := *request
	stored.Model = gorm.Model{ID: m.requestCounter, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.requests = append(m.requests, &stored)

	*request = stored
	return request, nil
}

func (m *MemoryStore) GetPropertyRequestsByCall(callRef uint) ([]*models.PropertyRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var requests []*models.PropertyRequest
	for _, request := range m.requests {
		if request.CallRef == callRef {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

// newer reports whether record a (created at ta, id ida) is more recent than
// record b, falling back to the id when timestamps collide.
func newer(ta time.Time, ida uint, tb time.Time, idb uint) bool {
	if ta.Equal(tb) {
		return ida > idb
	}
	return ta.After(tb)
}
