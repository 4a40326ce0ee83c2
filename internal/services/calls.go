package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/realflow-ai/realflow-backend/internal/leads"
	"github.com/realflow-ai/realflow-backend/internal/models"
	"github.com/realflow-ai/realflow-backend/internal/storage"
	"github.com/realflow-ai/realflow-backend/internal/vapi"
)

// ToolResult is the per-tool-call outcome reported back to the platform.
// Shapes: {"success": bool, "message": string} or {"error": string}.
type ToolResult map[string]interface{}

// Success builds a successful tool result with a caller-facing message.
func Success(message string) ToolResult {
	return ToolResult{"success": true, "message": message}
}

// Failure builds a failed tool result. Failures are reported in-band; the
// webhook response itself stays HTTP 200 so Vapi does not retry the batch.
func Failure(message string) ToolResult {
	return ToolResult{"success": false, "message": message}
}

// UnknownFunction builds the error result for an unrecognized tool name.
func UnknownFunction(name string) ToolResult {
	return ToolResult{"error": fmt.Sprintf("Unknown function: %s", name)}
}

// CallService owns every write to call records and their children. It runs
// best-effort across the two sinks: the sheet is logged first no matter what,
// and a database failure is converted to a failure result, never propagated.
type CallService struct {
	store  storage.Store
	sheets *SheetsService
}

// NewCallService creates a new call service
func NewCallService(store storage.Store, sheets *SheetsService) *CallService {
	return &CallService{
		store:  store,
		sheets: sheets,
	}
}

// CollectCallerInfo processes the collect_caller_information tool call:
// scores the lead, logs the sheet row, then reconciles the call record
// (update when one exists for this call id or phone, insert otherwise),
// replaces its topic/question children, and syncs the hot-lead record.
func (s *CallService) CollectCallerInfo(callID string, params vapi.Parameters, rawPayload []byte) ToolResult {
	log.Printf("📞 Handling collect_caller_information for call: %s", callID)

	score := leads.Score(params)
	computedHot, computedReason := leads.Classify(score, params.String("urgency"), params.String("deal_size"))

	// An explicit flag from the agent beats the computed one.
	isHot := computedHot
	if v, ok := params["is_hot_lead"]; ok && v != nil {
		if b, ok := v.(bool); ok {
			isHot = b
		}
	}

	hotReason := params.String("urgency_reason")
	if hotReason == "" {
		hotReason = params.String("hot_lead_reason")
	}
	if hotReason == "" {
		hotReason = computedReason
	}
	if hotReason == "" {
		hotReason = "Not specified"
	}

	// Write the derived values back so both sinks see identical data.
	params["lead_score"] = score
	params["is_hot_lead"] = isHot
	params["hot_lead_reason"] = hotReason

	log.Printf("🧮 Calculated lead_score: %d, is_hot: %v, reason: %s", score, isHot, hotReason)

	// Sheet first, unconditionally. A sheet failure is logged and ignored.
	if s.sheets != nil {
		if err := s.sheets.LogCall(params); err != nil {
			log.Printf("❌ Error logging to Google Sheets: %v", err)
		}
	} else {
		log.Println("⚠️ Google Sheets not configured")
	}

	if s.store == nil {
		return Success("Caller info processed successfully")
	}

	phone := strings.TrimSpace(params.String("caller_phone"))

	call := &models.Call{
		CallID:          callID,
		CallerName:      params.String("caller_name"),
		CallerPhone:     phone,
		CallerEmail:     params.String("caller_email"),
		CallerRole:      params.String("caller_role"),
		AssetType:       params.String("asset_type"),
		Location:        params.String("location"),
		DealSize:        params.String("deal_size"),
		Urgency:         params.String("urgency"),
		InquirySummary:  params.String("inquiry_summary"),
		AdditionalNotes: params.String("additional_notes"),
		LeadScore:       score,
		IsHotLead:       isHot,
		HotLeadReason:   hotReason,
		RawPayload:      rawPayload,
	}

	record, err := s.reconcileCall(callID, phone, call)
	if err != nil {
		log.Printf("❌ Error saving call record: %v", err)
		return Failure(err.Error())
	}

	if err := s.syncChildren(record.ID, params); err != nil {
		log.Printf("❌ Error saving topics/questions: %v", err)
		return Failure(err.Error())
	}

	if isHot {
		if err := s.syncHotLead(record, phone, hotReason, params); err != nil {
			log.Printf("❌ Error syncing hot lead: %v", err)
			return Failure(err.Error())
		}
	}

	return Success("Caller info processed successfully")
}

// reconcileCall finds the existing record for this call (by external call id,
// or by most recent phone match when the id is missing) and updates it in
// place, or inserts a new record, generating an internal call id if Vapi
// supplied none.
func (s *CallService) reconcileCall(callID, phone string, call *models.Call) (*models.Call, error) {
	var existing *models.Call
	var err error

	if callID != "" && callID != models.UnknownCallID {
		existing, err = s.store.GetCallByCallID(callID)
	} else {
		existing, err = s.store.GetLatestCallByPhone(phone)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		// Full replace of the existing row, not a merge.
		log.Printf("⚡ Updating existing call record (id=%d)", existing.ID)
		call.Model = existing.Model
		if err := s.store.UpdateCall(call); err != nil {
			return nil, err
		}
		return call, nil
	}

	if callID == "" || callID == models.UnknownCallID {
		call.CallID = uuid.NewString()
		log.Printf("🆕 Generated new internal call_id: %s", call.CallID)
	}
	record, err := s.store.CreateCall(call)
	if err != nil {
		return nil, err
	}
	log.Printf("📝 Created new call record id=%d", record.ID)
	return record, nil
}

// syncChildren replaces the call's topic and question rows wholesale.
// Empty lists simply leave the call with no children.
func (s *CallService) syncChildren(callRef uint, params vapi.Parameters) error {
	if err := s.store.DeleteTopicsByCall(callRef); err != nil {
		return err
	}
	if err := s.store.DeleteQuestionsByCall(callRef); err != nil {
		return err
	}

	topics := params.StringList("conversation_topics")
	for _, topic := range topics {
		if err := s.store.CreateTopic(&models.ConversationTopic{CallRef: callRef, Topic: topic}); err != nil {
			return err
		}
	}
	if len(topics) > 0 {
		log.Printf("📝 Saved %d topics", len(topics))
	}

	questions := params.StringList("questions_asked")
	for _, question := range questions {
		if err := s.store.CreateQuestion(&models.QuestionAsked{CallRef: callRef, Question: question}); err != nil {
			return err
		}
	}
	if len(questions) > 0 {
		log.Printf("✅ Saved %d questions", len(questions))
	}

	return nil
}

// syncHotLead upserts the hot-lead record for an automatically classified
// call. Lookup is by call id first, then by the most recent phone match, and
// the call row is patched so both entities agree on the hot flag.
func (s *CallService) syncHotLead(record *models.Call, phone, hotReason string, params vapi.Parameters) error {
	log.Printf("🔥 Processing hot lead (call id=%d)", record.ID)

	existing, err := s.store.GetHotLeadByCall(record.ID)
	if errors.Is(err, storage.ErrNotFound) && phone != "" {
		existing, err = s.store.GetLatestHotLeadByPhone(phone)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	lead := &models.HotLead{
		CallRef:       record.ID,
		CallerName:    params.String("caller_name"),
		CallerPhone:   phone,
		UrgencyReason: hotReason,
		DealValue:     params.String("deal_size"),
		NotifiedAt:    time.Now(),
	}

	if existing != nil {
		lead.Model = existing.Model
		// The competition flag is only ever set by flag_hot_lead; the
		// automatic sync must not reset it.
		lead.HasCompetition = existing.HasCompetition
		if err := s.store.UpdateHotLead(lead); err != nil {
			return err
		}
		log.Println("✅ Hot lead updated")
	} else {
		if _, err := s.store.CreateHotLead(lead); err != nil {
			return err
		}
		log.Println("✅ Hot lead created")
	}

	return s.store.SetCallHotStatus(record.ID, true, hotReason)
}

// ScheduleCallback handles the schedule_callback tool call. Every request
// inserts a new row; an unknown call id skips persistence but still reports
// success so the agent can confirm to the caller.
func (s *CallService) ScheduleCallback(callID string, params vapi.Parameters) ToolResult {
	log.Printf("📅 Scheduling callback for call: %s", callID)

	if s.store != nil {
		call, err := s.store.GetCallByCallID(callID)
		switch {
		case err == nil:
			callback := &models.Callback{
				CallRef:       call.ID,
				CallerName:    params.String("caller_name"),
				CallbackPhone: params.String("callback_phone"),
				PreferredDate: params.String("preferred_date"),
				PreferredTime: params.String("preferred_time"),
				Timezone:      params.String("timezone"),
				Reason:        params.String("reason"),
				Status:        models.CallbackStatusScheduled,
			}
			if _, err := s.store.CreateCallback(callback); err != nil {
				log.Printf("❌ Error handling callback: %v", err)
				return Failure(fmt.Sprintf("Error scheduling callback: %v", err))
			}
			log.Println("✅ Callback scheduled (new record)")
		case errors.Is(err, storage.ErrNotFound):
			log.Printf("⚠️ Call %s not found in database", callID)
		default:
			log.Printf("❌ Error handling callback: %v", err)
			return Failure(fmt.Sprintf("Error scheduling callback: %v", err))
		}
	}

	return Success(fmt.Sprintf("Callback scheduled for %s %s",
		params.String("preferred_date"), params.String("preferred_time")))
}

// RequestPropertyInfo handles the request_property_information tool call.
// Always inserts; unknown call id skips persistence but still succeeds.
func (s *CallService) RequestPropertyInfo(callID string, params vapi.Parameters) ToolResult {
	log.Printf("🏢 Property info requested for call: %s", callID)

	if s.store != nil {
		call, err := s.store.GetCallByCallID(callID)
		switch {
		case err == nil:
			request := &models.PropertyRequest{
				CallRef:              call.ID,
				Email:                params.String("caller_email"),
				PropertyType:         params.String("asset_type"),
				Location:             params.String("location"),
				BudgetRange:          params.String("deal_size"),
				SpecificRequirements: params.String("specific_requirements"),
				Status:               models.PropertyRequestStatusPending,
			}
			if _, err := s.store.CreatePropertyRequest(request); err != nil {
				log.Printf("❌ Error handling property request: %v", err)
				return Failure(fmt.Sprintf("Error processing request: %v", err))
			}
			log.Println("✅ Property request saved (new record)")
		case errors.Is(err, storage.ErrNotFound):
			log.Printf("⚠️ Call %s not found in database", callID)
		default:
			log.Printf("❌ Error handling property request: %v", err)
			return Failure(fmt.Sprintf("Error processing request: %v", err))
		}
	}

	return Success(fmt.Sprintf("Property information will be sent to %s", params.String("caller_email")))
}

// FlagHotLead handles the manual flag_hot_lead tool call. Unlike the
// automatic path, lookup is strictly by call id with no phone fallback, and
// the competition flag comes from a dedicated input field.
func (s *CallService) FlagHotLead(callID string, params vapi.Parameters) ToolResult {
	log.Printf("🔥 Manual hot lead flag for call: %s", callID)

	if s.store != nil {
		call, err := s.store.GetCallByCallID(callID)
		switch {
		case err == nil:
			if err := s.upsertManualHotLead(call, params); err != nil {
				log.Printf("❌ Error handling hot lead flag: %v", err)
				return Failure(fmt.Sprintf("Error flagging lead: %v", err))
			}
		case errors.Is(err, storage.ErrNotFound):
			log.Printf("⚠️ Call %s not found in database", callID)
		default:
			log.Printf("❌ Error handling hot lead flag: %v", err)
			return Failure(fmt.Sprintf("Error flagging lead: %v", err))
		}
	}

	return Success("Lead flagged as urgent and will receive priority attention")
}

func (s *CallService) upsertManualHotLead(call *models.Call, params vapi.Parameters) error {
	existing, err := s.store.GetHotLeadByCall(call.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	lead := &models.HotLead{
		CallRef:        call.ID,
		CallerName:     params.String("caller_name"),
		CallerPhone:    params.String("caller_phone"),
		UrgencyReason:  params.String("urgency_reason"),
		DealValue:      params.String("deal_value"),
		HasCompetition: params.Bool("competition"),
		NotifiedAt:     time.Now(),
	}

	if existing != nil {
		// Duplicate tool call for the same call: refresh in place.
		lead.Model = existing.Model
		if err := s.store.UpdateHotLead(lead); err != nil {
			return err
		}
		log.Println("✅ Hot lead updated (duplicate tool call)")
	} else {
		if _, err := s.store.CreateHotLead(lead); err != nil {
			return err
		}
		log.Println("✅ Hot lead created (new)")
	}

	return s.store.SetCallHotStatus(call.ID, true, params.String("urgency_reason"))
}
