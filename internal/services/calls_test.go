package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realflow-ai/realflow-backend/internal/models"
	"github.com/realflow-ai/realflow-backend/internal/storage"
	"github.com/realflow-ai/realflow-backend/internal/vapi"
)

func newTestService() (*CallService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewCallService(store, nil), store
}

func callerParams(extra vapi.Parameters) vapi.Parameters {
	params := vapi.Parameters{
		"caller_name":  "Jane Doe",
		"caller_phone": "555-1234",
		"caller_role":  "buyer",
		"asset_type":   "multifamily",
		"location":     "Austin",
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func TestCollectCallerInfoInsertsOnce(t *testing.T) {
	svc, store := newTestService()

	result := svc.CollectCallerInfo("call-1", callerParams(nil), []byte(`{}`))
	assert.Equal(t, true, result["success"])

	count, err := store.CountCalls()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	call, err := store.GetCallByCallID("call-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", call.CallerName)
	assert.Equal(t, "Austin", call.Location)
	assert.NotZero(t, call.LeadScore)
}

func TestCollectCallerInfoIsIdempotentPerCallID(t *testing.T) {
	svc, store := newTestService()

	first := callerParams(vapi.Parameters{
		"conversation_topics": []interface{}{"pricing", "parking"},
		"questions_asked":     []interface{}{"cap rate?"},
	})
	svc.CollectCallerInfo("call-1", first, []byte(`{}`))

	second := callerParams(vapi.Parameters{
		"location":            "Dallas",
		"conversation_topics": []interface{}{"financing"},
	})
	svc.CollectCallerInfo("call-1", second, []byte(`{}`))

	count, err := store.CountCalls()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "repeated tool calls must not create duplicate records")

	call, err := store.GetCallByCallID("call-1")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", call.Location, "update is a full replace")

	topics, err := store.GetTopicsByCall(call.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1, "children are replaced wholesale, not merged")
	assert.Equal(t, "financing", topics[0].Topic)

	questions, err := store.GetQuestionsByCall(call.ID)
	require.NoError(t, err)
	assert.Empty(t, questions, "an absent list clears the previous children")
}

func TestCollectCallerInfoGeneratesCallIDWhenUnknown(t *testing.T) {
	svc, store := newTestService()

	svc.CollectCallerInfo("unknown", callerParams(nil), []byte(`{}`))

	calls, err := store.GetCalls(10, 0)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.NotEqual(t, "unknown", calls[0].CallID)
	assert.NotEmpty(t, calls[0].CallID)
}

func TestCollectCallerInfoFallsBackToPhoneLookup(t *testing.T) {
	svc, store := newTestService()

	svc.CollectCallerInfo("unknown", callerParams(nil), []byte(`{}`))
	svc.CollectCallerInfo("unknown", callerParams(vapi.Parameters{"location": "Houston"}), []byte(`{}`))

	count, err := store.CountCalls()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same phone without a call id must update, not insert")

	call, err := store.GetLatestCallByPhone("555-1234")
	require.NoError(t, err)
	assert.Equal(t, "Houston", call.Location)
}

func TestCollectCallerInfoSyncsHotLead(t *testing.T) {
	svc, store := newTestService()

	hotParams := callerParams(vapi.Parameters{
		"urgency":      "immediate",
		"deal_size":    "$10M",
		"caller_email": "jane@example.com",
		"sentiment":    "very_positive",
	})
	svc.CollectCallerInfo("call-hot", hotParams, []byte(`{}`))

	call, err := store.GetCallByCallID("call-hot")
	require.NoError(t, err)
	assert.True(t, call.IsHotLead)
	assert.Equal(t, 100, call.LeadScore)

	lead, err := store.GetHotLeadByCall(call.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", lead.CallerName)
	assert.Contains(t, lead.UrgencyReason, "Immediate timeline")
	assert.False(t, lead.HasCompetition, "automatic path never sets the competition flag")

	// A retry refreshes the same hot lead instead of creating a second one.
	svc.CollectCallerInfo("call-hot", hotParams, []byte(`{}`))
	refreshed, err := store.GetHotLeadByCall(call.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, refreshed.ID)
}

func TestCollectCallerInfoRetryKeepsCompetitionFlag(t *testing.T) {
	svc, store := newTestService()

	hotParams := callerParams(vapi.Parameters{
		"urgency":   "immediate",
		"deal_size": "$10M",
	})
	svc.CollectCallerInfo("call-hot", hotParams, []byte(`{}`))

	flag := svc.FlagHotLead("call-hot", vapi.Parameters{
		"urgency_reason": "competitor is circling",
		"competition":    true,
	})
	require.Equal(t, true, flag["success"])

	// A webhook retry refreshes the hot lead but must not reset the
	// manually flagged competition state.
	svc.CollectCallerInfo("call-hot", hotParams, []byte(`{}`))

	call, err := store.GetCallByCallID("call-hot")
	require.NoError(t, err)
	lead, err := store.GetHotLeadByCall(call.ID)
	require.NoError(t, err)
	assert.True(t, lead.HasCompetition)
}

func TestCollectCallerInfoExplicitHotFlagWins(t *testing.T) {
	svc, store := newTestService()

	params := callerParams(vapi.Parameters{
		"urgency":     "immediate", // computed classification would be hot
		"is_hot_lead": false,
	})
	svc.CollectCallerInfo("call-cold", params, []byte(`{}`))

	call, err := store.GetCallByCallID("call-cold")
	require.NoError(t, err)
	assert.False(t, call.IsHotLead, "a caller-supplied flag overrides the computed one")

	_, err = store.GetHotLeadByCall(call.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollectCallerInfoHotReasonPrecedence(t *testing.T) {
	svc, store := newTestService()

	params := callerParams(vapi.Parameters{
		"urgency":        "immediate",
		"urgency_reason": "competitor is circling",
	})
	svc.CollectCallerInfo("call-r", params, []byte(`{}`))

	call, err := store.GetCallByCallID("call-r")
	require.NoError(t, err)
	assert.Equal(t, "competitor is circling", call.HotLeadReason)
}

func TestScheduleCallbackAlwaysInserts(t *testing.T) {
	svc, store := newTestService()
	svc.CollectCallerInfo("call-1", callerParams(nil), []byte(`{}`))

	params := vapi.Parameters{
		"caller_name":    "Jane Doe",
		"callback_phone": "555-1234",
		"preferred_date": "Monday",
		"preferred_time": "10am",
	}
	first := svc.ScheduleCallback("call-1", params)
	second := svc.ScheduleCallback("call-1", params)

	assert.Equal(t, true, first["success"])
	assert.Equal(t, "Callback scheduled for Monday 10am", first["message"])
	assert.Equal(t, true, second["success"])

	call, err := store.GetCallByCallID("call-1")
	require.NoError(t, err)
	callbacks, err := store.GetCallbacksByCall(call.ID)
	require.NoError(t, err)
	assert.Len(t, callbacks, 2, "every callback request is a new row")
	assert.Equal(t, models.CallbackStatusScheduled, callbacks[0].Status)
}

func TestScheduleCallbackUnknownCallStillSucceeds(t *testing.T) {
	svc, store := newTestService()

	result := svc.ScheduleCallback("missing-call", vapi.Parameters{
		"preferred_date": "Tuesday",
		"preferred_time": "2pm",
	})

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Callback scheduled for Tuesday 2pm", result["message"])

	count, err := store.CountCalls()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRequestPropertyInfoInserts(t *testing.T) {
	svc, store := newTestService()
	svc.CollectCallerInfo("call-1", callerParams(vapi.Parameters{
		"caller_email": "jane@example.com",
		"deal_size":    "$5M",
	}), []byte(`{}`))

	result := svc.RequestPropertyInfo("call-1", vapi.Parameters{
		"caller_email":          "jane@example.com",
		"asset_type":            "industrial",
		"location":              "Austin",
		"deal_size":             "$5M",
		"specific_requirements": "rail access",
	})

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Property information will be sent to jane@example.com", result["message"])

	call, err := store.GetCallByCallID("call-1")
	require.NoError(t, err)
	requests, err := store.GetPropertyRequestsByCall(call.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "jane@example.com", requests[0].Email)
	assert.Equal(t, "industrial", requests[0].PropertyType)
	assert.Equal(t, "rail access", requests[0].SpecificRequirements)
	assert.Equal(t, models.PropertyRequestStatusPending, requests[0].Status)
}

func TestFlagHotLeadUpsertsPerCall(t *testing.T) {
	svc, store := newTestService()
	svc.CollectCallerInfo("call-1", callerParams(nil), []byte(`{}`))

	params := vapi.Parameters{
		"caller_name":    "Jane Doe",
		"caller_phone":   "555-1234",
		"urgency_reason": "closing this week",
		"deal_value":     "$20M",
		"competition":    true,
	}

	first := svc.FlagHotLead("call-1", params)
	assert.Equal(t, true, first["success"])

	call, err := store.GetCallByCallID("call-1")
	require.NoError(t, err)

	lead, err := store.GetHotLeadByCall(call.ID)
	require.NoError(t, err)
	assert.True(t, lead.HasCompetition)
	assert.Equal(t, "$20M", lead.DealValue)

	// Duplicate tool call updates the existing record in place.
	svc.FlagHotLead("call-1", params)
	again, err := store.GetHotLeadByCall(call.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, again.ID)

	// The call row is patched for consistency.
	call, err = store.GetCallByCallID("call-1")
	require.NoError(t, err)
	assert.True(t, call.IsHotLead)
	assert.Equal(t, "closing this week", call.HotLeadReason)
}

func TestFlagHotLeadUnknownCallSkipsButSucceeds(t *testing.T) {
	svc, _ := newTestService()

	result := svc.FlagHotLead("missing", vapi.Parameters{"urgency_reason": "urgent"})

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Lead flagged as urgent and will receive priority attention", result["message"])
}

func TestCollectCallerInfoWithoutStoreStillSucceeds(t *testing.T) {
	svc := NewCallService(nil, nil)

	result := svc.CollectCallerInfo("call-1", callerParams(nil), []byte(`{}`))
	assert.Equal(t, true, result["success"])
}
