package vapi

import (
	"encoding/json"
	"strings"
)

// ToolCall is one named function invocation requested by the platform within
// a webhook payload. Arguments are already normalized.
type ToolCall struct {
	ID        string
	Name      string
	Arguments Parameters
}

// Webhook is the normalized form of an inbound Vapi payload. Vapi is not
// consistent about where it puts things, so ParseWebhook checks every shape
// that has been observed in the wild and settles on one representation here.
type Webhook struct {
	MessageType string
	CallID      string
	ToolCalls   []ToolCall
}

// IsToolCalls reports whether the payload carries tool invocations to process.
func (w *Webhook) IsToolCalls() bool {
	switch strings.ToLower(w.MessageType) {
	case "tool-calls", "toolcalls", "tool_calls", "tool-calls-v1":
		return true
	}
	return false
}

// IsEndOfCallReport reports whether the payload is an end-of-call report.
func (w *Webhook) IsEndOfCallReport() bool {
	switch strings.ToLower(w.MessageType) {
	case "end-of-call-report", "end_of_call_report":
		return true
	}
	return false
}

// ParseWebhook decodes a raw webhook body into its normalized form. Only a
// body that is not a JSON object at all is an error; missing or oddly placed
// fields fall back to defaults.
func ParseWebhook(body []byte) (*Webhook, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	message := objectAt(payload, "message")
	if message == nil {
		message = objectAt(payload, "data")
	}
	if message == nil {
		message = map[string]interface{}{}
	}

	messageType := firstString(
		stringAt(payload, "type"),
		stringAt(message, "type"),
		stringAt(payload, "message_type"),
		stringAt(payload, "messageType"),
	)
	if messageType == "" {
		messageType = "unknown"
	}

	webhook := &Webhook{
		MessageType: messageType,
		CallID:      extractCallID(payload),
	}

	for _, raw := range extractToolCalls(payload, message) {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		webhook.ToolCalls = append(webhook.ToolCalls, parseToolCall(entry))
	}

	return webhook, nil
}

// extractCallID digs the external call identifier out of the payload,
// defaulting to the "unknown" sentinel.
func extractCallID(payload map[string]interface{}) string {
	call := objectAt(payload, "call")
	if call == nil {
		call = objectAt(payload, "callData")
	}
	if call == nil {
		call = objectAt(payload, "session")
	}

	callID := ""
	if call != nil {
		callID = firstString(
			stringAt(call, "id"),
			stringAt(call, "call_id"),
			stringAt(call, "uuid"),
			stringAt(call, "session_id"),
		)
	}
	callID = firstString(callID, stringAt(payload, "call_id"), stringAt(payload, "callId"))
	if callID == "" {
		callID = "unknown"
	}
	return callID
}

// extractToolCalls finds the tool-call array wherever the payload put it.
func extractToolCalls(payload, message map[string]interface{}) []interface{} {
	for _, container := range []map[string]interface{}{message, payload} {
		for _, key := range []string{"toolCalls", "tool_calls", "toolcalls"} {
			if list, ok := container[key].([]interface{}); ok {
				return list
			}
		}
	}
	return nil
}

// parseToolCall handles both observed shapes:
//
//	{"id": "...", "function": {"name": "...", "arguments": {...}}}
//	{"name": "...", "arguments": {...}}
//
// Arguments may arrive as an object or a (possibly single-quoted) JSON string.
func parseToolCall(entry map[string]interface{}) ToolCall {
	id := firstString(stringAt(entry, "id"), stringAt(entry, "toolCallId"))

	functionData := objectAt(entry, "function")
	if functionData == nil {
		functionData = entry
	}

	name := firstString(
		stringAt(functionData, "name"),
		stringAt(functionData, "function"),
		stringAt(functionData, "tool"),
		stringAt(functionData, "toolName"),
	)
	if name == "" {
		name = "unknown"
	}

	var arguments interface{}
	switch v := functionData["arguments"].(type) {
	case map[string]interface{}, string:
		arguments = v
	}
	if arguments == nil {
		for _, fallback := range []interface{}{entry["arguments"], entry["params"], functionData["params"]} {
			if fallback != nil {
				arguments = fallback
				break
			}
		}
	}

	return ToolCall{
		ID:        id,
		Name:      name,
		Arguments: NormalizeArguments(arguments),
	}
}

func objectAt(m map[string]interface{}, key string) map[string]interface{} {
	if obj, ok := m[key].(map[string]interface{}); ok {
		return obj
	}
	return nil
}

func stringAt(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
