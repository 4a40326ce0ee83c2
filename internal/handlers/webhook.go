package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/realflow-ai/realflow-backend/internal/services"
	"github.com/realflow-ai/realflow-backend/internal/vapi"
)

// WebhookHandler handles the Vapi tool-call webhook
type WebhookHandler struct {
	calls *services.CallService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(calls *services.CallService) *WebhookHandler {
	return &WebhookHandler{calls: calls}
}

// HandleVapiWebhook processes an inbound Vapi payload. Whatever happens, the
// response is HTTP 200. Vapi retries the whole batch on anything else, and
// per-tool-call failures are already reported in-band.
func (h *WebhookHandler) HandleVapiWebhook(c *fiber.Ctx) error {
	// fasthttp recycles the request buffer after the handler returns, and
	// the raw payload outlives this request as a stored column.
	body := append([]byte(nil), c.Body()...)

	webhook, err := vapi.ParseWebhook(body)
	if err != nil {
		log.Printf("❌ Webhook error: %v", err)
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	log.Printf("📞 Received webhook call (type=%s, call_id=%s)", webhook.MessageType, webhook.CallID)

	var results []fiber.Map

	switch {
	case webhook.IsToolCalls():
		log.Printf("🔧 Processing %d tool calls", len(webhook.ToolCalls))
		for _, toolCall := range webhook.ToolCalls {
			result := h.dispatch(toolCall, webhook.CallID, body)

			encoded, err := json.Marshal(result)
			if err != nil {
				encoded = []byte(`{"error": "failed to encode result"}`)
			}
			results = append(results, fiber.Map{
				"toolCallId": toolCall.ID,
				"result":     string(encoded),
			})
		}
	case webhook.IsEndOfCallReport():
		log.Println("📊 Call ended - end-of-call report received")
	default:
		log.Println("⚠️ Message type not recognized for tool calls - skipping")
	}

	if len(results) > 0 {
		log.Println("✅ Sending tool results to Vapi")
		return c.JSON(fiber.Map{"results": results})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Processed successfully",
	})
}

// dispatch routes one tool call to its handler. Tool names are matched
// exactly, with the camelCase spellings Vapi sometimes uses accepted too.
func (h *WebhookHandler) dispatch(toolCall vapi.ToolCall, callID string, rawPayload []byte) services.ToolResult {
	log.Printf("🔧 Function: %s", toolCall.Name)

	switch toolCall.Name {
	case "collect_caller_information", "collectCallerInformation":
		return h.calls.CollectCallerInfo(callID, toolCall.Arguments, rawPayload)
	case "schedule_callback", "scheduleCallback":
		return h.calls.ScheduleCallback(callID, toolCall.Arguments)
	case "request_property_information", "requestPropertyInformation":
		return h.calls.RequestPropertyInfo(callID, toolCall.Arguments)
	case "flag_hot_lead", "flagHotLead":
		return h.calls.FlagHotLead(callID, toolCall.Arguments)
	default:
		log.Printf("⚠️ Unrecognized function: %s", toolCall.Name)
		return services.UnknownFunction(toolCall.Name)
	}
}
