package intelligence

import (
	"context"
	"fmt"
	"strings"

	"acmedental/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// maxToolRounds bounds the tool-dispatch loop within a single turn so a
// misbehaving model cannot spin forever.
const maxToolRounds = 8

const systemPrompt = `You are a helpful AI assistant for Acme Dental clinic. Your role is to help patients book dental checkup appointments and answer their questions.

Your capabilities:
1. Book new appointments
2. Find existing appointments by email
3. Cancel existing appointments
4. Reschedule existing appointments
5. Answer questions from the knowledge base (pricing, policies, what to bring, etc.)
6. Check available appointment times
7. Generate booking confirmations

Booking process:
1. Greet the patient warmly
2. Ask for their name and email
3. Ask what date they'd like
4. Use the get_available_times tool to show available slots
5. Once they choose a time, use the create_booking tool
6. Provide confirmation with appointment details

For questions about the clinic, use the search_knowledge_base tool.

Important:
- Be conversational and friendly
- Ask one question at a time
- Date format should be YYYY-MM-DD
- Always collect name, email, date, and time before booking
- Answer FAQ questions using the knowledge base tool`

// GeminiAgent runs the conversation through a Gemini model with the
// booking and knowledge tools attached. One chat session per process; the
// session carries conversation history, this struct holds no other state.
type GeminiAgent struct {
	client *genai.Client
	chat   *genai.ChatSession
	tools  *ToolSurface
	logger *zap.Logger
}

// NewGeminiAgent builds the model, declares the tool set and starts the
// chat session.
func NewGeminiAgent(ctx context.Context, apiKey string, tools *ToolSurface) (*GeminiAgent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: toolDeclarations()}}

	return &GeminiAgent{
		client: client,
		chat:   model.StartChat(),
		tools:  tools,
		logger: utils.GetLogger(),
	}, nil
}

// Close releases the underlying API client.
func (a *GeminiAgent) Close() error {
	return a.client.Close()
}

// Converse handles one user turn: send the text, execute any tool calls the
// model requests, feed the results back, and return the model's prose.
func (a *GeminiAgent) Converse(ctx context.Context, text string) (string, error) {
	resp, err := a.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		var replies []genai.Part
		for _, call := range calls {
			a.logger.Debug("executing tool", zap.String("tool", call.Name))
			output, err := a.tools.Dispatch(ctx, call.Name, call.Args)
			if err != nil {
				a.logger.Warn("tool dispatch failed", zap.String("tool", call.Name), zap.Error(err))
				output = "Tool unavailable: " + err.Error()
			}
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"result": output},
			})
		}

		resp, err = a.chat.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("gemini tool response error: %w", err)
		}
	}

	return responseText(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
	}
	return sb.String()
}

func toolDeclarations() []*genai.FunctionDeclaration {
	dateParam := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return []*genai.FunctionDeclaration{
		{
			Name:        "get_available_times",
			Description: "Get available appointment times for a specific date.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": dateParam("Date in YYYY-MM-DD format"),
				},
				Required: []string{"date"},
			},
		},
		{
			Name:        "create_booking",
			Description: "Create a checkup booking for a patient.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString, Description: "Patient's full name"},
					"email": {Type: genai.TypeString, Description: "Patient's email address"},
					"date":  dateParam("Date in YYYY-MM-DD format"),
					"time":  {Type: genai.TypeString, Description: `Time like "2:00 PM"`},
				},
				Required: []string{"name", "email", "date", "time"},
			},
		},
		{
			Name:        "find_user_bookings",
			Description: "Find scheduled appointments for a patient by email.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"email": {Type: genai.TypeString, Description: "Patient's email address"},
				},
				Required: []string{"email"},
			},
		},
		{
			Name:        "cancel_appointment",
			Description: "Cancel a patient's upcoming appointment.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"email": {Type: genai.TypeString, Description: "Patient's email address"},
				},
				Required: []string{"email"},
			},
		},
		{
			Name:        "reschedule_appointment",
			Description: "Reschedule an appointment: cancel the old one and show available times for the new date.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"email":    {Type: genai.TypeString, Description: "Patient's email address"},
					"new_date": dateParam("New date in YYYY-MM-DD format"),
				},
				Required: []string{"email", "new_date"},
			},
		},
		{
			Name:        "get_clinic_info",
			Description: "Get general information about the Acme Dental clinic.",
		},
		{
			Name:        "search_knowledge_base",
			Description: "Search the clinic FAQ knowledge base (pricing, policies, what to bring, etc.).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString, Description: "The patient's question"},
				},
				Required: []string{"question"},
			},
		},
	}
}
