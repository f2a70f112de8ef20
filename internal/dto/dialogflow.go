package dto

import (
	"digital-goods-fulfillment/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	BuildOrderContext = "build-the-order"

	screenOutputCapability = "actions.capability.SCREEN_OUTPUT"

	optionIntent           = "actions.intent.OPTION"
	optionValueSpecType    = "type.googleapis.com/google.actions.v2.OptionValueSpec"
	completePurchaseIntent = "actions.intent.COMPLETE_PURCHASE"
	completePurchaseType   = "type.googleapis.com/google.actions.transactions.v3.CompletePurchaseValueSpec"
)

// --- request ---

type WebhookRequest struct {
	ResponseID                  string                      `json:"responseId"`
	Session                     string                      `json:"session"`
	QueryResult                 QueryResult                 `json:"queryResult"`
	OriginalDetectIntentRequest OriginalDetectIntentRequest `json:"originalDetectIntentRequest"`
}

type QueryResult struct {
	QueryText      string         `json:"queryText"`
	Parameters     map[string]any `json:"parameters"`
	Intent         Intent         `json:"intent"`
	OutputContexts []Context      `json:"outputContexts,omitempty"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

type OriginalDetectIntentRequest struct {
	Source  string     `json:"source"`
	Version string     `json:"version"`
	Payload AppRequest `json:"payload"`
}

type AppRequest struct {
	User         User         `json:"user"`
	Conversation Conversation `json:"conversation"`
	Inputs       []Input      `json:"inputs"`
	Surface      Surface      `json:"surface"`
}

type User struct {
	Locale              string                    `json:"locale,omitempty"`
	PackageEntitlements []*model.EntitlementGroup `json:"packageEntitlements,omitempty"`
}

type Conversation struct {
	ConversationID string `json:"conversationId"`
	Type           string `json:"type,omitempty"`
}

type Input struct {
	Intent    string     `json:"intent"`
	Arguments []Argument `json:"arguments,omitempty"`
}

type Argument struct {
	Name      string          `json:"name"`
	TextValue string          `json:"textValue,omitempty"`
	Extension json.RawMessage `json:"extension,omitempty"`
}

type Surface struct {
	Capabilities []Capability `json:"capabilities"`
}

type Capability struct {
	Name string `json:"name"`
}

// Turn decodes the platform request into a conversational turn. The
// conversation id falls back to the last segment of the Dialogflow session.
func (r *WebhookRequest) Turn() (*model.Turn, error) {
	payload := r.OriginalDetectIntentRequest.Payload

	conversationID := payload.Conversation.ConversationID
	if conversationID == "" && r.Session != "" {
		conversationID = r.Session[strings.LastIndex(r.Session, "/")+1:]
	}
	if conversationID == "" {
		return nil, errors.New("missing conversation id")
	}

	turn := &model.Turn{
		ConversationID: conversationID,
		Intent:         model.Intent(r.QueryResult.Intent.DisplayName),
		Parameters:     make(map[string]string),
		Arguments:      make(map[string]string),
		Entitlements:   payload.User.PackageEntitlements,
	}

	for name, value := range r.QueryResult.Parameters {
		if s, ok := value.(string); ok && s != "" {
			turn.Parameters[name] = s
		}
	}

	for _, input := range payload.Inputs {
		for _, arg := range input.Arguments {
			if arg.Name == model.ArgCompletePurchaseValue && len(arg.Extension) > 0 {
				var value model.CompletePurchaseValue
				if err := json.Unmarshal(arg.Extension, &value); err != nil {
					return nil, fmt.Errorf("decode %s: %w", arg.Name, err)
				}
				turn.CompletePurchase = &value
				continue
			}
			if arg.TextValue != "" {
				turn.Arguments[arg.Name] = arg.TextValue
			}
		}
	}

	for _, capability := range payload.Surface.Capabilities {
		if capability.Name == screenOutputCapability {
			turn.HasScreen = true
			break
		}
	}

	return turn, nil
}

// --- response ---

type WebhookResponse struct {
	FulfillmentText string          `json:"fulfillmentText,omitempty"`
	Payload         ResponsePayload `json:"payload"`
	OutputContexts  []Context       `json:"outputContexts,omitempty"`
}

type ResponsePayload struct {
	Google GooglePayload `json:"google"`
}

type GooglePayload struct {
	ExpectUserResponse bool          `json:"expectUserResponse"`
	RichResponse       RichResponse  `json:"richResponse"`
	SystemIntent       *SystemIntent `json:"systemIntent,omitempty"`
}

type RichResponse struct {
	Items []RichItem `json:"items"`
}

type RichItem struct {
	SimpleResponse *SimpleResponse `json:"simpleResponse,omitempty"`
}

type SimpleResponse struct {
	TextToSpeech string `json:"textToSpeech"`
}

type SystemIntent struct {
	Intent string         `json:"intent"`
	Data   map[string]any `json:"data"`
}

type CarouselItem struct {
	OptionInfo  OptionInfo `json:"optionInfo"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
}

type OptionInfo struct {
	Key      string   `json:"key"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// NewWebhookResponse renders a reply for the Dialogflow session. A purchase
// directive takes precedence over an options carousel since only one system
// intent fits in a response.
func NewWebhookResponse(reply *model.Reply, session string, contextLifespan int) *WebhookResponse {
	resp := &WebhookResponse{
		FulfillmentText: strings.Join(reply.Speech, " "),
	}

	google := &resp.Payload.Google
	google.ExpectUserResponse = !reply.Close
	google.RichResponse.Items = make([]RichItem, 0, len(reply.Speech))
	for _, speech := range reply.Speech {
		google.RichResponse.Items = append(google.RichResponse.Items, RichItem{
			SimpleResponse: &SimpleResponse{TextToSpeech: speech},
		})
	}

	switch {
	case reply.CompletePurchase != nil:
		google.SystemIntent = &SystemIntent{
			Intent: completePurchaseIntent,
			Data: map[string]any{
				"@type": completePurchaseType,
				"skuId": reply.CompletePurchase,
			},
		}
	case len(reply.Options) > 0:
		items := make([]CarouselItem, len(reply.Options))
		for i, option := range reply.Options {
			items[i] = CarouselItem{
				OptionInfo:  OptionInfo{Key: option.Key},
				Title:       option.Title,
				Description: option.Description,
			}
		}
		google.SystemIntent = &SystemIntent{
			Intent: optionIntent,
			Data: map[string]any{
				"@type":          optionValueSpecType,
				"carouselSelect": map[string]any{"items": items},
			},
		}
	}

	if reply.ResetContext && !reply.Close && session != "" {
		resp.OutputContexts = []Context{{
			Name:          session + "/contexts/" + BuildOrderContext,
			LifespanCount: contextLifespan,
		}}
	}

	return resp
}
