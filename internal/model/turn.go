package model

type Intent string

const (
	IntentBuildOrder             Intent = "Build the Order"
	IntentInitiatePurchase       Intent = "Initiate the Purchase"
	IntentDescribePurchaseStatus Intent = "Describe the Purchase Status"
)

// Argument names used by the platform.
const (
	ArgOption                = "OPTION"
	ArgSku                   = "SKU"
	ArgCompletePurchaseValue = "COMPLETE_PURCHASE_VALUE"
)

// Turn is one inbound conversational event, decoded from the platform request.
type Turn struct {
	ConversationID string
	Intent         Intent
	// Parameters are the intent slot values, Arguments the platform arguments
	// (OPTION selections and similar) as plain text.
	Parameters       map[string]string
	Arguments        map[string]string
	CompletePurchase *CompletePurchaseValue
	Entitlements     []*EntitlementGroup
	HasScreen        bool
}

// SelectedSkuID returns the item the user picked, preferring a carousel
// selection over a spoken slot value.
func (t *Turn) SelectedSkuID() string {
	if id := t.Arguments[ArgOption]; id != "" {
		return id
	}
	return t.Parameters[ArgSku]
}

type Option struct {
	Key         string
	Title       string
	Description string
}

// Reply is the outbound turn. Close ends the conversation, otherwise the
// platform waits for the user.
type Reply struct {
	Close            bool
	Speech           []string
	Options          []Option
	CompletePurchase *SkuID
	// ResetContext re-arms the build-the-order context so the user can
	// start another purchase.
	ResetContext bool
}

func Ask(speech ...string) *Reply {
	return &Reply{Speech: speech}
}

func Close(speech ...string) *Reply {
	return &Reply{Close: true, Speech: speech}
}
