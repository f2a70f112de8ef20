package model

type PurchaseStatus string

const (
	PurchaseStatusOK                  PurchaseStatus = "PURCHASE_STATUS_OK"
	PurchaseStatusAlreadyOwned        PurchaseStatus = "PURCHASE_STATUS_ALREADY_OWNED"
	PurchaseStatusItemUnavailable     PurchaseStatus = "PURCHASE_STATUS_ITEM_UNAVAILABLE"
	PurchaseStatusItemChangeRequested PurchaseStatus = "PURCHASE_STATUS_ITEM_CHANGE_REQUESTED"
	PurchaseStatusUserCancelled       PurchaseStatus = "PURCHASE_STATUS_USER_CANCELLED"
	PurchaseStatusError               PurchaseStatus = "PURCHASE_STATUS_ERROR"
	PurchaseStatusUnspecified         PurchaseStatus = "PURCHASE_STATUS_UNSPECIFIED"
)

// CompletePurchaseValue is the argument the platform attaches to the turn
// that follows a purchase-confirmation directive.
type CompletePurchaseValue struct {
	Type           string         `json:"@type,omitempty"`
	PurchaseStatus PurchaseStatus `json:"purchaseStatus"`
}
