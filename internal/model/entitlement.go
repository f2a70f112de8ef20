package model

type InAppPurchaseData struct {
	OrderID          string `json:"orderId,omitempty"`
	PackageName      string `json:"packageName,omitempty"`
	ProductID        string `json:"productId,omitempty"`
	PurchaseTime     int64  `json:"purchaseTime,omitempty"`
	PurchaseState    int    `json:"purchaseState,omitempty"`
	PurchaseToken    string `json:"purchaseToken"`
	AutoRenewing     bool   `json:"autoRenewing,omitempty"`
	DeveloperPayload string `json:"developerPayload,omitempty"`
}

type InAppDetails struct {
	InAppPurchaseData  InAppPurchaseData `json:"inAppPurchaseData"`
	InAppDataSignature string            `json:"inAppDataSignature,omitempty"`
}

type Entitlement struct {
	Sku          string       `json:"sku"`
	SkuType      SkuType      `json:"skuType"`
	InAppDetails InAppDetails `json:"inAppDetails"`
}

func (e *Entitlement) PurchaseToken() string {
	return e.InAppDetails.InAppPurchaseData.PurchaseToken
}

// EntitlementGroup holds the entitlements a user owns within one package.
type EntitlementGroup struct {
	PackageName  string         `json:"packageName"`
	Entitlements []*Entitlement `json:"entitlements"`
}
