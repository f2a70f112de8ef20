package service

import (
	"digital-goods-fulfillment/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entitlement(sku, token string) *model.Entitlement {
	return &model.Entitlement{
		Sku:     sku,
		SkuType: model.SkuTypeInApp,
		InAppDetails: model.InAppDetails{
			InAppPurchaseData: model.InAppPurchaseData{PurchaseToken: token},
		},
	}
}

func TestFindEntitlement(t *testing.T) {
	gas := &model.Sku{SkuID: model.SkuID{ID: "gas"}}

	tests := []struct {
		name      string
		groups    []*model.EntitlementGroup
		wantToken string
	}{
		{
			name: "no groups",
		},
		{
			name:   "empty group",
			groups: []*model.EntitlementGroup{{PackageName: "pkg"}},
		},
		{
			name: "no match",
			groups: []*model.EntitlementGroup{
				{Entitlements: []*model.Entitlement{entitlement("premium_car", "car1")}},
			},
		},
		{
			name: "match in second group",
			groups: []*model.EntitlementGroup{
				{Entitlements: []*model.Entitlement{entitlement("premium_car", "car1")}},
				{Entitlements: []*model.Entitlement{entitlement("gas", "tok123")}},
			},
			wantToken: "tok123",
		},
		{
			name: "first duplicate across groups wins",
			groups: []*model.EntitlementGroup{
				{Entitlements: []*model.Entitlement{entitlement("gas", "first"), entitlement("gas", "second")}},
				{Entitlements: []*model.Entitlement{entitlement("gas", "third")}},
			},
			wantToken: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindEntitlement(tt.groups, gas)
			if tt.wantToken == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantToken, got.PurchaseToken())
		})
	}
}

func TestFindEntitlement_NilSku(t *testing.T) {
	groups := []*model.EntitlementGroup{{Entitlements: []*model.Entitlement{entitlement("gas", "tok")}}}
	assert.Nil(t, FindEntitlement(groups, nil))
}
