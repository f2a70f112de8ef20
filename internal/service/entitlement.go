package service

import "digital-goods-fulfillment/internal/model"

// FindEntitlement returns the first entitlement, scanning groups and then
// their entitlements in order, whose sku matches the selected sku id.
// It returns nil when the user does not own the sku.
func FindEntitlement(groups []*model.EntitlementGroup, selected *model.Sku) *model.Entitlement {
	if selected == nil {
		return nil
	}
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, entitlement := range group.Entitlements {
			if entitlement != nil && entitlement.Sku == selected.SkuID.ID {
				return entitlement
			}
		}
	}
	return nil
}
