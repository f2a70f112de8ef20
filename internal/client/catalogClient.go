package client

import (
	"context"
	"digital-goods-fulfillment/internal/config"
	"digital-goods-fulfillment/internal/model"
	"fmt"
	"net/url"
)

type CatalogClient interface {
	// GetSkus returns every sku of the configured groups, in group order.
	// An empty catalog is returned as an empty slice and a nil error.
	GetSkus(ctx context.Context, conversationID string) ([]*model.Sku, error)
}

type catalogClientImpl struct {
	api         *actionsAPI
	packageName string
	groups      []model.SkuGroup
}

type batchGetRequest struct {
	ConversationID string        `json:"conversationId"`
	SkuType        model.SkuType `json:"skuType"`
	IDs            []string      `json:"ids"`
}

type batchGetResponse struct {
	Skus []*model.Sku `json:"skus"`
}

func NewCatalogClient(actionsCfg *config.Actions, catalogCfg *config.Catalog, credentials CredentialProvider) CatalogClient {
	return &catalogClientImpl{
		api:         newActionsAPI(actionsCfg.BaseApiURL, credentials),
		packageName: actionsCfg.PackageName,
		groups: []model.SkuGroup{
			{SkuType: model.SkuTypeInApp, IDs: catalogCfg.InAppIDs},
			{SkuType: model.SkuTypeSubscription, IDs: catalogCfg.SubscriptionIDs},
		},
	}
}

func (c *catalogClientImpl) GetSkus(ctx context.Context, conversationID string) ([]*model.Sku, error) {
	endpoint := fmt.Sprintf("%s/v3/packages/%s/skus:batchGet", c.api.baseApiURL, url.PathEscape(c.packageName))

	skus := make([]*model.Sku, 0)
	for _, group := range c.groups {
		if len(group.IDs) == 0 {
			continue
		}

		var res batchGetResponse
		err := c.api.post(ctx, "batch get skus", endpoint, &batchGetRequest{
			ConversationID: conversationID,
			SkuType:        group.SkuType,
			IDs:            group.IDs,
		}, &res)
		if err != nil {
			return nil, err
		}

		for _, sku := range res.Skus {
			if sku != nil {
				skus = append(skus, sku)
			}
		}
	}

	return skus, nil
}
