package client

import (
	"context"
	"digital-goods-fulfillment/internal/config"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type EntitlementClient interface {
	// Consume marks the entitlement behind purchaseToken as used so the
	// item can be bought again.
	Consume(ctx context.Context, conversationID, purchaseToken string) error
}

type entitlementClientImpl struct {
	api *actionsAPI
}

type consumeRequest struct {
	PurchaseToken string `json:"purchaseToken"`
}

func NewEntitlementClient(actionsCfg *config.Actions, credentials CredentialProvider) EntitlementClient {
	return &entitlementClientImpl{
		api: newActionsAPI(actionsCfg.BaseApiURL, credentials),
	}
}

func (c *entitlementClientImpl) Consume(ctx context.Context, conversationID, purchaseToken string) error {
	if strings.TrimSpace(purchaseToken) == "" {
		return &RemoteError{Op: "consume entitlement", Err: errors.New("purchase token is required")}
	}

	endpoint := fmt.Sprintf("%s/v3/conversations/%s/entitlement:consume", c.api.baseApiURL, url.PathEscape(conversationID))

	return c.api.post(ctx, "consume entitlement", endpoint, &consumeRequest{
		PurchaseToken: purchaseToken,
	}, nil)
}
