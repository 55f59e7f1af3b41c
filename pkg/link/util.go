package link

import (
	"context"
	"fmt"

	"github.com/plaid/plaid-go/plaid"
	"github.com/sirupsen/logrus"
)

func createLinkToken(ctx context.Context, c *plaid.APIClient, products []plaid.Products, accessToken *string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: "USERID",
	}
	request := plaid.NewLinkTokenCreateRequest(
		"plaidbean",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)

	if len(products) > 0 {
		request.SetProducts(products)
	}
	if accessToken != nil {
		request.SetAccessToken(*accessToken)
	}

	resp, httpResp, err := c.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		logrus.Debug(httpResp.Body)
		return "", err
	}

	return resp.GetLinkToken(), nil
}

func exchangeAccessToken(ctx context.Context, c *plaid.APIClient, publicToken string) (string, error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to exchange public token: %w", err)
	}

	return resp.GetAccessToken(), nil
}

// launchLinkFlow serves the Link page locally and blocks until the user
// completes the flow in a browser, returning the public token.
func launchLinkFlow(ctx context.Context, linkToken string) (string, error) {
	ts := newTokenServer(linkToken)

	url, err := ts.start(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start token server: %w", err)
	}
	defer ts.shutdown(context.Background())

	logrus.Infof("open %s in a browser to continue the link flow", url)

	token, err := ts.waitForToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to wait for public token: %w", err)
	}

	return token, nil
}
