// Package link drives the Plaid Link flow: it creates a link token, serves
// the Link page on localhost, exchanges the public token for an access
// token and records the institution in the config file.
package link

import (
	"context"
	"fmt"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/config"
	"github.com/hmelton/plaidbean/pkg/persistence"
	"github.com/hmelton/plaidbean/pkg/plaidclient"
)

func Link(configPath string, institution string, products []plaid.Products) error {
	cfg, err := persistence.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if _, ok := cfg.Institution(institution); ok {
		return fmt.Errorf("institution %s already linked", institution)
	}

	ctx := context.Background()

	c := plaidclient.New(cfg.ClientID, cfg.Secret, cfg.Environment)
	linkToken, err := createLinkToken(ctx, c, products, nil)
	if err != nil {
		return fmt.Errorf("failed to create link token: %w", err)
	}

	publicToken, err := launchLinkFlow(ctx, linkToken)
	if err != nil {
		return fmt.Errorf("failed to launch link flow: %w", err)
	}

	accessToken, err := exchangeAccessToken(ctx, c, publicToken)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	if err := cfg.SetInstitution(config.Institution{
		Name:        institution,
		AccessToken: accessToken,
		Products:    products,
	}); err != nil {
		return fmt.Errorf("failed to set institution: %w", err)
	}

	if err := persistence.DumpConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to dump config: %w", err)
	}

	return nil
}
