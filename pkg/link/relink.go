package link

import (
	"context"
	"fmt"

	"github.com/hmelton/plaidbean/pkg/persistence"
	"github.com/hmelton/plaidbean/pkg/plaidclient"
)

// Relink re-runs Link in update mode for an institution whose item needs
// re-authentication. The access token stays the same afterwards.
func Relink(configPath string, institution string) error {
	cfg, err := persistence.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	inst, ok := cfg.Institution(institution)
	if !ok {
		return fmt.Errorf("institution %s not linked", institution)
	}

	ctx := context.Background()

	c := plaidclient.New(cfg.ClientID, cfg.Secret, cfg.Environment)
	accessToken := inst.AccessToken
	linkToken, err := createLinkToken(ctx, c, nil, &accessToken)
	if err != nil {
		return fmt.Errorf("failed to create link token: %w", err)
	}

	if _, err := launchLinkFlow(ctx, linkToken); err != nil {
		return fmt.Errorf("failed to launch link flow: %w", err)
	}

	return nil
}
