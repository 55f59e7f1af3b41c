// Package fetch pulls account data from Plaid and persists it as
// per-institution snapshots: accounts, bank transactions via the
// incremental sync cursor, investment transactions windowed from the
// configured start date, and a wholesale refresh of holdings.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/plaid/plaid-go/plaid"
	"github.com/sirupsen/logrus"

	"github.com/hmelton/plaidbean/pkg/config"
	"github.com/hmelton/plaidbean/pkg/persistence"
	"github.com/hmelton/plaidbean/pkg/plaidclient"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

const (
	dateFormat = "2006-01-02"

	// defaultStartDate bounds the investment history window when the config
	// does not set one.
	defaultStartDate = "1970-01-01"

	investmentsPageSize = 500
)

func Fetch(configPath string) error {
	ctx := context.Background()

	cfg, err := persistence.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := persistence.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	snaps, err := store.LoadSnapshots()
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	cli := plaidclient.New(cfg.ClientID, cfg.Secret, cfg.Environment)

	for _, inst := range cfg.Institutions {
		snap, ok := snapshot.Find(snaps, inst.Name)
		if !ok {
			snap = snapshot.New(inst.Name)
			snaps = append(snaps, snap)
		}

		if err := fetchInstitution(ctx, cli, cfg, inst, snap); err != nil {
			return fmt.Errorf("failed to fetch %s: %w", inst.Name, err)
		}
	}

	if err := store.DumpSnapshots(snaps); err != nil {
		return fmt.Errorf("failed to dump snapshots: %w", err)
	}

	logrus.Infof("fetched %d institutions", len(cfg.Institutions))
	return nil
}

func fetchInstitution(ctx context.Context, cli *plaid.APIClient, cfg *config.Config, inst config.Institution, snap *snapshot.Snapshot) error {
	log := logrus.WithField("institution", inst.Name)

	accounts, err := getAccounts(ctx, cli, inst.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}
	for _, account := range accounts {
		snap.UpsertAccount(account)
	}
	log.Debugf("fetched %d accounts", len(accounts))

	if inst.HasProduct(plaid.PRODUCTS_TRANSACTIONS) {
		if err := fetchTransactions(ctx, cli, inst.AccessToken, snap); err != nil {
			return fmt.Errorf("failed to fetch transactions: %w", err)
		}
		log.Debugf("%d transactions after sync", len(snap.Transactions))
	}

	if inst.HasProduct(plaid.PRODUCTS_INVESTMENTS) {
		if err := fetchInvestmentTransactions(ctx, cli, cfg.StartDate, inst.AccessToken, snap); err != nil {
			return fmt.Errorf("failed to fetch investment transactions: %w", err)
		}
		if err := fetchHoldings(ctx, cli, inst.AccessToken, snap); err != nil {
			return fmt.Errorf("failed to fetch holdings: %w", err)
		}
		log.Debugf("%d investment transactions, %d holdings", len(snap.InvestmentTransactions), len(snap.Holdings))
	}

	snap.LastUpdate = time.Now()
	return nil
}

func getAccounts(ctx context.Context, cli *plaid.APIClient, accessToken string) ([]plaid.AccountBase, error) {
	req := plaid.NewAccountsGetRequest(accessToken)
	resp, httpResp, err := cli.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*req).Execute()
	if err != nil {
		logrus.Debug(httpResp.Body)
		return nil, fmt.Errorf("failed to execute accounts request: %w", err)
	}

	return resp.GetAccounts(), nil
}

// fetchTransactions walks the incremental sync stream from the snapshot's
// cursor. Added and modified transactions are upserted, removed ones are
// dropped, and the cursor advances to the end of the stream.
func fetchTransactions(ctx context.Context, cli *plaid.APIClient, accessToken string, snap *snapshot.Snapshot) error {
	hasMore := true
	for hasMore {
		req := plaid.NewTransactionsSyncRequest(accessToken)
		if snap.Cursor != "" {
			req.SetCursor(snap.Cursor)
		}

		resp, _, err := cli.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*req).Execute()
		if err != nil {
			return fmt.Errorf("failed to execute sync request: %w", err)
		}

		for _, txn := range resp.GetAdded() {
			snap.UpsertTransaction(txn)
		}
		for _, txn := range resp.GetModified() {
			snap.UpsertTransaction(txn)
		}
		for _, removed := range resp.GetRemoved() {
			if removed.TransactionId != nil {
				snap.RemoveTransaction(*removed.TransactionId)
			}
		}

		hasMore = resp.GetHasMore()
		snap.Cursor = resp.GetNextCursor()
	}

	return nil
}

func fetchInvestmentTransactions(ctx context.Context, cli *plaid.APIClient, startDate, accessToken string, snap *snapshot.Snapshot) error {
	if startDate == "" {
		startDate = defaultStartDate
	}
	endDate := time.Now().Format(dateFormat)

	offset := 0
	for {
		req := plaid.NewInvestmentsTransactionsGetRequest(accessToken, startDate, endDate)
		opts := plaid.NewInvestmentsTransactionsGetRequestOptions()
		opts.SetCount(investmentsPageSize)
		opts.SetOffset(int32(offset))
		req.SetOptions(*opts)

		resp, httpResp, err := cli.PlaidApi.InvestmentsTransactionsGet(ctx).InvestmentsTransactionsGetRequest(*req).Execute()
		if err != nil {
			logrus.Debug(httpResp.Body)
			return fmt.Errorf("failed to execute investment transactions request: %w", err)
		}

		page := resp.GetInvestmentTransactions()
		for _, txn := range page {
			snap.UpsertInvestmentTransaction(txn)
		}
		for _, sec := range resp.GetSecurities() {
			snap.UpsertTransactionSecurity(sec)
		}

		offset += len(page)
		if len(page) == 0 || offset >= int(resp.GetTotalInvestmentTransactions()) {
			return nil
		}
	}
}

func fetchHoldings(ctx context.Context, cli *plaid.APIClient, accessToken string, snap *snapshot.Snapshot) error {
	req := plaid.NewInvestmentsHoldingsGetRequest(accessToken)
	resp, httpResp, err := cli.PlaidApi.InvestmentsHoldingsGet(ctx).InvestmentsHoldingsGetRequest(*req).Execute()
	if err != nil {
		return fmt.Errorf("failed to execute holdings request: %w: %s", err, httpResp.Body)
	}

	for _, account := range resp.GetAccounts() {
		snap.UpsertAccount(account)
	}

	snap.SetHoldings(resp.GetHoldings(), resp.GetSecurities())
	return nil
}
