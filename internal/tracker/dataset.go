package tracker

import (
	"context"

	"airdrop-tracker/internal/dataset"
	"airdrop-tracker/internal/observability"
)

// ExportDataset snapshots the full tracker state into a portable dataset.
func (t *Tracker) ExportDataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := dataset.Export(ctx, t.wallets, t.chains, t.txs)
	if err != nil {
		return nil, err
	}

	observability.RecordExport()
	t.log.Info().
		Int("wallets", len(ds.Wallets)).
		Int("chains", len(ds.Chains)).
		Int("transactions", len(ds.Transactions)).
		Msg("Dataset exported")
	return ds, nil
}

// ImportDataset loads a dataset into the stores. Validation and the
// duplicate-skipping semantics live in the dataset package; no per-record
// events are emitted for bulk loads.
func (t *Tracker) ImportDataset(ctx context.Context, ds *dataset.Dataset) (*dataset.ImportResult, error) {
	res, err := dataset.Import(ctx, ds, t.wallets, t.chains, t.txs)
	if err != nil {
		return nil, err
	}

	written := res.WalletsAdded + res.ChainsAdded + res.TransactionsAdded
	observability.RecordImport(written)
	t.log.Info().
		Int("added", written).
		Int("skipped", res.WalletsSkipped+res.ChainsSkipped+res.TransactionsSkipped).
		Msg("Dataset imported")
	return res, nil
}
