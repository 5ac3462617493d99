// Package dataset implements the portable snapshot format: every wallet,
// chain and transaction as one JSON document. Exports are complete and
// ordered, imports are validated up front and idempotent, so moving a
// tracker between backends is export on one side, import on the other.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/idhash"
	"airdrop-tracker/internal/storage"
)

// ErrInvalidDataset reports a dataset that failed validation before import.
var ErrInvalidDataset = errors.New("invalid dataset")

// Wallet is the wire form of domain.Wallet. Seq is omitted: record order in
// the file carries the insertion order, the importing store reassigns it.
type Wallet struct {
	WalletID  string `json:"wallet_id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Chain is the wire form of domain.Chain.
type Chain struct {
	ChainID   string `json:"chain_id"`
	Name      string `json:"name"`
	IsEVM     bool   `json:"is_evm"`
	CreatedAt int64  `json:"created_at"`
}

// Transaction is the wire form of domain.Transaction.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	WalletID      string  `json:"wallet_id"`
	ChainID       string  `json:"chain_id"`
	Timestamp     int64   `json:"timestamp"`
	ZeroVolume    bool    `json:"zero_volume,omitempty"`
	Volume        float64 `json:"volume"`
	Gas           float64 `json:"gas,omitempty"`
	Comment       string  `json:"comment,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

// Dataset is a portable snapshot of the full tracker state.
type Dataset struct {
	Wallets      []Wallet      `json:"wallets"`
	Chains       []Chain       `json:"chains"`
	Transactions []Transaction `json:"transactions"`
}

// ImportResult counts what an import wrote and what it skipped as already
// present.
type ImportResult struct {
	WalletsAdded        int
	ChainsAdded         int
	TransactionsAdded   int
	WalletsSkipped      int
	ChainsSkipped       int
	TransactionsSkipped int
}

// WriteJSON encodes the dataset as indented JSON.
func WriteJSON(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// ReadJSON decodes a dataset from JSON.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// Export reads the full tracker state into a dataset. Slices come back in
// store insertion order, which the file preserves.
func Export(
	ctx context.Context,
	wallets storage.WalletStore,
	chains storage.ChainStore,
	transactions storage.TransactionStore,
) (*Dataset, error) {
	ds := &Dataset{}

	ws, err := wallets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export wallets: %w", err)
	}
	for _, w := range ws {
		ds.Wallets = append(ds.Wallets, Wallet{
			WalletID:  w.WalletID,
			Name:      w.Name,
			Address:   w.Address,
			CreatedAt: w.CreatedAt,
		})
	}

	cs, err := chains.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export chains: %w", err)
	}
	for _, c := range cs {
		ds.Chains = append(ds.Chains, Chain{
			ChainID:   c.ChainID,
			Name:      c.Name,
			IsEVM:     c.IsEVM,
			CreatedAt: c.CreatedAt,
		})
	}

	txs, err := transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	for _, t := range txs {
		ds.Transactions = append(ds.Transactions, Transaction{
			TransactionID: t.TransactionID,
			WalletID:      t.WalletID,
			ChainID:       t.ChainID,
			Timestamp:     t.Timestamp,
			ZeroVolume:    t.ZeroVolume,
			Volume:        t.Volume,
			Gas:           t.Gas,
			Comment:       t.Comment,
			CreatedAt:     t.CreatedAt,
		})
	}

	return ds, nil
}

// Import writes a dataset into the stores. The whole dataset is validated
// before the first write: names must be present, amounts non-negative,
// timestamps positive, and every transaction must reference a wallet and
// chain that exists in the dataset or in the target stores already.
// Records with no ID get one computed from their content, which keeps
// hand-written files loadable. Records whose IDs are already present are
// skipped, so re-importing the same file is a no-op.
func Import(
	ctx context.Context,
	ds *Dataset,
	wallets storage.WalletStore,
	chains storage.ChainStore,
	transactions storage.TransactionStore,
) (*ImportResult, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrInvalidDataset)
	}

	walletIDs, chainIDs, err := knownIDs(ctx, ds, wallets, chains)
	if err != nil {
		return nil, err
	}
	if err := validate(ds, walletIDs, chainIDs); err != nil {
		return nil, err
	}

	res := &ImportResult{}

	for i := range ds.Wallets {
		w := toDomainWallet(&ds.Wallets[i])
		switch err := wallets.Insert(ctx, w); {
		case err == nil:
			res.WalletsAdded++
		case errors.Is(err, storage.ErrDuplicateKey):
			res.WalletsSkipped++
		default:
			return nil, fmt.Errorf("import wallet %q: %w", w.Name, err)
		}
	}

	for i := range ds.Chains {
		c := toDomainChain(&ds.Chains[i])
		switch err := chains.Insert(ctx, c); {
		case err == nil:
			res.ChainsAdded++
		case errors.Is(err, storage.ErrDuplicateKey):
			res.ChainsSkipped++
		default:
			return nil, fmt.Errorf("import chain %q: %w", c.Name, err)
		}
	}

	for i := range ds.Transactions {
		t := toDomainTransaction(&ds.Transactions[i])
		switch err := transactions.Insert(ctx, t); {
		case err == nil:
			res.TransactionsAdded++
		case errors.Is(err, storage.ErrDuplicateKey):
			res.TransactionsSkipped++
		default:
			return nil, fmt.Errorf("import transaction %s: %w", t.TransactionID, err)
		}
	}

	return res, nil
}

// knownIDs collects the wallet and chain IDs visible to the import: the
// dataset's own records plus whatever the target stores already hold.
func knownIDs(
	ctx context.Context,
	ds *Dataset,
	wallets storage.WalletStore,
	chains storage.ChainStore,
) (map[string]bool, map[string]bool, error) {
	walletIDs := make(map[string]bool)
	chainIDs := make(map[string]bool)

	existing, err := wallets.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list wallets before import: %w", err)
	}
	for _, w := range existing {
		walletIDs[w.WalletID] = true
	}

	existingChains, err := chains.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list chains before import: %w", err)
	}
	for _, c := range existingChains {
		chainIDs[c.ChainID] = true
	}

	for i := range ds.Wallets {
		w := &ds.Wallets[i]
		if w.WalletID == "" {
			w.WalletID = idhash.ComputeWalletID(w.Name)
		}
		walletIDs[w.WalletID] = true
	}
	for i := range ds.Chains {
		c := &ds.Chains[i]
		if c.ChainID == "" {
			c.ChainID = idhash.ComputeChainID(c.Name)
		}
		chainIDs[c.ChainID] = true
	}

	return walletIDs, chainIDs, nil
}

func validate(ds *Dataset, walletIDs, chainIDs map[string]bool) error {
	for i := range ds.Wallets {
		if ds.Wallets[i].Name == "" {
			return fmt.Errorf("%w: wallet %d has no name", ErrInvalidDataset, i)
		}
	}
	for i := range ds.Chains {
		if ds.Chains[i].Name == "" {
			return fmt.Errorf("%w: chain %d has no name", ErrInvalidDataset, i)
		}
	}
	for i := range ds.Transactions {
		t := &ds.Transactions[i]
		if t.Timestamp <= 0 {
			return fmt.Errorf("%w: transaction %d has non-positive timestamp", ErrInvalidDataset, i)
		}
		if t.Volume < 0 {
			return fmt.Errorf("%w: transaction %d has negative volume", ErrInvalidDataset, i)
		}
		if t.Gas < 0 {
			return fmt.Errorf("%w: transaction %d has negative gas", ErrInvalidDataset, i)
		}
		if !walletIDs[t.WalletID] {
			return fmt.Errorf("%w: transaction %d references unknown wallet %s", ErrInvalidDataset, i, t.WalletID)
		}
		if !chainIDs[t.ChainID] {
			return fmt.Errorf("%w: transaction %d references unknown chain %s", ErrInvalidDataset, i, t.ChainID)
		}
	}
	return nil
}

func toDomainWallet(w *Wallet) *domain.Wallet {
	return &domain.Wallet{
		WalletID:  w.WalletID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
	}
}

func toDomainChain(c *Chain) *domain.Chain {
	return &domain.Chain{
		ChainID:   c.ChainID,
		Name:      c.Name,
		IsEVM:     c.IsEVM,
		CreatedAt: c.CreatedAt,
	}
}

func toDomainTransaction(t *Transaction) *domain.Transaction {
	tx := &domain.Transaction{
		TransactionID: t.TransactionID,
		WalletID:      t.WalletID,
		ChainID:       t.ChainID,
		Timestamp:     t.Timestamp,
		ZeroVolume:    t.ZeroVolume,
		Volume:        t.Volume,
		Gas:           t.Gas,
		Comment:       t.Comment,
		CreatedAt:     t.CreatedAt,
	}
	if tx.ZeroVolume {
		// Same normalization the service applies on insert.
		tx.Volume = 0
	}
	if tx.TransactionID == "" {
		tx.TransactionID = idhash.ComputeTransactionID(
			tx.WalletID, tx.ChainID, tx.Timestamp, tx.ZeroVolume, tx.Volume, tx.Gas, tx.Comment,
		)
	}
	return tx
}
