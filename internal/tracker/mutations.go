package tracker

import (
	"context"
	"fmt"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/idhash"
	"airdrop-tracker/internal/observability"
	"airdrop-tracker/internal/storage"
	"airdrop-tracker/internal/validation"
)

// TransactionInput carries the caller-supplied fields of a new
// transaction. IDs and sequence numbers are assigned by the tracker.
type TransactionInput struct {
	WalletID   string
	ChainID    string
	Timestamp  int64 // ms
	ZeroVolume bool
	Volume     float64
	Gas        float64
	Comment    string
}

// AddWallet registers a wallet. The address is optional; when present it
// must be an EVM or ed25519 address.
func (t *Tracker) AddWallet(ctx context.Context, name, address string) (*domain.Wallet, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if address != "" {
		if err := validation.ValidateAddress(address); err != nil {
			return nil, err
		}
	}

	w := &domain.Wallet{
		WalletID:  idhash.ComputeWalletID(name),
		Name:      name,
		Address:   address,
		CreatedAt: t.now().UnixMilli(),
	}
	if err := t.wallets.Insert(ctx, w); err != nil {
		observability.RecordMutationError("wallet", "add")
		return nil, fmt.Errorf("add wallet %q: %w", name, err)
	}

	t.log.Info().Str("walletId", w.WalletID).Str("name", name).Msg("Wallet added")
	observability.RecordMutation("wallet", "add")
	t.emit(events.TypeWalletAdded, w.WalletID, w)
	return w, nil
}

// RemoveWallet deletes a wallet. Wallets still referenced by transactions
// cannot be removed.
func (t *Tracker) RemoveWallet(ctx context.Context, walletID string) error {
	count, err := t.txs.CountByWallet(ctx, walletID)
	if err != nil {
		return fmt.Errorf("count wallet references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("wallet has %d transactions: %w", count, storage.ErrReferenced)
	}

	if err := t.wallets.Delete(ctx, walletID); err != nil {
		observability.RecordMutationError("wallet", "remove")
		return fmt.Errorf("remove wallet %s: %w", walletID, err)
	}

	t.log.Info().Str("walletId", walletID).Msg("Wallet removed")
	observability.RecordMutation("wallet", "remove")
	t.emit(events.TypeWalletRemoved, walletID, nil)
	return nil
}

// AddChain registers a chain. EVM chains share one activity matrix.
func (t *Tracker) AddChain(ctx context.Context, name string, isEVM bool) (*domain.Chain, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	c := &domain.Chain{
		ChainID:   idhash.ComputeChainID(name),
		Name:      name,
		IsEVM:     isEVM,
		CreatedAt: t.now().UnixMilli(),
	}
	if err := t.chains.Insert(ctx, c); err != nil {
		observability.RecordMutationError("chain", "add")
		return nil, fmt.Errorf("add chain %q: %w", name, err)
	}

	t.log.Info().Str("chainId", c.ChainID).Str("name", name).Bool("evm", isEVM).Msg("Chain added")
	observability.RecordMutation("chain", "add")
	t.emit(events.TypeChainAdded, c.ChainID, c)
	return c, nil
}

// RemoveChain deletes a chain. Chains still referenced by transactions
// cannot be removed.
func (t *Tracker) RemoveChain(ctx context.Context, chainID string) error {
	count, err := t.txs.CountByChain(ctx, chainID)
	if err != nil {
		return fmt.Errorf("count chain references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("chain has %d transactions: %w", count, storage.ErrReferenced)
	}

	if err := t.chains.Delete(ctx, chainID); err != nil {
		observability.RecordMutationError("chain", "remove")
		return fmt.Errorf("remove chain %s: %w", chainID, err)
	}

	t.log.Info().Str("chainId", chainID).Msg("Chain removed")
	observability.RecordMutation("chain", "remove")
	t.emit(events.TypeChainRemoved, chainID, nil)
	return nil
}

// LogTransaction validates and appends a transaction to the log.
//
// Both referenced records must exist, the timestamp must be positive and
// amounts non-negative; violations surface as aggregate.ErrInvalidTransaction.
// A zero-volume transaction stores volume 0 whatever the input carried.
func (t *Tracker) LogTransaction(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	if err := t.validateInput(ctx, in); err != nil {
		return nil, err
	}

	volume := in.Volume
	if in.ZeroVolume {
		volume = 0
	}

	tx := &domain.Transaction{
		TransactionID: idhash.ComputeTransactionID(in.WalletID, in.ChainID, in.Timestamp, in.ZeroVolume, volume, in.Gas, in.Comment),
		WalletID:      in.WalletID,
		ChainID:       in.ChainID,
		Timestamp:     in.Timestamp,
		ZeroVolume:    in.ZeroVolume,
		Volume:        volume,
		Gas:           in.Gas,
		Comment:       in.Comment,
		CreatedAt:     t.now().UnixMilli(),
	}
	if err := t.txs.Insert(ctx, tx); err != nil {
		observability.RecordMutationError("transaction", "add")
		return nil, fmt.Errorf("log transaction: %w", err)
	}

	t.log.Info().
		Str("transactionId", tx.TransactionID).
		Str("walletId", tx.WalletID).
		Str("chainId", tx.ChainID).
		Float64("volume", tx.Volume).
		Msg("Transaction logged")
	observability.RecordMutation("transaction", "add")
	t.emit(events.TypeTransactionLogged, tx.TransactionID, tx)
	return tx, nil
}

// RemoveTransaction deletes one transaction from the log.
func (t *Tracker) RemoveTransaction(ctx context.Context, transactionID string) error {
	if err := t.txs.Delete(ctx, transactionID); err != nil {
		observability.RecordMutationError("transaction", "remove")
		return fmt.Errorf("remove transaction %s: %w", transactionID, err)
	}

	t.log.Info().Str("transactionId", transactionID).Msg("Transaction removed")
	observability.RecordMutation("transaction", "remove")
	t.emit(events.TypeTransactionRemoved, transactionID, nil)
	return nil
}

func (t *Tracker) validateInput(ctx context.Context, in TransactionInput) error {
	if in.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp %d is not a positive ms value", aggregate.ErrInvalidTransaction, in.Timestamp)
	}
	if in.Volume < 0 {
		return fmt.Errorf("%w: negative volume %v", aggregate.ErrInvalidTransaction, in.Volume)
	}
	if in.Gas < 0 {
		return fmt.Errorf("%w: negative gas %v", aggregate.ErrInvalidTransaction, in.Gas)
	}

	if _, err := t.wallets.GetByID(ctx, in.WalletID); err != nil {
		return fmt.Errorf("%w: wallet %s: %v", aggregate.ErrInvalidTransaction, in.WalletID, err)
	}
	if _, err := t.chains.GetByID(ctx, in.ChainID); err != nil {
		return fmt.Errorf("%w: chain %s: %v", aggregate.ErrInvalidTransaction, in.ChainID, err)
	}
	return nil
}
