package dataset

import "airdrop-tracker/internal/idhash"

// Fixtures returns the built-in demo dataset: four wallets farming six
// chains over five months. It is fully deterministic, including record
// IDs, so seeding twice changes nothing.
func Fixtures() *Dataset {
	const createdAt = int64(1706745600000) // 2024-02-01 00:00:00 UTC

	wallets := []Wallet{
		{Name: "Main", Address: "0x6887246668a3b87F54DeB3b94Ba47a6f63F32985", CreatedAt: createdAt},
		{Name: "Degen", Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", CreatedAt: createdAt},
		{Name: "Farm Alpha", Address: "0x1a9C8182C09F50C8318d769245beA52c32BE35BC", CreatedAt: createdAt},
		{Name: "Cold Storage", Address: "0xDe30da39c46104798bB5aA3fe8B9e0e1F348163F", CreatedAt: createdAt},
	}
	for i := range wallets {
		wallets[i].WalletID = idhash.ComputeWalletID(wallets[i].Name)
	}

	chains := []Chain{
		{Name: "ethereum", IsEVM: true, CreatedAt: createdAt},
		{Name: "arbitrum", IsEVM: true, CreatedAt: createdAt},
		{Name: "zksync", IsEVM: true, CreatedAt: createdAt},
		{Name: "base", IsEVM: true, CreatedAt: createdAt},
		{Name: "solana", IsEVM: false, CreatedAt: createdAt},
		{Name: "aptos", IsEVM: false, CreatedAt: createdAt},
	}
	for i := range chains {
		chains[i].ChainID = idhash.ComputeChainID(chains[i].Name)
	}

	type row struct {
		wallet  string
		chain   string
		at      int64
		zero    bool
		volume  float64
		gas     float64
		comment string
	}
	rows := []row{
		// Main farms the EVM L2s, with ethereum as the bridge source.
		{wallet: "Main", chain: "ethereum", at: 1693526400000, volume: 2500, gas: 8.40, comment: "bridge to arbitrum"}, // 2023-09-01 00:00:00 UTC
		{wallet: "Main", chain: "arbitrum", at: 1693569600000, volume: 2480.5, gas: 0.35, comment: "swap USDC -> ETH"}, // 2023-09-01 12:00:00 UTC
		{wallet: "Main", chain: "arbitrum", at: 1694736000000, volume: 310.25, gas: 0.22},                             // 2023-09-15 00:00:00 UTC
		{wallet: "Main", chain: "ethereum", at: 1696118400000, volume: 1800, gas: 6.75, comment: "bridge to zksync"},  // 2023-10-01 00:00:00 UTC
		{wallet: "Main", chain: "zksync", at: 1696161600000, volume: 1795, gas: 0.90},                                 // 2023-10-01 12:00:00 UTC
		{wallet: "Main", chain: "zksync", at: 1697068800000, zero: true, gas: 0.15, comment: "approval only"},         // 2023-10-12 00:00:00 UTC
		{wallet: "Main", chain: "zksync", at: 1698796800000, volume: 640, gas: 1.10, comment: "LP deposit"},           // 2023-11-01 00:00:00 UTC
		{wallet: "Main", chain: "arbitrum", at: 1700438400000, volume: 95.75, gas: 0.18},                              // 2023-11-20 00:00:00 UTC
		{wallet: "Main", chain: "base", at: 1701388800000, volume: 420, gas: 0.25, comment: "mint NFT"},               // 2023-12-01 00:00:00 UTC
		{wallet: "Main", chain: "zksync", at: 1702598400000, volume: 380.5, gas: 0.85},                                // 2023-12-15 00:00:00 UTC
		{wallet: "Main", chain: "ethereum", at: 1704067200000, volume: 950, gas: 5.20},                                // 2024-01-01 00:00:00 UTC
		{wallet: "Main", chain: "base", at: 1705276800000, volume: 210, gas: 0.12},                                    // 2024-01-15 00:00:00 UTC
		{wallet: "Main", chain: "ethereum", at: 1706400000000, volume: 1200, gas: 7.10, comment: "rebalance"},         // 2024-01-28 00:00:00 UTC

		// Degen lives on solana and pokes at the rest.
		{wallet: "Degen", chain: "solana", at: 1694736000000, volume: 850, gas: 0.02, comment: "JUP swap"},    // 2023-09-15 00:00:00 UTC
		{wallet: "Degen", chain: "solana", at: 1696118400000, volume: 1240.8, gas: 0.03},                      // 2023-10-01 00:00:00 UTC
		{wallet: "Degen", chain: "solana", at: 1698796800000, zero: true, gas: 0.01, comment: "stake account"}, // 2023-11-01 00:00:00 UTC
		{wallet: "Degen", chain: "solana", at: 1701388800000, volume: 2100, gas: 0.04},                        // 2023-12-01 00:00:00 UTC
		{wallet: "Degen", chain: "solana", at: 1705276800000, volume: 760.25, gas: 0.02},                      // 2024-01-15 00:00:00 UTC
		{wallet: "Degen", chain: "aptos", at: 1697068800000, volume: 150, gas: 0.05, comment: "first bridge"}, // 2023-10-12 00:00:00 UTC
		{wallet: "Degen", chain: "aptos", at: 1702598400000, volume: 95, gas: 0.04},                           // 2023-12-15 00:00:00 UTC
		{wallet: "Degen", chain: "base", at: 1704067200000, volume: 305.5, gas: 0.15},                         // 2024-01-01 00:00:00 UTC

		// Farm Alpha is the dedicated zksync grinder.
		{wallet: "Farm Alpha", chain: "zksync", at: 1693526400000, volume: 500, gas: 0.80},                              // 2023-09-01 00:00:00 UTC
		{wallet: "Farm Alpha", chain: "zksync", at: 1696118400000, volume: 515.5, gas: 0.75},                            // 2023-10-01 00:00:00 UTC
		{wallet: "Farm Alpha", chain: "zksync", at: 1698796800000, volume: 498.25, gas: 0.82, comment: "monthly cycle"}, // 2023-11-01 00:00:00 UTC
		{wallet: "Farm Alpha", chain: "arbitrum", at: 1700438400000, volume: 275, gas: 0.20},                            // 2023-11-20 00:00:00 UTC
		{wallet: "Farm Alpha", chain: "arbitrum", at: 1704067200000, volume: 310, gas: 0.24},                            // 2024-01-01 00:00:00 UTC
		{wallet: "Farm Alpha", chain: "solana", at: 1702598400000, volume: 180, gas: 0.02, comment: "trying solana"},    // 2023-12-15 00:00:00 UTC

		// Cold Storage barely moves.
		{wallet: "Cold Storage", chain: "ethereum", at: 1693526400000, volume: 15000, gas: 12.50, comment: "vault deposit"}, // 2023-09-01 00:00:00 UTC
		{wallet: "Cold Storage", chain: "ethereum", at: 1701388800000, zero: true, gas: 4.80, comment: "signer rotation"},   // 2023-12-01 00:00:00 UTC
		{wallet: "Cold Storage", chain: "aptos", at: 1705276800000, volume: 50, gas: 0.03},                                  // 2024-01-15 00:00:00 UTC
	}

	transactions := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		walletID := idhash.ComputeWalletID(r.wallet)
		chainID := idhash.ComputeChainID(r.chain)
		transactions = append(transactions, Transaction{
			TransactionID: idhash.ComputeTransactionID(walletID, chainID, r.at, r.zero, r.volume, r.gas, r.comment),
			WalletID:      walletID,
			ChainID:       chainID,
			Timestamp:     r.at,
			ZeroVolume:    r.zero,
			Volume:        r.volume,
			Gas:           r.gas,
			Comment:       r.comment,
			CreatedAt:     createdAt,
		})
	}

	return &Dataset{
		Wallets:      wallets,
		Chains:       chains,
		Transactions: transactions,
	}
}
