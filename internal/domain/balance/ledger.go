package balance

import "github.com/BruksfildServices01/horacerta/internal/models"

// Delta is the signed effect of one ledger entry on the wallet. Loyalty
// rewards are credits; unknown types and nil amounts count as zero.
func Delta(entryType string, amount *int64) int64 {
	if amount == nil {
		return 0
	}
	switch entryType {
	case models.BalanceIncome, models.BalanceLoyaltyReward:
		return *amount
	case models.BalanceOutcome:
		return -*amount
	default:
		return 0
	}
}

// Sum folds a ledger into a wallet balance.
func Sum(entries []models.Balance) int64 {
	var total int64
	for _, e := range entries {
		total += Delta(e.Type, e.Amount)
	}
	return total
}

// Shortfall is how much must still be paid for price given balance.
func Shortfall(balance, price int64) int64 {
	if balance >= price {
		return 0
	}
	return price - balance
}
