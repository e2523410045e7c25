package entities

import "time"

// TransactionType represents the kind of balance change a ledger row records
type TransactionType string

const (
	TransactionTypeAllowance  TransactionType = "allowance"
	TransactionTypeSlipStake  TransactionType = "slip_stake"
	TransactionTypeSlipPayout TransactionType = "slip_payout"
	TransactionTypeSlipRefund TransactionType = "slip_refund"
)

// IsCredit returns true if the transaction type adds coins to the wallet
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypeAllowance || tt == TransactionTypeSlipPayout || tt == TransactionTypeSlipRefund
}

// Transaction is an immutable ledger entry. IdempotencyKey is unique; a
// duplicate-key write surfaces the existing row instead of applying again.
type Transaction struct {
	ID             int64           `db:"id"`
	WalletID       int64           `db:"wallet_id"`
	Type           TransactionType `db:"type"`
	Amount         int64           `db:"amount"`
	BalanceBefore  int64           `db:"balance_before"`
	BalanceAfter   int64           `db:"balance_after"`
	IdempotencyKey string          `db:"idempotency_key"`
	Description    string          `db:"description"`
	CompletedAt    time.Time       `db:"completed_at"`
}
