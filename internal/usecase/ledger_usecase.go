package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
)

// LedgerUseCase is the transaction engine. Every operation runs as one
// storage transaction: the balance check, the balance mutation and the ledger
// append commit together or not at all.
type LedgerUseCase struct {
	txManager TransactionManager
	accounts  AccountRepository
	entries   EntryRepository
	retrier   Retrier
	idGen     IDGenerator
	timeout   time.Duration
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accounts AccountRepository,
	entries EntryRepository,
	retrier Retrier,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager: txManager,
		accounts:  accounts,
		entries:   entries,
		retrier:   retrier,
		idGen:     idGen,
		timeout:   DefaultOperationTimeout,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountNumber int64
	Amount        decimal.Decimal
	Description   string
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountNumber int64
	Amount        decimal.Decimal
	Description   string
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	From        int64
	To          int64
	Amount      decimal.Decimal
	Description string
}

// TransferPair holds the two ledger entries jointly produced by one transfer.
type TransferPair struct {
	Sent     *domain.Entry
	Received *domain.Entry
}

// Deposit credits the account and appends one Deposit entry.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var entry *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		entry, err = uc.deposit(ctx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.GetByNumberForUpdate(ctx, tx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	if account.Closed() {
		return nil, domain.ErrAccountClosed
	}

	newBalance := account.ApplyCredit(input.Amount)

	if err := uc.accounts.UpdateBalance(ctx, tx, account.Number, newBalance); err != nil {
		return nil, err
	}

	entry, err := uc.entries.Append(ctx, tx, &domain.Entry{
		AccountNumber: account.Number,
		Kind:          domain.EntryDeposit,
		Amount:        input.Amount,
		BalanceAfter:  newBalance,
		Description:   domain.TruncateDescription(input.Description),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// Withdraw debits the account and appends one Withdrawal entry. The
// sufficient-funds check and the debit happen under the same row lock.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var entry *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		entry, err = uc.withdraw(ctx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.GetByNumberForUpdate(ctx, tx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	if account.Closed() {
		return nil, domain.ErrAccountClosed
	}

	if err := account.ValidateWithdrawal(input.Amount); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDebit(input.Amount)

	if err := uc.accounts.UpdateBalance(ctx, tx, account.Number, newBalance); err != nil {
		return nil, err
	}

	entry, err := uc.entries.Append(ctx, tx, &domain.Entry{
		AccountNumber: account.Number,
		Kind:          domain.EntryWithdrawal,
		Amount:        input.Amount,
		BalanceAfter:  newBalance,
		Description:   domain.TruncateDescription(input.Description),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// Transfer moves amount from one account to another as one atomic unit,
// producing a TransferSent/TransferReceived entry pair that reference each
// other's account and share a transfer ID.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferPair, error) {
	// Preconditions checked in order; first failure wins.
	if input.From == input.To {
		return nil, domain.ErrSelfTransfer
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var pair *TransferPair

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		pair, err = uc.transfer(ctx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

func (uc *LedgerUseCase) transfer(ctx context.Context, input TransferInput) (*TransferPair, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending account-number order so two opposing
	// transfers cannot deadlock.
	numbers := []int64{input.From, input.To}
	if numbers[0] > numbers[1] {
		numbers[0], numbers[1] = numbers[1], numbers[0]
	}

	accounts, err := uc.accounts.GetByNumbersForUpdate(ctx, tx, numbers)
	if err != nil {
		return nil, err
	}

	var sender, recipient *domain.Account

	for _, a := range accounts {
		switch a.Number {
		case input.From:
			sender = a
		case input.To:
			recipient = a
		}
	}

	if recipient == nil || recipient.Closed() {
		return nil, domain.ErrRecipientNotFound
	}

	if sender == nil {
		return nil, domain.ErrAccountNotFound
	}

	if sender.Closed() {
		return nil, domain.ErrAccountClosed
	}

	if err := sender.ValidateWithdrawal(input.Amount); err != nil {
		return nil, err
	}

	transferID := uc.idGen.Generate()

	sentDesc := fmt.Sprintf("Fund transfer to A/C %d", recipient.Number)
	receivedDesc := fmt.Sprintf("Fund transfer from A/C %d", sender.Number)

	if input.Description != "" {
		sentDesc += " - " + input.Description
		receivedDesc += " - " + input.Description
	}

	senderBalance := sender.ApplyDebit(input.Amount)

	if err := uc.accounts.UpdateBalance(ctx, tx, sender.Number, senderBalance); err != nil {
		return nil, err
	}

	sent, err := uc.entries.Append(ctx, tx, &domain.Entry{
		AccountNumber:  sender.Number,
		Kind:           domain.EntryTransferSent,
		Amount:         input.Amount,
		BalanceAfter:   senderBalance,
		RelatedAccount: &recipient.Number,
		TransferID:     transferID,
		Description:    domain.TruncateDescription(sentDesc),
	})
	if err != nil {
		return nil, err
	}

	recipientBalance := recipient.ApplyCredit(input.Amount)

	if err := uc.accounts.UpdateBalance(ctx, tx, recipient.Number, recipientBalance); err != nil {
		return nil, err
	}

	received, err := uc.entries.Append(ctx, tx, &domain.Entry{
		AccountNumber:  recipient.Number,
		Kind:           domain.EntryTransferReceived,
		Amount:         input.Amount,
		BalanceAfter:   recipientBalance,
		RelatedAccount: &sender.Number,
		TransferID:     transferID,
		Description:    domain.TruncateDescription(receivedDesc),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferPair{Sent: sent, Received: received}, nil
}
