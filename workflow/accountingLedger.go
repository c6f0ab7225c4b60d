package workflow

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// AccountingLedger is the sole authority for account balances. Accounts move
// only through balanced journal postings; the posting and every balance
// update share the caller's transaction.
type AccountingLedger struct {
	tenantId string
	logger   *logrus.Logger
}

func NewAccountingLedger(tenantId string, logger *logrus.Logger) *AccountingLedger {
	return &AccountingLedger{tenantId: tenantId, logger: logger}
}

type NewAccountInput struct {
	Name              string
	MainType          models.AccountMainType
	DetailType        string
	Description       string
	SystemDefaultCode string
}

// CreateAccount adds a chart-of-accounts node with an empty balance map.
func (l *AccountingLedger) CreateAccount(ctx context.Context, tx *gorm.DB, in NewAccountInput) (*models.Account, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidationFailed)
	}
	count, err := utils.ResourceCountWhere[models.Account](ctx, tx, l.tenantId,
		"name = ? AND is_system_default = ?", in.Name, true)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &DuplicateAccountError{Name: in.Name}
	}

	account := models.Account{
		BusinessId:        l.tenantId,
		Name:              in.Name,
		MainType:          in.MainType,
		DetailType:        in.DetailType,
		Description:       in.Description,
		SystemDefaultCode: in.SystemDefaultCode,
		IsSystemDefault:   utils.NewFalse(),
		IsActive:          utils.NewTrue(),
	}
	if in.SystemDefaultCode != "" {
		account.IsSystemDefault = utils.NewTrue()
	}
	if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, fmt.Errorf("create account %s: %w", in.Name, err)
	}
	return &account, nil
}

type JournalLineInput struct {
	AccountId   int
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

type NewJournalEntryInput struct {
	Description  string
	Lines        []JournalLineInput
	CurrencyCode string
	BranchId     int
	RefType      string
	RefId        int
	UserId       int
}

// validateBalanced checks sum(debits) == sum(credits) at 2 decimal places.
// Exact decimal equality, not a float tolerance.
func validateBalanced(lines []JournalLineInput, currencyCode string) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	if !debits.Round(2).Equal(credits.Round(2)) {
		return &UnbalancedEntryError{
			Debits:       debits,
			Credits:      credits,
			CurrencyCode: currencyCode,
		}
	}
	return nil
}

// CreateJournalEntry validates balance, persists the immutable entry and
// updates each referenced account's balance for the entry's currency.
// An unbalanced entry is an internal bug in upstream math: it is logged with
// full context and nothing is applied.
func (l *AccountingLedger) CreateJournalEntry(ctx context.Context, tx *gorm.DB, in NewJournalEntryInput) (*models.JournalEntry, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: journal entry needs at least one line", ErrValidationFailed)
	}
	if in.CurrencyCode == "" {
		return nil, fmt.Errorf("%w: journal entry currency is required", ErrValidationFailed)
	}
	for _, line := range in.Lines {
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return nil, fmt.Errorf("%w: either debit or credit must have value", ErrValidationFailed)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: journal amounts must not be negative", ErrValidationFailed)
		}
	}

	if err := validateBalanced(in.Lines, in.CurrencyCode); err != nil {
		config.LogError(l.logger, "accountingLedger", "CreateJournalEntry", "unbalanced entry", in, err)
		return nil, err
	}

	totalAmount := decimal.Zero
	lines := make([]models.JournalLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		totalAmount = totalAmount.Add(line.Debit)
		lines = append(lines, models.JournalLine{
			AccountId:   line.AccountId,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	entry := models.JournalEntry{
		BusinessId:   l.tenantId,
		BranchId:     in.BranchId,
		Description:  in.Description,
		CurrencyCode: in.CurrencyCode,
		TotalAmount:  totalAmount,
		RefType:      in.RefType,
		RefId:        in.RefId,
		UserId:       in.UserId,
		Lines:        lines,
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}

	for _, line := range in.Lines {
		if err := l.applyToBalance(ctx, tx, line, in.CurrencyCode); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

// applyToBalance moves one account's per-currency balance by the line's
// signed effect. Debit increases Asset/Expense accounts; credit increases
// Liability/Equity/Income accounts.
func (l *AccountingLedger) applyToBalance(ctx context.Context, tx *gorm.DB, line JournalLineInput, currencyCode string) error {
	var account models.Account
	err := tx.WithContext(ctx).
		Where("business_id = ?", l.tenantId).
		First(&account, line.AccountId).Error
	if err != nil {
		return fmt.Errorf("journal line account %d: %w", line.AccountId, err)
	}

	delta := line.Debit.Sub(line.Credit)
	if !account.MainType.DebitIncreases() {
		delta = line.Credit.Sub(line.Debit)
	}

	res := tx.WithContext(ctx).Model(&models.AccountBalance{}).
		Where("account_id = ? AND currency_code = ?", account.ID, currencyCode).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update balance of account %d: %w", account.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		balance := models.AccountBalance{
			AccountId:    account.ID,
			CurrencyCode: currencyCode,
			Balance:      delta,
		}
		if err := tx.WithContext(ctx).Create(&balance).Error; err != nil {
			return fmt.Errorf("create balance row for account %d: %w", account.ID, err)
		}
	}
	return nil
}
