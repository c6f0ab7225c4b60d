package workflow

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// TaxEngine resolves the applicable tax rules for discounted line totals into
// a per-rule breakdown. Read-only; the linked account travels with each
// breakdown row for later journal posting.
type TaxEngine struct {
	tenantId string
	rules    TaxRuleSource
	logger   *logrus.Logger
}

func NewTaxEngine(tenantId string, rules TaxRuleSource, logger *logrus.Logger) *TaxEngine {
	return &TaxEngine{tenantId: tenantId, rules: rules, logger: logger}
}

type TaxLineInput struct {
	TaxCategoryId int
	Amount        decimal.Decimal
}

type TaxBreakdownEntry struct {
	RuleName  string
	Rate      decimal.Decimal
	Amount    decimal.Decimal
	AccountId int

	// IsInclusive means the amount is already inside the line price and
	// must not be added on top of it again.
	IsInclusive bool
}

type TaxResult struct {
	Total     decimal.Decimal
	Breakdown []TaxBreakdownEntry
}

// ResolveTaxes applies the matching rules to each line in ascending priority.
// A compound rule's base is the running post-tax total of the rules before
// it on that line; a plain rule's base is the line's pre-tax total. Inclusive
// rules back the tax out of the already-tax-included amount. Amounts for the
// same rule name across lines are summed into one breakdown row.
func (e *TaxEngine) ResolveTaxes(ctx context.Context, tx *gorm.DB, branchId int, lines []TaxLineInput) (*TaxResult, error) {
	result := &TaxResult{Total: decimal.Zero}
	byName := map[string]int{}

	for _, line := range lines {
		rules, err := e.rules.RulesFor(ctx, tx, line.TaxCategoryId, branchId)
		if err != nil {
			return nil, err
		}

		preTax := line.Amount
		runningPostTax := line.Amount

		for _, rule := range rules {
			base := preTax
			if rule.IsCompound != nil && *rule.IsCompound {
				base = runningPostTax
			}

			var amount decimal.Decimal
			inclusive := rule.IsInclusive != nil && *rule.IsInclusive
			if inclusive {
				amount = utils.InclusiveTaxAmount(base, rule.Rate)
			} else {
				amount = utils.ExclusiveTaxAmount(base, rule.Rate)
				runningPostTax = runningPostTax.Add(amount)
			}

			result.Total = result.Total.Add(amount)
			if idx, ok := byName[rule.Name]; ok {
				result.Breakdown[idx].Amount = result.Breakdown[idx].Amount.Add(amount)
			} else {
				byName[rule.Name] = len(result.Breakdown)
				result.Breakdown = append(result.Breakdown, TaxBreakdownEntry{
					RuleName:    rule.Name,
					Rate:        rule.Rate,
					Amount:      amount,
					AccountId:   rule.AccountId,
					IsInclusive: inclusive,
				})
			}
		}
	}
	return result, nil
}
