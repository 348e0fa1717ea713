package indiana

import (
	"time"

	"govern/internal/compliance"
)

// AdditionalData keys the finance rules read. Callers assemble these into
// the evaluation context; a missing key simply silences the rule.
const (
	KeyProposedLevy   = "proposedLevy"
	KeyPriorYearLevy  = "priorYearLevy"
	KeyGrowthQuotient = "levyGrowthQuotient"
	KeyBudgetFiled    = "annualBudgetFiled"
)

// excessBalanceMultiple flags governmental fund balances above this multiple
// of same-year disbursements.
const excessBalanceMultiple = 2.0

// budgetFilingMonth/Day is the statutory adoption deadline (November 1 of
// the budget year, IC 6-1.1-17-5).
const (
	budgetFilingMonth = time.November
	budgetFilingDay   = 1
)

// FinanceRules returns Indiana's finance compliance rules in canonical
// registration order. Evaluation output preserves this order, so appending
// new rules at the end keeps existing report ordering stable.
func FinanceRules() []compliance.Rule {
	return []compliance.Rule{
		appropriationExceededRule(),
		levyGrowthRule(),
		excessBalanceRule(),
		restrictedTransferRule(),
		negativeBalanceRule(),
		filingDeadlineRule(),
	}
}

// appropriationExceededRule flags funds whose non-voided disbursements
// exceed their appropriations for the fiscal year.
func appropriationExceededRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-appropriation-exceeded",
		Name:            "Appropriation Exceeded",
		Description:     "Disbursements from a fund may not exceed its appropriations.",
		Category:        "budget",
		Severity:        compliance.SeverityError,
		Citation:        "IC 6-1.1-18-4",
		OpinionID:       "op-appropriation-limit",
		MessageTemplate: "fund %s disbursed %.2f against appropriations of %.2f",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		out := []compliance.Violation{}
		for _, fund := range ctx.Funds {
			appropriated := ctx.FundAppropriations(fund.ID)
			if appropriated <= 0 {
				continue
			}
			disbursed := ctx.FundDisbursements(fund.ID)
			if disbursed <= appropriated {
				continue
			}
			overage := disbursed - appropriated
			v := rule.Violation("fund", fund.ID, fund.Name, disbursed, appropriated)
			v.EntityDescription = fund.Name
			v.ActualValue = disbursed
			v.ExpectedValue = appropriated
			v.Details = map[string]any{
				"overageAmount":  overage,
				"overagePercent": overage / appropriated * 100,
			}
			out = append(out, v)
		}
		return out
	}
	return rule
}

// levyGrowthRule checks a proposed levy against the prior year's levy times
// the state growth quotient. All three inputs arrive via AdditionalData.
func levyGrowthRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-levy-growth",
		Name:            "Levy Growth Limit",
		Description:     "A proposed property tax levy may not exceed the prior year's levy times the maximum levy growth quotient.",
		Category:        "levy",
		Severity:        compliance.SeverityError,
		Citation:        "IC 6-1.1-18.5-3",
		OpinionID:       "op-levy-growth",
		MessageTemplate: "proposed levy %.2f exceeds limit %.2f",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		proposed, ok := ctx.Number(KeyProposedLevy)
		if !ok {
			return nil
		}
		prior, ok := ctx.Number(KeyPriorYearLevy)
		if !ok {
			return nil
		}
		quotient, ok := ctx.Number(KeyGrowthQuotient)
		if !ok {
			return nil
		}
		limit := prior * quotient
		if proposed <= limit {
			return nil
		}
		v := rule.Violation("levy", "proposed", proposed, limit)
		v.ActualValue = proposed
		v.ExpectedValue = limit
		v.Details = map[string]any{
			"priorYearLevy":  prior,
			"growthQuotient": quotient,
		}
		return []compliance.Violation{v}
	}
	return rule
}

// excessBalanceRule warns on governmental funds holding more than twice
// their same-year disbursements.
func excessBalanceRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-excess-balance",
		Name:            "Excess Fund Balance",
		Description:     "A governmental fund balance far above annual spending suggests an over-levy.",
		Category:        "balance",
		Severity:        compliance.SeverityWarning,
		Citation:        "IC 36-1-8-5",
		MessageTemplate: "fund %s balance %.2f exceeds %.0fx annual disbursements of %.2f",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		out := []compliance.Violation{}
		for _, fund := range ctx.Funds {
			if fund.Type != compliance.FundGovernmental {
				continue
			}
			disbursed := ctx.FundDisbursements(fund.ID)
			if disbursed <= 0 {
				continue
			}
			threshold := disbursed * excessBalanceMultiple
			if fund.CurrentBalance <= threshold {
				continue
			}
			v := rule.Violation("fund", fund.ID, fund.Name, fund.CurrentBalance, excessBalanceMultiple, disbursed)
			v.EntityDescription = fund.Name
			v.ActualValue = fund.CurrentBalance
			v.ExpectedValue = threshold
			v.Details = map[string]any{"annualDisbursements": disbursed}
			out = append(out, v)
		}
		return out
	}
	return rule
}

// restrictedTransferRule flags transfers whose source fund is restricted.
func restrictedTransferRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-restricted-transfer",
		Name:            "Restricted Fund Transfer",
		Description:     "Money may not be transferred out of a statutorily restricted fund.",
		Category:        "transfer",
		Severity:        compliance.SeverityError,
		Citation:        "IC 36-1-8-4",
		OpinionID:       "op-restricted-transfer",
		MessageTemplate: "transfer %s moves %.2f out of restricted fund %s",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		restricted := map[string]compliance.Fund{}
		for _, fund := range ctx.Funds {
			if fund.Restricted {
				restricted[fund.ID] = fund
			}
		}
		if len(restricted) == 0 {
			return nil
		}
		out := []compliance.Violation{}
		for _, tx := range ctx.Transactions {
			if tx.Type != compliance.TransactionTransfer || tx.Voided {
				continue
			}
			fund, ok := restricted[tx.SourceFundID]
			if !ok {
				continue
			}
			v := rule.Violation("transaction", tx.ID, tx.ID, tx.Amount, fund.Name)
			v.EntityDescription = fund.Name
			v.ActualValue = tx.Amount
			v.Details = map[string]any{"sourceFundId": fund.ID}
			out = append(out, v)
		}
		return out
	}
	return rule
}

// negativeBalanceRule flags any fund whose current balance is negative.
func negativeBalanceRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-negative-balance",
		Name:            "Negative Fund Balance",
		Description:     "A fund may not carry a negative cash balance.",
		Category:        "balance",
		Severity:        compliance.SeverityCritical,
		Citation:        "IC 5-13-6-1",
		MessageTemplate: "fund %s has negative balance %.2f",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		out := []compliance.Violation{}
		for _, fund := range ctx.Funds {
			if fund.CurrentBalance >= 0 {
				continue
			}
			v := rule.Violation("fund", fund.ID, fund.Name, fund.CurrentBalance)
			v.EntityDescription = fund.Name
			v.ActualValue = fund.CurrentBalance
			v.ExpectedValue = 0
			out = append(out, v)
		}
		return out
	}
	return rule
}

// filingDeadlineRule warns when the evaluation date has passed the budget
// adoption deadline and the context flags the filing as not yet made.
func filingDeadlineRule() compliance.Rule {
	rule := compliance.Rule{
		ID:              "ind-fin-filing-deadline",
		Name:            "Budget Filing Deadline",
		Description:     "The annual budget must be adopted and filed by the statutory deadline.",
		Category:        "reporting",
		Severity:        compliance.SeverityWarning,
		Citation:        "IC 6-1.1-17-5",
		MessageTemplate: "annual budget unfiled past deadline %s",
	}
	rule.Evaluate = func(ctx compliance.EvalContext) []compliance.Violation {
		filed, ok := ctx.Bool(KeyBudgetFiled)
		if !ok || filed {
			return nil
		}
		if ctx.EvaluationDate.IsZero() {
			return nil
		}
		due := time.Date(ctx.EvaluationDate.Year(), budgetFilingMonth, budgetFilingDay, 0, 0, 0, 0, ctx.EvaluationDate.Location())
		if !ctx.EvaluationDate.After(due) {
			return nil
		}
		v := rule.Violation("filing", "annual-budget", due.Format("2006-01-02"))
		v.Details = map[string]any{"dueDate": due.Format("2006-01-02")}
		return []compliance.Violation{v}
	}
	return rule
}
