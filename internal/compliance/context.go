// Package compliance holds the rule engine that evaluates a jurisdiction's
// statutory checks against a financial data snapshot.
//
// Rules are a finite, explicitly registered set of deterministic, synchronous
// functions. The engine evaluates each rule once against the supplied
// snapshot; it does not chain rules, infer facts, or retry.
package compliance

import "time"

// FundType classifies funds for rules that only apply to a subset.
type FundType string

const (
	FundGovernmental FundType = "GOVERNMENTAL"
	FundProprietary  FundType = "PROPRIETARY"
	FundFiduciary    FundType = "FIDUCIARY"
)

// Fund is a snapshot of one fund at evaluation time.
type Fund struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           FundType `json:"type"`
	CurrentBalance float64  `json:"current_balance"`
	// Restricted marks funds whose money may not be transferred out.
	Restricted bool `json:"restricted"`
}

// BudgetLine is one appropriated line of a fund's budget.
type BudgetLine struct {
	FundID       string  `json:"fund_id"`
	Account      string  `json:"account"`
	Appropriated float64 `json:"appropriated"`
	FiscalYear   int     `json:"fiscal_year"`
}

// TransactionType distinguishes the movements rules care about.
type TransactionType string

const (
	TransactionDisbursement TransactionType = "DISBURSEMENT"
	TransactionReceipt      TransactionType = "RECEIPT"
	TransactionTransfer     TransactionType = "TRANSFER"
)

// Transaction is a snapshot of one recorded movement of money.
type Transaction struct {
	ID           string          `json:"id"`
	FundID       string          `json:"fund_id"`
	SourceFundID string          `json:"source_fund_id,omitempty"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	Voided       bool            `json:"voided"`
	FiscalYear   int             `json:"fiscal_year"`
}

// EvalContext is the read-only snapshot a caller assembles for one
// evaluation pass. The engine never retains it beyond the call.
//
// Any field may be absent. A rule that finds its required inputs missing
// contributes zero violations; it never fails the pass.
type EvalContext struct {
	Funds          []Fund         `json:"funds,omitempty"`
	BudgetLines    []BudgetLine   `json:"budget_lines,omitempty"`
	Transactions   []Transaction  `json:"transactions,omitempty"`
	FiscalYear     int            `json:"fiscal_year"`
	EvaluationDate time.Time      `json:"evaluation_date"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// Number reads a numeric value from AdditionalData, accepting the types JSON
// decoding produces.
func (c EvalContext) Number(key string) (float64, bool) {
	if c.AdditionalData == nil {
		return 0, false
	}
	switch n := c.AdditionalData[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Bool reads a boolean flag from AdditionalData.
func (c EvalContext) Bool(key string) (bool, bool) {
	if c.AdditionalData == nil {
		return false, false
	}
	b, ok := c.AdditionalData[key].(bool)
	return b, ok
}

// FundDisbursements sums non-voided disbursements against a fund for the
// snapshot's fiscal year.
func (c EvalContext) FundDisbursements(fundID string) float64 {
	var total float64
	for _, tx := range c.Transactions {
		if tx.FundID != fundID || tx.Voided || tx.Type != TransactionDisbursement {
			continue
		}
		if c.FiscalYear != 0 && tx.FiscalYear != 0 && tx.FiscalYear != c.FiscalYear {
			continue
		}
		total += tx.Amount
	}
	return total
}

// FundAppropriations sums appropriated budget lines for a fund in the
// snapshot's fiscal year.
func (c EvalContext) FundAppropriations(fundID string) float64 {
	var total float64
	for _, line := range c.BudgetLines {
		if line.FundID != fundID {
			continue
		}
		if c.FiscalYear != 0 && line.FiscalYear != 0 && line.FiscalYear != c.FiscalYear {
			continue
		}
		total += line.Appropriated
	}
	return total
}
