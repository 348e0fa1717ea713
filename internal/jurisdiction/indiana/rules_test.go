package indiana

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govern/internal/compliance"
	"govern/internal/domain"
	"govern/internal/jurisdiction/finance"
)

func intPtr(v int) *int { return &v }

func TestFinancePackLITThreshold(t *testing.T) {
	pack := FinancePack()

	t.Run("population below threshold uses county LIT", func(t *testing.T) {
		defaults := pack.DeriveDefaults(domain.Identity{
			JurisdictionCode: Code,
			EntityClass:      domain.EntityTown,
			Population:       intPtr(2350),
		})

		assert.Equal(t, false, defaults[finance.KeyCanLevyOwnLIT])
		assert.Equal(t, true, defaults[finance.KeyUsesCountyLIT])
	})

	t.Run("population at or above threshold may self-levy", func(t *testing.T) {
		defaults := pack.DeriveDefaults(domain.Identity{
			JurisdictionCode: Code,
			EntityClass:      domain.EntityTown,
			Population:       intPtr(5000),
		})

		assert.Equal(t, true, defaults[finance.KeyCanLevyOwnLIT])
		assert.Equal(t, false, defaults[finance.KeyUsesCountyLIT])
	})

	t.Run("missing population degrades to zero", func(t *testing.T) {
		defaults := pack.DeriveDefaults(domain.Identity{
			JurisdictionCode: Code,
			EntityClass:      domain.EntityTown,
		})

		assert.Equal(t, false, defaults[finance.KeyCanLevyOwnLIT])
	})

	t.Run("entity class drives fire model", func(t *testing.T) {
		township := pack.DeriveDefaults(domain.Identity{EntityClass: domain.EntityTownship})
		city := pack.DeriveDefaults(domain.Identity{EntityClass: domain.EntityCity})

		assert.Equal(t, finance.FireModelContract, township[finance.KeyFireModel])
		assert.Equal(t, finance.FireModelDepartment, city[finance.KeyFireModel])
	})
}

func financeEngine() *compliance.Engine {
	return compliance.NewEngine(FinanceRules(), Opinions())
}

func TestAppropriationExceededRule(t *testing.T) {
	engine := financeEngine()

	ctx := compliance.EvalContext{
		FiscalYear: 2026,
		Funds:      []compliance.Fund{{ID: "101", Name: "General", Type: compliance.FundGovernmental, CurrentBalance: 5000}},
		BudgetLines: []compliance.BudgetLine{
			{FundID: "101", Account: "services", Appropriated: 6000, FiscalYear: 2026},
			{FundID: "101", Account: "supplies", Appropriated: 4000, FiscalYear: 2026},
		},
		Transactions: []compliance.Transaction{
			{ID: "t1", FundID: "101", Type: compliance.TransactionDisbursement, Amount: 9000, FiscalYear: 2026},
			{ID: "t2", FundID: "101", Type: compliance.TransactionDisbursement, Amount: 3000, FiscalYear: 2026},
			// Voided disbursements are excluded from the sum.
			{ID: "t3", FundID: "101", Type: compliance.TransactionDisbursement, Amount: 500, FiscalYear: 2026, Voided: true},
		},
	}

	violations := engine.Evaluate(ctx)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, "ind-fin-appropriation-exceeded", v.RuleID)
	assert.Equal(t, compliance.SeverityError, v.Severity)
	assert.Equal(t, 12000.0, v.ActualValue)
	assert.Equal(t, 10000.0, v.ExpectedValue)
	assert.Equal(t, 2000.0, v.Details["overageAmount"])
	assert.InDelta(t, 20.0, v.Details["overagePercent"].(float64), 0.001)
	assert.Equal(t, "IC 6-1.1-18-4", v.Citation)
}

func TestNegativeBalanceRule(t *testing.T) {
	engine := financeEngine()

	violations := engine.Evaluate(compliance.EvalContext{
		Funds: []compliance.Fund{{ID: "204", Name: "MVH", Type: compliance.FundGovernmental, CurrentBalance: -500}},
	})

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, "ind-fin-negative-balance", v.RuleID)
	assert.Equal(t, compliance.SeverityCritical, v.Severity)
	assert.Equal(t, -500.0, v.ActualValue)
	assert.Equal(t, 0.0, v.ExpectedValue)
}

func TestLevyGrowthRule(t *testing.T) {
	engine := financeEngine()

	t.Run("violation when proposed exceeds limit", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			AdditionalData: map[string]any{
				KeyProposedLevy:   110000.0,
				KeyPriorYearLevy:  100000.0,
				KeyGrowthQuotient: 1.04,
			},
		})

		require.Len(t, violations, 1)
		assert.Equal(t, "ind-fin-levy-growth", violations[0].RuleID)
		assert.Equal(t, 110000.0, violations[0].ActualValue)
		assert.InDelta(t, 104000.0, violations[0].ExpectedValue, 0.001)
	})

	t.Run("silent within the limit", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			AdditionalData: map[string]any{
				KeyProposedLevy:   103000.0,
				KeyPriorYearLevy:  100000.0,
				KeyGrowthQuotient: 1.04,
			},
		})
		assert.Empty(t, violations)
	})

	t.Run("silent when inputs are absent", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			AdditionalData: map[string]any{KeyProposedLevy: 110000.0},
		})
		assert.Empty(t, violations)
	})
}

func TestExcessBalanceRule(t *testing.T) {
	engine := financeEngine()

	t.Run("warns on governmental fund above twice disbursements", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			Funds: []compliance.Fund{{ID: "101", Name: "General", Type: compliance.FundGovernmental, CurrentBalance: 50000}},
			Transactions: []compliance.Transaction{
				{ID: "t1", FundID: "101", Type: compliance.TransactionDisbursement, Amount: 20000},
			},
		})

		require.Len(t, violations, 1)
		assert.Equal(t, "ind-fin-excess-balance", violations[0].RuleID)
		assert.Equal(t, compliance.SeverityWarning, violations[0].Severity)
		assert.Equal(t, 50000.0, violations[0].ActualValue)
		assert.Equal(t, 40000.0, violations[0].ExpectedValue)
	})

	t.Run("proprietary funds are exempt", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			Funds: []compliance.Fund{{ID: "601", Name: "Water Utility", Type: compliance.FundProprietary, CurrentBalance: 50000}},
			Transactions: []compliance.Transaction{
				{ID: "t1", FundID: "601", Type: compliance.TransactionDisbursement, Amount: 1000},
			},
		})
		assert.Empty(t, violations)
	})
}

func TestRestrictedTransferRule(t *testing.T) {
	engine := financeEngine()

	violations := engine.Evaluate(compliance.EvalContext{
		Funds: []compliance.Fund{
			{ID: "204", Name: "MVH", Type: compliance.FundGovernmental, Restricted: true, CurrentBalance: 1000},
			{ID: "101", Name: "General", Type: compliance.FundGovernmental, CurrentBalance: 1000},
		},
		Transactions: []compliance.Transaction{
			{ID: "tr-1", FundID: "101", SourceFundID: "204", Type: compliance.TransactionTransfer, Amount: 750},
			// Transfers out of unrestricted funds are fine.
			{ID: "tr-2", FundID: "204", SourceFundID: "101", Type: compliance.TransactionTransfer, Amount: 100},
		},
	})

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, "ind-fin-restricted-transfer", v.RuleID)
	assert.Equal(t, "tr-1", v.EntityID)
	assert.Equal(t, 750.0, v.ActualValue)
	assert.Equal(t, "204", v.Details["sourceFundId"])
}

func TestFilingDeadlineRule(t *testing.T) {
	engine := financeEngine()

	t.Run("warns after deadline when unfiled", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			EvaluationDate: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
			AdditionalData: map[string]any{KeyBudgetFiled: false},
		})

		require.Len(t, violations, 1)
		assert.Equal(t, "ind-fin-filing-deadline", violations[0].RuleID)
		assert.Equal(t, "2026-11-01", violations[0].Details["dueDate"])
	})

	t.Run("silent before deadline", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			EvaluationDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			AdditionalData: map[string]any{KeyBudgetFiled: false},
		})
		assert.Empty(t, violations)
	})

	t.Run("silent once filed", func(t *testing.T) {
		violations := engine.Evaluate(compliance.EvalContext{
			EvaluationDate: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
			AdditionalData: map[string]any{KeyBudgetFiled: true},
		})
		assert.Empty(t, violations)
	})
}

func TestOpinionsLinkedFromRules(t *testing.T) {
	engine := financeEngine()

	for _, rule := range engine.Rules() {
		if rule.OpinionID == "" {
			continue
		}
		_, ok := engine.Opinion(rule.OpinionID)
		assert.True(t, ok, "rule %s links opinion %s which is not registered", rule.ID, rule.OpinionID)
	}
}
