package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finetl/internal/dataset"
	"finetl/internal/metrics"
	"finetl/internal/schema"
	"finetl/pkg/records"
)

const job = "transform_and_model"

// Config locates the stage's inputs and outputs. The stage owns nothing
// outside these directories.
type Config struct {
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// Run executes the full transform-and-model stage: load, normalize, validate,
// deduplicate, key, build, aggregate, write. It either completes producing
// all six output tables and both reports, or stops at the first structural
// violation producing nothing. Row-level DQ violations never fail the run;
// they are counted in the returned report.
func Run(cfg Config) (*Report, error) {
	rep := &Report{}

	start := time.Now()
	src, err := loadSources(cfg.RawDir)
	metrics.RecordStep(job, "extract", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	for _, ds := range src.all() {
		metrics.RecordRows(job, "loaded", int64(ds.Len()))
	}

	// Structural contract first: every later step assumes the shape.
	for _, e := range []struct {
		ds *dataset.Dataset
		en schema.Entity
	}{
		{src.customers, schema.Customers},
		{src.accounts, schema.Accounts},
		{src.securities, schema.Securities},
		{src.transactions, schema.Transactions},
		{src.positions, schema.Positions},
	} {
		if err := EnsureColumns(e.ds, e.en.Required); err != nil {
			metrics.RecordStep(job, "validate", err, 0)
			return nil, err
		}
	}

	start = time.Now()
	applyDQRules(src, rep)
	metrics.RecordStep(job, "validate", nil, time.Since(start))
	metrics.RecordRows(job, "dq_dropped", int64(rep.TotalDropped()))

	DeDup{Keys: schema.Customers.Key}.Apply(src.customers)
	DeDup{Keys: schema.Accounts.Key}.Apply(src.accounts)
	DeDup{Keys: schema.Securities.Key}.Apply(src.securities)
	DeDup{Keys: schema.Transactions.Key}.Apply(src.transactions)
	DeDup{Keys: schema.Positions.Key}.Apply(src.positions)

	start = time.Now()
	out := buildModel(src)
	metrics.RecordStep(job, "model", nil, time.Since(start))

	start = time.Now()
	err = writeOutputs(cfg, out, rep)
	metrics.RecordStep(job, "write", err, time.Since(start))
	if err != nil {
		return rep, err
	}
	return rep, nil
}

// sources holds the post-load datasets. marketData is nil when the optional
// file is absent.
type sources struct {
	customers    *dataset.Dataset
	accounts     *dataset.Dataset
	securities   *dataset.Dataset
	transactions *dataset.Dataset
	positions    *dataset.Dataset
	marketData   *dataset.Dataset
}

func (s *sources) all() []*dataset.Dataset {
	out := []*dataset.Dataset{s.customers, s.accounts, s.securities, s.transactions, s.positions}
	if s.marketData != nil {
		out = append(out, s.marketData)
	}
	return out
}

func loadSources(rawDir string) (*sources, error) {
	src := &sources{}
	for _, e := range []struct {
		dst **dataset.Dataset
		en  schema.Entity
	}{
		{&src.customers, schema.Customers},
		{&src.accounts, schema.Accounts},
		{&src.securities, schema.Securities},
		{&src.transactions, schema.Transactions},
		{&src.positions, schema.Positions},
	} {
		ds, err := readEntity(rawDir, e.en)
		if err != nil {
			return nil, err
		}
		*e.dst = ds
	}

	// market_data is optional; absence is tolerated, not an error.
	path := filepath.Join(rawDir, schema.MarketData.Name+".csv")
	if _, err := os.Stat(path); err == nil {
		ds, err := readEntity(rawDir, schema.MarketData)
		if err != nil {
			return nil, err
		}
		src.marketData = ds
	}
	return src, nil
}

func readEntity(rawDir string, e schema.Entity) (*dataset.Dataset, error) {
	path := filepath.Join(rawDir, e.Name+".csv")
	ds, err := dataset.ReadFile(path, e.Name, e.Dates)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", e.Name, err)
	}
	return normalizeChain(e).Apply(ds), nil
}

// normalizeChain builds the per-entity normalization: strip everything, then
// case-fold the categorical columns, then coerce numerics. Strip must come
// first; casing and parsing are whitespace-sensitive.
func normalizeChain(e schema.Entity) Chain {
	c := Chain{StripAll{}}
	if len(e.Upper) > 0 {
		c = append(c, Upper{Columns: e.Upper})
	}
	if len(e.Lower) > 0 {
		c = append(c, Lower{Columns: e.Lower})
	}
	if len(e.Numeric) > 0 {
		c = append(c, ToNumeric{Columns: e.Numeric})
	}
	return c
}

// applyDQRules runs the row-level filters in their fixed order. Drop counts
// compose sequentially: each count is taken against the table state entering
// that specific rule.
func applyDQRules(src *sources, rep *Report) {
	ApplyRules(src.securities, []Rule{
		EnumRule("securities.asset_class_enum", schema.AssetClasses, schema.ColAssetClass),
	}, rep)
	ApplyRules(src.accounts, []Rule{
		accountEnumsRule(),
	}, rep)
	ApplyRules(src.customers, []Rule{
		EnumRule("customers.status_enum", schema.CustomerStatuses, schema.ColStatus),
	}, rep)
	ApplyRules(src.transactions, []Rule{
		EnumRule("transactions.transaction_type_enum", schema.TransactionTypes, schema.ColTxnType),
		NonNegativeRule("transactions.quantity_nonnegative", true, schema.ColQuantity),
		NonNegativeRule("transactions.price_nonnegative", true, schema.ColPrice),
	}, rep)
	ApplyRules(src.positions, []Rule{
		NonNegativeRule("positions.nonnegative", false, schema.ColQuantity, schema.ColMarketPrice, schema.ColMarketValue),
	}, rep)
}

// accountEnumsRule checks account_type and status jointly under one rule
// name, so a row failing either counts once.
func accountEnumsRule() Rule {
	typeRule := EnumRule("", schema.AccountTypes, schema.ColAccountType)
	statusRule := EnumRule("", schema.AccountStatuses, schema.ColStatus)
	return Rule{
		Name: "accounts.enums",
		Keep: func(r records.Record) bool {
			return typeRule.Keep(r) && statusRule.Keep(r)
		},
	}
}

// model is the finished star schema plus the two rollups.
type model struct {
	dimCustomers       *dataset.Dataset
	dimAccounts        *dataset.Dataset
	dimSecurities      *dataset.Dataset
	factTransactions   *dataset.Dataset
	accountDailyValue  *dataset.Dataset
	customerDailyValue *dataset.Dataset
}

// buildModel assigns surrogate keys in topological order (dimensions before
// facts before aggregates), resolves foreign references, and projects the
// fixed output column sets.
func buildModel(src *sources) *model {
	custKeys := AssignKeys(src.customers, schema.ColCustomerID, schema.ColCustomerKey)
	acctKeys := AssignKeys(src.accounts, schema.ColAccountID, schema.ColAccountKey)
	secKeys := AssignKeys(src.securities, schema.ColSecurityID, schema.ColSecurityKey)

	custKeys.Resolve(src.accounts, schema.ColCustomerID)
	acctKeys.Resolve(src.transactions, schema.ColAccountID)
	secKeys.Resolve(src.transactions, schema.ColSecurityID)

	m := &model{
		dimCustomers:     src.customers.Project(schema.TableDimCustomers, schema.DimCustomerCols),
		dimAccounts:      src.accounts.Project(schema.TableDimAccounts, schema.DimAccountCols),
		dimSecurities:    src.securities.Project(schema.TableDimSecurities, schema.DimSecurityCols),
		factTransactions: src.transactions.Project(schema.TableFactTransactions, schema.FactTransactionCols),
	}

	acctKeys.Resolve(src.positions, schema.ColAccountID)
	m.accountDailyValue = SumBy(src.positions, schema.TableAccountDailyValue,
		[]string{schema.ColAsOfDate, schema.ColAccountKey},
		schema.ColMarketValue, schema.ColTotalMarketValue)

	// The account→customer mapping comes from the dimension builder's output,
	// not from the raw source.
	acctToCust := make(map[int64]any, m.dimAccounts.Len())
	for _, r := range m.dimAccounts.Rows {
		if ak, ok := r.Key(schema.ColAccountKey); ok {
			acctToCust[ak] = r[schema.ColCustomerKey]
		}
	}
	for _, r := range m.accountDailyValue.Rows {
		if ak, ok := r.Key(schema.ColAccountKey); ok {
			r[schema.ColCustomerKey] = acctToCust[ak]
		} else {
			r[schema.ColCustomerKey] = nil
		}
	}
	m.customerDailyValue = SumBy(m.accountDailyValue, schema.TableCustomerDailyValue,
		[]string{schema.ColAsOfDate, schema.ColCustomerKey},
		schema.ColTotalMarketValue, schema.ColTotalMarketValue)

	return m
}

func writeOutputs(cfg Config, m *model, rep *Report) error {
	if err := os.MkdirAll(cfg.ProcessedDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return err
	}
	var written int64
	for _, ds := range []*dataset.Dataset{
		m.dimCustomers,
		m.dimAccounts,
		m.dimSecurities,
		m.factTransactions,
		m.accountDailyValue,
		m.customerDailyValue,
	} {
		if err := ds.WriteFile(filepath.Join(cfg.ProcessedDir, ds.Name+".csv")); err != nil {
			return fmt.Errorf("write %s: %w", ds.Name, err)
		}
		rep.AddCount(ds.Name, ds.Len())
		written += int64(ds.Len())
	}
	metrics.RecordRows(job, "written", written)
	if err := rep.WriteFiles(cfg.LogsDir); err != nil {
		return err
	}
	return nil
}
