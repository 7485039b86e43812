// Package mockgen produces the mock source dataset consumed by the ingest
// and transform stages: a handful of customers with accounts, a fixed
// security universe, and randomized transactions, positions, and market
// data. Generation is deterministic for a given seed and as-of time.
package mockgen

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finetl/internal/dataset"
	"finetl/internal/schema"
	"finetl/pkg/records"
)

// Set is one generated batch of raw source tables.
type Set struct {
	Customers    *dataset.Dataset
	Accounts     *dataset.Dataset
	Securities   *dataset.Dataset
	Transactions *dataset.Dataset
	Positions    *dataset.Dataset
	MarketData   *dataset.Dataset
}

const (
	customerCount     = 5
	accountsPerCust   = 2
	marketHistoryDays = 30
)

var accountTypes = []string{"brokerage", "ira", "roth", "trust"}

var txnTypes = []string{"buy", "sell", "dividend", "deposit", "withdrawal", "fee", "interest"}

// cashlike transaction types carry no security reference.
var cashlike = map[string]bool{"deposit": true, "withdrawal": true, "fee": true, "interest": true}

type security struct {
	ticker, name, class string
}

var universe = []security{
	{"AAPL", "Apple Inc.", "equity"},
	{"MSFT", "Microsoft Corp.", "equity"},
	{"AGG", "iShares Core US Agg Bond ETF", "bond"},
	{"VTI", "Vanguard Total Stock Mkt", "etf"},
	{"CASH", "Cash", "cash"},
}

// Generate builds a mock set. The same seed and asOf produce the same data,
// except transaction IDs, which are random UUIDs like the IDs a real source
// system would mint.
func Generate(seed int64, asOf time.Time) *Set {
	rng := rand.New(rand.NewSource(seed))
	asOf = asOf.UTC().Truncate(24 * time.Hour)
	daysAgo := func(d int) time.Time { return asOf.AddDate(0, 0, -d) }

	customers := dataset.New("customers", []string{
		schema.ColCustomerID, schema.ColFirstName, schema.ColLastName,
		schema.ColEmail, schema.ColCreatedAt, schema.ColStatus,
	})
	for i := 0; i < customerCount; i++ {
		status := "active"
		if i%4 == 0 {
			status = "inactive"
		}
		customers.Rows = append(customers.Rows, records.Record{
			schema.ColCustomerID: fmt.Sprintf("CUST%03d", i+1),
			schema.ColFirstName:  fmt.Sprintf("First%d", i+1),
			schema.ColLastName:   fmt.Sprintf("Last%d", i+1),
			schema.ColEmail:      fmt.Sprintf("user%d@example.com", i+1),
			schema.ColCreatedAt:  daysAgo(400 - i*20),
			schema.ColStatus:     status,
		})
	}

	accounts := dataset.New("accounts", []string{
		schema.ColAccountID, schema.ColCustomerID, schema.ColAccountType,
		schema.ColOpenedAt, schema.ColStatus, schema.ColCurrency,
	})
	for i, c := range customers.Rows {
		for j := 1; j <= accountsPerCust; j++ {
			accounts.Rows = append(accounts.Rows, records.Record{
				schema.ColAccountID:   fmt.Sprintf("ACCT%03d%02d", i+1, j),
				schema.ColCustomerID:  c[schema.ColCustomerID],
				schema.ColAccountType: accountTypes[rng.Intn(len(accountTypes))],
				schema.ColOpenedAt:    daysAgo(365 - (i+1)*10 - j),
				schema.ColStatus:      "active",
				schema.ColCurrency:    "USD",
			})
		}
	}

	securities := dataset.New("securities", []string{
		schema.ColSecurityID, schema.ColTicker, schema.ColName,
		schema.ColAssetClass, schema.ColCUSIP, schema.ColExchange,
	})
	for i, s := range universe {
		exchange := "OTC"
		if s.class == "equity" || s.class == "etf" {
			exchange = "NASDAQ"
		}
		securities.Rows = append(securities.Rows, records.Record{
			schema.ColSecurityID: fmt.Sprintf("SEC%03d", i+1),
			schema.ColTicker:     s.ticker,
			schema.ColName:       s.name,
			schema.ColAssetClass: s.class,
			schema.ColCUSIP:      fmt.Sprintf("000000%03d", i+1),
			schema.ColExchange:   exchange,
		})
	}

	transactions := dataset.New("transactions", []string{
		schema.ColTransactionID, schema.ColAccountID, schema.ColSecurityID,
		schema.ColTxnType, schema.ColQuantity, schema.ColPrice, schema.ColAmount,
		schema.ColTradeDate, schema.ColSettleDate, schema.ColCurrency,
	})
	for _, a := range accounts.Rows {
		n := 8 + rng.Intn(8)
		for k := 0; k < n; k++ {
			ttype := txnTypes[rng.Intn(len(txnTypes))]
			sec := securities.Rows[rng.Intn(len(securities.Rows))]
			var secID any
			if !cashlike[ttype] && sec[schema.ColAssetClass] != "cash" {
				secID = sec[schema.ColSecurityID]
			}
			var qty, price, amt float64
			if secID != nil {
				qty = round(1+rng.Float64()*49, 3)
				price = round(10+rng.Float64()*290, 2)
				amt = round(qty*price, 2)
			} else {
				amt = round(10+rng.Float64()*1990, 2)
				if ttype != "deposit" && ttype != "interest" && ttype != "dividend" {
					amt = -amt
				}
			}
			trade := daysAgo(1 + rng.Intn(120))
			transactions.Rows = append(transactions.Rows, records.Record{
				schema.ColTransactionID: uuid.NewString(),
				schema.ColAccountID:     a[schema.ColAccountID],
				schema.ColSecurityID:    secID,
				schema.ColTxnType:       ttype,
				schema.ColQuantity:      qty,
				schema.ColPrice:         price,
				schema.ColAmount:        amt,
				schema.ColTradeDate:     trade,
				schema.ColSettleDate:    trade,
				schema.ColCurrency:      "USD",
			})
		}
	}

	positions := dataset.New("positions", []string{
		schema.ColAsOfDate, schema.ColAccountID, schema.ColSecurityID,
		schema.ColQuantity, schema.ColAvgCost, schema.ColMarketPrice,
		schema.ColMarketValue, schema.ColCurrency,
	})
	for _, a := range accounts.Rows {
		for _, s := range securities.Rows {
			if s[schema.ColAssetClass] == "cash" {
				continue
			}
			qty := round(rng.Float64()*120, 3)
			price := round(10+rng.Float64()*340, 2)
			positions.Rows = append(positions.Rows, records.Record{
				schema.ColAsOfDate:    asOf,
				schema.ColAccountID:   a[schema.ColAccountID],
				schema.ColSecurityID:  s[schema.ColSecurityID],
				schema.ColQuantity:    qty,
				schema.ColAvgCost:     round(price*(0.7+rng.Float64()*0.4), 2),
				schema.ColMarketPrice: price,
				schema.ColMarketValue: round(qty*price, 2),
				schema.ColCurrency:    "USD",
			})
		}
	}

	marketData := dataset.New("market_data", []string{
		schema.ColAsOfDate, schema.ColTicker, schema.ColClose, schema.ColVolume,
	})
	for _, s := range universe {
		if s.class == "cash" {
			continue
		}
		for d := marketHistoryDays; d >= 0; d-- {
			marketData.Rows = append(marketData.Rows, records.Record{
				schema.ColAsOfDate: daysAgo(d),
				schema.ColTicker:   s.ticker,
				schema.ColClose:    round(50+rng.Float64()*300, 2),
				schema.ColVolume:   int64(1_000_000 + rng.Intn(49_000_000)),
			})
		}
	}

	return &Set{
		Customers:    customers,
		Accounts:     accounts,
		Securities:   securities,
		Transactions: transactions,
		Positions:    positions,
		MarketData:   marketData,
	}
}

// WriteFiles writes every table of the set as a CSV under rawDir.
func (s *Set) WriteFiles(rawDir string) error {
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return err
	}
	for _, ds := range []*dataset.Dataset{
		s.Customers, s.Accounts, s.Securities, s.Transactions, s.Positions, s.MarketData,
	} {
		if err := ds.WriteFile(filepath.Join(rawDir, ds.Name+".csv")); err != nil {
			return fmt.Errorf("write %s: %w", ds.Name, err)
		}
	}
	return nil
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
