// Package schema declares the column contracts for every entity moving
// through the pipeline: source tables, dimension/fact outputs, and the
// enumerations used by data-quality rules. Steps address columns through
// these constants so a misspelled name fails at compile time, not mid-run.
package schema

// Source entity column names.
const (
	ColCustomerID    = "customer_id"
	ColFirstName     = "first_name"
	ColLastName      = "last_name"
	ColEmail         = "email"
	ColCreatedAt     = "created_at"
	ColStatus        = "status"
	ColAccountID     = "account_id"
	ColAccountType   = "account_type"
	ColOpenedAt      = "opened_at"
	ColCurrency      = "currency"
	ColSecurityID    = "security_id"
	ColTicker        = "ticker"
	ColName          = "name"
	ColAssetClass    = "asset_class"
	ColCUSIP         = "cusip"
	ColExchange      = "exchange"
	ColTransactionID = "transaction_id"
	ColTxnType       = "transaction_type"
	ColQuantity      = "quantity"
	ColPrice         = "price"
	ColAmount        = "amount"
	ColTradeDate     = "trade_date"
	ColSettleDate    = "settle_date"
	ColAsOfDate      = "as_of_date"
	ColAvgCost       = "avg_cost"
	ColMarketPrice   = "market_price"
	ColMarketValue   = "market_value"
	ColClose         = "close"
	ColVolume        = "volume"
)

// Surrogate key column names.
const (
	ColCustomerKey = "customer_key"
	ColAccountKey  = "account_key"
	ColSecurityKey = "security_key"
)

// Aggregate output column names.
const ColTotalMarketValue = "total_market_value"

// Entity describes the load- and normalize-time contract of one source table.
type Entity struct {
	Name     string   // source file stem, e.g. "customers"
	Key      []string // natural key columns (dedup grain)
	Required []string // EnsureColumns set; absence is fatal
	Dates    []string // parsed to calendar dates at load
	Upper    []string // upper-cased after stripping
	Lower    []string // lower-cased after stripping
	Numeric  []string // coerced to float64 after stripping
}

var (
	Customers = Entity{
		Name:     "customers",
		Key:      []string{ColCustomerID},
		Required: []string{ColCustomerID, ColFirstName, ColLastName, ColEmail, ColCreatedAt, ColStatus},
		Dates:    []string{ColCreatedAt},
		Lower:    []string{ColStatus},
	}

	Accounts = Entity{
		Name:     "accounts",
		Key:      []string{ColAccountID},
		Required: []string{ColAccountID, ColCustomerID, ColAccountType, ColOpenedAt, ColStatus, ColCurrency},
		Dates:    []string{ColOpenedAt},
		Lower:    []string{ColStatus, ColAccountType, ColCurrency},
	}

	Securities = Entity{
		Name:     "securities",
		Key:      []string{ColSecurityID},
		Required: []string{ColSecurityID, ColTicker, ColName, ColAssetClass, ColCUSIP, ColExchange},
		Upper:    []string{ColTicker, ColExchange},
	}

	Transactions = Entity{
		Name:     "transactions",
		Key:      []string{ColTransactionID},
		Required: []string{ColTransactionID, ColAccountID, ColSecurityID, ColTxnType, ColQuantity, ColPrice, ColAmount, ColTradeDate, ColSettleDate, ColCurrency},
		Dates:    []string{ColTradeDate, ColSettleDate},
		Upper:    []string{ColCurrency},
		Numeric:  []string{ColQuantity, ColPrice, ColAmount},
	}

	Positions = Entity{
		Name:     "positions",
		Key:      []string{ColAsOfDate, ColAccountID, ColSecurityID},
		Required: []string{ColAsOfDate, ColAccountID, ColSecurityID, ColQuantity, ColAvgCost, ColMarketPrice, ColMarketValue, ColCurrency},
		Dates:    []string{ColAsOfDate},
		Upper:    []string{ColCurrency},
		Numeric:  []string{ColQuantity, ColAvgCost, ColMarketPrice, ColMarketValue},
	}

	// MarketData is optional input; it is normalized when present but feeds
	// no output table.
	MarketData = Entity{
		Name:  "market_data",
		Key:   []string{ColAsOfDate, ColTicker},
		Dates: []string{ColAsOfDate},
		Upper: []string{ColTicker},
	}
)

// Enumerated value whitelists for DQ filtering.
var (
	CustomerStatuses = enumSet("active", "inactive")
	AccountStatuses  = enumSet("active", "inactive")
	AccountTypes     = enumSet("brokerage", "ira", "roth", "trust")
	AssetClasses     = enumSet("equity", "etf", "bond", "cash")
	TransactionTypes = enumSet("buy", "sell", "dividend", "interest", "deposit", "withdrawal", "fee")
)

func enumSet(vals ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Output table names and their fixed column sets. Extraneous source columns
// are dropped when projecting onto these.
const (
	TableDimCustomers       = "dim_customers"
	TableDimAccounts        = "dim_accounts"
	TableDimSecurities      = "dim_securities"
	TableFactTransactions   = "fact_transactions"
	TableAccountDailyValue  = "account_daily_value"
	TableCustomerDailyValue = "customer_daily_value"
)

var (
	DimCustomerCols = []string{ColCustomerKey, ColCustomerID, ColFirstName, ColLastName, ColEmail, ColCreatedAt, ColStatus}

	DimAccountCols = []string{ColAccountKey, ColAccountID, ColCustomerKey, ColCustomerID, ColAccountType, ColOpenedAt, ColStatus, ColCurrency}

	DimSecurityCols = []string{ColSecurityKey, ColSecurityID, ColTicker, ColName, ColAssetClass, ColCUSIP, ColExchange}

	FactTransactionCols = []string{ColTransactionID, ColAccountKey, ColSecurityKey, ColTxnType, ColQuantity, ColPrice, ColAmount, ColTradeDate, ColSettleDate, ColCurrency}

	AccountDailyValueCols = []string{ColAsOfDate, ColAccountKey, ColTotalMarketValue}

	CustomerDailyValueCols = []string{ColAsOfDate, ColCustomerKey, ColTotalMarketValue}
)
