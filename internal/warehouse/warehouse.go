// Package warehouse implements the bulk-load stage: it infers a table
// definition from each processed CSV, recreates the target table, loads the
// rows, and verifies the loaded row count. Backends live in subpackages
// (sqlite, postgres) behind the Repository interface.
package warehouse

import (
	"context"

	"finetl/internal/schema"
)

// Repository is the minimal warehouse backend interface.
type Repository interface {
	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom bulk-inserts rows into table. len(row) must equal
	// len(columns) for every row.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// Count returns the table's row count.
	Count(ctx context.Context, table string) (int64, error)
	// Close releases the backend's resources.
	Close()
}

// TableFile maps one warehouse table to its processed CSV.
type TableFile struct {
	Table string
	File  string
}

// TableFiles lists the six output tables in load order.
var TableFiles = []TableFile{
	{schema.TableDimCustomers, schema.TableDimCustomers + ".csv"},
	{schema.TableDimAccounts, schema.TableDimAccounts + ".csv"},
	{schema.TableDimSecurities, schema.TableDimSecurities + ".csv"},
	{schema.TableFactTransactions, schema.TableFactTransactions + ".csv"},
	{schema.TableAccountDailyValue, schema.TableAccountDailyValue + ".csv"},
	{schema.TableCustomerDailyValue, schema.TableCustomerDailyValue + ".csv"},
}
