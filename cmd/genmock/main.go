// Command genmock writes the mock source dataset into the raw data directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"finetl/internal/config"
	"finetl/internal/mockgen"
	"finetl/pkg/records"
)

func main() {
	var (
		cfgPath string
		seed    int64
		asOfStr string
	)
	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional)")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.StringVar(&asOfStr, "asof", "", "as-of date YYYY-MM-DD (default today UTC)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	asOf := time.Now().UTC()
	if asOfStr != "" {
		asOf, err = time.Parse(records.DateLayout, asOfStr)
		if err != nil {
			fatalf("bad -asof value %q: %v", asOfStr, err)
		}
	}

	set := mockgen.Generate(seed, asOf)
	if err := set.WriteFiles(cfg.RawDir); err != nil {
		log.Fatalf("genmock: %v", err)
	}
	log.Printf("genmock: wrote %d customers, %d accounts, %d securities, %d transactions, %d positions, %d market data rows to %s",
		set.Customers.Len(), set.Accounts.Len(), set.Securities.Len(),
		set.Transactions.Len(), set.Positions.Len(), set.MarketData.Len(), cfg.RawDir)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
