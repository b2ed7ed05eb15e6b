// Command inspect prints the tables of the configured database, or the columns of one table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/whatsapp-leads/api/internal/config"
	"github.com/octobees/whatsapp-leads/api/internal/database"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

func main() {
	table := flag.String("table", "", "table whose columns to print")
	flag.Parse()

	if err := run(*table, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func run(table string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	schema := repository.NewSchemaRepository(pool)
	if table == "" {
		tables, err := schema.Tables(ctx)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		for _, name := range tables {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	columns, err := schema.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("list columns: %w", err)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tNULLABLE")
	for _, col := range columns {
		fmt.Fprintf(w, "%s\t%s\t%t\n", col.Name, col.DataType, col.Nullable)
	}
	return w.Flush()
}
