// parley-report prints usage aggregates from a Parley database without
// going through the HTTP server. Meant for cron jobs and quick terminal
// checks against a live or copied database file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/parleyhq/parley/internal/domain/chat"
	"github.com/parleyhq/parley/internal/infra/sqlite"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("parley-report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	dbPath := fs.String("db", "./data/parley.db", "Path to the Parley database")
	limit := fs.Int("limit", 0, "Maximum number of report rows (0 = all)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(out, "usage: parley-report [-db path] [-limit n]") //nolint:errcheck
		return 2
	}

	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(out, "database %q not found\n", *dbPath) //nolint:errcheck
		return 1
	}
	db, err := sqlite.NewDB(*dbPath)
	if err != nil {
		fmt.Fprintf(out, "open database: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	rows, err := chat.NewStatsService(db).Usage(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(out, "usage report: %v\n", err) //nolint:errcheck
		return 1
	}
	printReport(out, rows)
	return 0
}

func printReport(out io.Writer, rows []*chat.UsageStat) {
	fmt.Fprintln(out, color.CyanString("=== Usage Report ===")) //nolint:errcheck
	if len(rows) == 0 {
		fmt.Fprintln(out, "no assistant messages recorded") //nolint:errcheck
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMODEL\tTYPE\tMESSAGES\tTOKENS") //nolint:errcheck
	var totalMessages, totalTokens int
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", //nolint:errcheck
			row.Date, row.Model, row.ContentType, row.MessageCount, row.TotalTokens)
		totalMessages += row.MessageCount
		totalTokens += row.TotalTokens
	}
	w.Flush() //nolint:errcheck

	fmt.Fprintln(out, color.GreenString("total: %d messages, %d tokens", totalMessages, totalTokens)) //nolint:errcheck
}
