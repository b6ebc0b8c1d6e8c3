package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dvloznov/school-marketplace/internal/activity"
	"github.com/dvloznov/school-marketplace/internal/activity/inmemory"
	"github.com/dvloznov/school-marketplace/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	log, err := logger.New(logger.Options{
		Level:  os.Getenv("MARKETPLACE_LOG_LEVEL"),
		Out:    os.Stderr,
		Format: logger.FormatConsole,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "normalize":
		runNormalize(log)
	case "seed":
		runSeed(log)
	case "parse-id":
		runParseID(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("School Marketplace Activity CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  normalize   Normalize a JSON array of raw transactions")
	fmt.Println("  seed        Print the normalized demo activity table")
	fmt.Println("  parse-id    Print the numeric id of a transaction tag")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runNormalize(log zerolog.Logger) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	filePath := fs.String("file", "-", "Path to a JSON file of raw transactions ('-' for stdin)")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(os.Args[2:])

	data, err := readInput(*filePath, os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	n := activity.NewNormalizer(activity.SystemClock)
	rows, issues, err := n.NormalizeJSON(data)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Normalization failed")
	}
	for _, issue := range issues {
		log.Warn().
			Int("index", issue.Index).
			Str("field", issue.Field).
			Str("got", issue.Got).
			Msg("Ignored malformed field")
	}

	if err := writeRows(os.Stdout, rows, *format); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}

func runSeed(log zerolog.Logger) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	txType := fs.String("type", "", "Filter by transaction type (Sale, Exchange, Donation, Fundraiser)")
	status := fs.String("status", "", "Filter by status")
	format := fs.String("format", "table", "Output format: table or json")
	extra := fs.String("file", "", "Optional JSON file of raw transactions appended to the demo table")
	fs.Parse(os.Args[2:])

	if *txType != "" && !activity.TransactionType(*txType).Known() {
		log.Fatal().Str("type", *txType).Msg("Unknown transaction type")
	}

	ctx := logger.WithContext(context.Background(), log)

	store := inmemory.NewStore()
	if err := store.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo records")
	}
	if *extra != "" {
		if _, err := store.LoadFile(ctx, *extra); err != nil {
			log.Fatal().Err(err).Str("file", *extra).Msg("Failed to load records")
		}
	}

	records, err := store.ListRecords(ctx, activity.Filter{
		Type:   activity.TransactionType(*txType),
		Status: activity.Status(*status),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list records")
	}

	rows := activity.NewNormalizer(activity.SystemClock).NormalizeAll(records)
	if err := writeRows(os.Stdout, rows, *format); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}

func runParseID(log zerolog.Logger) {
	fs := flag.NewFlagSet("parse-id", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		log.Fatal().Msg("Usage: cli parse-id TRANSACTION_ID")
	}

	fmt.Println(activity.ParseTransactionID(fs.Arg(0)))
}

// readInput reads path, or stdin when path is "" or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("readInput: stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("readInput: %w", err)
	}
	return data, nil
}

func writeRows(w io.Writer, rows []activity.DisplayTransaction, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tITEM\tDATE\tAMOUNT\tSTATUS\tCOUNTERPARTY\tITEM ID")
		for _, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Type, r.Item, r.Date, r.Amount, r.Status, r.CounterpartyName, r.ItemID)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("writeRows: unknown format %q", format)
	}
}
