// Command quinianfind runs the quinian crossword search engine: it loads
// a clue corpus, builds the Clue Indexer for one crossword type, and
// walks the Dense or Alternating searcher over every seed, persisting
// every accepted pair to a result store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"quinian/internal/corpus"
	"quinian/internal/corpusio"
	"quinian/internal/domain"
	"quinian/internal/resultsink"
	"quinian/internal/search"
	"quinian/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		crosswordTypeFlag = flag.String("crossword-type", "dense3", "one of dense3, dense4, dense5, alternating5, alternating6, alternating7")
		corpusPath        = flag.String("corpus", "", "path to a JSON Lines clue corpus (required)")
		freqPath          = flag.String("freq", "", "optional path to a frequency table (WORD,count per line)")
		minFreq           = flag.Int("min-freq", 0, "minimum frequency, if -freq is given")
		qualityPath       = flag.String("quality", "", "optional path to a quality table (WORD,score per line)")
		minScore          = flag.Int("min-score", 0, "minimum quality score, if -quality is given")
		dbPath            = flag.String("db", envOr("DATABASE_PATH", "quinian.db"), "SQLite database path")
		allowedMissing    = flag.Int("allowed-missing", 0, "max number of surfaceless across entries a result may have")
		startIndex        = flag.Int("start-index", 1, "1-based seed index to resume from")
		timeout           = flag.Duration("timeout", 0, "overall search timeout, 0 for none")
		verbose           = flag.Bool("verbose", false, "log search progress")
	)
	flag.Parse()

	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -corpus is required")
		os.Exit(1)
	}

	crosswordType, err := domain.ParseCrosswordType(*crosswordTypeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logger *slog.Logger
	if *verbose {
		level := slog.LevelInfo
		opts := &slog.HandlerOptions{Level: level}
		if isatty.IsTerminal(os.Stderr.Fd()) {
			logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		} else {
			logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		}
	}

	records, err := loadClueRecords(*corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idxOpts, err := buildIndexOptions(*freqPath, *minFreq, *qualityPath, *minScore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idx, err := corpus.BuildIndex(records, crosswordType.Size, idxOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building index: %v\n", err)
		os.Exit(1)
	}

	db, err := store.NewSQLiteResultStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: running migrations: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	found := 0
	onResult := func(r search.Result) {
		rec := resultsink.FromResult(r)
		stored, err := db.Store(ctx, rec)
		if err != nil {
			if logger != nil {
				logger.Error("failed to store result", "error", err)
			}
			return
		}
		if stored {
			found++
		}
	}

	start := time.Now()
	if err := run(ctx, crosswordType, idx, *allowedMissing, *startIndex, onResult, logger); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("[%s] %s: %d results found in %s\n",
		strftime.Format("%Y-%m-%d %H:%M:%S", time.Now()), crosswordType, found, time.Since(start))
}

func run(ctx context.Context, ct domain.CrosswordType, idx *corpus.Index, allowedMissing, startIndex int, onResult func(search.Result), logger *slog.Logger) error {
	switch ct.Topology {
	case domain.TopologyDense:
		searcher := search.NewDenseSearcher(idx, ct.Size)
		driver := search.NewDriver[*search.DenseState, search.DenseSeed, search.DenseExt](searcher, allowedMissing, startIndex, onResult, logger)
		return driver.Run(ctx)
	case domain.TopologyAlternating:
		searcher := search.NewAlternatingSearcher(idx, ct.Size)
		driver := search.NewDriver[*search.AlternatingState, search.AltSeed, search.AltExt](searcher, allowedMissing, startIndex, onResult, logger)
		return driver.Run(ctx)
	default:
		return fmt.Errorf("quinianfind: unknown topology %q", ct.Topology)
	}
}

func loadClueRecords(path string) ([]corpus.ClueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	records, errs := corpusio.NewJSONLinesSource(f).ReadAll()
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d corpus lines skipped: %v\n", len(errs), errs)
	}
	return records, nil
}

func buildIndexOptions(freqPath string, minFreq int, qualityPath string, minScore int) ([]corpus.IndexOption, error) {
	var opts []corpus.IndexOption

	if freqPath != "" {
		f, err := os.Open(freqPath)
		if err != nil {
			return nil, fmt.Errorf("opening frequency table: %w", err)
		}
		defer f.Close()
		table, err := corpusio.LoadFrequencyTable(f)
		if err != nil {
			return nil, fmt.Errorf("loading frequency table: %w", err)
		}
		opts = append(opts, corpus.WithFrequencyTable(table, minFreq))
	}

	if qualityPath != "" {
		f, err := os.Open(qualityPath)
		if err != nil {
			return nil, fmt.Errorf("opening quality table: %w", err)
		}
		defer f.Close()
		table, err := corpusio.LoadQualityTable(f)
		if err != nil {
			return nil, fmt.Errorf("loading quality table: %w", err)
		}
		opts = append(opts, corpus.WithQualityTable(table, minScore))
	}

	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
