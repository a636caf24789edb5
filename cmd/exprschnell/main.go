package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/term"

	"github.com/codefionn/exprschnell"
	"github.com/codefionn/exprschnell/internal/config"
	"github.com/codefionn/exprschnell/internal/history"
	"github.com/codefionn/exprschnell/internal/logger"
	"github.com/codefionn/exprschnell/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	maxDepth  int
	precision int
	noHistory bool
	watchPath string
	puzzle    string
	goal      string
	attempts  int
}

func parseCLIArgs(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("exprschnell", flag.ContinueOnError)
	fs.IntVar(&flags.maxDepth, "max-depth", 0, "maximum parenthesis nesting depth (0 uses the configured default)")
	fs.IntVar(&flags.precision, "precision", -2, "fractional digits for float results, -1 for shortest form")
	fs.BoolVar(&flags.noHistory, "no-history", false, "do not record evaluations in the history database")
	fs.StringVar(&flags.watchPath, "watch", "", "watch a file and re-evaluate its lines on every change")
	fs.StringVar(&flags.puzzle, "puzzle", "", "comma-separated digits for the digit puzzle solver")
	fs.StringVar(&flags.goal, "goal", "", "target value for the digit puzzle solver")
	fs.IntVar(&flags.attempts, "attempts", 0, "attempt budget for the digit puzzle solver (0 uses the configured default)")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: exprschnell [flags] [expression]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Evaluates arithmetic expressions over + - * / and parentheses.")
		fmt.Fprintln(out, "With no expression and a terminal, an interactive session starts;")
		fmt.Fprintln(out, "with piped input, every line of stdin is evaluated.")
		fmt.Fprintln(out)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}

func run() (err error) {
	flags, args, parseErr := parseCLIArgs(os.Args[1:])
	if parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			return nil
		}
		return parseErr
	}

	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Environment variables override the config file for logging.
	if envLevel := strings.TrimSpace(os.Getenv("EXPRSCHNELL_LOG_LEVEL")); envLevel != "" {
		cfg.LogLevel = envLevel
	}
	if envPath := strings.TrimSpace(os.Getenv("EXPRSCHNELL_LOG_PATH")); envPath != "" {
		cfg.LogPath = envPath
	}

	if initErr := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); initErr != nil {
		return fmt.Errorf("failed to initialize logger: %w", initErr)
	}
	defer func() {
		if err != nil {
			logger.Error("fatal: %v", err)
		}
		if closeErr := logger.Global().Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}()

	if flags.maxDepth > 0 {
		cfg.MaxDepth = flags.maxDepth
	}
	if flags.precision >= -1 {
		cfg.Precision = flags.precision
	}
	if flags.attempts > 0 {
		cfg.PuzzleAttempts = flags.attempts
	}
	if flags.noHistory {
		cfg.DisableHistory = true
	}

	logger.Info("exprschnell starting")

	switch {
	case flags.puzzle != "":
		return runPuzzle(cfg, flags.puzzle, flags.goal)
	case flags.watchPath != "":
		return runWatch(cfg, flags.watchPath)
	case len(args) > 0:
		return runOnce(cfg, strings.Join(args, " "))
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runInteractive(cfg)
	}
	return runBatch(cfg, os.Stdin)
}

// openHistory returns nil when history is disabled or unavailable; the
// evaluator works without it.
func openHistory(cfg *config.Config) *history.Store {
	if cfg.DisableHistory {
		return nil
	}
	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		logger.Warn("history disabled: %v", err)
		return nil
	}
	return store
}

// runOnce evaluates a single expression given on the command line.
func runOnce(cfg *config.Config, input string) error {
	value, err := exprschnell.Eval(input, exprschnell.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		return err
	}

	result := value.Format(cfg.Precision)
	if store := openHistory(cfg); store != nil {
		defer store.Close()
		if err := store.Add(input, result); err != nil {
			logger.Warn("failed to record history entry: %v", err)
		}
	}

	fmt.Println(result)
	return nil
}

// runBatch evaluates stdin line by line, printing one result or error per
// line. A failing line does not stop the batch.
func runBatch(cfg *config.Config, input *os.File) error {
	cache := exprschnell.NewCache(cfg.MaxCacheEntries)
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value, err := cache.Eval(line, exprschnell.WithMaxDepth(cfg.MaxDepth))
		if err != nil {
			fmt.Printf("%s: error: %v\n", line, err)
			continue
		}
		fmt.Printf("%s = %s\n", line, value.Format(cfg.Precision))
	}
	return scanner.Err()
}

// runInteractive starts the terminal session.
func runInteractive(cfg *config.Config) error {
	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Options{
		Cache:     exprschnell.NewCache(cfg.MaxCacheEntries),
		Store:     store,
		Precision: cfg.Precision,
		MaxDepth:  cfg.MaxDepth,
	})
}

// runWatch re-evaluates every line of a file each time it changes.
func runWatch(cfg *config.Config, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: editors commonly replace
	// the file on save, which would drop a direct watch.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	cache := exprschnell.NewCache(cfg.MaxCacheEntries)
	evaluateFile(cfg, cache, absPath)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-interrupt:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("re-evaluating %s after %s", absPath, event.Op)
			evaluateFile(cfg, cache, absPath)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error: %v", watchErr)
		}
	}
}

func evaluateFile(cfg *config.Config, cache *exprschnell.Cache, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("--- %s ---\n", filepath.Base(path))
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, err := cache.Eval(line, exprschnell.WithMaxDepth(cfg.MaxDepth))
		if err != nil {
			fmt.Printf("%s: error: %v\n", line, err)
			continue
		}
		fmt.Printf("%s = %s\n", line, value.Format(cfg.Precision))
	}
}

// runPuzzle searches for an expression over the given digits that hits the
// goal value.
func runPuzzle(cfg *config.Config, puzzle, goal string) error {
	if goal == "" {
		return fmt.Errorf("-puzzle requires -goal")
	}

	digits, err := parseDigits(puzzle)
	if err != nil {
		return err
	}
	goalValue, err := exprschnell.ParseValue(goal)
	if err != nil {
		return fmt.Errorf("invalid goal %q: %w", goal, err)
	}

	generator := &exprschnell.Generator{}
	solution, ok := generator.SolveDigits(digits, goalValue, cfg.PuzzleAttempts)
	if !ok {
		return fmt.Errorf("no expression over %s found that equals %s in %d attempts",
			puzzle, goalValue, cfg.PuzzleAttempts)
	}

	fmt.Printf("%s = %s\n", solution, goalValue)
	return nil
}

func parseDigits(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	digits := make([]int64, 0, len(parts))
	for _, part := range parts {
		digit, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid digit %q in -puzzle", part)
		}
		digits = append(digits, digit)
	}
	if len(digits) == 0 {
		return nil, fmt.Errorf("-puzzle needs at least one digit")
	}
	return digits, nil
}
