package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treepick/internal/datasource"
	"github.com/vanderheijden86/treepick/pkg/collapse"
	"github.com/vanderheijden86/treepick/pkg/config"
	"github.com/vanderheijden86/treepick/pkg/debug"
	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/store"
	"github.com/vanderheijden86/treepick/pkg/tree"
	"github.com/vanderheijden86/treepick/pkg/ui"
	"github.com/vanderheijden86/treepick/pkg/version"
	"github.com/vanderheijden86/treepick/pkg/watcher"
)

type cliFlags struct {
	configPath string
	source     string
	url        string
	path       string
	print      bool
	json       bool
	selectIDs  string
	watch      bool
	profile    bool
	version    bool
	help       bool
}

func parseFlags(args []string, errOut io.Writer) (cliFlags, *flag.FlagSet, error) {
	var f cliFlags
	fs := flag.NewFlagSet("treepick", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&f.configPath, "config", "", "Path to config.yaml (default: $XDG_CONFIG_HOME/treepick/config.yaml)")
	fs.StringVar(&f.source, "source", "", "Data source type: http, sqlite or file")
	fs.StringVar(&f.url, "url", "", "Base URL of the folders/items server (http source)")
	fs.StringVar(&f.path, "path", "", "Database or JSON file (sqlite/file source)")
	fs.BoolVar(&f.print, "print", false, "Print the tree and exit instead of starting the UI")
	fs.BoolVar(&f.json, "json", false, "Print the tree and selection as JSON and exit")
	fs.StringVar(&f.selectIDs, "select", "", "Comma-separated node ids to toggle before printing (e.g. folder_1,7)")
	fs.BoolVar(&f.watch, "watch", false, "Reload when the sqlite/file source changes")
	fs.BoolVar(&f.profile, "profile", false, "Print timing metrics to stderr on exit")
	fs.BoolVar(&f.version, "version", false, "Show version")
	fs.BoolVar(&f.help, "help", false, "Show help")
	err := fs.Parse(args)
	return f, fs, err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, fs, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if flags.help {
		fmt.Fprintln(stdout, "Usage: treepick [options]")
		fmt.Fprintln(stdout, "\nBrowse folders and items and select a subset.")
		fmt.Fprintln(stdout, "\nOptions:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if flags.version {
		fmt.Fprintf(stdout, "treepick %s\n", version.Version)
		return 0
	}

	cfg, err := resolveConfig(flags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	src, err := datasource.Open(cfg.Source)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var opts []store.Option
	if dir := cfg.CollapseStateDir(); dir != "" {
		opts = append(opts, store.WithCollapseState(collapse.StatePath(dir)))
	}
	s := store.New(src, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.watch {
		if path := datasource.WatchPath(cfg.Source); path != "" {
			if _, err := watcher.Reload(ctx, path, s); err != nil {
				fmt.Fprintf(stderr, "warning: live reload disabled: %v\n", err)
			}
		} else {
			fmt.Fprintln(stderr, "warning: --watch needs a sqlite or file source; ignoring")
		}
	}

	if flags.profile {
		defer writeProfile(stderr)
	}

	if interactive(flags) {
		return runUI(ctx, s, cfg, stdout, stderr)
	}
	return runPrint(ctx, s, cfg, flags, stdout, stderr)
}

// resolveConfig layers CLI flags over the config file over defaults.
func resolveConfig(f cliFlags, stderr io.Writer) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "warning: %v; using defaults\n", err)
		cfg = config.DefaultConfig()
	}

	if f.source != "" {
		cfg.Source.Type = strings.ToLower(f.source)
	}
	if f.url != "" {
		cfg.Source.URL = f.url
		if f.source == "" {
			cfg.Source.Type = config.SourceHTTP
		}
	}
	if f.path != "" {
		cfg.Source.Path = f.path
		if f.source == "" {
			cfg.Source.Type = sourceTypeForPath(f.path)
		}
	}
	return cfg, cfg.Validate()
}

func sourceTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.SourceSQLite
	default:
		return config.SourceFile
	}
}

func interactive(f cliFlags) bool {
	if f.print || f.json || f.selectIDs != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func runUI(ctx context.Context, s *store.Store, cfg config.Config, stdout, stderr io.Writer) int {
	if debug.Enabled() {
		// Debug lines would tear the alternate screen.
		if f, err := tea.LogToFile(filepath.Join(os.TempDir(), "treepick-debug.log"), "treepick"); err == nil {
			defer f.Close()
			debug.SetOutput(f)
		}
	}

	ids, err := ui.Run(ctx, s, ui.Options{ShowIDs: cfg.UI.ShowIDs, Indent: cfg.UI.Indent})
	if err != nil {
		fmt.Fprintf(stderr, "Error running treepick: %v\n", err)
		return 1
	}
	if len(ids) > 0 {
		fmt.Fprintln(stdout, strings.Join(ids, ","))
	}
	return 0
}

func runPrint(ctx context.Context, s *store.Store, cfg config.Config, f cliFlags, stdout, stderr io.Writer) int {
	if err := s.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		return 1
	}

	for _, id := range applySelections(s, splitIDs(f.selectIDs)) {
		fmt.Fprintf(stderr, "warning: no node with id %q\n", id)
	}

	if err := writeOutput(stdout, s, cfg, f.json); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !f.watch {
		return 0
	}

	// Reprint after every reload until interrupted.
	changed := make(chan struct{}, 1)
	unsubscribe := s.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return 0
		case <-changed:
			if s.IsLoading() {
				continue
			}
			if s.HasError() {
				fmt.Fprintf(stderr, "warning: reload failed: %s\n", s.Error())
				continue
			}
			fmt.Fprintln(stdout)
			if err := writeOutput(stdout, s, cfg, f.json); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
		}
	}
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// applySelections toggles each node id in order and returns the ids that
// matched nothing.
func applySelections(s *store.Store, ids []string) []string {
	var unknown []string
	for _, id := range ids {
		node := tree.Find(s.TreeData(), id)
		if node == nil {
			unknown = append(unknown, id)
			continue
		}
		s.ToggleSelection(node)
	}
	return unknown
}

type jsonOutput struct {
	Tree     []*model.Node `json:"tree"`
	Selected []string      `json:"selected"`
}

func writeOutput(w io.Writer, s *store.Store, cfg config.Config, asJSON bool) error {
	roots := s.TreeData()
	ids := s.SelectedIDs()

	if asJSON {
		if roots == nil {
			roots = []*model.Node{}
		}
		if ids == nil {
			ids = []string{}
		}
		data, err := json.MarshalIndent(jsonOutput{Tree: roots, Selected: ids}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if _, err := io.WriteString(w, ui.PlainTree(roots, cfg.UI.Indent, cfg.UI.ShowIDs)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nSelected (%d): %s\n", len(ids), strings.Join(ids, ","))
	return err
}

func writeProfile(w io.Writer) {
	stats := metrics.AllTimingStats()
	if len(stats) == 0 {
		fmt.Fprintln(w, "profile: no timings recorded")
		return
	}
	fmt.Fprintf(w, "%-16s %8s %10s %10s %10s\n", "METRIC", "COUNT", "TOTAL ms", "AVG ms", "MAX ms")
	for _, st := range stats {
		fmt.Fprintf(w, "%-16s %8d %10.3f %10.3f %10.3f\n", st.Name, st.Count, st.TotalMs, st.AvgMs, st.MaxMs)
	}
}
