// Command fastr is a terminal intermittent-fasting tracker.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/fastr/internal/engine"
	"github.com/sadopc/fastr/internal/export"
	"github.com/sadopc/fastr/internal/store"
	"github.com/sadopc/fastr/internal/tui"
)

var (
	dbPath       string
	exportFormat string
	exportOut    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fastr",
		Short:         "TUI intermittent-fasting tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file (default: user config dir)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export fasting history to a file",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: ~/fastr-export-<date>.<format>)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate fasting statistics",
		RunE:  runStats,
	}

	rootCmd.AddCommand(exportCmd, statsCmd)
	return rootCmd
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	return store.New(path)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	// Route degraded-read logging to a file; stderr would corrupt the
	// alternate screen.
	if logFile := openLogFile(); logFile != nil {
		defer logFile.Close()
		s.SetLogger(slog.New(slog.NewTextHandler(logFile, nil)))
	}

	e := engine.New(s)
	app := tui.NewApp(s, e)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	sessions := s.GetAllSessions()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})

	path := exportOut
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, fmt.Sprintf("fastr-export-%s.%s", time.Now().Format("2006-01-02"), exportFormat))
	}

	switch exportFormat {
	case "csv":
		err = export.ToCSV(sessions, path)
	case "json":
		err = export.ToJSON(sessions, path)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d sessions to %s\n", len(sessions), path)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	st := s.GetStats()
	fmt.Printf("Total fasts:      %d\n", st.TotalSessions)
	fmt.Printf("Total fasted:     %dh %02dm\n", st.TotalDuration/60, st.TotalDuration%60)
	fmt.Printf("Average fast:     %.0f min\n", st.AverageDuration)
	fmt.Printf("Completion rate:  %.0f%%\n", st.CompletionRate*100)
	fmt.Printf("Current streak:   %d days\n", st.CurrentStreak)
	fmt.Printf("Longest streak:   %d days\n", st.LongestStreak)
	fmt.Printf("Favorite:         %s\n", st.FavoriteProtocol)
	return nil
}

func openLogFile() *os.File {
	path, err := store.DefaultDBPath()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(filepath.Dir(path), "fastr.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return f
}
