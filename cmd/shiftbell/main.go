package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/akyairhashvil/shiftbell/internal/app"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/database"
	"github.com/akyairhashvil/shiftbell/internal/notify"
	"github.com/akyairhashvil/shiftbell/internal/report"
	"github.com/akyairhashvil/shiftbell/internal/tui"
	"github.com/akyairhashvil/shiftbell/internal/util"
)

type options struct {
	configPath string
	headless   bool
	importSeed string
	report     string
	backup     string
	restore    string
}

func parseOptions(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet(config.AppName, pflag.ContinueOnError)
	fs.StringVarP(&o.configPath, "config", "c", "", "path to a config file")
	fs.BoolVar(&o.headless, "headless", false, "run without the terminal UI")
	fs.StringVar(&o.importSeed, "import-seed", "", "import shifts and notes from a YAML file")
	fs.StringVar(&o.report, "report", "", "write the PDF and XLSX report for YYYY-MM and exit")
	fs.StringVar(&o.backup, "backup", "", "write a backup to this file and exit")
	fs.StringVar(&o.restore, "restore", "", "restore a backup from this file and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.backup != "" && o.restore != "" {
		return o, errors.New("--backup and --restore are mutually exclusive")
	}
	return o, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
	opts, err := parseOptions(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = util.DataDir(config.AppName)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	cleanupStaleArtifacts(cfg.Mirror.ICSPath)

	interactive := !opts.headless && opts.report == "" && opts.backup == "" && opts.restore == "" &&
		term.IsTerminal(int(os.Stdout.Fd()))
	logPath := ""
	if interactive {
		logPath = filepath.Join(dataDir, config.LogFileName)
	}
	logger, err := util.NewLogger(cfg.Log.Level, cfg.Log.Format, logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(ctx, filepath.Join(dataDir, config.DBFileName))
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case opts.backup != "":
		return runBackup(ctx, db, opts.backup)
	case opts.restore != "":
		return runRestore(ctx, db, opts.restore)
	}

	var mirror notify.Mirror
	if cfg.Mirror.ICSPath != "" {
		ics, err := notify.NewICSMirror(cfg.Mirror.ICSPath, logger)
		if err != nil {
			return err
		}
		mirror = ics
	}
	deliverer := notify.Chain{notify.NewDesktop()}
	if !interactive {
		deliverer = append(deliverer, notify.NewTerminal(os.Stdout), notify.NewLog(logger))
	}

	a := app.New(database.NewRepository(db), app.Options{
		Config:    cfg,
		Logger:    logger,
		Deliverer: deliverer,
		Mirror:    mirror,
	})
	defer a.Shutdown()

	if opts.importSeed != "" {
		res, err := a.ImportSeed(ctx, opts.importSeed)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d shifts and %d notes.\n", res.Shifts, res.Notes)
	}
	if opts.report != "" {
		return runReport(ctx, a, cfg, opts.report)
	}

	if err := a.Initialize(ctx); err != nil {
		return err
	}
	if !interactive {
		logger.Info("running headless")
		return a.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("scheduler stopped", zap.Error(err))
		}
	}()
	p := tea.NewProgram(tui.NewModel(ctx, a, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runReport(ctx context.Context, a *app.App, cfg *config.Config, month string) error {
	m, err := a.MonthlyReport(ctx, month)
	if err != nil {
		return err
	}
	dir := cfg.Reports.Dir
	if dir == "" {
		dir = util.ReportsDir(config.AppName)
	}
	pdfPath, xlsxPath, err := report.WriteFiles(dir, m)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\nWrote %s\n", pdfPath, xlsxPath)
	return nil
}

func runBackup(ctx context.Context, db *database.Database, path string) error {
	pass, err := backupPassphrase("Backup passphrase (leave empty for none): ")
	if err != nil {
		return err
	}
	if pass != "" {
		if err := util.ValidatePassphrase(pass); err != nil {
			return fmt.Errorf("passphrase too weak: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := db.ExportBackup(ctx, f, pass); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", path)
	return nil
}

func runRestore(ctx context.Context, db *database.Database, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	pass := ""
	for tries := 0; tries < config.MaxPassphraseAttempts; tries++ {
		err = db.RestoreBackup(ctx, strings.NewReader(string(data)), pass)
		if err == nil {
			fmt.Printf("Restored %s\n", path)
			return nil
		}
		if !errors.Is(err, database.ErrBackupPassphrase) && !errors.Is(err, database.ErrBackupCorrupted) {
			return err
		}
		if pass, err = backupPassphrase("Backup passphrase: "); err != nil {
			return err
		}
		if pass == "" {
			return database.ErrBackupPassphrase
		}
	}
	return database.ErrBackupCorrupted
}

// backupPassphrase takes SHIFTBELL_BACKUP_KEY when set and otherwise asks
// on the terminal.
func backupPassphrase(prompt string) (string, error) {
	if key := strings.TrimSpace(os.Getenv("SHIFTBELL_BACKUP_KEY")); key != "" {
		return key, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	return promptForKey(os.Stderr, prompt)
}

func promptForKey(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return strings.TrimSpace(string(pass)), err
}

// cleanupStaleArtifacts removes a calendar temp file left by an
// interrupted write.
func cleanupStaleArtifacts(icsPath string) {
	if icsPath == "" {
		return
	}
	_ = os.Remove(icsPath + ".tmp")
}
