// Package cli implements the passvault command line front end.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/backup"
	"github.com/dmitrijs2005/passvault/internal/config"
	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
	"github.com/dmitrijs2005/passvault/internal/vault/settings"
)

type App struct {
	config  *config.Config
	version string
	vault   *vault.Vault
	writer  *backup.Writer
	runner  *backup.Runner
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, version string, log logging.Logger) (*App, error) {
	v, err := vault.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	return &App{
		config:  cfg,
		version: version,
		vault:   v,
		writer:  backup.NewWriter(log),
		runner:  backup.NewRunner(log),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.vault.Close()
}

func (a *App) stores() backup.Stores {
	return backup.Stores{
		Entries:  a.vault.Store,
		Tags:     a.vault.Tags,
		Settings: a.vault.Settings,
		Quality:  a.vault.Quality,
	}
}

// Run dispatches one subcommand. Args excludes the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return a.cmdList()
	case "recent":
		return a.cmdRecent()
	case "show":
		return a.cmdShow(ctx, rest)
	case "add":
		return a.cmdAdd(ctx)
	case "delete":
		return a.cmdDelete(ctx, rest)
	case "tags":
		return a.cmdTags()
	case "backup":
		return a.cmdBackup(ctx, rest)
	case "restore":
		return a.cmdRestore(ctx, rest)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "usage: passvault <command>")
	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, "commands:")
	fmt.Fprintln(a.out, "  list                 list all entries")
	fmt.Fprintln(a.out, "  recent               list recently edited entries")
	fmt.Fprintln(a.out, "  show <id>            show one entry with details")
	fmt.Fprintln(a.out, "  add                  add an entry interactively")
	fmt.Fprintln(a.out, "  delete <id>          delete an entry")
	fmt.Fprintln(a.out, "  tags                 list tags")
	fmt.Fprintln(a.out, "  backup [flags]       write a backup file")
	fmt.Fprintln(a.out, "  restore <file>       restore from a backup file")
}

func (a *App) cmdList() error {
	for _, rec := range a.vault.Store.List() {
		fmt.Fprintf(a.out, "%s  %s\n", rec.UUID, rec.Name)
	}
	return nil
}

func (a *App) cmdRecent() error {
	for _, rec := range a.vault.Store.MostRecentlyEdited(a.config.RecentlyEdited) {
		fmt.Fprintf(a.out, "%s  %s  (%s)\n", rec.UUID, rec.Name, rec.Changed.Format(time.DateTime))
	}
	return nil
}

func (a *App) cmdShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	entry, err := a.vault.Store.Get(ctx, args[0], true)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", entry.Record.Name)
	if entry.Record.Description != "" {
		fmt.Fprintf(a.out, "%s\n", entry.Record.Description)
	}
	for _, id := range entry.Record.Tags {
		if tag, ok := a.vault.Tags.Get(id); ok {
			fmt.Fprintf(a.out, "#%s ", tag.Name)
		}
	}
	if len(entry.Record.Tags) > 0 {
		fmt.Fprintln(a.out)
	}
	for _, d := range entry.Details {
		content := d.Content
		if d.Obfuscated {
			content = strings.Repeat("*", 8)
		}
		fmt.Fprintf(a.out, "  %s: %s\n", d.Name, content)
	}
	return nil
}

func (a *App) cmdAdd(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Entry name", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}

	entry := models.Entry{Record: models.NewEntryRecord(name, description)}
	for {
		detailName, err := GetSimpleText(a.reader, "Detail name (empty to finish)", a.out)
		if err != nil || detailName == "" {
			break
		}
		content, err := GetSimpleText(a.reader, "Content", a.out)
		if err != nil {
			return err
		}
		kind := models.DetailTypeText
		if strings.EqualFold(detailName, "password") {
			kind = models.DetailTypePassword
			if passed, total := a.vault.Quality.Score(content); passed < total {
				fmt.Fprintf(a.out, "warning: password passes %d of %d quality gates\n", passed, total)
			}
		}
		entry.Details = append(entry.Details, models.NewEntryDetail(entry.Record.UUID, detailName, content, kind))
	}

	a.vault.Store.Add(entry)
	if err := a.vault.Persist(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s\n", entry.Record.UUID)
	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	if !a.vault.Store.Remove(args[0]) {
		return fmt.Errorf("entry %s not found", args[0])
	}
	return a.vault.Persist(ctx)
}

func (a *App) cmdTags() error {
	for _, tag := range a.vault.Tags.All() {
		fmt.Fprintf(a.out, "%s  %s\n", tag.UUID, tag.Name)
	}
	return nil
}

func (a *App) cmdBackup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default: timestamped file in the backup dir)")
	encrypt := fs.Bool("encrypt", false, "encrypt the backup with a seed")
	withSettings := fs.Bool("settings", false, "include app settings")
	withGates := fs.Bool("gates", false, "include password quality gates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := backup.WriteConfig{
		AppVersion:          a.version,
		IncludeSettings:     *withSettings,
		IncludeQualityGates: *withGates,
	}
	if !*encrypt {
		// the stored preference can still turn encryption on
		*encrypt = a.vault.Settings.GetDefault(settings.KeyBackupEncrypt, "false") == "true"
	}
	if *encrypt {
		seed, err := GetSeed("Backup password", a.out)
		if err != nil {
			return err
		}
		if seed == "" {
			return fmt.Errorf("empty backup password")
		}
		cfg.Seed = seed
	}

	path := *out
	if path == "" {
		dir, err := filex.EnsureDir(a.config.BackupDir)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, fmt.Sprintf("passvault-%s.xml", time.Now().Format("20060102-150405")))
	}

	err := a.runner.Do(ctx, "backup", func(ctx context.Context) error {
		return a.writer.WriteFile(ctx, a.stores(), cfg, path)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "backup written to %s\n", path)
	return nil
}

func (a *App) cmdRestore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	policyName := fs.String("policy", "skip", "conflict policy: replace, overwrite or skip")
	withSettings := fs.Bool("settings", false, "restore app settings")
	withGates := fs.Bool("gates", false, "restore password quality gates")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: restore [flags] <file>")
	}

	policy, err := parsePolicy(*policyName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	b, err := backup.Open(data, a.log)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "backup from %s (app %s, format v%s)\n",
		b.Created().Format(time.DateTime), b.AppVersion(), b.Version())

	cfg := backup.RestoreConfig{
		Policy:              policy,
		RestoreSettings:     *withSettings,
		RestoreQualityGates: *withGates,
	}
	if b.Encrypted() {
		seed, err := GetSeed("Backup password", a.out)
		if err != nil {
			return err
		}
		if !b.VerifySeed(seed) {
			return fmt.Errorf("wrong backup password")
		}
		cfg.Seed = seed
	}

	var summary *backup.Summary
	err = a.runner.Do(ctx, "restore", func(ctx context.Context) error {
		var err error
		summary, err = b.Restore(ctx, a.stores(), cfg)
		return err
	})
	if err != nil {
		return err
	}
	if err := a.vault.Persist(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "restored %d entries (%d details, %d tags)\n",
		summary.EntriesRestored, summary.DetailsRestored, summary.TagsMerged)
	if summary.EntriesSkipped > 0 {
		fmt.Fprintf(a.out, "skipped %d existing entries\n", summary.EntriesSkipped)
	}
	if summary.CorruptRows > 0 {
		fmt.Fprintf(a.out, "dropped %d corrupt rows\n", summary.CorruptRows)
	}
	if summary.OrphanedDetails > 0 {
		fmt.Fprintf(a.out, "dropped %d details without a matching entry\n", summary.OrphanedDetails)
	}
	return nil
}

func parsePolicy(name string) (backup.RestorePolicy, error) {
	switch strings.ToLower(name) {
	case "replace":
		return backup.PolicyReplaceAll, nil
	case "overwrite":
		return backup.PolicyOverwriteExisting, nil
	case "skip":
		return backup.PolicySkipExisting, nil
	}
	return 0, fmt.Errorf("unknown policy %q", name)
}
