// Package vault wires the local database to the stores and repositories
// built on top of it.
package vault

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault/migrations"
	"github.com/dmitrijs2005/passvault/internal/vault/quality"
	"github.com/dmitrijs2005/passvault/internal/vault/settings"
	"github.com/dmitrijs2005/passvault/internal/vault/store"
	"github.com/dmitrijs2005/passvault/internal/vault/tags"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Repositories bundles everything backed by one database connection.
type Repositories struct {
	DB       *sql.DB
	Entries  *store.SQLiteDelegate
	Tags     *tags.SQLiteRepository
	Settings *settings.SQLiteRepository
	Quality  *quality.SQLiteRepository
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the database at dsn, migrates it and returns the
// repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Repositories{
		DB:       db,
		Entries:  store.NewSQLiteDelegate(db),
		Tags:     tags.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		Quality:  quality.NewSQLiteRepository(db),
	}, nil
}

// Vault is the fully wired live state of the application: the entry store
// plus the side registries that travel with backups.
type Vault struct {
	Store    *store.Store
	Tags     *tags.Manager
	Settings *settings.Store
	Quality  *quality.Manager

	repos *Repositories
}

// Open initializes the database and loads every store from it.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Vault, error) {
	repos, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}

	v := &Vault{
		Store:    store.New(repos.Entries, log),
		Tags:     tags.NewManager(),
		Settings: settings.NewStore(),
		Quality:  quality.NewManager(),
		repos:    repos,
	}

	if err := v.Store.Load(ctx); err != nil {
		repos.DB.Close()
		return nil, err
	}

	allTags, err := repos.Tags.GetAll(ctx)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}
	v.Tags.ReplaceAll(allTags)

	allSettings, err := repos.Settings.GetAll(ctx)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}
	for k, val := range allSettings {
		v.Settings.Set(k, val)
	}

	gates, err := repos.Quality.GetAll(ctx)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}
	if len(gates) > 0 {
		v.Quality.ReplaceAll(gates)
	}

	return v, nil
}

// Persist flushes every store back to the database.
func (v *Vault) Persist(ctx context.Context) error {
	if err := v.Store.Persist(ctx); err != nil {
		return err
	}
	if err := v.repos.Tags.ReplaceAll(ctx, v.Tags.All()); err != nil {
		return err
	}
	if err := v.repos.Settings.SaveAll(ctx, v.Settings.All()); err != nil {
		return err
	}
	return v.repos.Quality.ReplaceAll(ctx, v.Quality.All())
}

// RemoveTag deletes a tag and strips its references from every entry.
func (v *Vault) RemoveTag(id string) (stripped int, existed bool) {
	existed = v.Tags.Remove(id)
	if !existed {
		return 0, false
	}
	return v.Store.StripTag(id), true
}

// Close releases the database connection.
func (v *Vault) Close() error {
	return v.repos.DB.Close()
}
