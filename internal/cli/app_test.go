package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/backup"
	"github.com/dmitrijs2005/passvault/internal/config"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp builds an app over an in-memory database with scripted input
// and captured output.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "vault.db")
	cfg.BackupDir = t.TempDir()

	app, err := NewApp(context.Background(), cfg, "test", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	out := &bytes.Buffer{}
	app.out = out
	app.reader = bufio.NewReader(strings.NewReader(input))
	return app, out
}

func TestApp_AddListShowDelete(t *testing.T) {
	input := "GitHub\nWork account\nUser\nalice\nPassword\nAa1!longenough\n\n"
	app, out := newTestApp(t, input)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"add"}))
	assert.Contains(t, out.String(), "added ")
	assert.Equal(t, 1, app.vault.Store.Len())

	id := app.vault.Store.List()[0].UUID

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "GitHub")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"show", id}))
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "********", "passwords are masked")
	assert.NotContains(t, out.String(), "Aa1!longenough")

	require.NoError(t, app.Run(ctx, []string{"delete", id}))
	assert.Zero(t, app.vault.Store.Len())

	err := app.Run(ctx, []string{"delete", id})
	assert.Error(t, err)
}

func TestApp_AddWarnsOnWeakPassword(t *testing.T) {
	input := "Mail\n\nPassword\nweak\n\n"
	app, out := newTestApp(t, input)

	require.NoError(t, app.Run(context.Background(), []string{"add"}))
	assert.Contains(t, out.String(), "quality gates")
}

func TestApp_BackupRestoreRoundTrip(t *testing.T) {
	app, out := newTestApp(t, "")
	ctx := context.Background()

	e := models.Entry{Record: models.NewEntryRecord("GitHub", "Work")}
	e.Details = append(e.Details, models.NewEntryDetail(e.Record.UUID, "User", "alice", models.DetailTypeText))
	app.vault.Store.Add(e)
	require.NoError(t, app.vault.Persist(ctx))

	path := filepath.Join(t.TempDir(), "backup.xml")
	require.NoError(t, app.Run(ctx, []string{"backup", "-o", path}))
	assert.Contains(t, out.String(), path)

	// restore into a fresh vault
	app2, out2 := newTestApp(t, "")
	require.NoError(t, app2.Run(ctx, []string{"restore", "-policy", "replace", path}))
	assert.Contains(t, out2.String(), "restored 1 entries")

	got, err := app2.vault.Store.Get(ctx, e.Record.UUID, true)
	require.NoError(t, err)
	assert.Equal(t, "GitHub", got.Record.Name)
	require.Len(t, got.Details, 1)
	assert.Equal(t, "alice", got.Details[0].Content)
}

func TestApp_RestoreSkipPolicyKeepsExisting(t *testing.T) {
	app, _ := newTestApp(t, "")
	ctx := context.Background()

	e := models.Entry{Record: models.NewEntryRecord("Original", "")}
	app.vault.Store.Add(e)
	require.NoError(t, app.vault.Persist(ctx))

	path := filepath.Join(t.TempDir(), "backup.xml")
	require.NoError(t, app.Run(ctx, []string{"backup", "-o", path}))

	renamed := e.Clone()
	renamed.Record.Name = "Renamed"
	app.vault.Store.Replace(renamed)
	require.NoError(t, app.vault.Persist(ctx))

	require.NoError(t, app.Run(ctx, []string{"restore", "-policy", "skip", path}))
	got, err := app.vault.Store.Get(ctx, e.Record.UUID, true)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Record.Name)
}

func TestApp_EncryptedBackupPrompt(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("pw1"), nil }

	app, _ := newTestApp(t, "")
	ctx := context.Background()

	e := models.Entry{Record: models.NewEntryRecord("Secret", "")}
	app.vault.Store.Add(e)
	require.NoError(t, app.vault.Persist(ctx))

	path := filepath.Join(t.TempDir(), "backup.xml")
	require.NoError(t, app.Run(ctx, []string{"backup", "-encrypt", "-o", path}))

	app2, _ := newTestApp(t, "")
	require.NoError(t, app2.Run(ctx, []string{"restore", "-policy", "replace", path}))
	assert.True(t, app2.vault.Store.Contains(e.Record.UUID))

	// wrong password is refused before any restore work
	readPassword = func(int) ([]byte, error) { return []byte("pw2"), nil }
	app3, _ := newTestApp(t, "")
	err := app3.Run(ctx, []string{"restore", "-policy", "replace", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong backup password")
	assert.Zero(t, app3.vault.Store.Len())
}

func TestApp_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, "")
	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    backup.RestorePolicy
		wantErr bool
	}{
		{"replace", backup.PolicyReplaceAll, false},
		{"overwrite", backup.PolicyOverwriteExisting, false},
		{"skip", backup.PolicySkipExisting, false},
		{"SKIP", backup.PolicySkipExisting, false},
		{"merge", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePolicy(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  hello world  \n"))
	got, err := GetSimpleText(r, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSeed_UsesStub(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	var out bytes.Buffer
	got, err := GetSeed("Backup password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
	assert.Contains(t, out.String(), "Backup password")
}
