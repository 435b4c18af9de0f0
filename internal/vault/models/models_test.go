package models

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRecord_RoundTrip(t *testing.T) {
	rec := NewEntryRecord("Email account", "Personal mailbox, \"main\" one")
	rec.Tags = []string{"private", "e-mail"}
	rec.Packages = []string{"com.example.mail"}
	rec.AddedAutomatically = true

	var got EntryRecord
	require.NoError(t, got.FromStorable(rec.ToStorable()))

	assert.Equal(t, rec.UUID, got.UUID)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Description, got.Description)
	assert.Equal(t, rec.Visible, got.Visible)
	assert.Equal(t, rec.Tags, got.Tags)
	assert.Equal(t, rec.Packages, got.Packages)
	assert.Equal(t, rec.AddedAutomatically, got.AddedAutomatically)
	assert.Equal(t, rec.Created.UnixMilli(), got.Created.UnixMilli())
	assert.Equal(t, rec.Changed.UnixMilli(), got.Changed.UnixMilli())
}

func TestEntryRecord_FromStorable_MissingTrailingColumns(t *testing.T) {
	// A row written by an older version may lack the trailing columns.
	var rec EntryRecord
	require.NoError(t, rec.FromStorable("id-1,Name,Description"))
	assert.Equal(t, "id-1", rec.UUID)
	assert.Equal(t, "Name", rec.Name)
	assert.Empty(t, rec.Tags)
	assert.False(t, rec.AddedAutomatically)
}

func TestEntryRecord_FromStorable_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"empty row", ""},
		{"missing uuid", ",Name,Description"},
		{"bad timestamp", "id-1,Name,Desc,not-a-number"},
		{"unterminated quote", "id-1,\"Name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec EntryRecord
			err := rec.FromStorable(tt.row)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrCorrupt)
		})
	}
}

func TestEntryRecord_Matches(t *testing.T) {
	rec := NewEntryRecord("GitHub", "Work account")
	assert.True(t, rec.Matches(""))
	assert.True(t, rec.Matches("git"))
	assert.True(t, rec.Matches("WORK"))
	assert.False(t, rec.Matches("bank"))
}

func TestEntryRecord_Touch(t *testing.T) {
	rec := NewEntryRecord("Name", "")
	rec.Changed = time.UnixMilli(0)
	rec.Touch()
	assert.True(t, rec.Changed.After(time.UnixMilli(0)))
}

func TestEntryDetail_RoundTrip(t *testing.T) {
	d := NewEntryDetail("entry-1", "Password", "s3cr3t,with\"chars\"", DetailTypePassword)
	assert.True(t, d.Obfuscated)

	var got EntryDetail
	require.NoError(t, got.FromStorable(d.ToStorable()))

	assert.Equal(t, d.UUID, got.UUID)
	assert.Equal(t, "entry-1", got.EntryUUID)
	assert.Equal(t, d.Name, got.Name)
	assert.Equal(t, d.Content, got.Content)
	assert.Equal(t, DetailTypePassword, got.Type)
	assert.True(t, got.Obfuscated)
	assert.Equal(t, d.Created.UnixMilli(), got.Created.UnixMilli())
}

func TestEntryDetail_FromStorable_Corrupt(t *testing.T) {
	var d EntryDetail
	err := d.FromStorable("id-1,entry-1,Name,Content,12345,abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorrupt)
}

func TestDetailType_FromID(t *testing.T) {
	assert.Equal(t, DetailTypePassword, DetailTypeFromID(6))
	assert.Equal(t, DetailTypeText, DetailTypeFromID(0))
	assert.Equal(t, DetailTypeUndefined, DetailTypeFromID(99))
	assert.Equal(t, DetailTypeUndefined, DetailTypeFromID(-1))
}

func TestDetailType_ShouldObfuscate(t *testing.T) {
	assert.True(t, DetailTypePassword.ShouldObfuscate())
	assert.True(t, DetailTypePin.ShouldObfuscate())
	assert.False(t, DetailTypeEmail.ShouldObfuscate())
	assert.False(t, DetailTypeUndefined.ShouldObfuscate())
}

func TestTag_RoundTrip(t *testing.T) {
	tag := NewTag("work, projects")
	var got Tag
	require.NoError(t, got.FromStorable(tag.ToStorable()))
	assert.Equal(t, tag, got)
}

func TestTag_FromStorable_Strict(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"one column", "only-uuid"},
		{"three columns", "id,name,extra"},
		{"missing uuid", ",name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tag Tag
			err := tag.FromStorable(tt.row)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrCorrupt)
		})
	}
}

func TestQualityGate_RoundTrip(t *testing.T) {
	g := QualityGate{
		Regex:       ".{10,}",
		Description: "At least 10 characters",
		Enabled:     true,
		Author:      QualityGateAuthorSystem,
	}
	var got QualityGate
	require.NoError(t, got.FromStorable(g.ToStorable()))
	assert.Equal(t, g, got)
	assert.False(t, got.Editable())
}

func TestQualityGate_Matches(t *testing.T) {
	g := NewQualityGate("[0-9]", "Contains a digit")
	assert.True(t, g.Matches("pass1word"))
	assert.False(t, g.Matches("password"))
	assert.True(t, g.Editable())

	broken := NewQualityGate("[unclosed", "Invalid pattern")
	assert.False(t, broken.Matches("anything"))
}

func TestQualityGate_FromStorable_EmptyPattern(t *testing.T) {
	var g QualityGate
	err := g.FromStorable(",description,true,user")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorrupt)
}

func TestEntry_Clone(t *testing.T) {
	e := Entry{Record: NewEntryRecord("Name", "Desc")}
	e.Record.Tags = []string{"a"}
	e.Details = append(e.Details, NewEntryDetail(e.Record.UUID, "User", "alice", DetailTypeText))

	c := e.Clone()
	c.Record.Name = "Changed"
	c.Record.Tags[0] = "b"
	c.Details[0].Content = "bob"

	assert.Equal(t, "Name", e.Record.Name)
	assert.Equal(t, "a", e.Record.Tags[0])
	assert.Equal(t, "alice", e.Details[0].Content)
}

func TestColumnHeaders(t *testing.T) {
	assert.True(t, strings.HasPrefix(EntryColumns(), "UUID,"))
	assert.True(t, strings.HasPrefix(DetailColumns(), "UUID,"))
	assert.Equal(t, "UUID,Name", TagColumns())
	assert.True(t, strings.HasPrefix(QualityGateColumns(), "Regex,"))
}
