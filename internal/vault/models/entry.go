package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/google/uuid"
)

// EntryRecord is the lightweight, always-resident representation of one
// credential entry. Details are loaded separately; see Entry.
type EntryRecord struct {
	// UUID identifies the entry. It is immutable after creation and unique
	// across the store.
	UUID string

	// Name is the display name of the entry.
	Name string

	// Description is free-form text shown alongside the name.
	Description string

	// Visible controls whether the entry is listed in the UI.
	Visible bool

	// Created is the creation time of the entry.
	Created time.Time

	// Changed is the time of the last modification.
	Changed time.Time

	// Tags holds the identifiers of the tags assigned to the entry.
	Tags []string

	// Packages holds the application/package names associated with the
	// entry (used by autofill matching).
	Packages []string

	// AddedAutomatically marks entries captured by the autofill flow rather
	// than created by the user.
	AddedAutomatically bool
}

// NewEntryRecord creates a visible entry with a fresh identifier and both
// timestamps set to now.
func NewEntryRecord(name string, description string) EntryRecord {
	now := time.Now()
	return EntryRecord{
		UUID:        uuid.NewString(),
		Name:        name,
		Description: description,
		Visible:     true,
		Created:     now,
		Changed:     now,
	}
}

// Touch updates the last-modified timestamp.
func (r *EntryRecord) Touch() {
	r.Changed = time.Now()
}

// Clone returns a deep copy of the record.
func (r EntryRecord) Clone() EntryRecord {
	c := r
	c.Tags = append([]string(nil), r.Tags...)
	c.Packages = append([]string(nil), r.Packages...)
	return c
}

// Matches reports whether the filter occurs in the entry name or
// description, ignoring case.
func (r EntryRecord) Matches(filter string) bool {
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(r.Name), f) ||
		strings.Contains(strings.ToLower(r.Description), f)
}

// ToStorable serializes the record. Column order: uuid, name, description,
// created millis, changed millis, visible, tags blob, packages blob,
// added automatically.
func (r EntryRecord) ToStorable() string {
	var b csvx.Builder
	b.Append(r.UUID)
	b.Append(r.Name)
	b.Append(r.Description)
	b.AppendInt(r.Created.UnixMilli())
	b.AppendInt(r.Changed.UnixMilli())
	b.AppendBool(r.Visible)
	b.Append(csvx.Encode(r.Tags))
	b.Append(csvx.Encode(r.Packages))
	b.AppendBool(r.AddedAutomatically)
	return b.String()
}

// FromStorable parses a record produced by ToStorable. Missing trailing
// columns leave defaults in place; unknown extra columns are ignored. A
// non-numeric timestamp, a malformed blob or an empty identifier yields
// common.ErrCorrupt.
func (r *EntryRecord) FromStorable(s string) error {
	cells, err := csvx.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	for i, cell := range cells {
		switch i {
		case 0:
			r.UUID = cell
		case 1:
			r.Name = cell
		case 2:
			r.Description = cell
		case 3:
			millis, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad created timestamp %q", common.ErrCorrupt, cell)
			}
			r.Created = time.UnixMilli(millis)
		case 4:
			millis, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad changed timestamp %q", common.ErrCorrupt, cell)
			}
			r.Changed = time.UnixMilli(millis)
		case 5:
			r.Visible = parseBool(cell)
		case 6:
			tags, err := csvx.Decode(cell)
			if err != nil {
				return fmt.Errorf("%w: bad tags blob", common.ErrCorrupt)
			}
			if len(tags) > 0 {
				r.Tags = tags
			}
		case 7:
			packages, err := csvx.Decode(cell)
			if err != nil {
				return fmt.Errorf("%w: bad packages blob", common.ErrCorrupt)
			}
			if len(packages) > 0 {
				r.Packages = packages
			}
		case 8:
			r.AddedAutomatically = parseBool(cell)
		}
	}
	if r.UUID == "" {
		return fmt.Errorf("%w: entry without identifier", common.ErrCorrupt)
	}
	return nil
}

// EntryColumns returns the human-readable column names written to the
// header attribute of the entries block.
func EntryColumns() string {
	return csvx.Encode([]string{
		"UUID", "Name", "Description", "Created", "Edited", "IsVisible",
		"Tags", "Packages", "AddedAutomatically",
	})
}

// Entry is a fully loaded entry: its index record plus its ordered details.
// "Loaded" is a state, not a separate type; the store materializes an Entry
// on demand from the record and the persisted detail set.
type Entry struct {
	Record  EntryRecord
	Details []EntryDetail
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := Entry{Record: e.Record.Clone()}
	c.Details = make([]EntryDetail, len(e.Details))
	copy(c.Details, e.Details)
	return c
}
