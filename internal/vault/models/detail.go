package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/google/uuid"
)

// DetailType classifies the content of a detail. The numeric values are
// persistent ids written to storage and backups; they must never change.
type DetailType int8

const (
	DetailTypeUndefined        DetailType = -1
	DetailTypeText             DetailType = 0
	DetailTypeNumber           DetailType = 1
	DetailTypeSecurityQuestion DetailType = 2
	DetailTypeAddress          DetailType = 3
	DetailTypeDate             DetailType = 4
	DetailTypeEmail            DetailType = 5
	DetailTypePassword         DetailType = 6
	DetailTypeURL              DetailType = 7
	DetailTypePin              DetailType = 8
)

// DetailTypeFromID maps a persistent id back to its type. Unknown ids map
// to DetailTypeUndefined so rows written by newer versions stay readable.
func DetailTypeFromID(id int64) DetailType {
	if id >= int64(DetailTypeText) && id <= int64(DetailTypePin) {
		return DetailType(id)
	}
	return DetailTypeUndefined
}

// ShouldObfuscate reports whether content of this type is masked by default.
func (t DetailType) ShouldObfuscate() bool {
	return t == DetailTypePassword || t == DetailTypePin
}

func (t DetailType) String() string {
	switch t {
	case DetailTypeText:
		return "text"
	case DetailTypeNumber:
		return "number"
	case DetailTypeSecurityQuestion:
		return "security_question"
	case DetailTypeAddress:
		return "address"
	case DetailTypeDate:
		return "date"
	case DetailTypeEmail:
		return "email"
	case DetailTypePassword:
		return "password"
	case DetailTypeURL:
		return "url"
	case DetailTypePin:
		return "pin"
	}
	return "undefined"
}

// EntryDetail is one named field belonging to an entry. The EntryUUID is a
// back-reference, not ownership: details are serialized independently and
// re-associated with their entries by identifier on restore. Details are
// ordered within an entry and that order is significant.
type EntryDetail struct {
	UUID       string
	EntryUUID  string
	Name       string
	Content    string
	Type       DetailType
	Visible    bool
	Obfuscated bool
	Created    time.Time
	Changed    time.Time
}

// NewEntryDetail creates a detail for the given entry with a fresh
// identifier. Password-like types start obfuscated.
func NewEntryDetail(entryUUID string, name string, content string, t DetailType) EntryDetail {
	now := time.Now()
	return EntryDetail{
		UUID:       uuid.NewString(),
		EntryUUID:  entryUUID,
		Name:       name,
		Content:    content,
		Type:       t,
		Visible:    true,
		Obfuscated: t.ShouldObfuscate(),
		Created:    now,
		Changed:    now,
	}
}

// Touch updates the last-modified timestamp.
func (d *EntryDetail) Touch() {
	d.Changed = time.Now()
}

// ToStorable serializes the detail. Column order: uuid, entry uuid, name,
// content, created millis, changed millis, type id, visible, obfuscated.
func (d EntryDetail) ToStorable() string {
	var b csvx.Builder
	b.Append(d.UUID)
	b.Append(d.EntryUUID)
	b.Append(d.Name)
	b.Append(d.Content)
	b.AppendInt(d.Created.UnixMilli())
	b.AppendInt(d.Changed.UnixMilli())
	b.AppendInt(int64(d.Type))
	b.AppendBool(d.Visible)
	b.AppendBool(d.Obfuscated)
	return b.String()
}

// FromStorable parses a detail produced by ToStorable, with the same
// defensive column handling as EntryRecord.FromStorable.
func (d *EntryDetail) FromStorable(s string) error {
	cells, err := csvx.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	for i, cell := range cells {
		switch i {
		case 0:
			d.UUID = cell
		case 1:
			d.EntryUUID = cell
		case 2:
			d.Name = cell
		case 3:
			d.Content = cell
		case 4:
			millis, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad created timestamp %q", common.ErrCorrupt, cell)
			}
			d.Created = time.UnixMilli(millis)
		case 5:
			millis, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad changed timestamp %q", common.ErrCorrupt, cell)
			}
			d.Changed = time.UnixMilli(millis)
		case 6:
			id, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad detail type %q", common.ErrCorrupt, cell)
			}
			d.Type = DetailTypeFromID(id)
		case 7:
			d.Visible = parseBool(cell)
		case 8:
			d.Obfuscated = parseBool(cell)
		}
	}
	if d.UUID == "" {
		return fmt.Errorf("%w: detail without identifier", common.ErrCorrupt)
	}
	return nil
}

// DetailColumns returns the human-readable column names written to the
// header attribute of the details block.
func DetailColumns() string {
	return csvx.Encode([]string{
		"UUID", "EntryUUID", "Name", "Content", "Created", "Edited",
		"TypeID", "IsVisible", "IsObfuscated",
	})
}
