package models

import (
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/google/uuid"
)

// Tag is a user-defined label referenced by entries through its identifier.
type Tag struct {
	UUID string
	Name string
}

// NewTag creates a tag with a fresh identifier.
func NewTag(name string) Tag {
	return Tag{UUID: uuid.NewString(), Name: name}
}

// ToStorable serializes the tag. Column order: uuid, name.
func (t Tag) ToStorable() string {
	var b csvx.Builder
	b.Append(t.UUID)
	b.Append(t.Name)
	return b.String()
}

// FromStorable parses a tag produced by ToStorable. Tags are strict: a row
// without exactly two columns is corrupt.
func (t *Tag) FromStorable(s string) error {
	cells, err := csvx.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	if len(cells) != 2 {
		return fmt.Errorf("%w: tag row has %d columns", common.ErrCorrupt, len(cells))
	}
	if cells[0] == "" {
		return fmt.Errorf("%w: tag without identifier", common.ErrCorrupt)
	}
	t.UUID = cells[0]
	t.Name = cells[1]
	return nil
}

// TagColumns returns the column names for the tags block header attribute.
func TagColumns() string {
	return csvx.Encode([]string{"UUID", "Name"})
}
