package models

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/csvx"
)

// Quality gate authors. Built-in gates ship with the application and are
// not editable; user gates can be changed and removed freely.
const (
	QualityGateAuthorSystem = "system"
	QualityGateAuthorUser   = "user"
)

// QualityGate is a password rule expressed as a regular expression. A
// password passes the gate when it matches the pattern.
type QualityGate struct {
	Regex       string
	Description string
	Enabled     bool
	Author      string
}

// NewQualityGate creates an enabled user-authored gate.
func NewQualityGate(regex, description string) QualityGate {
	return QualityGate{
		Regex:       regex,
		Description: description,
		Enabled:     true,
		Author:      QualityGateAuthorUser,
	}
}

// Editable reports whether the gate may be modified or removed.
func (g QualityGate) Editable() bool {
	return g.Author != QualityGateAuthorSystem
}

// Matches reports whether the password passes the gate. A gate with an
// invalid pattern never matches.
func (g QualityGate) Matches(password string) bool {
	re, err := regexp.Compile(g.Regex)
	if err != nil {
		return false
	}
	return re.MatchString(password)
}

// ToStorable serializes the gate. Column order: regex, description,
// enabled, author.
func (g QualityGate) ToStorable() string {
	var b csvx.Builder
	b.Append(g.Regex)
	b.Append(g.Description)
	b.AppendBool(g.Enabled)
	b.Append(g.Author)
	return b.String()
}

// FromStorable parses a gate produced by ToStorable. Rows missing trailing
// columns keep zero values; an empty pattern is corrupt.
func (g *QualityGate) FromStorable(s string) error {
	cells, err := csvx.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	for i, cell := range cells {
		switch i {
		case 0:
			g.Regex = cell
		case 1:
			g.Description = cell
		case 2:
			g.Enabled = parseBool(cell)
		case 3:
			g.Author = cell
		}
	}
	if g.Regex == "" {
		return fmt.Errorf("%w: quality gate without pattern", common.ErrCorrupt)
	}
	return nil
}

// QualityGateColumns returns the column names for the quality gates block
// header attribute.
func QualityGateColumns() string {
	return csvx.Encode([]string{"Regex", "Description", "IsEnabled", "Author"})
}
