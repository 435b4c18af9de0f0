package csvx

import (
	"strconv"
	"strings"
)

// Builder incrementally assembles delimited records. Values appended after
// the first are separated by the column divider; NewLine starts the next
// record of a multi-row blob.
type Builder struct {
	b          strings.Builder
	hasContent bool
}

// Append adds a string value to the current record, escaping it as needed.
func (b *Builder) Append(v string) *Builder {
	b.divide()
	buf := appendField(nil, v)
	b.b.Write(buf)
	return b
}

// AppendInt adds an integer value to the current record.
func (b *Builder) AppendInt(v int64) *Builder {
	b.divide()
	b.b.WriteString(strconv.FormatInt(v, 10))
	return b
}

// AppendBool adds a boolean value to the current record.
func (b *Builder) AppendBool(v bool) *Builder {
	b.divide()
	b.b.WriteString(strconv.FormatBool(v))
	return b
}

// NewLine terminates the current record with the row divider.
func (b *Builder) NewLine() *Builder {
	b.b.WriteByte(RowDivider)
	b.hasContent = false
	return b
}

// String returns the assembled record text.
func (b *Builder) String() string {
	return b.b.String()
}

func (b *Builder) divide() {
	if b.hasContent {
		b.b.WriteByte(ColumnDivider)
	}
	b.hasContent = true
}
