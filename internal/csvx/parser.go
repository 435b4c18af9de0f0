package csvx

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// decodeField reads one field starting at position i. It returns the field
// value and the position of the character following it (either the end of
// the line or a column divider).
func decodeField(line string, i int) (string, int, error) {
	if i >= len(line) {
		return "", i, nil
	}
	if line[i] == StringSeparator {
		return decodeQuotedField(line, i+1)
	}
	end := strings.IndexByte(line[i:], ColumnDivider)
	if end < 0 {
		return line[i:], len(line), nil
	}
	return line[i : i+end], i + end, nil
}

func decodeQuotedField(line string, i int) (string, int, error) {
	var b strings.Builder
	for i < len(line) {
		switch c := line[i]; c {
		case StringSeparator:
			// Closing separator: the field must end here.
			i++
			if i < len(line) && line[i] != ColumnDivider {
				return "", 0, fmt.Errorf("%w: content after closing separator at %d", common.ErrFormat, i)
			}
			return b.String(), i, nil
		case EscapeCharacter:
			i++
			if i >= len(line) {
				return "", 0, fmt.Errorf("%w: unbalanced escape at end of record", common.ErrFormat)
			}
			switch e := line[i]; e {
			case StringSeparator, EscapeCharacter:
				b.WriteByte(e)
			case 'n':
				b.WriteByte(RowDivider)
			case 'r':
				b.WriteByte('\r')
			default:
				return "", 0, fmt.Errorf("%w: invalid escape sequence %q", common.ErrFormat, string([]byte{EscapeCharacter, e}))
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated field", common.ErrFormat)
}

// SplitRows splits a multi-row blob into its record lines, skipping empty
// ones. When trim is set, surrounding whitespace is removed from each row
// first; legacy backups indent row blocks, so their rows carry leading
// whitespace that is not part of the record.
func SplitRows(blob string, trim bool) []string {
	raw := strings.Split(blob, string(RowDivider))
	rows := make([]string, 0, len(raw))
	for _, r := range raw {
		if trim {
			r = strings.TrimSpace(r)
		}
		if r == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

// JoinRows joins record lines with the row divider, without a trailing
// divider after the last row.
func JoinRows(rows []string) string {
	return strings.Join(rows, string(RowDivider))
}
