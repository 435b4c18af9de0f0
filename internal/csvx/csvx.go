// Package csvx implements the delimited-record format used by PassVault for
// persistent storage and backups. One record is a single line of
// comma-separated, escaped field values. The format is fully reversible:
// Decode(Encode(fields)) returns the original fields for any input,
// including empty strings and strings containing the delimiter, the row
// divider, a carriage return or the escape character.
package csvx

const (
	// ColumnDivider separates fields within a record.
	ColumnDivider = ','

	// RowDivider separates records within a multi-row blob.
	RowDivider = '\n'

	// StringSeparator wraps fields that contain special characters.
	StringSeparator = '"'

	// EscapeCharacter introduces an escape sequence inside a wrapped field.
	EscapeCharacter = '\\'
)

// Encode serializes fields into one record line. Fields containing the
// column divider, the row divider, the string separator or the escape
// character are wrapped in string separators and escaped. Empty fields are
// always wrapped, so a record of one empty field stays distinguishable from
// an empty record.
func Encode(fields []string) string {
	var b []byte
	for i, f := range fields {
		if i > 0 {
			b = append(b, ColumnDivider)
		}
		b = appendField(b, f)
	}
	return string(b)
}

func appendField(b []byte, f string) []byte {
	if f != "" && !needsQuoting(f) {
		return append(b, f...)
	}
	b = append(b, StringSeparator)
	for i := 0; i < len(f); i++ {
		switch c := f[i]; c {
		case StringSeparator, EscapeCharacter:
			b = append(b, EscapeCharacter, c)
		case RowDivider:
			b = append(b, EscapeCharacter, 'n')
		case '\r':
			// bare CR would be folded into the row divider by XML parsers
			b = append(b, EscapeCharacter, 'r')
		default:
			b = append(b, c)
		}
	}
	return append(b, StringSeparator)
}

func needsQuoting(f string) bool {
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case ColumnDivider, RowDivider, StringSeparator, EscapeCharacter, '\r':
			return true
		}
	}
	return false
}

// Decode parses one record line into its field values. An unterminated
// wrapped field or an invalid escape sequence yields common.ErrFormat. A
// record with an unexpected number of fields is not an error here; callers
// deal with missing or extra columns themselves.
func Decode(line string) ([]string, error) {
	if line == "" {
		return []string{}, nil
	}
	fields := make([]string, 0, 8)
	i := 0
	for {
		field, next, err := decodeField(line, i)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if next >= len(line) {
			return fields, nil
		}
		i = next + 1 // skip the column divider
	}
}
