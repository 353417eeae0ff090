package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// fieldPattern is the line grammar: name:type or name:type [meta].
var fieldPattern = regexp.MustCompile(`^(\w+)\s*:\s*([A-Za-z0-9_]+)(?:\s*\[(.+)\])?$`)

// LineError describes one line of field text that failed to parse.
type LineError struct {
	Line int // 1-based
	Text string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: invalid format -> %q", e.Line, e.Text)
}

// FieldsError collects every failing line of a field text.
type FieldsError struct {
	Lines []LineError
}

func (e *FieldsError) Error() string {
	msgs := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		msgs[i] = l.Error()
	}
	return strings.Join(msgs, "\n")
}

// ParseFieldLine parses a single `name:type [meta]` line.
func ParseFieldLine(line string) (Field, bool) {
	m := fieldPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Field{}, false
	}
	return Field{Name: m[1], Type: m[2], Meta: strings.TrimSpace(m[3])}, true
}

// ParseFields parses a multi-line field text. Blank lines are skipped. If any
// line fails, a *FieldsError naming all of them is returned and no fields are.
// An empty result is replaced by DefaultField.
func ParseFields(text string) ([]Field, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var fields []Field
	var errs []LineError
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f, ok := ParseFieldLine(line)
		if !ok {
			errs = append(errs, LineError{Line: i + 1, Text: line})
			continue
		}
		fields = append(fields, f)
	}

	if len(errs) > 0 {
		return nil, &FieldsError{Lines: errs}
	}
	if len(fields) == 0 {
		fields = []Field{DefaultField()}
	}
	return fields, nil
}

// FormatField renders f in the editable line grammar.
func FormatField(f Field) string {
	if f.Meta != "" {
		return fmt.Sprintf("%s:%s [%s]", f.Name, f.Type, f.Meta)
	}
	return f.Name + ":" + f.Type
}

// FormatFields renders fields one per line in the editable grammar.
func FormatFields(fields []Field) string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = FormatField(f)
	}
	return strings.Join(lines, "\n")
}

// Display renders f the way it appears inside an entity box.
func (f Field) Display() string {
	if f.Meta != "" {
		return fmt.Sprintf("%s: %s [%s]", f.Name, f.Type, f.Meta)
	}
	return f.Name + ": " + f.Type
}
