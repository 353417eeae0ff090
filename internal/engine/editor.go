package engine

import (
	"errors"
	"fmt"
	"strings"

	"schemer/internal/domain"
)

// EditKind distinguishes the two entity editors.
type EditKind int

const (
	// EditEntity edits the title and every field as text.
	EditEntity EditKind = iota
	// EditField edits one field line.
	EditField
)

// ErrNoEdit is returned when applying with no editor open.
var ErrNoEdit = errors.New("no edit in progress")

// PendingEdit is an open editor request. UIs render it however they like and
// answer with ApplyEdit or CloseEditor.
type PendingEdit struct {
	Kind       EditKind
	NodeID     int
	FieldIndex int    // EditField only
	Title      string // initial title
	Text       string // initial fields text, or the single field line
	Err        error  // last rejected submission
}

// OpenEntityEditor starts editing the title and fields of an entity.
func (e *Engine) OpenEntityEditor(id int) *PendingEdit {
	n, ok := e.Store.Node(id)
	if !ok {
		return nil
	}
	e.State.Edit = &PendingEdit{
		Kind:   EditEntity,
		NodeID: id,
		Title:  n.Title,
		Text:   domain.FormatFields(n.Fields),
	}
	return e.State.Edit
}

// OpenFieldEditor starts editing one field of an entity.
func (e *Engine) OpenFieldEditor(id, index int) *PendingEdit {
	n, ok := e.Store.Node(id)
	if !ok || index < 0 || index >= len(n.Fields) {
		return nil
	}
	e.State.Edit = &PendingEdit{
		Kind:       EditField,
		NodeID:     id,
		FieldIndex: index,
		Title:      n.Title,
		Text:       domain.FormatField(n.Fields[index]),
	}
	return e.State.Edit
}

// CloseEditor discards the pending edit.
func (e *Engine) CloseEditor() {
	e.State.Edit = nil
}

// ApplyEdit submits the pending edit. For EditEntity, title replaces the
// title when non-blank and text is parsed as the full field list; nothing is
// applied if any line fails. For EditField, text is one field line; a blank
// line leaves the field unchanged. On error the editor stays open with Err
// set and the submitted text in place.
func (e *Engine) ApplyEdit(title, text string) error {
	pe := e.State.Edit
	if pe == nil {
		return ErrNoEdit
	}

	var err error
	switch pe.Kind {
	case EditEntity:
		err = e.applyEntity(pe.NodeID, title, text)
	case EditField:
		err = e.applyField(pe.NodeID, pe.FieldIndex, text)
	default:
		err = fmt.Errorf("unknown edit kind %d", pe.Kind)
	}
	if err != nil {
		// Keep what was submitted so the editor reopens on it.
		if pe.Kind == EditEntity {
			pe.Title = title
		}
		pe.Text = text
		pe.Err = err
		return err
	}
	e.CloseEditor()
	return nil
}

func (e *Engine) applyEntity(id int, title, text string) error {
	fields, err := domain.ParseFields(text)
	if err != nil {
		return err
	}
	if t := strings.TrimSpace(title); t != "" {
		if err := e.Store.RenameNode(id, t); err != nil {
			return err
		}
	}
	return e.Store.ReplaceFields(id, fields)
}

func (e *Engine) applyField(id, index int, text string) error {
	line := strings.TrimSpace(text)
	if line == "" {
		return nil
	}
	f, ok := domain.ParseFieldLine(line)
	if !ok {
		return &domain.FieldsError{Lines: []domain.LineError{{Line: 1, Text: text}}}
	}
	return e.Store.SetField(id, index, f)
}
