// Package settings defines the persisted plugin settings: the ordered list
// of note shortcuts plus any other top-level keys found in the stored
// document.
//
// Decoding is a shallow merge over Default: top-level keys present in the
// stored document replace the default value wholesale, absent keys keep the
// default, and unknown keys are carried through to Encode untouched.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// KeySpecificNotes is the top-level key holding the shortcut list.
const KeySpecificNotes = "specificNotes"

// Shortcut field keys as they appear in the stored document.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldFilePath = "filePath"
)

// ErrMalformed indicates the stored settings do not have the expected shape.
var ErrMalformed = errors.New("malformed settings")

// Shortcut maps a command to a vault-relative file to open.
type Shortcut struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FilePath string `json:"filePath"`
}

// Active reports whether the shortcut can be registered as a command.
// Shortcuts with an empty ID or FilePath stay editable but inert.
func (s Shortcut) Active() bool {
	return s.ID != "" && s.FilePath != ""
}

// Get returns the value of the named field.
func (s Shortcut) Get(field string) (string, bool) {
	switch field {
	case FieldID:
		return s.ID, true
	case FieldName:
		return s.Name, true
	case FieldFilePath:
		return s.FilePath, true
	}
	return "", false
}

// Set assigns the named field. It reports false for unknown fields.
func (s *Shortcut) Set(field, value string) bool {
	switch field {
	case FieldID:
		s.ID = value
	case FieldName:
		s.Name = value
	case FieldFilePath:
		s.FilePath = value
	default:
		return false
	}
	return true
}

// Settings is the plugin configuration.
type Settings struct {
	// SpecificNotes is never nil after Default or Decode.
	SpecificNotes []Shortcut

	// doc is the stored document the settings were decoded from.
	doc []byte
}

// Default returns the built-in settings used when nothing is stored.
func Default() *Settings {
	return &Settings{
		SpecificNotes: []Shortcut{
			{
				ID:       "open-todos",
				Name:     "Open My Todos",
				FilePath: "🌿 Projects/My Todos.md",
			},
		},
	}
}

// Decode merges a stored document over Default.
// Nil, blank or JSON null input yields the defaults.
func Decode(raw []byte) (*Settings, error) {
	s := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(raw)
	if root.Type == gjson.Null {
		return s, nil
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrMalformed)
	}

	notes := root.Get(KeySpecificNotes)
	if notes.Exists() {
		list, err := decodeShortcuts(notes)
		if err != nil {
			return nil, err
		}
		s.SpecificNotes = list
	}

	s.doc = append([]byte(nil), raw...)
	return s, nil
}

func decodeShortcuts(notes gjson.Result) ([]Shortcut, error) {
	if !notes.IsArray() {
		return nil, fmt.Errorf("%w: %s must be an array, got %s", ErrMalformed, KeySpecificNotes, notes.Type)
	}

	elems := notes.Array()
	list := make([]Shortcut, 0, len(elems))
	for i, el := range elems {
		if !el.IsObject() {
			return nil, fmt.Errorf("%w: %s[%d] must be an object", ErrMalformed, KeySpecificNotes, i)
		}

		var sc Shortcut
		for _, field := range []string{FieldID, FieldName, FieldFilePath} {
			v := el.Get(field)
			if !v.Exists() {
				continue
			}
			if v.Type != gjson.String {
				return nil, fmt.Errorf("%w: %s[%d].%s must be a string", ErrMalformed, KeySpecificNotes, i, field)
			}
			sc.Set(field, v.String())
		}
		list = append(list, sc)
	}
	return list, nil
}

// Encode renders the settings as an indented JSON document.
// Top-level keys other than specificNotes are preserved from the decoded
// document.
func (s *Settings) Encode() ([]byte, error) {
	notes := s.SpecificNotes
	if notes == nil {
		notes = []Shortcut{}
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", KeySpecificNotes, err)
	}

	doc := []byte("{}")
	if len(s.doc) > 0 {
		doc = append([]byte(nil), s.doc...)
	}

	out, err := sjson.SetRawBytes(doc, KeySpecificNotes, raw)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return pretty.Pretty(out), nil
}

// Keys returns the top-level keys of the stored document, in document order.
// Settings that were never decoded from a document report only
// specificNotes.
func (s *Settings) Keys() []string {
	if len(s.doc) == 0 {
		return []string{KeySpecificNotes}
	}

	var keys []string
	gjson.ParseBytes(s.doc).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		SpecificNotes: make([]Shortcut, len(s.SpecificNotes)),
		doc:           append([]byte(nil), s.doc...),
	}
	copy(c.SpecificNotes, s.SpecificNotes)
	return c
}

// WithShortcuts returns a copy carrying the given shortcut list and the
// same retained document.
func (s *Settings) WithShortcuts(list []Shortcut) *Settings {
	c := s.Clone()
	c.SpecificNotes = make([]Shortcut, len(list))
	copy(c.SpecificNotes, list)
	return c
}
