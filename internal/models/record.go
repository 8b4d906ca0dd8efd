package models

import (
	"encoding/json"
	"fmt"
)

// SermonType is the discriminant value that selects a Sermon record.
const SermonType = "SON"

// Record is one search hit. It is implemented only by *Sermon and *Page.
type Record interface {
	// RecordType returns the wire discriminant.
	RecordType() string
	sealed()
}

// Sermon is a recorded sermon hit.
type Sermon struct {
	Title         string `json:"title"`
	Speaker       string `json:"speaker"`
	Scripture     string `json:"scripture"`
	Congregation  string `json:"congregation"`
	Date          string `json:"date"`
	RecordingLink string `json:"recordingLink"`
}

// RecordType implements Record.
func (*Sermon) RecordType() string { return SermonType }
func (*Sermon) sealed()            {}

// MarshalJSON writes the sermon with its discriminant.
func (s *Sermon) MarshalJSON() ([]byte, error) {
	type plain Sermon
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{SermonType, (*plain)(s)})
}

// Page is a hit on any other site page. Type carries whatever tag the index
// returned; it doubles as the source hostname when TopicName is empty.
type Page struct {
	Type      string
	TopicName string
	Title     string
	Date      string
	Link      string
	// Snippet is backend-highlighted HTML.
	Snippet string
}

// RecordType implements Record.
func (p *Page) RecordType() string { return p.Type }
func (*Page) sealed()              {}

type highlightValue struct {
	Value string `json:"value"`
}

type pageWire struct {
	Type            string `json:"type"`
	TopicName       string `json:"topicName,omitempty"`
	Title           string `json:"title"`
	Date            string `json:"date,omitempty"`
	Link            string `json:"link"`
	HighlightResult struct {
		Content *highlightValue `json:"content,omitempty"`
	} `json:"_highlightResult"`
}

// MarshalJSON writes the page in the index wire shape.
func (p *Page) MarshalJSON() ([]byte, error) {
	w := pageWire{
		Type:      p.Type,
		TopicName: p.TopicName,
		Title:     p.Title,
		Date:      p.Date,
		Link:      p.Link,
	}
	if p.Snippet != "" {
		w.HighlightResult.Content = &highlightValue{Value: p.Snippet}
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the page from the index wire shape.
func (p *Page) UnmarshalJSON(data []byte) error {
	var w pageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Page{
		Type:      w.Type,
		TopicName: w.TopicName,
		Title:     w.Title,
		Date:      w.Date,
		Link:      w.Link,
	}
	if w.HighlightResult.Content != nil {
		p.Snippet = w.HighlightResult.Content.Value
	}
	return nil
}

// DecodeRecord decodes one wire record, dispatching on its "type" field.
// Unknown or missing types decode as *Page.
func DecodeRecord(data []byte) (Record, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to read record type: %w", err)
	}

	if probe.Type == SermonType {
		var s Sermon
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode sermon: %w", err)
		}
		return &s, nil
	}

	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &p, nil
}

// ResultSet is an ordered list of hits, replaced wholesale per query.
type ResultSet []Record

// UnmarshalJSON decodes a JSON array of wire records.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ResultSet, 0, len(raw))
	for i, item := range raw {
		rec, err := DecodeRecord(item)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	*rs = out
	return nil
}

// MarshalJSON writes an empty set as [] rather than null.
func (rs ResultSet) MarshalJSON() ([]byte, error) {
	if rs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Record(rs))
}
