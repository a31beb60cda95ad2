package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is one record from the upstream messages API.
//
// The typed fields cover what the service itself needs (identity, searchable
// text, timestamp). Everything the upstream sent, including fields this service
// knows nothing about, is retained in fields and round-trips unchanged into
// search results.
type Message struct {
	ID        int64
	Message   string
	Timestamp string

	fields map[string]json.RawMessage
	order  []string
}

// UnmarshalJSON decodes a message while preserving unknown fields verbatim.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	idRaw, ok := raw["id"]
	if !ok {
		return fmt.Errorf("%w: message record missing id", ErrMalformedData)
	}
	if err := json.Unmarshal(idRaw, &m.ID); err != nil {
		return fmt.Errorf("%w: message id is not an integer: %v", ErrMalformedData, err)
	}

	textRaw, ok := raw["message"]
	if !ok {
		return fmt.Errorf("%w: message record %d missing message field", ErrMalformedData, m.ID)
	}
	if err := json.Unmarshal(textRaw, &m.Message); err != nil {
		return fmt.Errorf("%w: message field of record %d is not a string: %v", ErrMalformedData, m.ID, err)
	}

	if tsRaw, ok := raw["timestamp"]; ok {
		if err := json.Unmarshal(tsRaw, &m.Timestamp); err != nil {
			return fmt.Errorf("%w: timestamp of record %d is not a string: %v", ErrMalformedData, m.ID, err)
		}
	}

	m.fields = raw
	m.order = fieldOrder(data)
	return nil
}

// MarshalJSON re-emits the record exactly as received, in the original key order.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.fields == nil {
		// Constructed in code rather than decoded; emit the typed fields.
		return json.Marshal(map[string]interface{}{
			"id":        m.ID,
			"message":   m.Message,
			"timestamp": m.Timestamp,
		})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FieldValues returns the raw JSON value of every field of the record, used by
// the search scan so queries can match any field, not just the message text.
func (m *Message) FieldValues() []json.RawMessage {
	if m.fields == nil {
		text, _ := json.Marshal(m.Message)
		return []json.RawMessage{text}
	}
	vals := make([]json.RawMessage, 0, len(m.order))
	for _, k := range m.order {
		vals = append(vals, m.fields[k])
	}
	return vals
}

// fieldOrder extracts top-level object keys in document order. Decoding into a
// map would lose it, and results must echo records byte-stable across calls.
func fieldOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	var order []string

	// Opening brace; UnmarshalJSON already verified this is an object.
	if _, err := dec.Token(); err != nil {
		return nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		order = append(order, key)

		// Skip the value.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return order
}

// SearchPage is the response for one search request.
type SearchPage struct {
	Query      string    `json:"query"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Results    []Message `json:"results"`
}
