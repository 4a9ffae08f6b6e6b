// Package notify implements the hybrid notification message format and
// its render-side resolution.
//
// A notification message is either a structured JSON payload holding a
// translation key plus named interpolation params, or legacy free text
// written before the structured format existed. Decoding is total: any
// input that is not a well-formed structured payload is passed through
// unchanged as legacy text, so historical rows never become unreadable.
package notify

import (
	"encoding/json"
	"strings"
)

// MessageKind tags the two wire formats of a notification message
type MessageKind string

const (
	// KindStructured is the JSON {key, params} format
	KindStructured MessageKind = "structured"
	// KindLegacy is pre-existing free text, passed through verbatim
	KindLegacy MessageKind = "legacy"
)

// payload is the stored JSON shape of a structured message
type payload struct {
	Key    string            `json:"key"`
	Params map[string]string `json:"params,omitempty"`
}

// DecodedMessage is the tagged union produced by Decode. Key and Params
// are set for structured messages, Text for legacy ones.
type DecodedMessage struct {
	Kind   MessageKind
	Key    string
	Params map[string]string
	Text   string
}

// Encode serializes a translation key and its interpolation params into
// the structured message format.
func Encode(key string, params map[string]string) string {
	data, err := json.Marshal(payload{Key: key, Params: params})
	if err != nil {
		// Marshalling a string map cannot fail; fall back to the bare
		// key so the message stays renderable regardless.
		return key
	}
	return string(data)
}

// Decode parses a stored message into its tagged form. It never fails:
// input that does not start with '{', does not parse as JSON, or parses
// without a non-empty key is returned unchanged as a legacy message.
func Decode(raw string) DecodedMessage {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return DecodedMessage{Kind: KindLegacy, Text: raw}
	}

	var p payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil || p.Key == "" {
		return DecodedMessage{Kind: KindLegacy, Text: raw}
	}

	if p.Params == nil {
		p.Params = map[string]string{}
	}
	return DecodedMessage{Kind: KindStructured, Key: p.Key, Params: p.Params}
}
