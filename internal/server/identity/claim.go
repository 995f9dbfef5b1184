// Package identity turns the identity provider's whoami answer into a
// client of the dataset.
//
// The answer comes in two shapes: a JSON object with an id-like field, or
// free text with the id embedded somewhere. Both are modelled as a Claim.
package identity

import (
	"encoding/json"
	"strings"
)

// Claim is either a StructuredClaim or a TextClaim.
type Claim interface {
	claim()
}

// StructuredClaim is a decoded JSON object.
type StructuredClaim struct {
	Fields map[string]any
}

// TextClaim is free text that may embed a client id.
type TextClaim struct {
	Text string
}

func (StructuredClaim) claim() {}
func (TextClaim) claim()       {}

// ParseClaim builds a Claim from a raw whoami response body. A JSON object
// becomes a StructuredClaim, a JSON string its unquoted TextClaim, and
// anything else is kept verbatim as text.
func ParseClaim(raw []byte) Claim {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return TextClaim{Text: string(raw)}
	}
	switch x := v.(type) {
	case map[string]any:
		return StructuredClaim{Fields: x}
	case string:
		return TextClaim{Text: x}
	default:
		return TextClaim{Text: strings.TrimSpace(string(raw))}
	}
}
