package view

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/nuudash/internal/server/entitlement"
)

// Encode serialises a payload. The output is deterministic: no maps are
// involved, so field and element order are fixed.
func Encode(p Payload) ([]byte, error) {
	switch p.(type) {
	case FreeView, *FreeView, PremiumView, *PremiumView:
		return json.Marshal(p)
	default:
		return nil, fmt.Errorf("unsupported payload %T", p)
	}
}

// Decode reads a payload back, choosing the shape from its tier field.
func Decode(data []byte) (Payload, error) {
	var head struct {
		Tier entitlement.Tier `json:"tier"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	switch head.Tier {
	case entitlement.Free:
		var v FreeView
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode free payload: %w", err)
		}
		return v, nil
	case entitlement.Premium:
		var v PremiumView
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode premium payload: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("decode payload: unknown tier %q", head.Tier)
	}
}
