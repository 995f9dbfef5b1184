package identity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
)

var canonicalID = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// Explicit identifier fields, highest priority first.
var idFields = []string{"id", "user_id", "uuid"}

const messageField = "message"

// Directory finds clients by canonical id.
type Directory interface {
	Client(id string) (models.Client, error)
}

// ExtractID returns the canonical (lower-case) client id carried by c, or
// common.ErrIdentityUnresolved.
//
// For a StructuredClaim the explicit id fields are tried first, then the
// message text, then every other string value in key order. A TextClaim
// yields the first 8-4-4-4-12 hexadecimal token in its text.
func ExtractID(c Claim) (string, error) {
	var id string
	switch x := c.(type) {
	case StructuredClaim:
		id = fromFields(x.Fields)
	case TextClaim:
		id = fromText(x.Text)
	case *StructuredClaim:
		if x != nil {
			id = fromFields(x.Fields)
		}
	case *TextClaim:
		if x != nil {
			id = fromText(x.Text)
		}
	}
	if id == "" {
		return "", common.ErrIdentityUnresolved
	}
	return id, nil
}

// Resolve maps a claim to its Client. It fails with ErrIdentityUnresolved
// when no id can be extracted and with ErrClientNotFound when the id is
// unknown to dir.
func Resolve(c Claim, dir Directory) (models.Client, error) {
	id, err := ExtractID(c)
	if err != nil {
		return models.Client{}, err
	}
	client, err := dir.Client(id)
	if err != nil {
		return models.Client{}, fmt.Errorf("resolve %s: %w", id, err)
	}
	return client, nil
}

func fromText(s string) string {
	return strings.ToLower(canonicalID.FindString(s))
}

func fromFields(fields map[string]any) string {
	for _, k := range idFields {
		if s, ok := fields[k].(string); ok {
			if id := fromText(s); id != "" {
				return id
			}
		}
	}
	if s, ok := fields[messageField].(string); ok {
		if id := fromText(s); id != "" {
			return id
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if id := fromValue(fields[k]); id != "" {
			return id
		}
	}
	return ""
}

func fromValue(v any) string {
	switch x := v.(type) {
	case string:
		return fromText(x)
	case map[string]any:
		return fromFields(x)
	case []any:
		for _, e := range x {
			if id := fromValue(e); id != "" {
				return id
			}
		}
	}
	return ""
}
