package rpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Filter is the GetDashboard request body.
type Filter struct {
	Kinds        []string
	Institutions []string
}

func (f Filter) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"kinds":        toAny(f.Kinds),
		"institutions": toAny(f.Institutions),
	})
}

// FilterFromStruct reads a Filter. Missing lists are empty; non-string
// elements are an error.
func FilterFromStruct(s *structpb.Struct) (Filter, error) {
	var f Filter
	if s == nil {
		return f, nil
	}
	var err error
	if f.Kinds, err = stringList(s, "kinds"); err != nil {
		return Filter{}, err
	}
	if f.Institutions, err = stringList(s, "institutions"); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// PayloadToStruct wraps an encoded dashboard payload for the wire.
func PayloadToStruct(payload []byte) (*structpb.Struct, error) {
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("payload to struct: %w", err)
	}
	return s, nil
}

// PayloadFromStruct returns the JSON payload carried by s.
func PayloadFromStruct(s *structpb.Struct) ([]byte, error) {
	return protojson.Marshal(s)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func stringList(s *structpb.Struct, key string) ([]string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%s: expected a list", key)
	}
	out := make([]string, 0, len(list.GetValues()))
	for _, e := range list.GetValues() {
		str, ok := e.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%s: expected strings", key)
		}
		out = append(out, str.StringValue)
	}
	return out, nil
}
