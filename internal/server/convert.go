package server

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/medocs/internal/common"
)

// toStruct converts v through its JSON form so response field names match
// the JSON tags of the entity types.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func boolField(s *structpb.Struct, key string) (bool, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return false, false
	}
	b, isBool := v.GetKind().(*structpb.Value_BoolValue)
	if !isBool {
		return false, false
	}
	return b.BoolValue, true
}
