package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto.Message values with deterministic marshaling,
// so equal messages yield identical lookup keys. Arguments and results
// must all be proto messages; anything else fails to encode.
type Protobuf struct{}

var _ Codec = Protobuf{}

func (Protobuf) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%T does not implement proto.Message", v)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(m)
}

// Unmarshal fills v, which must be a proto.Message or a non-nil pointer to
// one. The pointer form shows up on the decode path, where the caller
// passes *V and V itself is the message pointer type; a nil message is
// allocated in place.
func (Protobuf) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		slot := rv.Elem()
		if slot.Kind() == reflect.Pointer {
			if slot.IsNil() {
				slot.Set(reflect.New(slot.Type().Elem()))
			}
			if m, ok := slot.Interface().(proto.Message); ok {
				return proto.Unmarshal(data, m)
			}
		}
	}
	return fmt.Errorf("%T does not implement proto.Message", v)
}
