package codec

import "fmt"

// Raw is an identity codec for call sites whose arguments and results are
// already strings or byte slices: []byte passes through unchanged and
// string converts to its UTF-8 bytes. Any other type fails to encode, so
// Raw only suits caches dedicated to pre-encoded payloads.
type Raw struct{}

var _ Codec = Raw{}

func (Raw) Marshal(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return nil, fmt.Errorf("raw codec supports []byte and string, not %T", v)
	}
}

func (Raw) Unmarshal(data []byte, v any) error {
	switch dst := v.(type) {
	case *[]byte:
		*dst = data
		return nil
	case *string:
		*dst = string(data)
		return nil
	default:
		return fmt.Errorf("raw codec supports []byte and string, not %T", v)
	}
}
