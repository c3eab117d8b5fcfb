package codec

import "encoding/json"

// JSON serializes values using encoding/json, which already writes map
// keys in sorted order. Less compact than Msgpack but convenient when
// stored bytes need to be inspected by hand.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
