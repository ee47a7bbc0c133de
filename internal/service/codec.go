package service

import "encoding/json"

// jsonCodec lets Connect carry the plain Go request/response structs of this
// package as JSON. It replaces Connect's default protobuf JSON codec, which
// only accepts generated messages.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
