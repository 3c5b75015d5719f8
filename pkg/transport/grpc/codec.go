package grpc_transport

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype under which messages travel as JSON.
const CodecName = "json"

// jsonCodec lets plain Go values cross gRPC without generated protobuf
// types.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// MethodName returns the full gRPC method of service/operation.
func MethodName(service, operation string) string {
	return "/" + service + "/" + operation
}
