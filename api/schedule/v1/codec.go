package schedulev1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec carries the service messages as JSON on the gRPC wire
// (content-subtype "json").
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (Codec) Name() string                       { return "json" }

func init() {
	encoding.RegisterCodec(Codec{})
}
