package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *structpb.Value { return &structpb.Value{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// StructPB stores dynamic setting values as google.protobuf.Value messages.
// Numbers come back as float64 and lists as []any. The zero value is ready to use.
type StructPB struct {
	pb Protobuf[*structpb.Value]
}

var _ Codec[any] = StructPB{}

func NewStructPB() StructPB {
	return StructPB{pb: NewProtobuf(newValue)}
}

func newValue() *structpb.Value { return &structpb.Value{} }

func (c StructPB) Encode(v any) ([]byte, error) {
	pv, err := structpb.NewValue(widen(v))
	if err != nil {
		return nil, fmt.Errorf("structpb: %w", err)
	}
	return c.pb.Encode(pv)
}

func (c StructPB) Decode(b []byte) (any, error) {
	pb := c.pb
	if pb.new == nil {
		pb = NewProtobuf(newValue)
	}
	pv, err := pb.Decode(b)
	if err != nil {
		return nil, err
	}
	return pv.AsInterface(), nil
}

// widen converts typed slices that structpb.NewValue does not accept.
func widen(v any) any {
	switch vv := v.(type) {
	case []string:
		out := make([]any, len(vv))
		for i, s := range vv {
			out[i] = s
		}
		return out
	default:
		return v
	}
}
