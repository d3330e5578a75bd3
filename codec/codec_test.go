package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestLimitRejectsOversizedDecode(t *testing.T) {
	c := Limit[any]{Inner: JSON[any]{}, MaxDecode: 16}
	small, err := c.Encode([]string{"a.com"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(small); err != nil {
		t.Fatalf("Decode small: %v", err)
	}
	big, err := c.Encode([]string{strings.Repeat("x", 64)})
	if err != nil {
		t.Fatalf("Encode big: %v", err)
	}
	if _, err := c.Decode(big); err == nil {
		t.Fatalf("expected size error for %d bytes", len(big))
	}
}

func TestStructPBAcceptsStringSlices(t *testing.T) {
	c := StructPB{} // zero value must work
	b, err := c.Encode([]string{"a.com", "b.org"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 || list[0] != "a.com" || list[1] != "b.org" {
		t.Fatalf("unexpected decode: %#v", v)
	}

	b, err = NewStructPB().Encode(20)
	if err != nil {
		t.Fatalf("Encode int: %v", err)
	}
	v, err = c.Decode(b)
	if err != nil || v != float64(20) {
		t.Fatalf("Decode int: v=%#v err=%v", v, err)
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[any](true)
	a, err := c.Encode([]string{"x", "y"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := c.Encode([]any{"x", "y"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("[]string and []any encode differently: %x vs %x", a, b)
	}
	v, err := c.Decode(a)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if list, ok := v.([]any); !ok || len(list) != 2 {
		t.Fatalf("unexpected decode: %#v", v)
	}
}

func TestMsgpackSmallIntsDecodeNarrow(t *testing.T) {
	var c Msgpack[any]
	b, err := c.Encode(5)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	switch v.(type) {
	case int8, uint8, int16, uint16, int32, uint32, int64, uint64:
	default:
		t.Fatalf("expected an integer type, got %T", v)
	}
}
