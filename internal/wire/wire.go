package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	version     byte = 1
	kindValue   byte = 1
	kindChanges byte = 2

	absent = ^uint32(0)
)

var (
	ErrCorrupt = errors.New("tabsettings: corrupt entry")
	magic4     = [...]byte{'T', 'A', 'B', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Value: magic(4) | ver(1) | kind(1=value) | vlen(u32 be) | payload(vlen)
func EncodeValue(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindValue)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeValue(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindValue {
		return nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[6:10]))
	if vlen != len(b)-hdr {
		return nil, ErrCorrupt
	}
	return b[hdr:], nil
}

// Changes:
//
//	magic(4) | ver(1) | kind(2=changes) | originLen(u16 be) | origin | areaLen(u8) | area | n(u32 be)
//	keyLen(u16 be) | key | oldLen(u32 be) | old | newLen(u32 be) | new   * n
//
// oldLen/newLen == 0xFFFFFFFF marks an absent value (key created or removed).
type ChangeItem struct {
	Key string
	Old []byte // nil => absent
	New []byte // nil => absent
}

type Changes struct {
	Origin string
	Area   string
	Items  []ChangeItem
}

func EncodeChanges(c Changes) ([]byte, error) {
	if len(c.Origin) > 0xFFFF {
		return nil, fmt.Errorf("tabsettings: origin too long: %d", len(c.Origin))
	}
	if len(c.Area) == 0 || len(c.Area) > 0xFF {
		return nil, fmt.Errorf("tabsettings: invalid area length: %d", len(c.Area))
	}

	total := 4 + 1 + 1 + 2 + len(c.Origin) + 1 + len(c.Area) + 4
	for _, it := range c.Items {
		if l := len(it.Key); l == 0 || l > 0xFFFF {
			return nil, fmt.Errorf("tabsettings: invalid key length in changes: %d", l)
		}
		total += 2 + len(it.Key) + 4 + len(it.Old) + 4 + len(it.New)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindChanges)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(c.Origin)))
	buf.Write(u2[:])
	buf.WriteString(c.Origin)

	buf.WriteByte(byte(len(c.Area)))
	buf.WriteString(c.Area)

	binary.BigEndian.PutUint32(u4[:], uint32(len(c.Items)))
	buf.Write(u4[:])

	for _, it := range c.Items {
		binary.BigEndian.PutUint16(u2[:], uint16(len(it.Key)))
		buf.Write(u2[:])
		buf.WriteString(it.Key)
		writeOptional(&buf, it.Old)
		writeOptional(&buf, it.New)
	}
	return buf.Bytes(), nil
}

func writeOptional(buf *bytes.Buffer, b []byte) {
	var u4 [4]byte
	if b == nil {
		binary.BigEndian.PutUint32(u4[:], absent)
		buf.Write(u4[:])
		return
	}
	binary.BigEndian.PutUint32(u4[:], uint32(len(b)))
	buf.Write(u4[:])
	buf.Write(b)
}

func DecodeChanges(b []byte) (Changes, error) {
	var c Changes
	if len(b) < 4+1+1+2 || !hasMagic(b) || b[4] != version || b[5] != kindChanges {
		return c, ErrCorrupt
	}
	off := 6

	olen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if olen > len(b)-off {
		return c, ErrCorrupt
	}
	c.Origin = string(b[off : off+olen])
	off += olen

	if off+1 > len(b) {
		return c, ErrCorrupt
	}
	alen := int(b[off])
	off++
	if alen == 0 || alen > len(b)-off {
		return c, ErrCorrupt
	}
	c.Area = string(b[off : off+alen])
	off += alen

	if off+4 > len(b) {
		return c, ErrCorrupt
	}
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4

	// every item needs at least 2+1+4+4 bytes; reject bogus counts before allocating
	if n < 0 || n > (len(b)-off)/11 {
		return c, ErrCorrupt
	}

	c.Items = make([]ChangeItem, 0, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return c, ErrCorrupt
		}
		klen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if klen <= 0 || klen > len(b)-off {
			return c, ErrCorrupt
		}
		key := string(b[off : off+klen])
		off += klen

		old, next, err := readOptional(b, off)
		if err != nil {
			return c, err
		}
		off = next
		nv, next, err := readOptional(b, off)
		if err != nil {
			return c, err
		}
		off = next

		c.Items = append(c.Items, ChangeItem{Key: key, Old: old, New: nv})
	}
	if off != len(b) {
		return c, ErrCorrupt
	}
	return c, nil
}

func readOptional(b []byte, off int) ([]byte, int, error) {
	if off+4 > len(b) {
		return nil, off, ErrCorrupt
	}
	l := binary.BigEndian.Uint32(b[off : off+4])
	off += 4
	if l == absent {
		return nil, off, nil
	}
	if int(l) > len(b)-off {
		return nil, off, ErrCorrupt
	}
	// non-nil even when empty so "present but empty" survives the round trip
	return b[off : off+int(l) : off+int(l)], off + int(l), nil
}
