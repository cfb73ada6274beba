// Package binout serializes a config.BinaryConfig to the on-disk layout
// described by §6.6: a concatenation of property records (u1 opcode plus an
// opcode-specific payload), terminated by 0x00. It also provides the
// symmetrical reader SPEC_FULL adds so the write/read round-trip named in
// §8 is actually testable.
//
// §6.6 leaves a real consumer's opcode→shape schema (fixed tuple vs.
// aggregate map) as external knowledge the writer doesn't carry on the
// wire. To make the round-trip reader self-contained, each record here is
// prefixed with an explicit kind byte and count, rather than requiring the
// reader to already know each opcode's shape.
package binout

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/toolc/toolc/pkg/config"
)

const terminator = 0x00

// Record kinds, written after the opcode byte.
const (
	kindEmpty   = 0
	kindValues  = 1
	kindEntries = 2
)

// Write serializes cfg to its on-disk binary config form.
func Write(cfg *config.BinaryConfig) []byte {
	var buf bytes.Buffer

	for _, p := range cfg.Properties {
		writeProperty(&buf, p)
	}

	buf.WriteByte(terminator)

	return buf.Bytes()
}

func writeProperty(buf *bytes.Buffer, p *config.Property) {
	u8(buf, p.Opcode)

	switch {
	case p.Empty:
		u8(buf, kindEmpty)
	case p.Entries != nil:
		u8(buf, kindEntries)
		u16(buf, len(p.Entries))

		for _, e := range p.Entries {
			writeValue(buf, e.Key)
			writeValue(buf, e.Val)
		}
	default:
		u8(buf, kindValues)
		u16(buf, len(p.Values))

		for _, v := range p.Values {
			writeValue(buf, v)
		}
	}
}

func writeValue(buf *bytes.Buffer, v config.Value) {
	u8(buf, int(v.Kind))

	switch v.Kind {
	case config.ValInt:
		i32(buf, v.Int)
	case config.ValLong:
		i64(buf, v.Long)
	case config.ValString:
		writeString(buf, v.String)
	}
}

// Read parses the on-disk form back into a BinaryConfig. The name is not
// itself part of the on-disk record, so the caller supplies it — typically
// carried alongside the bytes by the driver's output mapping.
func Read(name string, data []byte) (*config.BinaryConfig, error) {
	r := &reader{data: data}
	cfg := &config.BinaryConfig{Name: name}

	for {
		opcode, ok := r.u8()
		if !ok {
			return nil, fmt.Errorf("binout: truncated config stream")
		}

		if opcode == terminator {
			return cfg, nil
		}

		p, err := readProperty(r, opcode)
		if err != nil {
			return nil, err
		}

		cfg.Properties = append(cfg.Properties, p)
	}
}

func readProperty(r *reader, opcode int) (*config.Property, error) {
	kind, ok := r.u8()
	if !ok {
		return nil, fmt.Errorf("binout: truncated record kind for opcode %d", opcode)
	}

	switch kind {
	case kindEmpty:
		return &config.Property{Opcode: opcode, Empty: true}, nil
	case kindEntries:
		n, ok := r.u16()
		if !ok {
			return nil, fmt.Errorf("binout: truncated entry count for opcode %d", opcode)
		}

		entries := make([]config.Entry, n)

		for i := range entries {
			key, err := readValue(r)
			if err != nil {
				return nil, err
			}

			val, err := readValue(r)
			if err != nil {
				return nil, err
			}

			entries[i] = config.Entry{Key: key, Val: val}
		}

		return &config.Property{Opcode: opcode, Entries: entries}, nil
	case kindValues:
		n, ok := r.u16()
		if !ok {
			return nil, fmt.Errorf("binout: truncated value count for opcode %d", opcode)
		}

		values := make([]config.Value, n)

		for i := range values {
			v, err := readValue(r)
			if err != nil {
				return nil, err
			}

			values[i] = v
		}

		return &config.Property{Opcode: opcode, Values: values}, nil
	default:
		return nil, fmt.Errorf("binout: unknown record kind %d for opcode %d", kind, opcode)
	}
}

func readValue(r *reader) (config.Value, error) {
	tag, ok := r.u8()
	if !ok {
		return config.Value{}, fmt.Errorf("binout: truncated value")
	}

	switch config.ValueKind(tag) {
	case config.ValInt:
		v, ok := r.i32()
		if !ok {
			return config.Value{}, fmt.Errorf("binout: truncated int value")
		}

		return config.IntValue(v), nil
	case config.ValLong:
		v, ok := r.i64()
		if !ok {
			return config.Value{}, fmt.Errorf("binout: truncated long value")
		}

		return config.LongValue(v), nil
	case config.ValString:
		v, ok := r.string()
		if !ok {
			return config.Value{}, fmt.Errorf("binout: truncated string value")
		}

		return config.StringValueOf(v), nil
	default:
		return config.Value{}, fmt.Errorf("binout: unknown value tag %d", tag)
	}
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) u8() (int, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}

	v := r.data[r.pos]
	r.pos++

	return int(v), true
}

func (r *reader) u16() (int, bool) {
	if r.pos+2 > len(r.data) {
		return 0, false
	}

	v := int(binary.BigEndian.Uint16(r.data[r.pos:]))
	r.pos += 2

	return v, true
}

func (r *reader) i32() (int32, bool) {
	if r.pos+4 > len(r.data) {
		return 0, false
	}

	v := int32(binary.BigEndian.Uint32(r.data[r.pos:]))
	r.pos += 4

	return v, true
}

func (r *reader) i64() (int64, bool) {
	if r.pos+8 > len(r.data) {
		return 0, false
	}

	v := int64(binary.BigEndian.Uint64(r.data[r.pos:]))
	r.pos += 8

	return v, true
}

func (r *reader) string() (string, bool) {
	n, ok := r.u16()
	if !ok {
		return "", false
	}

	if r.pos+n > len(r.data) {
		return "", false
	}

	s := string(r.data[r.pos : r.pos+n])
	r.pos += n

	return s, true
}

func u8(buf *bytes.Buffer, v int) {
	buf.WriteByte(byte(v))
}

func u16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func i32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func i64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	u16(buf, len(s))
	buf.WriteString(s)
}
