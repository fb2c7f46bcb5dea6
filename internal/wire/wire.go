// Package wire implements the Minecraft Beta wire protocol (version 11):
// big-endian, fixed-width fields, UTF-16BE length-prefixed strings, and a
// single byte tag per packet. There is no VarInt framing at this protocol
// version — every packet's payload length is implied by its field schema.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
)

const tagName = "mc"

// ProtocolVersion is the only wire protocol version this codec speaks.
const ProtocolVersion = 11

// DecodeError reports a malformed payload for a known tag. It carries the
// offending tag so callers can log it without re-deriving context.
type DecodeError struct {
	Tag   byte
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("wire: decode tag 0x%02x: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("wire: decode tag 0x%02x field %s: %v", e.Tag, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Packet is any struct registered in the tag table (see packets.go).
type Packet interface {
	Tag() byte
}

// Marshal encodes a Packet's fields (in struct order) using their `mc`
// struct tags. Fields without a tag are skipped.
func Marshal(p Packet) ([]byte, error) {
	v := reflect.ValueOf(p)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("wire: marshal: expected struct, got %s", v.Kind())
	}

	var buf bytes.Buffer
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}
		if err := writeField(&buf, tag, v.Field(i).Interface()); err != nil {
			return nil, &DecodeError{Tag: p.Tag(), Field: field.Name, Err: err}
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a payload into a Packet using its `mc` struct tags.
func Unmarshal(data []byte, p Packet) error {
	r := bytes.NewReader(data)
	return unmarshalReader(r, p)
}

func unmarshalReader(r *bytes.Reader, p Packet) error {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("wire: unmarshal: expected non-nil pointer, got %T", p)
	}
	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}
		val, err := readField(r, tag)
		if err != nil {
			return &DecodeError{Tag: p.Tag(), Field: field.Name, Err: err}
		}
		fv := v.Field(i)
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(fv.Type()) {
			return &DecodeError{Tag: p.Tag(), Field: field.Name,
				Err: fmt.Errorf("cannot assign %s to %s", rv.Type(), fv.Type())}
		}
		fv.Set(rv)
	}
	return nil
}

// Decoded is one decoded frame: its tag and the already-populated packet.
type Decoded struct {
	Tag    byte
	Packet Packet
}

// Decode consumes as many complete packets as are present in buf and
// returns them along with the remainder (bytes belonging to a packet whose
// tail hasn't arrived yet). It never partial-commits: on a truncated tail,
// remainder starts at that packet's first byte (the tag) and decoding
// stops to wait for more bytes. Unknown tags are reported through
// onUnhandled (for logging) and decoding stops there too: the buffer can't
// be resynchronized past an unknown tag, so the remainder starts at it.
//
// A known tag whose payload violates a field's type constraint (spec.md
// §7's DecodeError::Malformed) is distinct from truncation: there is no
// amount of additional bytes that would make a negative length prefix
// valid, so waiting for more data would hang forever. Decode reports it
// through onMalformed and resynchronizes by dropping just the tag byte,
// then resumes decoding from the next byte — the connection survives
// (spec.md §7: "logged and the packet skipped; the connection survives").
func Decode(buf []byte, onUnhandled func(tag byte), onMalformed ...func(tag byte, err error)) (packets []Decoded, remainder []byte) {
	pos := 0
	for pos < len(buf) {
		tag := buf[pos]
		ctor, ok := registry[tag]
		if !ok {
			if onUnhandled != nil {
				onUnhandled(tag)
			}
			return packets, buf[pos:]
		}

		p := ctor()
		r := bytes.NewReader(buf[pos+1:])
		if err := unmarshalReader(r, p); err != nil {
			if isTruncation(err) {
				// The tail is incomplete; wait for more bytes before
				// retrying this same packet.
				return packets, buf[pos:]
			}
			// A deterministically malformed field (e.g. a negative length
			// prefix): skip the tag byte and keep decoding from the next
			// one rather than stalling forever on bytes that can never
			// become valid.
			if len(onMalformed) > 0 && onMalformed[0] != nil {
				onMalformed[0](tag, err)
			}
			pos++
			continue
		}

		consumed := len(buf[pos+1:]) - r.Len()
		packets = append(packets, Decoded{Tag: tag, Packet: p})
		pos += 1 + consumed
	}
	return packets, buf[pos:]
}

// isTruncation reports whether err indicates the buffer simply doesn't
// contain enough bytes yet, as opposed to a field value that can never be
// valid no matter how many more bytes arrive.
func isTruncation(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// EncodePacket serializes tag+payload for writing to a connection.
func EncodePacket(p Packet) ([]byte, error) {
	payload, err := Marshal(p)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(payload))
	out = append(out, p.Tag())
	out = append(out, payload...)
	return out, nil
}

// WritePacket encodes and writes p to w.
func WritePacket(w io.Writer, p Packet) error {
	data, err := EncodePacket(p)
	if err != nil {
		return fmt.Errorf("wire: write tag 0x%02x: %w", p.Tag(), err)
	}
	_, err = w.Write(data)
	return err
}

// ErrorPacket builds the tag 0xFF disconnect/error packet.
func ErrorPacket(reason string) *Kick {
	return &Kick{Reason: reason}
}
