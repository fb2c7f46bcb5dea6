package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// writeField and readField mirror the teacher's WriteField/ReadField tag
// switch, re-targeted at Beta's fixed-width big-endian fields and UTF-16BE
// strings instead of VarInt framing.
func writeField(w io.Writer, tag string, val any) error {
	switch tag {
	case "bool":
		b := val.(bool)
		var n uint8
		if b {
			n = 1
		}
		return binary.Write(w, binary.BigEndian, n)
	case "i8":
		return binary.Write(w, binary.BigEndian, val.(int8))
	case "u8":
		return binary.Write(w, binary.BigEndian, val.(uint8))
	case "i16":
		return binary.Write(w, binary.BigEndian, val.(int16))
	case "u16":
		return binary.Write(w, binary.BigEndian, val.(uint16))
	case "i32":
		return binary.Write(w, binary.BigEndian, val.(int32))
	case "i64":
		return binary.Write(w, binary.BigEndian, val.(int64))
	case "f32":
		return binary.Write(w, binary.BigEndian, val.(float32))
	case "f64":
		return binary.Write(w, binary.BigEndian, val.(float64))
	case "string":
		return WriteString(w, val.(string))
	case "bytearray":
		return WriteByteArray(w, val.([]byte))
	case "slot":
		return WriteSlotField(w, val.(Slot))
	case "rest":
		_, err := w.Write(val.([]byte))
		return err
	default:
		return fmt.Errorf("unknown field tag: %q", tag)
	}
}

func readField(r *bytes.Reader, tag string) (any, error) {
	switch tag {
	case "bool":
		var n uint8
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		return n != 0, nil
	case "i8":
		var v int8
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "u8":
		var v uint8
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "i16":
		var v int16
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "u16":
		var v uint16
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "i32":
		var v int32
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "i64":
		var v int64
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "f32":
		var v float32
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "f64":
		var v float64
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case "string":
		return ReadString(r)
	case "bytearray":
		return ReadByteArray(r)
	case "slot":
		return ReadSlotField(r)
	case "rest":
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unknown field tag: %q", tag)
	}
}

// WriteString writes a UTF-16BE string, length-prefixed by an i16 character
// count, as protocol 11 requires (spec.md §6).
func WriteString(w io.Writer, s string) error {
	units := utf16.Encode([]rune(s))
	if len(units) > 1<<15-1 {
		return fmt.Errorf("wire: string too long: %d UTF-16 units", len(units))
	}
	if err := binary.Write(w, binary.BigEndian, int16(len(units))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, units)
}

// ReadString reads a UTF-16BE, i16-length-prefixed string.
func ReadString(r *bytes.Reader) (string, error) {
	var n int16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("wire: negative string length %d", n)
	}
	units := make([]uint16, n)
	if err := binary.Read(r, binary.BigEndian, &units); err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// WriteByteArray writes an i16-length-prefixed raw byte array, used for
// chunk payloads.
func WriteByteArray(w io.Writer, b []byte) error {
	if len(b) > 1<<15-1 {
		return fmt.Errorf("wire: byte array too long: %d", len(b))
	}
	if err := binary.Write(w, binary.BigEndian, int16(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadByteArray reads an i16-length-prefixed raw byte array.
func ReadByteArray(r *bytes.Reader) ([]byte, error) {
	var n int16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("wire: negative byte array length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Slot is an inventory slot on the wire: an empty slot is id=-1 with no
// further fields. Grounded on the teacher's player.Slot/WriteSlot, which
// already encode this exact id/-1 sentinel shape.
type Slot struct {
	ID     int16
	Count  int8
	Damage int16
}

// EmptySlot is the canonical empty-slot wire value.
var EmptySlot = Slot{ID: -1}

func (s Slot) IsEmpty() bool { return s.ID == -1 }

// WriteSlotField writes a slot: id, then (if id != -1) count and damage.
func WriteSlotField(w io.Writer, s Slot) error {
	if err := binary.Write(w, binary.BigEndian, s.ID); err != nil {
		return err
	}
	if s.ID == -1 {
		return nil
	}
	if err := binary.Write(w, binary.BigEndian, s.Count); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, s.Damage)
}

// ReadSlotField reads a slot: id, then (if id != -1) count and damage.
func ReadSlotField(r *bytes.Reader) (Slot, error) {
	var id int16
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return Slot{}, err
	}
	if id == -1 {
		return EmptySlot, nil
	}
	var count int8
	var damage int16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return Slot{}, err
	}
	if err := binary.Read(r, binary.BigEndian, &damage); err != nil {
		return Slot{}, err
	}
	return Slot{ID: id, Count: count, Damage: damage}, nil
}
