package eq

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrBadState is returned when a persisted state blob cannot be decoded.
var ErrBadState = errors.New("eq: invalid state data")

const (
	stateMagic   = "SPEQ"
	stateVersion = uint32(1)
)

// MarshalBinary encodes every parameter value as
//
//	magic "SPEQ" | version u32 | count u32 | count × (len u16 | id | f64)
//
// in little endian. Values are stored as raw float64 bits.
func (ps *Parameters) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(stateMagic)
	_ = binary.Write(&buf, binary.LittleEndian, stateVersion)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(ps.list)))

	for _, p := range ps.list {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(p.ID)))
		buf.WriteString(p.ID)
		_ = binary.Write(&buf, binary.LittleEndian, p.bits.Load())
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary restores values written by MarshalBinary. Values are
// clamped but not snapped. Unknown IDs are skipped; parameters missing
// from the blob keep their current value. Nothing is applied unless the
// whole blob decodes.
func (ps *Parameters) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	magic := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != stateMagic {
		return fmt.Errorf("%w: bad magic", ErrBadState)
	}

	var version, count uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: %w", ErrBadState, err)
	}

	if version != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrBadState, version)
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: %w", ErrBadState, err)
	}

	type entry struct {
		p    *Parameter
		bits uint64
	}

	entries := make([]entry, 0, len(ps.list))
	for i := range count {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrBadState, i, err)
		}

		id := make([]byte, n)
		if _, err := io.ReadFull(r, id); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrBadState, i, err)
		}

		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrBadState, i, err)
		}

		if p, ok := ps.byID[string(id)]; ok {
			entries = append(entries, entry{p: p, bits: bits})
		}
	}

	for _, e := range entries {
		e.p.store(math.Float64frombits(e.bits))
	}

	return nil
}

// MarshalSettings encodes s in the parameter state format.
func MarshalSettings(s Settings) ([]byte, error) {
	ps := NewParameters()
	ps.Apply(s)

	return ps.MarshalBinary()
}

// UnmarshalSettings decodes a state blob on top of the defaults.
func UnmarshalSettings(data []byte) (Settings, error) {
	ps := NewParameters()
	if err := ps.UnmarshalBinary(data); err != nil {
		return Settings{}, err
	}

	return ps.Capture(), nil
}
