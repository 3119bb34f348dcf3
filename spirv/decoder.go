package spirv

import (
	"encoding/binary"
	"fmt"
)

// Decoder reads instructions from an encoded module. The zero value
// is ready to use; call SetInput before the first Decode.
//
// Decode returns pointers into a small ring of reused instructions, so
// a returned Instruction and its operand slice stay valid only until
// the fourth following Decode call. Callers that keep instructions
// must Clone them; Parse does this for the whole module.
type Decoder struct {
	words   []uint32
	header  Header
	pos     int
	ring    [4]Instruction
	ringPos int
}

// SetInput validates the module header and prepares the decoder to
// read the instruction stream that follows it. Byte order is detected
// from the magic number and big-endian input is byte-swapped once
// here, so later stages always see host-order words.
func (d *Decoder) SetInput(module []byte) error {
	if len(module) < HeaderWords*4 {
		return fmt.Errorf("spirv: module too short: %d bytes", len(module))
	}
	if len(module)%4 != 0 {
		return fmt.Errorf("spirv: module length %d is not a multiple of four", len(module))
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch magic := binary.LittleEndian.Uint32(module); magic {
	case MagicNumber:
	case MagicNumberSwapped:
		order = binary.BigEndian
	default:
		return fmt.Errorf("spirv: bad magic number %#08x", magic)
	}
	words := make([]uint32, len(module)/4)
	for i := range words {
		words[i] = order.Uint32(module[i*4:])
	}
	version, ok := VersionFromWord(words[1])
	if !ok {
		return fmt.Errorf("spirv: unsupported version word %#08x", words[1])
	}
	bound := words[3]
	if bound == 0 || bound > MaxIDBound {
		return fmt.Errorf("spirv: id bound %d out of range [1, %d]", bound, MaxIDBound)
	}
	if words[4] != 0 {
		return fmt.Errorf("spirv: reserved schema word is %d, want 0", words[4])
	}
	d.words = words
	d.header = Header{
		Magic:     MagicNumber,
		Version:   version,
		Generator: words[2],
		Bound:     bound,
		Schema:    0,
	}
	d.pos = HeaderWords
	return nil
}

// Header returns the decoded module header. Valid after SetInput.
func (d *Decoder) Header() Header { return d.header }

// HasMore reports whether instructions remain in the stream.
func (d *Decoder) HasMore() bool { return d.pos < len(d.words) }

// Position returns the byte offset of the next instruction.
func (d *Decoder) Position() int { return d.pos * 4 }

// SetPosition moves the decoder to a byte offset previously obtained
// from Position. Offsets that are unaligned or outside the instruction
// stream are rejected.
func (d *Decoder) SetPosition(offset int) error {
	if offset%4 != 0 {
		return fmt.Errorf("spirv: position %d is not word aligned", offset)
	}
	pos := offset / 4
	if pos < HeaderWords || pos > len(d.words) {
		return fmt.Errorf("spirv: position %d outside instruction stream", offset)
	}
	d.pos = pos
	return nil
}

// Skip advances past the next instruction without decoding its body.
func (d *Decoder) Skip() error {
	if d.pos >= len(d.words) {
		return nil
	}
	offset := d.pos * 4
	wc := int(d.words[d.pos] >> 16)
	if wc == 0 {
		return fmt.Errorf("spirv: zero word count at offset %d", offset)
	}
	if d.pos+wc > len(d.words) {
		return fmt.Errorf("spirv: instruction at offset %d claims %d words but only %d remain",
			offset, wc, len(d.words)-d.pos)
	}
	d.pos += wc
	return nil
}

// Rewind repositions the decoder at the first instruction so the
// module can be scanned again without re-validating the header.
func (d *Decoder) Rewind() { d.pos = HeaderWords }

// Decode returns the next instruction, or (nil, nil) at a clean end
// of stream. The result aliases the decoder's instruction ring; see
// the type comment.
func (d *Decoder) Decode() (*Instruction, error) {
	if d.pos >= len(d.words) {
		return nil, nil
	}
	offset := d.pos * 4
	first := d.words[d.pos]
	wc := int(first >> 16)
	op := OpCode(first & 0xFFFF)
	if wc == 0 {
		return nil, fmt.Errorf("spirv: zero word count at offset %d", offset)
	}
	if d.pos+wc > len(d.words) {
		return nil, fmt.Errorf("spirv: instruction at offset %d claims %d words but only %d remain",
			offset, wc, len(d.words)-d.pos)
	}

	slot := &d.ring[d.ringPos]
	d.ringPos = (d.ringPos + 1) % len(d.ring)
	slot.Opcode = op
	slot.ResultType = 0
	slot.ResultID = 0
	slot.Offset = offset

	body := d.words[d.pos+1 : d.pos+wc]
	if HasResultType(op) {
		if len(body) == 0 {
			return nil, fmt.Errorf("spirv: %s at offset %d is missing its result type", op, offset)
		}
		slot.ResultType = body[0]
		body = body[1:]
	}
	if HasResultID(op) {
		if len(body) == 0 {
			return nil, fmt.Errorf("spirv: %s at offset %d is missing its result id", op, offset)
		}
		slot.ResultID = body[0]
		body = body[1:]
	}
	slot.Operands = append(slot.Operands[:0], body...)

	d.pos += wc
	return slot, nil
}

// Parse decodes a whole module into owned instructions. Unlike the
// streaming Decoder, the returned instructions do not alias any
// internal state and may be held or rewritten freely.
func Parse(module []byte) (Header, []Instruction, error) {
	var d Decoder
	if err := d.SetInput(module); err != nil {
		return Header{}, nil, err
	}
	var insts []Instruction
	for {
		in, err := d.Decode()
		if err != nil {
			return d.header, nil, err
		}
		if in == nil {
			break
		}
		insts = append(insts, in.Clone())
	}
	return d.header, insts, nil
}
