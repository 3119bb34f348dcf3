package spirv

import "errors"

// ErrUnterminatedString reports a string literal whose NUL terminator
// is missing from the operand words.
var ErrUnterminatedString = errors.New("spirv: unterminated string literal")

// appendStringWords packs s into 32-bit words, low byte first, with a
// NUL terminator. A string whose length is a multiple of four gets a
// full word of zero bytes so the terminator is always present.
func appendStringWords(dst []uint32, s string) []uint32 {
	var cur uint32
	var shift uint
	for i := 0; i < len(s); i++ {
		cur |= uint32(s[i]) << shift
		shift += 8
		if shift == 32 {
			dst = append(dst, cur)
			cur, shift = 0, 0
		}
	}
	return append(dst, cur)
}

// StringWords returns the word encoding of s, terminator included.
func StringWords(s string) []uint32 {
	return appendStringWords(make([]uint32, 0, len(s)/4+1), s)
}

// StringWordCount returns how many words the string literal starting
// at words[0] occupies, terminator included. It reports false when no
// word carries a zero byte.
func StringWordCount(words []uint32) (int, bool) {
	for i, w := range words {
		if w&0xFF == 0 || w&0xFF00 == 0 || w&0xFF0000 == 0 || w&0xFF000000 == 0 {
			return i + 1, true
		}
	}
	return 0, false
}

// DecodeString decodes the string literal starting at words[0] and
// returns it together with the number of words consumed.
func DecodeString(words []uint32) (string, int, error) {
	var buf []byte
	for i, w := range words {
		for shift := uint(0); shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return string(buf), i + 1, nil
			}
			buf = append(buf, b)
		}
	}
	return "", 0, ErrUnterminatedString
}

// WordBuffer accumulates operand words for an instruction under
// construction. The zero value is ready to use and a single buffer can
// be reused across instructions with Reset.
type WordBuffer struct {
	words []uint32
}

// Reset discards the accumulated words, keeping the backing array.
func (b *WordBuffer) Reset() { b.words = b.words[:0] }

// AddWord appends one operand word.
func (b *WordBuffer) AddWord(w uint32) { b.words = append(b.words, w) }

// AddWords appends operand words in order.
func (b *WordBuffer) AddWords(ws ...uint32) { b.words = append(b.words, ws...) }

// AddString appends a NUL-terminated, word-aligned string literal.
func (b *WordBuffer) AddString(s string) { b.words = appendStringWords(b.words, s) }

// Words returns the accumulated words. The slice aliases the buffer
// and is invalidated by the next Add or Reset.
func (b *WordBuffer) Words() []uint32 { return b.words }

// Len returns the number of accumulated words.
func (b *WordBuffer) Len() int { return len(b.words) }

// Build copies the accumulated words into an Instruction for op,
// splitting off the result type and result id when the opcode's
// format carries them. The buffer may be reset and reused afterwards.
func (b *WordBuffer) Build(op OpCode) Instruction {
	inst := Instruction{Opcode: op, Offset: -1}
	rest := b.words
	if HasResultType(op) && len(rest) > 0 {
		inst.ResultType = rest[0]
		rest = rest[1:]
	}
	if HasResultID(op) && len(rest) > 0 {
		inst.ResultID = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		inst.Operands = append([]uint32(nil), rest...)
	}
	return inst
}
