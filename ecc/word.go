// Package ecc implements the SRAM ECC code used by the memory controller:
// the 128-bit codeword that embeds the storage address next to the data
// word, the 8-bit parity generator, and the syndrome decoder used by the
// checker.
package ecc

import (
	"fmt"
	"math/bits"
)

// Word128 is an unsigned 128-bit value split into two 64-bit limbs.
type Word128 struct {
	Lo uint64
	Hi uint64
}

// And returns the bitwise AND of w and o.
func (w Word128) And(o Word128) Word128 {
	return Word128{Lo: w.Lo & o.Lo, Hi: w.Hi & o.Hi}
}

// Xor returns the bitwise XOR of w and o.
func (w Word128) Xor(o Word128) Word128 {
	return Word128{Lo: w.Lo ^ o.Lo, Hi: w.Hi ^ o.Hi}
}

// Parity XOR-folds all 128 bits of the word into a single bit.
func (w Word128) Parity() uint8 {
	return uint8((bits.OnesCount64(w.Lo) ^ bits.OnesCount64(w.Hi)) & 1)
}

// Bit returns the value of bit i, where bits 0..63 live in Lo.
func (w Word128) Bit(i int) uint8 {
	if i < 64 {
		return uint8(w.Lo>>uint(i)) & 1
	}

	return uint8(w.Hi>>uint(i-64)) & 1
}

func (w Word128) String() string {
	return fmt.Sprintf("0x%016x_%016x", w.Hi, w.Lo)
}

// Bank describes the memory bank that holds ECC protected words. Size is
// in bytes.
type Bank struct {
	Base uint64
	Size uint64
}

// Contains tells if addr falls into the bank.
func (b Bank) Contains(addr uint64) bool {
	return addr >= b.Base && addr-b.Base < b.Size
}

// WordOffset returns the word-aligned index of addr within the bank, which
// is the byte offset divided by 8 after being masked to the bank size.
func (b Bank) WordOffset(addr uint64) uint64 {
	return ((addr - b.Base) & (b.Size - 8)) >> 3
}

// Validate checks if the bank can be addressed by the controller.
func (b Bank) Validate() error {
	if b.Size < 8 {
		return fmt.Errorf("bank size must be at least 8 bytes, got %d", b.Size)
	}

	if b.Size&(b.Size-1) != 0 {
		return fmt.Errorf("bank size 0x%x is not a power of two", b.Size)
	}

	if b.Base%8 != 0 {
		return fmt.Errorf("bank base 0x%x is not 8-byte aligned", b.Base)
	}

	return nil
}

func (b Bank) String() string {
	return fmt.Sprintf("[0x%08x, 0x%08x)", b.Base, b.Base+b.Size)
}

// MakeCodeword builds the codeword the parity generator works on. The data
// occupies the low limb unchanged and the word offset of addr within bank
// occupies the high limb.
func MakeCodeword(data, addr uint64, bank Bank) Word128 {
	return Word128{
		Lo: data,
		Hi: bank.WordOffset(addr),
	}
}
