package ecc

import (
	"fmt"
	"math/bits"
)

// Parity is the 8-bit ECC value stored next to each 64-bit word.
type Parity uint8

func (p Parity) String() string {
	return fmt.Sprintf("0x%02x", uint8(p))
}

// NumParityBits is the number of rows in the parity check matrix.
const NumParityBits = 8

// parityCheckMatrix must match the checker of the memory controller bit for
// bit. Row i selects the codeword bits that contribute to parity bit i. Bits
// 120..127 form the identity and stand for the stored parity bits.
var parityCheckMatrix = [NumParityBits]Word128{
	{Lo: 0x44844a88952aad5b, Hi: 0x01bfbb75be3a72dc},
	{Lo: 0x1108931126b3366d, Hi: 0x02df76f9dd99b971},
	{Lo: 0x06111c2238c3c78e, Hi: 0x04efcf9f9ad5ce97},
	{Lo: 0x9821e043c0fc07f0, Hi: 0x08f7ecf6ed674e6c},
	{Lo: 0xe03e007c00fff800, Hi: 0x10fb7baf6ba6b5a6},
	{Lo: 0xffc0007fff000000, Hi: 0x20fdb7cef36cab5b},
	{Lo: 0xffffff8000000000, Hi: 0x40fedd7b74db55ab},
	{Lo: 0xd44225844ba65cb7, Hi: 0x807f000007ffffff},
}

// MatrixRow returns row i of the parity check matrix.
func MatrixRow(i int) Word128 {
	return parityCheckMatrix[i]
}

// GenerateParity multiplies the parity check matrix with the codeword over
// GF(2).
func GenerateParity(w Word128) Parity {
	var p Parity

	for i, row := range parityCheckMatrix {
		p |= Parity(w.And(row).Parity()) << uint(i)
	}

	return p
}

// ParityOf returns the parity of data stored at addr.
func ParityOf(data, addr uint64, bank Bank) Parity {
	return GenerateParity(MakeCodeword(data, addr, bank))
}

// ErrorClass is the verdict of the checker for a syndrome.
type ErrorClass int

// Checker verdicts.
const (
	NoError ErrorClass = iota
	Correctable
	Uncorrectable
)

func (c ErrorClass) String() string {
	switch c {
	case NoError:
		return "none"
	case Correctable:
		return "correctable"
	case Uncorrectable:
		return "uncorrectable"
	default:
		return fmt.Sprintf("ErrorClass(%d)", int(c))
	}
}

// FirstParityBit is the codeword position of parity bit 0.
const FirstParityBit = 120

// syndromeToBit maps the column of every codeword bit that can carry an
// error (data and parity bits) to its position.
var syndromeToBit = buildSyndromeTable()

func buildSyndromeTable() map[Parity]int {
	table := make(map[Parity]int, 64+NumParityBits)

	for i := 0; i < 64; i++ {
		table[column(i)] = i
	}

	for i := FirstParityBit; i < FirstParityBit+NumParityBits; i++ {
		table[column(i)] = i
	}

	return table
}

func column(bit int) Parity {
	var c Parity

	for i, row := range parityCheckMatrix {
		c |= Parity(row.Bit(bit)) << uint(i)
	}

	return c
}

// Syndrome compares the stored parity of a word with the parity computed
// from its data. A zero syndrome means no error is detected.
func Syndrome(data uint64, stored Parity, addr uint64, bank Bank) Parity {
	return ParityOf(data, addr, bank) ^ stored
}

// Classify tells how the checker treats a syndrome. Every column of the
// matrix has odd weight, so a single flipped bit always yields an odd
// syndrome and two flipped bits always yield a non-zero even one.
func Classify(s Parity) ErrorClass {
	if s == 0 {
		return NoError
	}

	if bits.OnesCount8(uint8(s))%2 == 1 {
		if _, ok := syndromeToBit[s]; ok {
			return Correctable
		}
	}

	return Uncorrectable
}

// Locate returns the codeword bit that a correctable syndrome points to.
// Positions 0..63 are data bits and FirstParityBit.. are parity bits.
func Locate(s Parity) (bit int, ok bool) {
	bit, ok = syndromeToBit[s]
	return bit, ok
}

// Correct repairs a single-bit error in data and stored parity. It returns
// the inputs unchanged when the syndrome is not correctable.
func Correct(
	data uint64,
	stored Parity,
	addr uint64,
	bank Bank,
) (uint64, Parity, ErrorClass) {
	s := Syndrome(data, stored, addr, bank)

	class := Classify(s)
	if class != Correctable {
		return data, stored, class
	}

	bit, _ := Locate(s)
	if bit < 64 {
		return data ^ (1 << uint(bit)), stored, class
	}

	return data, stored ^ Parity(1<<uint(bit-FirstParityBit)), class
}
