package ecc_test

import (
	"math/bits"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/eccinject/ecc"
)

const correctData = uint64(0x5A5A5A5A5A5A5A5A)

var _ = Describe("GenerateParity", func() {
	var bank ecc.Bank

	BeforeEach(func() {
		bank = ecc.Bank{Base: 0x28000000, Size: 0x80000}
	})

	It("should match the checker for the reference pattern", func() {
		Expect(ecc.GenerateParity(ecc.Word128{Lo: correctData})).
			To(Equal(ecc.Parity(0xa5)))
		Expect(ecc.GenerateParity(ecc.Word128{Lo: correctData ^ 1})).
			To(Equal(ecc.Parity(0x26)))
		Expect(ecc.GenerateParity(ecc.Word128{Lo: correctData ^ 3})).
			To(Equal(ecc.Parity(0xa3)))
		Expect(ecc.GenerateParity(ecc.Word128{})).To(Equal(ecc.Parity(0)))
		Expect(ecc.GenerateParity(ecc.Word128{Lo: ^uint64(0)})).
			To(Equal(ecc.Parity(0xe4)))
	})

	It("should fold the address into the parity", func() {
		Expect(ecc.ParityOf(correctData, 0x28000000, bank)).
			To(Equal(ecc.Parity(0xa5)))
		Expect(ecc.ParityOf(correctData, 0x28000008, bank)).
			To(Equal(ecc.Parity(0x43)))
		Expect(ecc.ParityOf(correctData, 0x28000100, bank)).
			To(Equal(ecc.Parity(0x7f)))
		Expect(ecc.ParityOf(correctData, 0x28001000, bank)).
			To(Equal(ecc.Parity(0x08)))
		Expect(ecc.ParityOf(correctData^1, 0x28001000, bank)).
			To(Equal(ecc.Parity(0x8b)))
	})

	It("should be deterministic", func() {
		baseline := ecc.ParityOf(correctData, 0x28001000, bank)

		for i := 0; i < 100; i++ {
			Expect(ecc.ParityOf(correctData, 0x28001000, bank)).
				To(Equal(baseline))
		}
	})

	It("should change when bit 0 of the data flips", func() {
		baseline := ecc.GenerateParity(ecc.Word128{Lo: correctData})
		flipped := ecc.GenerateParity(ecc.Word128{Lo: correctData ^ 1})

		Expect(flipped).NotTo(Equal(baseline))
		Expect(baseline ^ flipped).To(Equal(ecc.Parity(0x83)))
	})

	It("should be linear over GF(2)", func() {
		r := rand.New(rand.NewSource(1))

		for i := 0; i < 1000; i++ {
			w1 := ecc.Word128{Lo: r.Uint64(), Hi: r.Uint64()}
			w2 := ecc.Word128{Lo: r.Uint64(), Hi: r.Uint64()}

			Expect(ecc.GenerateParity(w1.Xor(w2))).To(Equal(
				ecc.GenerateParity(w1) ^ ecc.GenerateParity(w2)))
		}
	})

	It("should keep the 1-bit and 2-bit parity distances", func() {
		for addr := bank.Base; addr < bank.Base+0x400; addr += 8 {
			p := ecc.ParityOf(correctData, addr, bank)
			p1 := p ^ 1
			p2 := p ^ 3

			Expect(p1 ^ p).To(Equal(ecc.Parity(1)))
			Expect(p2 ^ p).To(Equal(ecc.Parity(3)))
		}
	})

	It("should expose identity columns for the stored parity bits", func() {
		for i := 0; i < ecc.NumParityBits; i++ {
			row := ecc.MatrixRow(i)
			Expect(row.Hi >> 56).To(Equal(uint64(1) << uint(i)))
		}
	})
})

var _ = Describe("Syndrome decoding", func() {
	var (
		bank ecc.Bank
		addr uint64
		good ecc.Parity
	)

	BeforeEach(func() {
		bank = ecc.Bank{Base: 0x28000000, Size: 0x80000}
		addr = 0x28001000
		good = ecc.ParityOf(correctData, addr, bank)
	})

	It("should report no error for a clean word", func() {
		s := ecc.Syndrome(correctData, good, addr, bank)

		Expect(s).To(Equal(ecc.Parity(0)))
		Expect(ecc.Classify(s)).To(Equal(ecc.NoError))
	})

	It("should locate every single data bit error", func() {
		for bit := 0; bit < 64; bit++ {
			s := ecc.Syndrome(correctData^(1<<uint(bit)), good, addr, bank)

			Expect(ecc.Classify(s)).To(Equal(ecc.Correctable))
			Expect(bits.OnesCount8(uint8(s)) % 2).To(Equal(1))

			located, ok := ecc.Locate(s)
			Expect(ok).To(BeTrue())
			Expect(located).To(Equal(bit))
		}
	})

	It("should locate every single parity bit error", func() {
		for bit := 0; bit < ecc.NumParityBits; bit++ {
			s := ecc.Syndrome(correctData, good^ecc.Parity(1<<uint(bit)),
				addr, bank)

			Expect(s).To(Equal(ecc.Parity(1 << uint(bit))))
			Expect(ecc.Classify(s)).To(Equal(ecc.Correctable))

			located, ok := ecc.Locate(s)
			Expect(ok).To(BeTrue())
			Expect(located).To(Equal(ecc.FirstParityBit + bit))
		}
	})

	It("should detect double bit errors as uncorrectable", func() {
		Expect(ecc.Classify(ecc.Syndrome(correctData^3, good, addr, bank))).
			To(Equal(ecc.Uncorrectable))
		Expect(ecc.Classify(ecc.Syndrome(correctData, good^3, addr, bank))).
			To(Equal(ecc.Uncorrectable))
		Expect(ecc.Classify(ecc.Syndrome(correctData^1, good^1, addr, bank))).
			To(Equal(ecc.Uncorrectable))
	})

	It("should correct a data bit", func() {
		data, parity, class := ecc.Correct(correctData^1, good, addr, bank)

		Expect(class).To(Equal(ecc.Correctable))
		Expect(data).To(Equal(correctData))
		Expect(parity).To(Equal(good))
	})

	It("should correct a parity bit", func() {
		data, parity, class := ecc.Correct(correctData, good^1, addr, bank)

		Expect(class).To(Equal(ecc.Correctable))
		Expect(data).To(Equal(correctData))
		Expect(parity).To(Equal(good))
	})

	It("should leave uncorrectable words untouched", func() {
		data, parity, class := ecc.Correct(correctData^3, good, addr, bank)

		Expect(class).To(Equal(ecc.Uncorrectable))
		Expect(data).To(Equal(correctData ^ 3))
		Expect(parity).To(Equal(good))
	})
})
