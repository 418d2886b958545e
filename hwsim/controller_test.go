package hwsim_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/fault"
	"github.com/sarchlab/eccinject/hwsim"
	"github.com/sarchlab/eccinject/idgen"
	"github.com/sarchlab/eccinject/injection"
)

const (
	cellAddr    = uint64(0x28001000)
	correctData = uint64(0x5A5A5A5A5A5A5A5A)
)

var _ = Describe("Controller", func() {
	var (
		ctrl *hwsim.Controller
		bank ecc.Bank
	)

	BeforeEach(func() {
		ctrl = hwsim.MakeBuilder().Build("SRAM0")
		bank = ctrl.Bank()
		fault.Arm(ctrl.Faults, fault.ConfigInterrupt)
	})

	It("should store the computed parity on plain writes", func() {
		ctrl.Write64(cellAddr, correctData)

		p, ok := ctrl.StoredParity(cellAddr)
		Expect(ok).To(BeTrue())
		Expect(p).To(Equal(ecc.ParityOf(correctData, cellAddr, bank)))
		Expect(ctrl.Read64(cellAddr)).To(Equal(correctData))
	})

	It("should not check when ECC is disabled", func() {
		ctrl.Write64(cellAddr, correctData)
		ctrl.Registers.SetWordAddress(0x200)
		ctrl.Registers.SetParity(0)
		ctrl.Registers.SetFlags(injection.FlagInjectEnable)
		ctrl.Write64(cellAddr, correctData)

		Expect(ctrl.Read64(cellAddr)).To(Equal(correctData))
		Expect(ctrl.Faults.ErrorSource()).To(Equal(fault.SourceNoFault))
	})

	It("should store the injected parity only on the selected word", func() {
		ctrl.Registers.SetWordAddress(uint32(bank.WordOffset(cellAddr)))
		ctrl.Registers.SetParity(0x42)
		ctrl.Registers.SetFlags(injection.FlagsArm)

		ctrl.Write64(cellAddr, correctData)
		ctrl.Write64(cellAddr+8, correctData)

		p, _ := ctrl.StoredParity(cellAddr)
		Expect(p).To(Equal(ecc.Parity(0x42)))

		p, _ = ctrl.StoredParity(cellAddr + 8)
		Expect(p).To(Equal(ecc.ParityOf(correctData, cellAddr+8, bank)))
		Expect(ctrl.Stats().Injected).To(Equal(uint64(1)))
	})

	It("should correct single bit errors on read", func() {
		good := ecc.ParityOf(correctData, cellAddr, bank)
		ctrl.Registers.SetWordAddress(uint32(bank.WordOffset(cellAddr)))
		ctrl.Registers.SetParity(good)
		ctrl.Registers.SetFlags(injection.FlagsArm)
		ctrl.Write64(cellAddr, correctData^1)

		Expect(ctrl.Read64(cellAddr)).To(Equal(correctData))
		Expect(ctrl.Peek64(cellAddr)).To(Equal(correctData ^ 1))
		Expect(ctrl.Faults.ErrorSource()).
			To(Equal(fault.SourceRAMC0CorrectableECC))
		Expect(ctrl.Faults.Address()).To(Equal(uint32(cellAddr)))
		Expect(ctrl.Faults.Info()).To(Equal(uint32(0x83)))
		Expect(ctrl.Stats().Corrected).To(Equal(uint64(1)))
	})

	It("should report double bit errors as uncorrectable", func() {
		good := ecc.ParityOf(correctData, cellAddr, bank)
		ctrl.Registers.SetWordAddress(uint32(bank.WordOffset(cellAddr)))
		ctrl.Registers.SetParity(good ^ 3)
		ctrl.Registers.SetFlags(injection.FlagsArm)
		ctrl.Write64(cellAddr, correctData)

		Expect(ctrl.Read64(cellAddr)).To(Equal(correctData))
		Expect(ctrl.Faults.ErrorSource()).
			To(Equal(fault.SourceRAMC0NonCorrectableECC))
		Expect(ctrl.Stats().Uncorrectable).To(Equal(uint64(1)))
	})

	It("should panic on addresses outside the bank", func() {
		Expect(func() { ctrl.Write64(0x08000000, 0) }).To(Panic())
		Expect(func() { ctrl.Read64(cellAddr + 4) }).To(Panic())
	})

	It("should keep memory and status across a reset", func() {
		ctrl.Write64(cellAddr, correctData)
		ctrl.Faults.Raise(fault.SourceRAMC0CorrectableECC, 1, 2)
		ctrl.Registers.SetFlags(injection.FlagsArm)

		ctrl.Reset()

		Expect(ctrl.Registers.Snapshot()).To(Equal(hwsim.RegisterSnapshot{}))
		Expect(ctrl.Peek64(cellAddr)).To(Equal(correctData))
		Expect(ctrl.Faults.ErrorSource()).
			To(Equal(fault.SourceRAMC0CorrectableECC))
	})
})

var _ = Describe("Injection through the simulated controller", func() {
	var (
		ctrl     *hwsim.Controller
		cell     *hwsim.Cell
		clock    *hwsim.VirtualClock
		led      *hwsim.LED
		out      *bytes.Buffer
		injector *injection.Injector
		handler  *fault.Handler
		reports  []fault.Report
		correct  ecc.Parity
	)

	BeforeEach(func() {
		ctrl = hwsim.MakeBuilder().Build("SRAM0")
		cell = ctrl.Cell(cellAddr)
		clock = &hwsim.VirtualClock{}
		led = &hwsim.LED{}
		out = new(bytes.Buffer)
		reports = nil
		correct = ecc.ParityOf(correctData, cellAddr, ctrl.Bank())

		injector = injection.MakeBuilder().
			WithBank(ctrl.Bank()).
			WithControlRegister(ctrl.Registers).
			WithClock(clock).
			WithIDGenerator(idgen.NewSequential()).
			Build("Injector")

		handler = fault.MakeBuilder().
			WithStatus(ctrl.Faults).
			WithControlRegister(ctrl.Registers).
			WithSignal(led).
			WithClock(clock).
			WithOutput(out).
			Build("FaultHandler")
	})

	registerHandler := func() {
		ctrl.Faults.RegisterInterruptHandler(func() {
			reports = append(reports, handler.Handle())
		})
	}

	It("should leave correct data and a 1-bit parity in the registers", func() {
		fault.Arm(ctrl.Faults, fault.ConfigInterrupt)

		injector.Inject(cell, injection.PresetCorrectableByParity)

		Expect(ctrl.Peek64(cellAddr)).To(Equal(uint64(0x5A5A5A5A5A5A5A5A)))

		regs := ctrl.Registers.Snapshot()
		Expect(regs.Parity).To(Equal(correct ^ 1))
		Expect(regs.WordAddress).To(Equal(uint32(0x200)))
		Expect(regs.InjectEnable).To(BeTrue())
		Expect(regs.ECCEnable).To(BeTrue())
		Expect(regs.AutoCorrect).To(BeTrue())
		Expect(ctrl.Faults.ErrorSource()).
			To(Equal(fault.SourceRAMC0CorrectableECC))
		Expect(clock.Now()).To(Equal(50 * time.Millisecond))
	})

	It("should leave flipped data and the correct parity", func() {
		injector.Inject(cell, injection.PresetCorrectableByData)

		Expect(ctrl.Peek64(cellAddr)).To(Equal(uint64(0x5A5A5A5A5A5A5A5B)))
		Expect(ctrl.Registers.Snapshot().Parity).To(Equal(correct))

		p, _ := ctrl.StoredParity(cellAddr)
		Expect(p).To(Equal(correct))
	})

	It("should let the handler clear the interrupt and disarm", func() {
		registerHandler()
		fault.Arm(ctrl.Faults, fault.ConfigInterrupt)

		injector.Inject(cell, injection.PresetCorrectableByParity)

		Expect(reports).To(HaveLen(1))
		Expect(reports[0]).To(Equal(fault.Report{
			Address: uint32(cellAddr),
			Info:    0x01,
			Source:  fault.SourceRAMC0CorrectableECC,
		}))
		Expect(ctrl.Faults.InterruptPending()).To(BeFalse())

		regs := ctrl.Registers.Snapshot()
		Expect(regs.InjectEnable).To(BeFalse())
		Expect(regs.ECCCtl).To(BeZero())
		Expect(led.Toggles()).To(Equal(6))
		Expect(led.On()).To(BeFalse())
		Expect(out.String()).To(ContainSubstring(
			"CY_SYSFAULT_RAMC0_C_ECC fault detected in structure 0:"))
	})

	DescribeTable("checker verdicts",
		func(preset injection.Preset, source fault.Source) {
			registerHandler()
			fault.Arm(ctrl.Faults, fault.ConfigInterrupt)

			injector.Inject(cell, preset)

			if source == fault.SourceNoFault {
				Expect(reports).To(BeEmpty())
				return
			}

			Expect(reports).To(HaveLen(1))
			Expect(reports[0].Source).To(Equal(source))
		},
		Entry("clean", injection.PresetClean, fault.SourceNoFault),
		Entry("1-bit parity", injection.PresetCorrectableByParity,
			fault.SourceRAMC0CorrectableECC),
		Entry("1-bit data", injection.PresetCorrectableByData,
			fault.SourceRAMC0CorrectableECC),
		Entry("2-bit parity", injection.PresetUncorrectableByParity,
			fault.SourceRAMC0NonCorrectableECC),
		Entry("2-bit data", injection.PresetUncorrectableByData,
			fault.SourceRAMC0NonCorrectableECC),
		Entry("1-bit data and 1-bit parity", injection.PresetUncorrectableMixed,
			fault.SourceRAMC0NonCorrectableECC),
	)

	It("should be repeatable once the handler disarmed", func() {
		registerHandler()

		for i := 0; i < 3; i++ {
			fault.Arm(ctrl.Faults, fault.ConfigInterrupt)
			injector.Inject(cell, injection.PresetCorrectableByParity)
		}

		Expect(reports).To(HaveLen(3))
		Expect(led.Toggles()).To(Equal(18))
	})
})
