package injection

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/hooking"
	"github.com/sarchlab/eccinject/idgen"
)

const (
	cellAddr    = uint64(0x28001000)
	correctData = uint64(0x5A5A5A5A5A5A5A5A)

	// parity of correctData at word 0x200 of SRAM0
	correctParity = ecc.Parity(0x08)
)

var _ = Describe("Injector", func() {
	var (
		mockCtrl *gomock.Controller
		cell     *MockCell
		control  *MockControlRegister
		clock    *MockClock
		injector *Injector
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		cell = NewMockCell(mockCtrl)
		control = NewMockControlRegister(mockCtrl)
		clock = NewMockClock(mockCtrl)

		cell.EXPECT().Address().Return(cellAddr).AnyTimes()

		injector = MakeBuilder().
			WithControlRegister(control).
			WithClock(clock).
			WithIDGenerator(idgen.NewSequential()).
			Build("Injector")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should plan a 1-bit parity injection", func() {
		inj := injector.Plan(cellAddr, PresetCorrectableByParity)

		Expect(inj.WordAddress).To(Equal(uint32(0x200)))
		Expect(inj.CorrectParity).To(Equal(correctParity))
		Expect(inj.Parity).To(Equal(correctParity ^ 1))
		Expect(inj.Data).To(Equal(correctData))
	})

	It("should plan every valid preset", func() {
		for _, p := range []Preset{
			PresetClean,
			PresetCorrectableByParity,
			PresetCorrectableByData,
			PresetUncorrectableByParity,
			PresetUncorrectableByData,
			PresetUncorrectableMixed,
		} {
			inj := injector.Plan(cellAddr, p)

			Expect(inj.Parity ^ inj.CorrectParity).
				To(Equal(ecc.Parity(p.Parity.Mask())))
			Expect(inj.Data ^ correctData).To(Equal(p.Data.Mask()))
		}
	})

	It("should panic when planning more than 2 flipped bits", func() {
		Expect(func() {
			injector.Plan(cellAddr, Preset{Data: TwoBit, Parity: OneBit})
		}).To(Panic())
		Expect(func() {
			injector.Plan(cellAddr, Preset{Data: OneBit, Parity: TwoBit})
		}).To(Panic())
		Expect(func() {
			injector.Plan(cellAddr, Preset{Data: TwoBit, Parity: TwoBit})
		}).To(Panic())
	})

	It("should inject a 1-bit parity error", func() {
		gomock.InOrder(
			cell.EXPECT().Store(correctData),
			cell.EXPECT().Store(correctData),
			control.EXPECT().SetWordAddress(uint32(0x200)),
			control.EXPECT().SetParity(correctParity^1),
			control.EXPECT().SetFlags(FlagsArm),
			cell.EXPECT().Store(correctData),
			clock.EXPECT().Sleep(50*time.Millisecond),
			cell.EXPECT().Load().Return(correctData),
		)

		inj := injector.Inject(cell, PresetCorrectableByParity)

		Expect(inj.ID).To(Equal("1"))
		Expect(inj.Parity).To(Equal(correctParity ^ 1))
	})

	It("should inject a 1-bit data error", func() {
		gomock.InOrder(
			cell.EXPECT().Store(correctData),
			cell.EXPECT().Store(uint64(0x5A5A5A5A5A5A5A5B)),
			control.EXPECT().SetWordAddress(uint32(0x200)),
			control.EXPECT().SetParity(correctParity),
			control.EXPECT().SetFlags(FlagsArm),
			cell.EXPECT().Store(uint64(0x5A5A5A5A5A5A5A5B)),
			clock.EXPECT().Sleep(50*time.Millisecond),
			cell.EXPECT().Load().Return(correctData),
		)

		inj := injector.Inject(cell, PresetCorrectableByData)

		Expect(inj.Data).To(Equal(uint64(0x5A5A5A5A5A5A5A5B)))
	})

	It("should fail fast without arming on an invalid preset", func() {
		cell.EXPECT().Store(correctData)

		Expect(func() {
			injector.Inject(cell, Preset{Data: TwoBit, Parity: OneBit})
		}).To(Panic())
	})

	It("should refuse cells outside the bank", func() {
		outside := NewMockCell(mockCtrl)
		outside.EXPECT().Address().Return(uint64(0x08000000)).AnyTimes()

		Expect(func() {
			injector.Inject(outside, PresetCorrectableByParity)
		}).To(Panic())
	})

	It("should report the protocol through hooks", func() {
		cell.EXPECT().Store(gomock.Any()).Times(3)
		control.EXPECT().SetWordAddress(gomock.Any())
		control.EXPECT().SetParity(gomock.Any())
		control.EXPECT().SetFlags(FlagsArm)
		clock.EXPECT().Sleep(gomock.Any())
		cell.EXPECT().Load()

		var positions []string
		injector.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions = append(positions, ctx.Pos.Name)
			Expect(ctx.Item).To(BeAssignableToTypeOf(Injection{}))
			Expect(ctx.Domain).To(BeIdenticalTo(injector))
		}))

		injector.Inject(cell, PresetCorrectableByParity)

		Expect(positions).To(Equal([]string{
			"InjectStart", "InjectArmed", "InjectEnd",
		}))
	})
})

var _ = Describe("Builder", func() {
	It("should refuse to build without a control register", func() {
		Expect(func() { MakeBuilder().Build("Injector") }).To(Panic())
	})

	It("should refuse an invalid bank", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		control := NewMockControlRegister(mockCtrl)

		Expect(func() {
			MakeBuilder().
				WithControlRegister(control).
				WithBank(ecc.Bank{Base: 0x28000000, Size: 3000}).
				Build("Injector")
		}).To(Panic())
	})

	It("should refuse a bank larger than the word address field", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		control := NewMockControlRegister(mockCtrl)

		Expect(func() {
			MakeBuilder().
				WithControlRegister(control).
				WithBank(ecc.Bank{Base: 0, Size: 1 << 28}).
				Build("Injector")
		}).To(Panic())
	})
})
