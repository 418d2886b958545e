package hwsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/eccinject/hwsim"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := hwsim.NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(0, 2)
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := hwsim.NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(4094, 4)
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should return error if accessing over the capacity", func() {
		storage := hwsim.NewStorage(4096)

		err := storage.Write(4097, []byte{1})
		Expect(err).To(MatchError(hwsim.ErrBeyondCapacity))

		_, err = storage.Read(4097, 1)
		Expect(err).To(MatchError(hwsim.ErrBeyondCapacity))
	})

	It("should keep 64-bit words little endian", func() {
		storage := hwsim.NewStorageWithUnitSize(64, 16)
		Expect(storage.Write64(12, 0x0102030405060708)).To(Succeed())

		raw, _ := storage.Read(12, 8)
		Expect(raw).To(Equal([]byte{8, 7, 6, 5, 4, 3, 2, 1}))

		v, err := storage.Read64(12)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(0x0102030405060708)))
	})
})
