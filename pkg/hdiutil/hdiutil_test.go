package hdiutil_test

import (
	"errors"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/hdiutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const infoOutput = "framework       : 646.120.1\n" +
	"driver          : 646.120.1\n" +
	"================================================\n" +
	"image-path      : /Users/tester/Vault/Profile.dmg\n" +
	"image-type      : UDIF read/write\n" +
	"image-encrypted : true\n" +
	"/dev/disk4\tGUID_partition_scheme\t\n" +
	"/dev/disk4s1\tApple_HFS\t/Volumes/Profile\n" +
	"================================================\n" +
	"image-path      : /Users/tester/Other.dmg\n" +
	"/dev/disk5\tGUID_partition_scheme\t\n" +
	"================================================\n"

type scriptedRunner struct {
	calls [][]string
	out   string
	err   error
}

func (s *scriptedRunner) Run(command string, args ...string) (string, error) {
	s.calls = append(s.calls, append([]string{command}, args...))
	return s.out, s.err
}

func (s *scriptedRunner) Start(command string, args ...string) error {
	return nil
}

var _ = Describe("disk image info", func() {
	It("reports images with their mount points", func() {
		r := &scriptedRunner{out: infoOutput}
		images, err := hdiutil.Info(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(r.calls).To(HaveLen(1))
		Expect(r.calls[0]).To(Equal([]string{"hdiutil", "info"}))

		Expect(images).To(HaveLen(2))
		Expect(images[0].Path).To(Equal("/Users/tester/Vault/Profile.dmg"))
		Expect(images[0].Entities).To(HaveLen(2))
		Expect(images[0].Entities[0].MountPoint).To(BeEmpty())
		Expect(images[0].Entities[1].MountPoint).To(Equal("/Volumes/Profile"))
		Expect(images[1].Path).To(Equal("/Users/tester/Other.dmg"))
	})

	It("propagates tool failures", func() {
		r := &scriptedRunner{out: "hdiutil: info failed", err: errors.New("exit status 1")}
		_, err := hdiutil.Info(r)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("info failed"))
	})

	Context("MountPoint", func() {
		var images []hdiutil.Image

		BeforeEach(func() {
			r := &scriptedRunner{out: infoOutput}
			var err error
			images, err = hdiutil.Info(r)
			Expect(err).ToNot(HaveOccurred())
		})

		It("returns the first mount point of the matching image", func() {
			mp, ok := hdiutil.MountPoint(images, "/Users/tester/Vault/Profile.dmg")
			Expect(ok).To(BeTrue())
			Expect(mp).To(Equal("/Volumes/Profile"))
		})
		It("does not match images without a mount point", func() {
			_, ok := hdiutil.MountPoint(images, "/Users/tester/Other.dmg")
			Expect(ok).To(BeFalse())
		})
		It("does not match unknown images", func() {
			_, ok := hdiutil.MountPoint(images, "/nowhere.dmg")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("attach output parsing", func() {
	It("finds the mount path in the last tab column", func() {
		out := "/dev/disk4\tGUID_partition_scheme\t\n/dev/disk4s1\tApple_HFS\t/Volumes/Profile\n"
		mp, ok := hdiutil.ParseAttachOutput(out, "/Volumes")
		Expect(ok).To(BeTrue())
		Expect(mp).To(Equal("/Volumes/Profile"))
	})
	It("ignores device columns", func() {
		out := "/dev/disk4\tGUID_partition_scheme\t\n"
		_, ok := hdiutil.ParseAttachOutput(out, "/Volumes")
		Expect(ok).To(BeFalse())
	})
	It("handles volume names with spaces", func() {
		out := "/dev/disk4s1\tApple_HFS\t/Volumes/Profile Secure\n"
		mp, ok := hdiutil.ParseAttachOutput(out, "/Volumes")
		Expect(ok).To(BeTrue())
		Expect(mp).To(Equal("/Volumes/Profile Secure"))
	})
})

var _ = Describe("cancellation detection", func() {
	It("recognizes the known prompt-dismissal wordings", func() {
		Expect(hdiutil.Cancelled("hdiutil: attach failed - attach canceled")).To(BeTrue())
		Expect(hdiutil.Cancelled("hdiutil: attach failed - authentication error")).To(BeTrue())
		Expect(hdiutil.Cancelled("Authentication_Canceled")).To(BeTrue())
	})
	It("is case sensitive", func() {
		Expect(hdiutil.Cancelled("ATTACH CANCELED")).To(BeFalse())
	})
	It("rejects unrelated failures", func() {
		Expect(hdiutil.Cancelled("hdiutil: attach failed - no such file or directory")).To(BeFalse())
	})
})
