package launcher_test

import (
	"errors"

	"github.com/Johann-Goncalves-Pereira/vaultbrowse/pkg/launcher"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4/vfst"
)

type recordingRunner struct {
	ran     [][]string
	started [][]string
	err     error
}

func (r *recordingRunner) Run(command string, args ...string) (string, error) {
	r.ran = append(r.ran, append([]string{command}, args...))
	return "LSOpenURLsWithRole() failed", r.err
}

func (r *recordingRunner) Start(command string, args ...string) error {
	r.started = append(r.started, append([]string{command}, args...))
	return r.err
}

var _ = Describe("application launcher", func() {
	var r *recordingRunner

	BeforeEach(func() {
		r = &recordingRunner{}
	})

	Context("Installed", func() {
		It("checks the application bundle location", func() {
			fs, cleanup, err := vfst.NewTestFS(map[string]interface{}{
				"/Applications/Firefox.app": &vfst.Dir{Perm: 0o755},
			})
			Expect(err).ToNot(HaveOccurred())
			defer cleanup()

			Expect(launcher.Installed(fs, "/Applications/Firefox.app")).To(BeTrue())
			Expect(launcher.Installed(fs, "/Applications/Orion.app")).To(BeFalse())
		})
	})

	Context("Open", func() {
		It("waits with -W and passes the profile argument pair", func() {
			Expect(launcher.Open(r, "/Applications/Firefox.app", true, "/Volumes/Profile/Secure")).To(Succeed())
			Expect(r.ran).To(HaveLen(1))
			Expect(r.ran[0]).To(Equal([]string{"open", "-W", "-a", "/Applications/Firefox.app", "--args", "--profile", "/Volumes/Profile/Secure"}))
			Expect(r.started).To(BeEmpty())
		})

		It("detaches without -W when not waiting", func() {
			Expect(launcher.Open(r, "/Applications/Firefox.app", false, "")).To(Succeed())
			Expect(r.ran).To(BeEmpty())
			Expect(r.started).To(HaveLen(1))
			Expect(r.started[0]).To(Equal([]string{"open", "-a", "/Applications/Firefox.app"}))
		})

		It("surfaces the tool output on synchronous failure", func() {
			r.err = errors.New("exit status 1")
			err := launcher.Open(r, "/Applications/Firefox.app", true, "")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("LSOpenURLsWithRole"))
		})
	})
})
