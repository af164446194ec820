//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/infra"
	"github.com/grokdesk/grokdesk/internal/policy"
	"github.com/grokdesk/grokdesk/internal/shell"
	"github.com/grokdesk/grokdesk/internal/usecase"
	"github.com/grokdesk/grokdesk/test/fixtures"
)

// primaryProcess bundles the wiring one launch would build: a real lock
// gate and restore store on disk, fake window host and desktop.
type primaryProcess struct {
	gate        *infra.FlockGate
	store       *infra.FileRestoreStore
	host        *fixtures.FakeHost
	desktop     *fixtures.FakeDesktop
	controller  *shell.Controller
	coordinator *shell.Coordinator
	quit        chan struct{}
}

var _ = Describe("Single Instance Handoff", func() {
	var (
		tmpDir      string
		lockPath    string
		sockPath    string
		restorePath string
		pm          domain.ProcessManager
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "grokdesk-integration-*")
		Expect(err).NotTo(HaveOccurred())

		lockPath = filepath.Join(tmpDir, "instance.lock")
		sockPath = filepath.Join(tmpDir, "instance.sock")
		restorePath = filepath.Join(tmpDir, "restore.json")
		pm = infra.NewProcessManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	newPrimary := func() *primaryProcess {
		p := &primaryProcess{
			gate:    infra.NewFlockGate(lockPath, sockPath, pm, nil),
			store:   infra.NewFileRestoreStore(restorePath, nil),
			host:    &fixtures.FakeHost{},
			desktop: &fixtures.FakeDesktop{},
			quit:    make(chan struct{}, 1),
		}
		interceptor := usecase.NewInterceptor(policy.DefaultAllowList(), p.desktop, nil, nil)
		p.controller = shell.NewController(
			shell.DefaultControllerConfig(policy.DefaultURL),
			p.host, interceptor, p.store, nil)
		p.coordinator = shell.NewCoordinator(
			p.gate, p.controller, p.store, interceptor, p.desktop,
			func() {
				select {
				case p.quit <- struct{}{}:
				default:
				}
			}, nil)
		return p
	}

	Describe("lock acquisition", func() {
		It("admits exactly one primary and signals it on later attempts", func() {
			primary := newPrimary()
			defer primary.gate.Close()

			ok, err := primary.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			second := infra.NewFlockGate(lockPath, sockPath, pm, nil)
			ok, err = second.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse(), "second launch must not become primary")

			Eventually(primary.gate.SecondInstance(), 2*time.Second).Should(Receive())
		})
	})

	Describe("focused primary handoff", func() {
		It("captures the current URL, quits, and the next launch resumes there", func() {
			primary := newPrimary()
			defer primary.gate.Close()

			ok, err := primary.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			Expect(primary.controller.CreateWindow()).To(Succeed())
			win := primary.host.Last()
			Expect(win.SimulateNavigation("https://grok.com/chat/42")).To(BeTrue())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = primary.coordinator.Run(ctx) }()

			// Second launch: the failed acquisition dials the primary's socket.
			second := newPrimary()
			ok, err = second.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			Eventually(primary.quit, 2*time.Second).Should(Receive())

			url, found := primary.store.Read()
			Expect(found).To(BeTrue())
			Expect(url).To(Equal("https://grok.com/chat/42"))

			// Next launch with the same on-disk state resumes at the
			// captured URL and consumes the record.
			next := newPrimary()
			Expect(next.controller.CreateWindow()).To(Succeed())
			Expect(next.host.Last().LoadedURLs).To(Equal([]string{"https://grok.com/chat/42"}))

			_, found = next.store.Read()
			Expect(found).To(BeFalse(), "restore record is one-shot")
		})

		It("treats a captured record equal to the default URL as a fresh start", func() {
			primary := newPrimary()
			defer primary.gate.Close()

			ok, err := primary.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			// Window sits at the default destination when the hand-off hits.
			Expect(primary.controller.CreateWindow()).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = primary.coordinator.Run(ctx) }()

			second := newPrimary()
			_, err = second.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())

			Eventually(primary.quit, 2*time.Second).Should(Receive())

			url, found := primary.store.Read()
			Expect(found).To(BeTrue())
			Expect(url).To(Equal(policy.DefaultURL))

			// The next launch discards the record instead of replaying it.
			next := newPrimary()
			Expect(next.controller.CreateWindow()).To(Succeed())
			Expect(next.host.Last().LoadedURLs).To(Equal([]string{policy.DefaultURL}))

			_, found = next.store.Read()
			Expect(found).To(BeFalse())
		})
	})

	Describe("background primary", func() {
		It("surfaces the existing window instead of quitting", func() {
			primary := newPrimary()
			defer primary.gate.Close()

			ok, err := primary.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			Expect(primary.controller.CreateWindow()).To(Succeed())
			win := primary.host.Last()
			win.SetState(domain.WindowState{Visible: true, Minimized: true})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = primary.coordinator.Run(ctx) }()

			second := newPrimary()
			_, err = second.gate.Acquire()
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() int {
				return win.PresentCalls
			}, 2*time.Second).Should(BeNumerically(">", 0))

			Consistently(primary.quit, 300*time.Millisecond).ShouldNot(Receive())

			_, found := primary.store.Read()
			Expect(found).To(BeFalse(), "background hand-off must not capture state")
		})
	})
})
