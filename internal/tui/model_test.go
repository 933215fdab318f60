package tui_test

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/sd-scan/internal/bringup"
	"github.com/joe/sd-scan/internal/tui"
	"github.com/joe/sd-scan/pkg/volume"
)

var errNoCard = errors.New("no card inserted")

var _ = Describe("Model", func() {
	var (
		bridge *tui.EventBridge
		model  *tui.Model
	)

	BeforeEach(func() {
		bridge = tui.NewEventBridge()
		model = tui.NewModel(bridge, "mem://")
	})

	send := func(event bringup.Event) tea.Cmd {
		_, cmd := model.Update(tui.EventMsg{Event: event})
		return cmd
	}

	Describe("Phase Tracking", func() {
		It("starts connecting", func() {
			Expect(model.Phase()).To(Equal(tui.PhaseConnecting))
		})

		It("shows failed attempts while connecting", func() {
			send(bringup.ConnectAttempt{Attempt: 3})
			send(bringup.ConnectFailed{Attempt: 3, Err: errNoCard})

			view := model.View()
			Expect(view).To(ContainSubstring("attempt 3"))
			Expect(view).To(ContainSubstring("Card not connected: no card inserted"))
		})

		It("follows a run through every phase", func() {
			send(bringup.Connected{Attempt: 1})
			Expect(model.Phase()).To(Equal(tui.PhaseMounting))

			send(bringup.Mounted{Usage: &volume.Usage{TotalBytes: 2_000_000, FreeBytes: 1_000_000}})
			Expect(model.Phase()).To(Equal(tui.PhaseTestFile))
			Expect(model.View()).To(ContainSubstring("1.0 MB free of 2.0 MB"))

			send(bringup.ScanStarted{Root: "/"})
			Expect(model.Phase()).To(Equal(tui.PhaseScanning))

			send(bringup.DirEntered{Path: "/data", Depth: 1})
			send(bringup.FileFound{Path: "/data/a.txt"})
			Expect(model.View()).To(ContainSubstring("Scanning /data (1 files)"))

			_, cmd := model.Update(tui.FinishedMsg{})
			Expect(cmd).ToNot(BeNil())
			Expect(model.Phase()).To(Equal(tui.PhaseDone))
			Expect(model.Cancelled()).To(BeFalse())
		})

		It("marks the run failed when it finishes with an error", func() {
			_, _ = model.Update(tui.FinishedMsg{Err: bringup.ErrNotMounted})

			Expect(model.Phase()).To(Equal(tui.PhaseFailed))
			Expect(model.Err()).To(MatchError(bringup.ErrNotMounted))
			Expect(model.View()).To(ContainSubstring("volume not mounted"))
		})
	})

	Describe("Final summary", func() {
		drain := func() {
			listen := bridge.ListenCmd()
			for msg := listen(); msg != nil; msg = listen() {
				model.Update(msg)
			}
		}

		It("reports the run result when per-file events were dropped", func() {
			bridge.Emit(bringup.ScanStarted{Root: "/"})
			for i := range 300 {
				bridge.Emit(bringup.FileFound{Path: fmt.Sprintf("/f%03d", i)})
			}
			bridge.Emit(bringup.ScanComplete{Result: bringup.ScanResult{Root: "/", Files: 300, Dirs: 1}})

			go bridge.Finish(bringup.RunResult{Scan: bringup.ScanResult{Root: "/", Files: 300, Dirs: 1}}, nil)
			drain()

			Expect(model.Phase()).To(Equal(tui.PhaseDone))
			Expect(model.View()).To(ContainSubstring("Scan complete: 300 files in 1 directories"))
		})

		It("reports the files scanned before a failure", func() {
			scanErr := errors.New("read error")
			for i := range 300 {
				bridge.Emit(bringup.FileFound{Path: fmt.Sprintf("/f%03d", i)})
			}

			go bridge.Finish(bringup.RunResult{Scan: bringup.ScanResult{Root: "/", Files: 300}}, scanErr)
			drain()

			Expect(model.Phase()).To(Equal(tui.PhaseFailed))
			Expect(model.View()).To(ContainSubstring("Failed after 300 files"))
		})
	})

	Describe("Recent paths", func() {
		It("keeps only the latest ten", func() {
			for i := range 15 {
				send(bringup.FileFound{Path: fmt.Sprintf("/f%02d", i)})
			}

			recent := model.RecentPaths()
			Expect(recent).To(HaveLen(10))
			Expect(recent[0]).To(Equal("/f05"))
			Expect(recent[9]).To(Equal("/f14"))
		})
	})

	Describe("Test file", func() {
		It("reports a verified test file", func() {
			send(bringup.TestFileWritten{Path: "/oi123.txt", Size: 1000, Digest: "0123456789abcdef"})
			Expect(model.View()).To(ContainSubstring("/oi123.txt verified (0123456789ab)"))
		})

		It("reports a failed test file without failing the run", func() {
			send(bringup.TestFileFailed{Path: "/oi123.txt", Err: bringup.ErrTestFileExists})
			Expect(model.View()).To(ContainSubstring("test file already exists"))
			Expect(model.Phase()).ToNot(Equal(tui.PhaseFailed))
		})
	})

	Describe("Keys", func() {
		It("quits and records the cancel on q", func() {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
			Expect(cmd).ToNot(BeNil())
			Expect(model.Cancelled()).To(BeTrue())
		})

		It("ignores other keys", func() {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
			Expect(cmd).To(BeNil())
			Expect(model.Cancelled()).To(BeFalse())
		})
	})

	Describe("Listening", func() {
		It("keeps listening after every event", func() {
			bridge.Emit(bringup.ScanStarted{Root: "/"})

			cmd := send(bringup.Connected{Attempt: 1})
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(tui.EventMsg{Event: bringup.ScanStarted{Root: "/"}}))
		})
	})
})
