package tui_test

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/reveal"
	"github.com/fathomchat/fathom/pkg/testutil"
	"github.com/fathomchat/fathom/pkg/tui"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Model", func() {
	var (
		clock      *testutil.FakeClock
		controller *reveal.Controller
		model      tui.Model
	)

	update := func(msg tea.Msg) {
		updated, _ := model.Update(msg)
		model = updated.(tui.Model)
	}

	BeforeEach(func() {
		clock = testutil.NewFakeClock()
		controller = reveal.NewController(clock, reveal.DefaultDurations(), nil)
		model = tui.NewModel(controller)
	})

	AfterEach(func() {
		controller.Close()
	})

	It("shows a waiting state before any packets arrive", func() {
		Expect(model.View()).To(ContainSubstring("Waiting for response"))
	})

	It("shows the first tool step as soon as it arrives", func() {
		update(tui.PacketsMsg{Packets: []protocol.Packet{
			testutil.Pkt(0, protocol.SearchStart{}),
			testutil.Pkt(0, protocol.SearchQueriesDelta{Queries: []string{"go generics"}}),
		}})

		view := model.View()
		Expect(view).To(ContainSubstring("Searching"))
		Expect(view).To(ContainSubstring("go generics"))
		Expect(view).To(ContainSubstring("streaming"))
	})

	It("renders the answer and citations once everything is revealed", func() {
		update(tui.PacketsMsg{Packets: []protocol.Packet{
			testutil.Pkt(0, protocol.SearchStart{}),
			testutil.Pkt(0, protocol.SearchQueriesDelta{Queries: []string{"q"}}),
			testutil.Pkt(0, protocol.SearchDocumentsDelta{Documents: []protocol.Document{
				testutil.Doc("d1", "Effective Go"),
			}}),
			testutil.Pkt(0, protocol.SectionEnd{}),
			testutil.Pkt(1, protocol.MessageStart{}),
			testutil.Pkt(1, protocol.MessageDelta{Text: "Use goroutines."}),
			testutil.Pkt(1, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d1"}),
			testutil.Pkt(1, protocol.Stop{}),
		}})

		// Let every dwell timer run out
		clock.Advance(time.Minute)
		Expect(controller.AllShownOnce()).To(BeTrue())

		update(tui.RevealMsg{Event: reveal.AllShown{}})

		view := model.View()
		Expect(view).To(ContainSubstring("Use goroutines."))
		Expect(view).To(ContainSubstring("[1]"))
		Expect(view).To(ContainSubstring("Effective Go"))
		Expect(view).To(ContainSubstring("done"))
	})

	It("does not report completion while a tool call revoked the answer", func() {
		update(tui.PacketsMsg{Packets: []protocol.Packet{
			testutil.Pkt(0, protocol.MessageStart{}),
			testutil.Pkt(0, protocol.MessageDelta{Text: "Let me check."}),
			testutil.Pkt(1, protocol.SearchStart{}),
		}})
		clock.Advance(time.Minute)

		// Even if the renderer reports everything shown, the completion
		// status must not latch without the answer signal.
		update(tui.RevealMsg{Event: reveal.AllShown{}})

		view := model.View()
		Expect(view).NotTo(ContainSubstring("done"))
		Expect(view).To(ContainSubstring("streaming"))
	})

	It("toggles the expanded view on tab", func() {
		Expect(controller.Expanded()).To(BeFalse())

		update(tea.KeyMsg{Type: tea.KeyTab})
		Expect(controller.Expanded()).To(BeTrue())

		update(tea.KeyMsg{Type: tea.KeyTab})
		Expect(controller.Expanded()).To(BeFalse())
	})

	It("quits and closes the controller on ctrl+c", func() {
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
	})

	It("surfaces a stream failure in the status line", func() {
		update(tui.StreamEndedMsg{Err: errors.New("connection lost")})
		Expect(model.View()).To(ContainSubstring("stream error"))
		Expect(model.View()).To(ContainSubstring("connection lost"))
	})

	It("keeps only the latest step on screen while collapsed", func() {
		update(tui.PacketsMsg{Packets: []protocol.Packet{
			testutil.Pkt(0, protocol.FetchStart{URL: "https://a.test"}),
			testutil.Pkt(1, protocol.FetchStart{URL: "https://b.test"}),
		}})
		clock.Advance(time.Minute)

		view := model.View()
		Expect(view).NotTo(ContainSubstring("https://a.test"))
		Expect(view).To(ContainSubstring("https://b.test"))
	})
})
