package aggregate_test

import (
	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	var state *aggregate.State

	BeforeEach(func() {
		state = aggregate.NewState()
	})

	Describe("turn grouping", func() {
		It("groups packets by turn index in arrival order", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(0, protocol.SearchQueriesDelta{Queries: []string{"a"}}),
				testutil.Pkt(1, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.MessageDelta{Text: "hi"}),
			})

			Expect(snap.Groups).To(HaveLen(2))
			Expect(snap.Groups[0].TurnIndex).To(Equal(0))
			Expect(snap.Groups[1].TurnIndex).To(Equal(1))

			kinds := make([]protocol.Kind, 0)
			for _, pkt := range snap.Groups[1].Packets {
				kinds = append(kinds, pkt.Event.Kind())
			}
			Expect(kinds).To(Equal([]protocol.Kind{
				protocol.KindMessageStart,
				protocol.KindMessageDelta,
			}))
		})

		It("withholds groups without a content start", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SectionEnd{}),
				testutil.Pkt(1, protocol.MessageStart{}),
			})

			Expect(snap.Groups).To(HaveLen(1))
			Expect(snap.Groups[0].TurnIndex).To(Equal(1))
		})

		It("keeps unknown events in their turn group", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.Unknown{Tag: "future_event"}),
			})

			Expect(snap.Groups[0].Packets).To(HaveLen(2))
		})
	})

	Describe("incremental consumption", func() {
		It("only processes the unseen tail on repeated calls", func() {
			packets := []protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.MessageDelta{Text: "a"}),
			}

			first := state.Consume(packets)
			second := state.Consume(packets)

			Expect(state.Cursor()).To(Equal(2))
			Expect(second.Groups).To(Equal(first.Groups))
		})

		It("produces identical results to consuming all at once", func() {
			packets := append(
				testutil.InternalSearchTurn(0, testutil.Doc("d1", "One")),
				testutil.Pkt(1, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.Stop{}),
			)

			incremental := aggregate.NewState()
			var snapA aggregate.Snapshot
			for i := 1; i <= len(packets); i++ {
				snapA = incremental.Consume(packets[:i])
			}

			snapB := aggregate.NewState().Consume(packets)

			Expect(snapA.Groups).To(Equal(snapB.Groups))
			Expect(snapA.Citations).To(Equal(snapB.Citations))
			Expect(snapA.Flags).To(Equal(snapB.Flags))
		})

		It("resets all accumulators when the list shrinks", func() {
			state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d1"}),
				testutil.Pkt(0, protocol.Stop{}),
			})

			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
			})

			Expect(snap.Citations).To(BeEmpty())
			Expect(snap.Flags.StopSeen).To(BeFalse())
			Expect(snap.Groups).To(HaveLen(1))
			Expect(state.Cursor()).To(Equal(1))
		})
	})

	Describe("section-end synthesis", func() {
		It("closes prior turns when a new turn index appears", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(1, protocol.MessageStart{}),
			})

			group, ok := snap.Group(0)
			Expect(ok).To(BeTrue())
			Expect(group.HasSectionEnd()).To(BeTrue())

			group, _ = snap.Group(1)
			Expect(group.HasSectionEnd()).To(BeFalse())
		})

		It("closes every open turn on stop", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(1, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.Stop{}),
			})

			for _, group := range snap.Groups {
				Expect(group.HasSectionEnd()).To(BeTrue())
			}
		})

		It("keeps exactly one section end per group", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(0, protocol.SectionEnd{}),
				testutil.Pkt(0, protocol.SectionEnd{}),
				testutil.Pkt(1, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.Stop{}),
			})

			for _, group := range snap.Groups {
				count := 0
				for _, pkt := range group.Packets {
					if pkt.Event.Kind() == protocol.KindSectionEnd {
						count++
					}
				}
				Expect(count).To(Equal(1), "turn %d", group.TurnIndex)
			}
		})

		It("does not synthesize on top of an explicit marker", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(0, protocol.SectionEnd{}),
				testutil.Pkt(1, protocol.MessageStart{}),
			})

			group, _ := snap.Group(0)
			ends := 0
			for _, pkt := range group.Packets {
				if pkt.Event.Kind() == protocol.KindSectionEnd {
					ends++
					Expect(pkt.Event.(protocol.SectionEnd).Synthetic).To(BeFalse())
				}
			}
			Expect(ends).To(Equal(1))
		})

		It("marks locally generated section ends as synthetic", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(1, protocol.MessageStart{}),
			})

			group, _ := snap.Group(0)
			end, ok := group.First(protocol.KindSectionEnd)
			Expect(ok).To(BeTrue())
			Expect(end.(protocol.SectionEnd).Synthetic).To(BeTrue())
		})
	})

	Describe("citations", func() {
		It("keeps the first document occurrence in the ordered list", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d1"}),
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 2, DocumentID: "d2"}),
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 3, DocumentID: "d1"}),
			})

			Expect(snap.Citations).To(HaveLen(2))
			Expect(snap.Citations[0].DocumentID).To(Equal("d1"))
			Expect(snap.Citations[0].CitationNum).To(Equal(1))
			Expect(snap.Citations[1].DocumentID).To(Equal("d2"))
		})

		It("lets the latest mapping win in the number lookup", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d1"}),
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d2"}),
			})

			Expect(snap.CitationsByNum[1]).To(Equal("d2"))
			Expect(snap.Citations).To(HaveLen(2))
		})

		It("accepts the batched citation form", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.CitationDelta{Citations: []protocol.Citation{
					{CitationNum: 1, DocumentID: "d1"},
					{CitationNum: 2, DocumentID: "d2"},
				}}),
			})

			Expect(snap.Citations).To(HaveLen(2))
			Expect(snap.CitationsByNum).To(HaveLen(2))
		})

		It("ignores citations without a document ID", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1}),
			})

			Expect(snap.Citations).To(BeEmpty())
			Expect(snap.CitationsByNum).To(BeEmpty())
		})
	})

	Describe("documents", func() {
		It("accumulates documents from search and fetch results", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchDocumentsDelta{Documents: []protocol.Document{
					testutil.Doc("d1", "One"),
				}}),
				testutil.Pkt(1, protocol.FetchDocuments{Documents: []protocol.Document{
					testutil.Doc("d2", "Two"),
				}}),
			})

			Expect(snap.Documents).To(HaveLen(2))
			Expect(snap.Documents["d1"].Title).To(Equal("One"))
			Expect(snap.Documents["d2"].Title).To(Equal("Two"))
		})

		It("lets a later version of a document replace the earlier one", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchDocumentsDelta{Documents: []protocol.Document{
					testutil.Doc("d1", "Draft"),
				}}),
				testutil.Pkt(0, protocol.SearchDocumentsDelta{Documents: []protocol.Document{
					testutil.Doc("d1", "Final"),
				}}),
			})

			Expect(snap.Documents["d1"].Title).To(Equal("Final"))
		})
	})

	Describe("completion flags", func() {
		It("sets the final answer signal on message start", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())
			Expect(snap.Flags.StopSeen).To(BeFalse())
		})

		It("sets the final answer signal for generated answers", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.ImageGenStart{}),
			})
			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())

			snap = aggregate.NewState().Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.CodeExecStart{}),
			})
			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())
		})

		It("revokes the signal when a tool call interleaves before stop", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.SearchStart{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeFalse())
		})

		It("revokes across turn boundaries", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.MessageDelta{Text: "Let me check."}),
				testutil.Pkt(1, protocol.SearchStart{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeFalse())
		})

		It("does not revoke after stop", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.Stop{}),
				testutil.Pkt(0, protocol.SearchStart{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())
			Expect(snap.Flags.StopSeen).To(BeTrue())
		})

		It("restores the signal when the answer restarts after a tool", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.SearchStart{}),
				testutil.Pkt(2, protocol.MessageStart{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())
		})

		It("latches display completion only while the answer signal holds", func() {
			state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
			})
			state.MarkDisplayComplete()
			Expect(state.Flags().DisplayComplete).To(BeFalse())

			state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.SearchStart{}),
				testutil.Pkt(1, protocol.MessageStart{}),
			})
			state.MarkDisplayComplete()
			Expect(state.Flags().DisplayComplete).To(BeTrue())
		})

		It("clears display completion when a later tool call revokes", func() {
			state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
			})
			state.MarkDisplayComplete()

			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(1, protocol.SearchStart{}),
			})

			Expect(snap.Flags.DisplayComplete).To(BeFalse())
		})

		It("treats reasoning done as inert for revocation", func() {
			snap := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.ReasoningDone{}),
			})

			Expect(snap.Flags.FinalAnswerComing).To(BeTrue())
		})
	})

	Describe("snapshot isolation", func() {
		It("detaches snapshots from later mutation", func() {
			first := state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
			})

			state.Consume([]protocol.Packet{
				testutil.Pkt(0, protocol.MessageStart{}),
				testutil.Pkt(0, protocol.MessageDelta{Text: "more"}),
				testutil.Pkt(0, protocol.CitationInfo{CitationNumber: 1, DocumentID: "d1"}),
			})

			Expect(first.Groups[0].Packets).To(HaveLen(1))
			Expect(first.Citations).To(BeEmpty())
		})
	})
})
