package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePacket(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want protocol.Event
		turn int
	}{
		{
			name: "message start",
			wire: `{"turn_index":0,"event":{"type":"message_start"}}`,
			want: protocol.MessageStart{},
		},
		{
			name: "message delta with text",
			wire: `{"turn_index":2,"event":{"type":"message_delta","text":"hello"}}`,
			want: protocol.MessageDelta{Text: "hello"},
			turn: 2,
		},
		{
			name: "stop",
			wire: `{"turn_index":1,"event":{"type":"stop"}}`,
			want: protocol.Stop{},
			turn: 1,
		},
		{
			name: "section end",
			wire: `{"turn_index":0,"event":{"type":"section_end"}}`,
			want: protocol.SectionEnd{},
		},
		{
			name: "internet search start",
			wire: `{"turn_index":0,"event":{"type":"search_start","internet":true}}`,
			want: protocol.SearchStart{Internet: true},
		},
		{
			name: "search queries",
			wire: `{"turn_index":0,"event":{"type":"search_queries_delta","queries":["a","b"]}}`,
			want: protocol.SearchQueriesDelta{Queries: []string{"a", "b"}},
		},
		{
			name: "search documents",
			wire: `{"turn_index":0,"event":{"type":"search_documents_delta","documents":[{"document_id":"d1","title":"One"}]}}`,
			want: protocol.SearchDocumentsDelta{Documents: []protocol.Document{
				{ID: "d1", Title: "One"},
			}},
		},
		{
			name: "code execution delta keeps stderr",
			wire: `{"turn_index":0,"event":{"type":"code_execution_delta","stdout":"ok","stderr":"warn"}}`,
			want: protocol.CodeExecDelta{Stdout: "ok", Stderr: "warn"},
		},
		{
			name: "granular citation",
			wire: `{"turn_index":0,"event":{"type":"citation_info","citation_number":3,"document_id":"d9"}}`,
			want: protocol.CitationInfo{CitationNumber: 3, DocumentID: "d9"},
		},
		{
			name: "batched citations",
			wire: `{"turn_index":0,"event":{"type":"citation_delta","citations":[{"citation_num":1,"document_id":"d1"}]}}`,
			want: protocol.CitationDelta{Citations: []protocol.Citation{
				{CitationNum: 1, DocumentID: "d1"},
			}},
		},
		{
			name: "custom tool start",
			wire: `{"turn_index":0,"event":{"type":"custom_tool_start","name":"calc","arguments":{"x":"1"}}}`,
			want: protocol.CustomToolStart{Name: "calc", Arguments: map[string]any{"x": "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := protocol.DecodePacket([]byte(tt.wire))
			require.NoError(t, err)
			assert.Equal(t, tt.turn, pkt.TurnIndex)
			assert.Equal(t, tt.want, pkt.Event)
		})
	}
}

func TestDecodePacketUnknownKind(t *testing.T) {
	wire := `{"turn_index":4,"event":{"type":"hologram_start","shape":"cube"}}`

	pkt, err := protocol.DecodePacket([]byte(wire))
	require.NoError(t, err)

	unknown, ok := pkt.Event.(protocol.Unknown)
	require.True(t, ok)
	assert.Equal(t, "hologram_start", unknown.Tag)
	assert.Equal(t, protocol.Kind("hologram_start"), pkt.Event.Kind())
	assert.JSONEq(t, `{"type":"hologram_start","shape":"cube"}`, string(unknown.Raw))
}

func TestDecodePacketNegativeTurnIndex(t *testing.T) {
	_, err := protocol.DecodePacket([]byte(`{"turn_index":-1,"event":{"type":"stop"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative turn_index")
}

func TestDecodePacketBadJSON(t *testing.T) {
	_, err := protocol.DecodePacket([]byte(`{"turn_index":0,`))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	packets := []protocol.Packet{
		{TurnIndex: 0, Event: protocol.SearchStart{Internet: true}},
		{TurnIndex: 0, Event: protocol.SearchDocumentsDelta{Documents: []protocol.Document{
			{ID: "d1", Title: "One", URL: "https://example.com"},
		}}},
		{TurnIndex: 1, Event: protocol.MessageDelta{Text: "answer"}},
		{TurnIndex: 1, Event: protocol.Stop{}},
	}

	for _, original := range packets {
		data, err := json.Marshal(original)
		require.NoError(t, err)

		decoded, err := protocol.DecodePacket(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	}
}

func TestMarshalUnknownPassesRawThrough(t *testing.T) {
	wire := `{"turn_index":0,"event":{"type":"hologram_start","shape":"cube"}}`
	pkt, err := protocol.DecodePacket([]byte(wire))
	require.NoError(t, err)

	data, err := json.Marshal(pkt)
	require.NoError(t, err)
	assert.JSONEq(t, wire, string(data))
}

func TestMarshalNilEvent(t *testing.T) {
	_, err := json.Marshal(protocol.Packet{TurnIndex: 0})
	require.Error(t, err)
}

func TestKindClassification(t *testing.T) {
	assert.True(t, protocol.KindMessageDelta.IsMessage())
	assert.False(t, protocol.KindSearchStart.IsMessage())

	assert.True(t, protocol.KindReasoningStart.IsContentStart())
	assert.False(t, protocol.KindSectionEnd.IsContentStart())

	assert.True(t, protocol.KindImageGenDelta.SignalsAnswer())
	assert.False(t, protocol.KindSearchStart.SignalsAnswer())

	assert.True(t, protocol.KindSearchQueriesDelta.IsToolProgress())
	assert.False(t, protocol.KindReasoningDone.IsToolProgress())
	assert.False(t, protocol.KindCodeExecDelta.IsToolProgress())
}
