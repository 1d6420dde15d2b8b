package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// packetEnvelope is the wire shape of a packet. The event payload stays
// raw until the type tag has been inspected.
type packetEnvelope struct {
	TurnIndex int             `json:"turn_index"`
	Event     json.RawMessage `json:"event"`
}

// UnmarshalJSON decodes a packet by peeking at the event's type tag first
// and dispatching to the matching payload type. Unrecognized tags decode
// into Unknown rather than failing.
func (p *Packet) UnmarshalJSON(data []byte) error {
	var env packetEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding packet envelope: %w", err)
	}
	if env.TurnIndex < 0 {
		return fmt.Errorf("packet has negative turn_index %d", env.TurnIndex)
	}

	tag := gjson.GetBytes(env.Event, "type").String()
	event, err := decodeEvent(Kind(tag), env.Event)
	if err != nil {
		return err
	}

	p.TurnIndex = env.TurnIndex
	p.Event = event
	return nil
}

// MarshalJSON encodes a packet in its wire shape, injecting the type tag
// into the event object.
func (p Packet) MarshalJSON() ([]byte, error) {
	if p.Event == nil {
		return nil, fmt.Errorf("packet for turn %d has no event", p.TurnIndex)
	}

	var eventRaw []byte
	if u, ok := p.Event.(Unknown); ok {
		eventRaw = u.Raw
	} else {
		b, err := json.Marshal(p.Event)
		if err != nil {
			return nil, fmt.Errorf("encoding %s event: %w", p.Event.Kind(), err)
		}
		b, err = sjson.SetBytes(b, "type", string(p.Event.Kind()))
		if err != nil {
			return nil, fmt.Errorf("tagging %s event: %w", p.Event.Kind(), err)
		}
		eventRaw = b
	}

	return json.Marshal(struct {
		TurnIndex int             `json:"turn_index"`
		Event     json.RawMessage `json:"event"`
	}{p.TurnIndex, eventRaw})
}

// DecodePacket decodes one wire packet.
func DecodePacket(data []byte) (Packet, error) {
	var p Packet
	if err := json.Unmarshal(data, &p); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// decodeEvent is the single dispatch point from wire tag to payload type.
func decodeEvent(tag Kind, raw json.RawMessage) (Event, error) {
	into := func(v Event) (Event, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", tag, err)
		}
		return deref(v), nil
	}

	switch tag {
	case KindMessageStart:
		return into(&MessageStart{})
	case KindMessageDelta:
		return into(&MessageDelta{})
	case KindMessageEnd:
		return into(&MessageEnd{})
	case KindStop:
		return Stop{}, nil
	case KindSectionEnd:
		return into(&SectionEnd{})
	case KindSearchStart:
		return into(&SearchStart{})
	case KindSearchQueriesDelta:
		return into(&SearchQueriesDelta{})
	case KindSearchDocumentsDelta:
		return into(&SearchDocumentsDelta{})
	case KindImageGenStart:
		return into(&ImageGenStart{})
	case KindImageGenDelta:
		return into(&ImageGenDelta{})
	case KindCodeExecStart:
		return into(&CodeExecStart{})
	case KindCodeExecDelta:
		return into(&CodeExecDelta{})
	case KindFetchStart:
		return into(&FetchStart{})
	case KindFetchURLs:
		return into(&FetchURLs{})
	case KindFetchDocuments:
		return into(&FetchDocuments{})
	case KindCustomToolStart:
		return into(&CustomToolStart{})
	case KindCustomToolDelta:
		return into(&CustomToolDelta{})
	case KindReasoningStart:
		return ReasoningStart{}, nil
	case KindReasoningDelta:
		return into(&ReasoningDelta{})
	case KindReasoningDone:
		return ReasoningDone{}, nil
	case KindCitationStart:
		return CitationStart{}, nil
	case KindCitationInfo:
		return into(&CitationInfo{})
	case KindCitationDelta:
		return into(&CitationDelta{})
	case KindCitationEnd:
		return CitationEnd{}, nil
	default:
		raw = append(json.RawMessage(nil), raw...)
		return Unknown{Tag: string(tag), Raw: raw}, nil
	}
}

// deref unwraps the pointer used during unmarshaling so events are stored
// as values.
func deref(v Event) Event {
	switch e := v.(type) {
	case *MessageStart:
		return *e
	case *MessageDelta:
		return *e
	case *MessageEnd:
		return *e
	case *SectionEnd:
		return *e
	case *SearchStart:
		return *e
	case *SearchQueriesDelta:
		return *e
	case *SearchDocumentsDelta:
		return *e
	case *ImageGenStart:
		return *e
	case *ImageGenDelta:
		return *e
	case *CodeExecStart:
		return *e
	case *CodeExecDelta:
		return *e
	case *FetchStart:
		return *e
	case *FetchURLs:
		return *e
	case *FetchDocuments:
		return *e
	case *CustomToolStart:
		return *e
	case *CustomToolDelta:
		return *e
	case *ReasoningDelta:
		return *e
	case *CitationInfo:
		return *e
	case *CitationDelta:
		return *e
	default:
		return v
	}
}
