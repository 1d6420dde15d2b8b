package protocol

import (
	"bufio"
	"io"
	"sync"
)

// Parser reads a JSONL packet stream (one packet per line) and emits
// decoded packets on a channel. Blank lines and lines that fail to decode
// are skipped; the upstream source is untrusted and may contain gaps.
type Parser struct {
	packetChan chan Packet
	done       chan struct{}
	doneOnce   sync.Once
	chanOnce   sync.Once
}

// NewParser creates a new packet parser.
func NewParser() *Parser {
	return NewParserWithBufferSize(100)
}

// NewParserWithBufferSize creates a new packet parser with a custom
// channel buffer size.
func NewParserWithBufferSize(bufferSize int) *Parser {
	return &Parser{
		packetChan: make(chan Packet, bufferSize),
		done:       make(chan struct{}),
	}
}

// Parse reads JSON lines from the reader until EOF, emitting each decoded
// packet. The packet channel is closed when parsing finishes.
func (p *Parser) Parse(reader io.Reader) error {
	defer p.closeChan()

	scanner := bufio.NewScanner(reader)

	// Document deltas can carry large payloads on a single line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		select {
		case <-p.done:
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		pkt, err := DecodePacket(line)
		if err != nil {
			continue
		}
		p.emit(pkt)
	}

	return scanner.Err()
}

// Packets returns the packet channel.
func (p *Parser) Packets() <-chan Packet {
	return p.packetChan
}

// Close stops an in-flight Parse. The packet channel still closes from
// the Parse side, so draining consumers terminate cleanly.
func (p *Parser) Close() {
	p.doneOnce.Do(func() { close(p.done) })
}

// CollectAll drains the packet channel until the parser closes.
func (p *Parser) CollectAll() []Packet {
	var packets []Packet
	for pkt := range p.Packets() {
		packets = append(packets, pkt)
	}
	return packets
}

func (p *Parser) emit(pkt Packet) {
	select {
	case p.packetChan <- pkt:
	case <-p.done:
	}
}

func (p *Parser) closeChan() {
	p.chanOnce.Do(func() { close(p.packetChan) })
}
