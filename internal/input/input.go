// Package input turns raw terminal bytes into per-frame key presses and
// mouse clicks.
package input

import (
	"bufio"
	"strconv"
)

// Click is a left-button press at a 1-based terminal position.
type Click struct {
	Col, Row int
}

// Input represents the keys pressed and clicks made since the previous frame.
// Every field is edge-triggered: a key press is reported exactly once.
type Input struct {
	Quit    bool
	Space   bool
	Enter   bool
	Escape  bool
	Replay  bool
	Close   bool
	Clicks  []Click
	Pressed []byte
}

// Confirm reports whether the frame carried a start/continue key.
func (in Input) Confirm() bool {
	return in.Space || in.Enter
}

// Stream delivers input bytes via a channel and reassembles escape
// sequences that arrive split across reads.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence carried to the next frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them. A closed stream (disconnected terminal) reports Quit.
func ReadInput(s *Stream) Input {
	buf := append([]byte(nil), s.pending...)
	carried := len(buf)
	s.pending = s.pending[:0]
	closed := false

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	// An ESC still alone after a frame with no new bytes is the Escape key,
	// not the start of a mouse report.
	if len(rest) == 1 && rest[0] == '\x1b' && (len(buf) == carried || closed) {
		in.Pressed = append(in.Pressed, rest[0])
		applyByte(&in, rest[0])
		rest = nil
	}
	s.pending = append(s.pending, rest...)
	if closed {
		in.Quit = true
	}
	return in
}

// Parse interprets a batch of terminal bytes. It returns the decoded input
// and any trailing bytes that form an incomplete escape sequence, including
// a trailing ESC that may open one.
func Parse(buf []byte) (Input, []byte) {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) {
			return in, buf[i:]
		}

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			// CSI sequence: ESC [ ...
			n, click, complete := parseCSI(buf[i+2:])
			if !complete {
				return in, buf[i:]
			}
			if click != nil {
				in.Clicks = append(in.Clicks, *click)
			}
			i += 1 + n
			continue
		}

		in.Pressed = append(in.Pressed, b)
		applyByte(&in, b)
	}

	return in, nil
}

// parseCSI parses the body of a CSI sequence (after ESC [). It returns the
// number of bytes consumed, a click for SGR left-button presses, and whether
// the sequence was complete.
func parseCSI(seq []byte) (n int, click *Click, complete bool) {
	if len(seq) == 0 {
		return 0, nil, false
	}
	if seq[0] != '<' {
		// Any other CSI (arrows, focus events...) ends at its final byte.
		for j, c := range seq {
			if c >= 0x40 && c <= 0x7e {
				return j + 1, nil, true
			}
		}
		return 0, nil, false
	}

	// SGR mouse: < Pb ; Px ; Py (M|m)
	var fields [3]int
	field := 0
	start := 1
	for j := 1; j < len(seq); j++ {
		c := seq[j]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' || c == 'M' || c == 'm':
			if field > 2 {
				return j + 1, nil, true
			}
			v, err := strconv.Atoi(string(seq[start:j]))
			if err != nil {
				return j + 1, nil, true
			}
			fields[field] = v
			field++
			start = j + 1
			if c == ';' {
				continue
			}
			// Left button press without motion or wheel bits.
			if c == 'M' && field == 3 && fields[0]&^(4|8|16) == 0 {
				return j + 1, &Click{Col: fields[1], Row: fields[2]}, true
			}
			return j + 1, nil, true
		default:
			// Malformed; drop what we have.
			return j + 1, nil, true
		}
	}
	return 0, nil, false
}

// applyByte sets the key flags for a single pressed byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ':
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	case 'r', 'R':
		in.Replay = true
	case 'x', 'X':
		in.Close = true
	case '\x1b':
		in.Escape = true
		in.Close = true
	}
}
