package capability

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// DetectOptions control capability resolution.
type DetectOptions struct {
	// Skip suppresses all terminal I/O and resolves TextArt.
	Skip bool

	// Override, when set, is returned unconditionally. Used for the
	// --override-protocol flag and for deterministic tests.
	Override *Capability

	// Timeout bounds the whole probe exchange. Zero means one second.
	Timeout time.Duration

	// TTY is the bidirectional probe endpoint. The caller is responsible
	// for raw mode and for restoring the terminal on every exit path.
	// Nil defaults to stdin/stdout.
	TTY io.ReadWriter

	// Environ looks up environment variables; nil uses os.Getenv.
	Environ func(string) string
}

// Probe escape sequences. The cursor-position comparison around the
// OSC 66 glyph is what distinguishes a terminal that honors text sizing
// from one that swallows the sequence unrendered.
const (
	probeKittyGraphics = "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\"
	probeCellSize      = "\x1b[16t"
	probeTextSizing    = "\r\x1b]66;w=2;A\x1b\\\x1b[6n"
	probeDeviceAttrs   = "\x1b[c"
	probeCleanupLine   = "\r\x1b[K"
)

// Detect resolves the terminal capability once. It never returns an
// error: on timeout, malformed replies, or I/O failure it degrades down
// the preference order InlineGraphics > TextSizing > TextArt.
func Detect(opts DetectOptions) Capability {
	if opts.Override != nil {
		return *opts.Override
	}
	if opts.Skip {
		return Fallback()
	}

	tty := opts.TTY
	if tty == nil {
		tty = stdioTTY{}
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Getenv
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}

	reply := probe(tty, timeout)

	resolved := Fallback()
	if reply.cellWidth > 0 && reply.cellHeight > 0 {
		resolved.CellWidth = reply.cellWidth
		resolved.CellHeight = reply.cellHeight
	}

	switch {
	case reply.kittyOK:
		resolved.Kind, resolved.Encoding = InlineGraphics, EncodingKitty
	case reply.sixel:
		resolved.Kind, resolved.Encoding = InlineGraphics, EncodingSixel
	case isITerm(environ):
		resolved.Kind, resolved.Encoding = InlineGraphics, EncodingITerm2
	case reply.textSizing:
		resolved.Kind = TextSizing
	}
	return resolved
}

func isITerm(environ func(string) string) bool {
	return environ("TERM_PROGRAM") == "iTerm.app" || environ("LC_TERMINAL") == "iTerm.app"
}

// probeReply is everything the parser learned from the terminal.
type probeReply struct {
	kittyOK    bool
	sixel      bool
	textSizing bool
	cellWidth  int
	cellHeight int
}

// probe writes all queries at once and parses replies until the DA1
// answer (which every functioning terminal sends) or the deadline.
func probe(tty io.ReadWriter, timeout time.Duration) probeReply {
	var reply probeReply

	queries := probeKittyGraphics + probeCellSize + probeTextSizing + probeDeviceAttrs
	if _, err := io.WriteString(tty, queries); err != nil {
		return reply
	}
	defer func() { _, _ = io.WriteString(tty, probeCleanupLine) }()

	type deadliner interface{ SetReadDeadline(time.Time) error }
	if d, ok := tty.(deadliner); ok {
		_ = d.SetReadDeadline(time.Now().Add(timeout))
		defer func() { _ = d.SetReadDeadline(time.Time{}) }()
	}

	r := bufio.NewReader(tty)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		seq, err := readSequence(r)
		if err != nil {
			return reply
		}
		done := parseSequence(seq, &reply)
		if done {
			return reply
		}
	}
	return reply
}

// readSequence consumes one escape-initiated reply from the stream.
// Non-escape garbage is skipped one byte at a time.
func readSequence(r *bufio.Reader) (string, error) {
	b, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	if b != 0x1b {
		return "", nil
	}
	kind, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteByte(0x1b)
	sb.WriteByte(kind)
	switch kind {
	case '[': // CSI: terminated by a byte in 0x40..0x7e
		for {
			c, err := r.ReadByte()
			if err != nil {
				return "", err
			}
			sb.WriteByte(c)
			if c >= 0x40 && c <= 0x7e {
				return sb.String(), nil
			}
		}
	case '_', ']', 'P': // APC/OSC/DCS: terminated by ST (ESC \) or BEL
		for {
			c, err := r.ReadByte()
			if err != nil {
				return "", err
			}
			sb.WriteByte(c)
			if c == 0x07 {
				return sb.String(), nil
			}
			if c == '\\' && sb.Len() >= 2 {
				s := sb.String()
				if s[len(s)-2] == 0x1b {
					return s, nil
				}
			}
		}
	default:
		return sb.String(), nil
	}
}

// parseSequence folds one reply into the result. Returns true once the
// DA1 answer arrives, which terminates the probe.
func parseSequence(seq string, reply *probeReply) bool {
	switch {
	case seq == "":
		return false

	case strings.HasPrefix(seq, "\x1b_G"):
		reply.kittyOK = strings.Contains(seq, ";OK")
		return false

	case strings.HasPrefix(seq, "\x1b[?") && strings.HasSuffix(seq, "c"):
		// DA1: attribute 4 advertises sixel.
		attrs := strings.TrimSuffix(strings.TrimPrefix(seq, "\x1b[?"), "c")
		for _, a := range strings.Split(attrs, ";") {
			if a == "4" {
				reply.sixel = true
			}
		}
		return true

	case strings.HasPrefix(seq, "\x1b[6;") && strings.HasSuffix(seq, "t"):
		// CSI 16t reply: ESC [ 6 ; height ; width t
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(seq, "\x1b["), "t"), ";")
		if len(parts) == 3 {
			h, errH := strconv.Atoi(parts[1])
			w, errW := strconv.Atoi(parts[2])
			if errH == nil && errW == nil && h > 0 && w > 0 {
				reply.cellHeight, reply.cellWidth = h, w
			}
		}
		return false

	case strings.HasSuffix(seq, "R"):
		// Cursor position after the OSC 66 glyph. Column 3 means the
		// doubled-width glyph actually advanced the cursor two cells.
		body := strings.TrimSuffix(strings.TrimPrefix(seq, "\x1b["), "R")
		parts := strings.Split(body, ";")
		if len(parts) == 2 {
			if col, err := strconv.Atoi(parts[1]); err == nil {
				reply.textSizing = col >= 3
			}
		}
		return false

	default:
		return false
	}
}

// stdioTTY is the default probe endpoint: read replies from stdin,
// write queries to stdout.
type stdioTTY struct{}

func (stdioTTY) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioTTY) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdioTTY) SetReadDeadline(t time.Time) error { return os.Stdin.SetReadDeadline(t) }
