package chatmarkup

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"
)

// Control bytes embedded in chat text.
const (
	CtrlCTCP      byte = 0x01
	CtrlBold      byte = 0x02
	CtrlColor     byte = 0x03
	CtrlBell      byte = 0x07
	CtrlReset     byte = 0x0f
	CtrlMonospace byte = 0x11
	CtrlReverse   byte = 0x16
	CtrlItalic    byte = 0x1d
	CtrlStrike    byte = 0x1e
	CtrlUnderline byte = 0x1f
)

// ActionPrefix starts a CTCP ACTION ("/me") message.
const ActionPrefix = "\x01ACTION "

// DefaultTimestampFormat is used when Preferences.TimestampFormat is empty.
const DefaultTimestampFormat = "%H:%M:%S"

// Message is one inbound chat line.
type Message struct {
	// Raw is the protocol text with embedded control bytes.
	Raw string
	// Time is when the message was received. Zero means "now".
	Time time.Time
}

// MessageContext identifies where a message is shown.
type MessageContext struct {
	// Nick is the local user's nick in this session.
	Nick string
	// Channel is the channel or query target name.
	Channel string
	// Highlights are extra words that flag a message as a highlight.
	Highlights []string
}

// Preferences is the rendering preference snapshot for one call.
type Preferences struct {
	ShowTimestamps  bool
	TimestampFormat string // strftime-style
	ColorNicks      bool
}

// Transcoder converts raw chat text into visible text with a parallel style run.
// A Transcoder holds no per-message state; it can be reused for every message.
type Transcoder struct {
	clock      func() time.Time
	bell       BellProvider
	urlGrabber URLGrabber
}

// TranscoderOption configures a Transcoder during construction.
type TranscoderOption func(*Transcoder)

// WithClock sets the time source for messages without a timestamp.
func WithClock(clock func() time.Time) TranscoderOption {
	return func(t *Transcoder) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithBell sets the handler for bell bytes.
// Defaults to a no-op if not set.
func WithBell(p BellProvider) TranscoderOption {
	return func(t *Transcoder) {
		if p != nil {
			t.bell = p
		}
	}
}

// WithURLGrabber sets the sink for detected hyperlinks.
// Defaults to a no-op if not set.
func WithURLGrabber(g URLGrabber) TranscoderOption {
	return func(t *Transcoder) {
		if g != nil {
			t.urlGrabber = g
		}
	}
}

// NewTranscoder creates a Transcoder with the given options.
func NewTranscoder(opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		clock:      time.Now,
		bell:       NoopBell{},
		urlGrabber: NoopURLGrabber{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcode renders one message. It never fails: malformed control sequences are
// absorbed and the result always ends with a newline.
func (t *Transcoder) Transcode(msg Message, ctx MessageContext, prefs Preferences) Line {
	var b lineBuilder

	if prefs.ShowTimestamps {
		ts := msg.Time
		if ts.IsZero() {
			ts = t.clock()
		}
		format := prefs.TimestampFormat
		if format == "" {
			format = DefaultTimestampFormat
		}
		if stamp := strftime.Format(format, ts); stamp != "" {
			b.appendString(stamp, StyleDefault)
			b.appendByte(' ', StyleDefault)
		}
	}
	bodyStart := b.line.Len()

	raw := msg.Raw
	if strings.HasPrefix(raw, ActionPrefix) {
		t.transcodeAction(&b, raw[len(ActionPrefix):])
	} else {
		t.transcodeBody(&b, raw, prefs)
	}

	line := b.finish()
	line.highlighted = isHighlight(string(line.text[bodyStart:]), raw, ctx)
	return line
}

// transcodeAction emits "* body" entirely in the action style. Control bytes in
// the body are dropped.
func (t *Transcoder) transcodeAction(b *lineBuilder, body string) {
	if end := strings.IndexByte(body, CtrlCTCP); end >= 0 {
		body = body[:end]
	}
	b.appendString("* ", StyleAction)
	for i := 0; i < len(body); {
		if n := controlLen(body, i); n > 0 {
			i += n
			continue
		}
		b.appendByte(body[i], StyleAction)
		i++
	}
}

func (t *Transcoder) transcodeBody(b *lineBuilder, raw string, prefs Preferences) {
	nick, hasNick := nickSpan{}, false
	if prefs.ColorNicks {
		nick, hasNick = findNick(raw)
	}

	st := newParseState()
	for i := 0; i < len(raw); {
		c := raw[i]
		switch c {
		case CtrlCTCP:
			st.inCTCP = !st.inCTCP
			i++
			continue
		case CtrlColor:
			fg, next := parseColor(raw, i+1)
			st.fg = fg
			i = next
			continue
		case CtrlBold:
			st.bold = !st.bold
			i++
			continue
		case CtrlUnderline:
			st.underline = !st.underline
			i++
			continue
		case CtrlReset:
			st.reset()
			i++
			continue
		case CtrlBell:
			t.bell.Ring()
			i++
			continue
		case CtrlReverse, CtrlItalic, CtrlStrike, CtrlMonospace:
			// Reserved: consumed without a visual effect.
			i++
			continue
		}

		if !isURLStop(c) && IsURLPrefix(raw[i:]) {
			end := urlEnd(raw, i)
			b.appendString(raw[i:end], st.style(true, -1))
			t.urlGrabber.Add(raw[i:end])
			i = end
			continue
		}

		fg := -1
		if hasNick && nick.contains(i) {
			fg = nick.color
		}
		b.appendByte(c, st.style(false, fg))
		i++
	}
}

// parseColor reads the optional "fg[,bg]" digits after a color introducer at
// s[i:]. It returns the foreground (-1 when absent or outside 0-15) and the
// index of the first byte after the sequence. The background is parsed and
// discarded.
func parseColor(s string, i int) (int, int) {
	fg, n := parseDigits(s, i)
	i += n
	if i < len(s) && s[i] == ',' {
		i++
		_, n = parseDigits(s, i)
		i += n
	}
	if fg >= NumColors {
		fg = -1
	}
	return fg, i
}

// parseDigits reads up to two decimal digits at s[i:]. Returns -1 when none.
func parseDigits(s string, i int) (value, n int) {
	value = -1
	for n < 2 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '9' {
		if value < 0 {
			value = 0
		}
		value = value*10 + int(s[i+n]-'0')
		n++
	}
	return value, n
}

// controlLen returns how many bytes the control sequence at s[i] occupies, or 0
// if s[i] is not a formatting control byte.
func controlLen(s string, i int) int {
	switch s[i] {
	case CtrlColor:
		_, next := parseColor(s, i+1)
		return next - i
	case CtrlCTCP, CtrlBold, CtrlUnderline, CtrlReset, CtrlBell,
		CtrlReverse, CtrlItalic, CtrlStrike, CtrlMonospace:
		return 1
	}
	return 0
}

// StripControls removes all formatting control sequences from s.
func StripControls(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if n := controlLen(s, i); n > 0 {
			i += n
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}

// isHighlight reports whether the visible body mentions the local nick or a
// highlight word. Lines spoken by the local nick are never highlights.
func isHighlight(visible, raw string, ctx MessageContext) bool {
	if span, ok := findNick(raw); ok && ctx.Nick != "" && strings.EqualFold(raw[span.start:span.end], ctx.Nick) {
		return false
	}
	if ctx.Nick != "" && containsWord(visible, ctx.Nick) {
		return true
	}
	for _, w := range ctx.Highlights {
		if w != "" && containsWord(visible, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s, case-insensitively, with no
// letter or digit directly before or after it.
func containsWord(s, word string) bool {
	ls, lw := strings.ToLower(s), strings.ToLower(word)
	if len(ls) != len(s) {
		// Lowercasing changed byte lengths; fall back to the original bytes.
		ls, lw = s, word
	}
	for from := 0; from <= len(ls)-len(lw); {
		idx := strings.Index(ls[from:], lw)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(lw)
		if !isWordRuneBefore(ls, start) && !isWordRuneAt(ls, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRuneBefore(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
