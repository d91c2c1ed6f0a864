package chatmarkup

import (
	"strings"
	"testing"
	"time"
)

func transcode(raw string) Line {
	return NewTranscoder().Transcode(Message{Raw: raw}, MessageContext{}, Preferences{})
}

// tags builds an expected tag string from (style, count) runs.
func tags(runs ...any) string {
	var sb strings.Builder
	for i := 0; i+1 < len(runs); i += 2 {
		s := runs[i].(Style)
		n := runs[i+1].(int)
		sb.WriteString(strings.Repeat(string(s.Tag()), n))
	}
	return sb.String()
}

func TestTranscodeAppendsNewline(t *testing.T) {
	line := transcode("\x02hi\x02 there")
	if line.Text() != "hi there\n" {
		t.Errorf("expected %q, got %q", "hi there\n", line.Text())
	}
	if line.Styles() != "TTAAAAAAA" {
		t.Errorf("expected %q, got %q", "TTAAAAAAA", line.Styles())
	}
}

func TestTranscodeBoldToggle(t *testing.T) {
	line := transcode("\x02Hello\x02 world")

	if line.Text() != "Hello world\n" {
		t.Errorf("expected %q, got %q", "Hello world\n", line.Text())
	}
	expected := tags(StyleDefault.Bold(), 5, StyleDefault, 7)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}
	if line.StyleAt(0) != StyleBoldRegion {
		t.Errorf("expected bold default slot 19, got %d", line.StyleAt(0))
	}
}

func TestTranscodeAction(t *testing.T) {
	line := transcode("\x01ACTION waves\x01")

	if line.Text() != "* waves\n" {
		t.Errorf("expected %q, got %q", "* waves\n", line.Text())
	}
	expected := tags(StyleAction, 7, StyleDefault, 1)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}
}

func TestTranscodeActionUnterminatedAndFormatted(t *testing.T) {
	line := transcode("\x01ACTION \x02dances\x02 \x034wildly")

	if line.Text() != "* dances wildly\n" {
		t.Errorf("expected %q, got %q", "* dances wildly\n", line.Text())
	}
	for i := 0; i < line.Len()-1; i++ {
		if line.StyleAt(i) != StyleAction {
			t.Fatalf("expected action style at %d, got %d", i, line.StyleAt(i))
		}
	}
}

func TestTranscodeHyperlink(t *testing.T) {
	grabber := NewMemoryURLGrabber(0)
	tr := NewTranscoder(WithURLGrabber(grabber))
	line := tr.Transcode(Message{Raw: "see http://example.com now"}, MessageContext{}, Preferences{})

	if line.Text() != "see http://example.com now\n" {
		t.Errorf("unexpected text %q", line.Text())
	}
	expected := tags(StyleDefault, 4, StyleHyperlink, len("http://example.com"), StyleDefault, 5)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}

	urls := grabber.URLs()
	if len(urls) != 1 || urls[0] != "http://example.com" {
		t.Errorf("expected grabbed url, got %v", urls)
	}
}

func TestTranscodeHyperlinkOverridesFormatting(t *testing.T) {
	line := transcode("\x02\x034WWW.Example.org/a,b.\x02 x")

	text := line.Text()
	end := strings.IndexByte(text, ' ')
	if text[:end] != "WWW.Example.org/a,b." {
		t.Fatalf("unexpected text %q", text)
	}
	for i := 0; i < end; i++ {
		if line.StyleAt(i) != StyleHyperlink {
			t.Fatalf("expected hyperlink style at %d, got %d", i, line.StyleAt(i))
		}
	}
	if line.StyleAt(end+1) != ColorStyle(4) {
		t.Errorf("expected color 4 after url, got %d", line.StyleAt(end+1))
	}
}

func TestTranscodeCleanInput(t *testing.T) {
	inputs := []string{"hello there", "just some text, ok?", "日本語のテキスト", ""}
	for _, in := range inputs {
		line := transcode(in)
		if line.Text() != in+"\n" {
			t.Errorf("expected %q, got %q", in+"\n", line.Text())
		}
		if line.Styles() != tags(StyleDefault, len(in)+1) {
			t.Errorf("expected all default styles for %q, got %q", in, line.Styles())
		}
	}
}

func TestTranscodeKeepsExistingNewline(t *testing.T) {
	line := transcode("hi\n")
	if line.Text() != "hi\n" {
		t.Errorf("expected single newline, got %q", line.Text())
	}
}

func TestTranscodeColors(t *testing.T) {
	tests := []struct {
		raw      string
		text     string
		expected string
	}{
		{"\x034red\x03 plain", "red plain\n", tags(ColorStyle(4), 3, StyleDefault, 7)},
		{"\x0312,4x", "x\n", tags(ColorStyle(12), 1, StyleDefault, 1)},
		{"\x0304,04x", "x\n", tags(ColorStyle(4), 1, StyleDefault, 1)},
		{"\x03,5x", "x\n", tags(StyleDefault, 2)},
		{"\x0399x", "x\n", tags(StyleDefault, 2)},
		{"\x03123", "3\n", tags(ColorStyle(12), 1, StyleDefault, 1)},
		{"\x03", "\n", tags(StyleDefault, 1)},
		{"\x035,", "\n", tags(StyleDefault, 1)},
	}
	for _, tt := range tests {
		line := transcode(tt.raw)
		if line.Text() != tt.text {
			t.Errorf("%q: expected text %q, got %q", tt.raw, tt.text, line.Text())
		}
		if line.Styles() != tt.expected {
			t.Errorf("%q: expected styles %q, got %q", tt.raw, tt.expected, line.Styles())
		}
	}
}

func TestTranscodeStylePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Style
	}{
		{"underline", "\x1fu", StyleUnderlineRegion},
		{"underline color", "\x1f\x039u", ColorStyle(9).Underline()},
		{"bold wins over underline", "\x02\x1fb", StyleBoldRegion},
		{"bold color", "\x02\x034b", ColorStyle(4).Bold()},
		{"ctcp", "\x01p", StyleCTCP},
		{"ctcp with color", "\x01\x035p", ColorStyle(5)},
		{"ctcp with bold", "\x01\x02p", StyleBoldRegion},
	}
	for _, tt := range tests {
		line := transcode(tt.raw)
		if line.StyleAt(0) != tt.expected {
			t.Errorf("%s: expected slot %d, got %d", tt.name, tt.expected, line.StyleAt(0))
		}
	}
}

func TestTranscodeReset(t *testing.T) {
	line := transcode("\x02\x1f\x034a\x0fb")
	if line.Text() != "ab\n" {
		t.Fatalf("unexpected text %q", line.Text())
	}
	if line.StyleAt(0) != ColorStyle(4).Bold() {
		t.Errorf("expected bold color 4, got %d", line.StyleAt(0))
	}
	if line.StyleAt(1) != StyleDefault {
		t.Errorf("expected default after reset, got %d", line.StyleAt(1))
	}
}

func TestTranscodeCTCPToggle(t *testing.T) {
	line := transcode("\x01PING 1\x01 done")
	expected := tags(StyleCTCP, 6, StyleDefault, 6)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}
}

func TestTranscodeReservedBytes(t *testing.T) {
	line := transcode("\x16a\x1db\x1ec\x11d")
	if line.Text() != "abcd\n" {
		t.Errorf("expected reserved bytes dropped, got %q", line.Text())
	}
}

type countingBell struct{ rings int }

func (b *countingBell) Ring() { b.rings++ }

func TestTranscodeBell(t *testing.T) {
	bell := &countingBell{}
	tr := NewTranscoder(WithBell(bell))
	line := tr.Transcode(Message{Raw: "a\x07b\x07"}, MessageContext{}, Preferences{})

	if line.Text() != "ab\n" {
		t.Errorf("expected %q, got %q", "ab\n", line.Text())
	}
	if bell.rings != 2 {
		t.Errorf("expected 2 rings, got %d", bell.rings)
	}
}

func TestTranscodeTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)
	tr := NewTranscoder(WithClock(func() time.Time { return at }))
	prefs := Preferences{ShowTimestamps: true}

	line := tr.Transcode(Message{Raw: "\x02hi"}, MessageContext{}, prefs)
	if line.Text() != "12:34:56 hi\n" {
		t.Errorf("expected %q, got %q", "12:34:56 hi\n", line.Text())
	}
	expected := tags(StyleDefault, 9, StyleBoldRegion, 2, StyleDefault, 1)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}

	prefs.TimestampFormat = "[%H:%M]"
	line = tr.Transcode(Message{Raw: "x", Time: at.Add(time.Hour)}, MessageContext{}, prefs)
	if line.Text() != "[13:34] x\n" {
		t.Errorf("expected %q, got %q", "[13:34] x\n", line.Text())
	}
}

func TestTranscodeNickColor(t *testing.T) {
	tr := NewTranscoder()
	raw := "<alice> hi"
	nickStyle := ColorStyle(NickColor("alice"))

	line := tr.Transcode(Message{Raw: raw}, MessageContext{}, Preferences{ColorNicks: true})
	expected := tags(StyleDefault, 1, nickStyle, 5, StyleDefault, 5)
	if line.Styles() != expected {
		t.Errorf("expected styles %q, got %q", expected, line.Styles())
	}

	line = tr.Transcode(Message{Raw: raw}, MessageContext{}, Preferences{})
	if line.Styles() != tags(StyleDefault, len(raw)+1) {
		t.Errorf("expected no nick color when disabled, got %q", line.Styles())
	}

	line = tr.Transcode(Message{Raw: "* bob waves"}, MessageContext{}, Preferences{ColorNicks: true})
	if line.StyleAt(2) != ColorStyle(NickColor("bob")) || line.StyleAt(5) != StyleDefault {
		t.Errorf("unexpected action-announcement nick styles %q", line.Styles())
	}

	// the override is per position: persistent bold still applies
	line = tr.Transcode(Message{Raw: "\x02<al> x"}, MessageContext{}, Preferences{ColorNicks: true})
	if line.StyleAt(1) != ColorStyle(NickColor("al")).Bold() {
		t.Errorf("expected bold nick color, got %d", line.StyleAt(1))
	}
}

func TestTranscodeHighlight(t *testing.T) {
	tr := NewTranscoder()
	ctx := MessageContext{Nick: "bob", Highlights: []string{"release"}}

	tests := []struct {
		raw      string
		expected bool
	}{
		{"<alice> hey bob!", true},
		{"<alice> hey BOB", true},
		{"<alice> bobby is here", false},
		{"<bob> talking about bob", false},
		{"<alice> the \x02release\x02 is out", true},
		{"<alice> nothing", false},
	}
	for _, tt := range tests {
		line := tr.Transcode(Message{Raw: tt.raw}, ctx, Preferences{})
		if line.Highlighted() != tt.expected {
			t.Errorf("%q: expected highlighted=%v", tt.raw, tt.expected)
		}
	}
}

func TestTranscodeLengthInvariant(t *testing.T) {
	inputs := []string{
		"\x03", "\x03,", "\x031,", "\x0312,345", "\x02\x02\x02",
		"\x01ACTION", "\x01ACTION ", "\x01\x01\x01", "<>", "<a", "* ",
		"ftp://\x03x", "irc://net/#chan\x02bold", "ünïcödé \x1fü\x1f",
		"\x0f\x16\x1d\x1e\x11\x07", "http://", strings.Repeat("\x034,5x", 50),
	}
	tr := NewTranscoder()
	prefs := Preferences{ShowTimestamps: true, ColorNicks: true}
	buf := NewTextBuffer()
	for _, in := range inputs {
		line := tr.Transcode(Message{Raw: in}, MessageContext{Nick: "a"}, prefs)
		if len(line.Text()) != len(line.Styles()) {
			t.Errorf("%q: text %d bytes, styles %d bytes", in, len(line.Text()), len(line.Styles()))
		}
		if !strings.HasSuffix(line.Text(), "\n") {
			t.Errorf("%q: missing trailing newline", in)
		}
		buf.Append(line)
		if len(buf.Text()) != len(buf.Styles()) {
			t.Fatalf("buffer invariant broken after %q", in)
		}
	}
}

func TestStripControls(t *testing.T) {
	got := StripControls("\x02bold\x02 \x0304,12color\x03 \x1funder\x1f\x0f\x07")
	if got != "bold color under" {
		t.Errorf("expected %q, got %q", "bold color under", got)
	}
}
