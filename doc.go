// Package chatmarkup renders IRC-formatted chat text for a graphical client.
//
// Inbound messages carry mIRC control bytes (bold, color, underline, reset,
// CTCP delimiters). The package turns each message into visible text plus a
// parallel run of style tags, one tag per byte of text, that a text widget can
// draw with a fixed table of styles.
//
// # Quick Start
//
// Transcode a message and read the result:
//
//	tr := chatmarkup.NewTranscoder()
//	line := tr.Transcode(chatmarkup.Message{Raw: "\x02hi\x02 there"}, chatmarkup.MessageContext{}, chatmarkup.Preferences{})
//	fmt.Printf("%q\n", line.Text())   // "hi there\n"
//	fmt.Printf("%q\n", line.Styles()) // "TTAAAAAAA"
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Transcoder]: scans control bytes and produces a [Line]
//   - [Style]: one of [NumStyles] style slots, stored as the byte 'A'+slot
//   - [StyleTable]: maps every slot to a palette color, a face and an underline flag
//   - [Palette]: the 32 mIRC colors plus UI roles, loadable from a file
//   - [TextBuffer]: an append-only pair of text and style buffers
//   - [RenderContext]: owns the palette, table, fonts, spell annotator and transcoder
//
// # Style Slots
//
// Slot 0 is the default style, 1 is a CTCP ACTION, 2 is any other CTCP. Slots
// 3-18 are the 16 colors. Bold adds 19 and underline adds 38 to the base slot;
// bold wins when both are set. Slot 57 marks a hyperlink:
//
//	s := chatmarkup.ColorStyle(4).Bold()
//	fmt.Println(s.Tag()) // 'A' + 26
//
// # Hyperlinks and Nicks
//
// Spans starting with a prefix from [URLPrefixes] are tagged as hyperlinks and
// reported to an optional [URLGrabber]. When Preferences.ColorNicks is set, the
// sender nick of "<nick> text" and "* nick text" lines is colored by a stable
// hash of the nick.
//
// # Providers
//
// Optional providers follow one pattern: an interface, a no-op default and a
// functional option.
//
//	grabber := chatmarkup.NewMemoryURLGrabber(500)
//	tr := chatmarkup.NewTranscoder(
//	    chatmarkup.WithURLGrabber(grabber),
//	    chatmarkup.WithBell(&MyBell{}),
//	)
//
// # Render Context
//
// [RenderContext] builds every component from a [RenderConfig] and releases
// them with Close:
//
//	rc := chatmarkup.NewRenderContext(chatmarkup.WithRenderLogger(log))
//	if err := rc.Init(chatmarkup.RenderConfig{FontSize: 14, SpellEnabled: true, SpellLanguages: "en"}); err != nil {
//	    return err
//	}
//	defer rc.Close()
//
// Missing palette files, fonts and dictionaries degrade to defaults and are
// only logged. The palette file can be watched for changes; reloads go through
// a [Scheduler] and are coalesced by a [Refresher].
//
// # Sessions
//
// A [Registry] keeps one [Session] per channel or query with its buffer,
// roster and tab [Activity]. Roster changes are batched into one refresh per
// scheduler turn.
//
// # Snapshots and Screenshots
//
// [TextBuffer.Snapshot] splits lines into styled segments with JSON tags.
// [TextBuffer.ScreenshotWithConfig] draws the buffer to an image, including
// spell-error squiggles from a spell.Annotator.
//
// Spell checking lives in the spell subpackage.
package chatmarkup
