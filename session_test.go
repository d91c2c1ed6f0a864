package chatmarkup

import (
	"testing"
)

func TestRegistryOpenClose(t *testing.T) {
	r := NewRegistry()
	a := r.Open("#go")
	b := r.Open("#rust")

	if a.ID() == b.ID() {
		t.Error("expected distinct session ids")
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", r.Len())
	}
	if s, ok := r.Get(a.ID()); !ok || s != a {
		t.Error("expected Get to return the session")
	}
	if s, ok := r.Find("#GO"); !ok || s != a {
		t.Error("expected case-insensitive Find")
	}

	id, err := ParseSessionID(a.ID().String())
	if err != nil || id != a.ID() {
		t.Errorf("expected id round trip, got %v, %v", id, err)
	}
	if _, err := ParseSessionID("nope"); err == nil {
		t.Error("expected parse error")
	}

	r.Close(a.ID())
	r.Close(a.ID())
	if _, ok := r.Get(a.ID()); ok {
		t.Error("expected closed session to be gone")
	}
	sessions := r.Sessions()
	if len(sessions) != 1 || sessions[0] != b {
		t.Errorf("expected only #rust, got %d sessions", len(sessions))
	}
}

func TestSessionActivity(t *testing.T) {
	r := NewRegistry()
	s := r.Open("#go")
	tr := NewTranscoder()
	ctx := MessageContext{Nick: "me"}

	s.AppendEvent(tr.Transcode(Message{Raw: "* joins"}, ctx, Preferences{}))
	if s.Activity() != ActivityNewData {
		t.Errorf("expected new-data, got %s", s.Activity())
	}
	s.AppendMessage(tr.Transcode(Message{Raw: "<a> hi"}, ctx, Preferences{}))
	if s.Activity() != ActivityNewMessage {
		t.Errorf("expected new-message, got %s", s.Activity())
	}
	s.AppendMessage(tr.Transcode(Message{Raw: "<a> hi me"}, ctx, Preferences{}))
	if s.Activity() != ActivityHighlight {
		t.Errorf("expected highlight, got %s", s.Activity())
	}
	s.AppendEvent(tr.Transcode(Message{Raw: "* parts"}, ctx, Preferences{}))
	if s.Activity() != ActivityHighlight {
		t.Error("expected activity never to decrease")
	}
	if s.Activity().ColorIndex() != ColorHighlight {
		t.Errorf("expected highlight color, got %d", s.Activity().ColorIndex())
	}
	if s.Buffer().LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", s.Buffer().LineCount())
	}

	s.Focus()
	if s.Activity() != ActivityNone || !s.Focused() {
		t.Error("expected focus to clear activity")
	}
	s.AppendMessage(tr.Transcode(Message{Raw: "<a> hi me"}, ctx, Preferences{}))
	if s.Activity() != ActivityNone {
		t.Error("expected focused session to stay clean")
	}

	other := r.Open("#rust")
	other.Focus()
	if s.Focused() || r.Focused() != other {
		t.Error("expected focus to move")
	}
}

func TestSessionTopicAndClear(t *testing.T) {
	s := NewRegistry().Open("#go")
	s.SetTopic("\x02Welcome\x02 to \x0304go")
	if s.Topic() != "Welcome to go" {
		t.Errorf("expected stripped topic, got %q", s.Topic())
	}

	s.AppendMessage(transcode("x"))
	s.Clear()
	if s.Buffer().Len() != 0 {
		t.Error("expected empty buffer after Clear")
	}
}

func TestSessionRoster(t *testing.T) {
	s := NewRegistry().Open("#go")
	s.SetUser("zed", "")
	s.SetUser("alice", "@")
	s.SetUser("bob", "+")
	s.SetUser("carol", "~")

	roster := s.Roster()
	expected := []string{"@alice", "+bob", "~carol", "zed"}
	if len(roster) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, roster)
	}
	for i := range expected {
		if roster[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, roster)
			break
		}
	}

	c := s.Counts()
	if c.Users != 4 || c.Ops != 2 || c.Voiced != 1 {
		t.Errorf("unexpected counts %+v", c)
	}

	s.RenameUser("alice", "alicia")
	s.RemoveUser("zed")
	s.RemoveUser("nobody")
	roster = s.Roster()
	if len(roster) != 3 || roster[0] != "@alicia" {
		t.Errorf("unexpected roster after rename %v", roster)
	}

	s.ClearRoster()
	if len(s.Roster()) != 0 {
		t.Error("expected empty roster")
	}
	if s.RosterDirty() {
		t.Error("expected no dirty tracking without a refresher")
	}
}

func TestRegistryRosterRefresh(t *testing.T) {
	loop := NewIdleLoop()
	refreshed := make(map[SessionID][]string)
	calls := 0
	r := NewRegistry(WithRosterRefresh(loop, func(id SessionID, labels []string) {
		calls++
		refreshed[id] = labels
	}))

	a := r.Open("#a")
	b := r.Open("#b")
	c := r.Open("#c")
	a.SetUser("x", "")
	a.SetUser("y", "@")
	b.SetUser("z", "")
	c.SetUser("w", "")
	r.Close(c.ID())

	if !a.RosterDirty() || !b.RosterDirty() {
		t.Error("expected sessions marked dirty")
	}
	if loop.Len() != 1 {
		t.Errorf("expected a single scheduled refresh, got %d", loop.Len())
	}

	loop.RunPending()
	if calls != 2 {
		t.Errorf("expected 2 session refreshes, got %d", calls)
	}
	if labels := refreshed[a.ID()]; len(labels) != 2 || labels[1] != "@y" {
		t.Errorf("unexpected labels %v", labels)
	}
	if _, ok := refreshed[c.ID()]; ok {
		t.Error("expected closed session to be skipped")
	}
	if a.RosterDirty() || b.RosterDirty() {
		t.Error("expected dirty flags cleared")
	}
}
