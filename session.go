package chatmarkup

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Activity is the unread state of a session tab. Higher values win.
type Activity int

const (
	ActivityNone Activity = iota
	ActivityNewData
	ActivityNewMessage
	ActivityHighlight
)

func (a Activity) String() string {
	switch a {
	case ActivityNewData:
		return "new-data"
	case ActivityNewMessage:
		return "new-message"
	case ActivityHighlight:
		return "highlight"
	default:
		return "none"
	}
}

// ColorIndex returns the palette role used to draw a tab in this state.
func (a Activity) ColorIndex() int {
	switch a {
	case ActivityNewData:
		return ColorNewData
	case ActivityNewMessage:
		return ColorNewMessage
	case ActivityHighlight:
		return ColorHighlight
	default:
		return ColorFg
	}
}

// SessionID is an opaque session key.
type SessionID uuid.UUID

// String returns the canonical UUID form.
func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

// ParseSessionID parses the form produced by String.
func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

// RosterCounts summarises a roster by membership prefix.
type RosterCounts struct {
	Users  int
	Ops    int
	Voiced int
}

// Session is the per-tab presentation state: message buffer, roster, topic and
// activity. Sessions are owned by a Registry.
type Session struct {
	id       SessionID
	name     string
	topic    string
	buffer   *TextBuffer
	roster   map[string]string // nick -> label
	activity Activity
	focused  bool
	registry *Registry
}

// ID returns the session key.
func (s *Session) ID() SessionID {
	return s.id
}

// Name returns the channel or query name.
func (s *Session) Name() string {
	return s.name
}

// Buffer returns the message buffer.
func (s *Session) Buffer() *TextBuffer {
	return s.buffer
}

// Topic returns the topic with control bytes removed.
func (s *Session) Topic() string {
	return s.topic
}

// SetTopic stores topic without its formatting control bytes.
func (s *Session) SetTopic(topic string) {
	s.topic = StripControls(topic)
}

// Clear replaces the buffer with an empty one.
func (s *Session) Clear() {
	s.buffer = NewTextBuffer()
}

// AppendMessage adds a chat line. An unfocused session moves to
// ActivityNewMessage, or ActivityHighlight when the line is highlighted.
func (s *Session) AppendMessage(l Line) {
	s.buffer.Append(l)
	if l.Highlighted() {
		s.raise(ActivityHighlight)
	} else {
		s.raise(ActivityNewMessage)
	}
}

// AppendEvent adds a non-message line such as a join or mode change. An
// unfocused session moves to ActivityNewData.
func (s *Session) AppendEvent(l Line) {
	s.buffer.Append(l)
	s.raise(ActivityNewData)
}

func (s *Session) raise(a Activity) {
	if s.focused || a <= s.activity {
		return
	}
	s.activity = a
}

// Activity returns the unread state.
func (s *Session) Activity() Activity {
	return s.activity
}

// Focused reports whether the session is the active tab.
func (s *Session) Focused() bool {
	return s.focused
}

// Focus makes s the active tab of its registry and clears its activity.
func (s *Session) Focus() {
	if s.registry != nil {
		if prev := s.registry.focused; prev != nil && prev != s {
			prev.focused = false
		}
		s.registry.focused = s
	}
	s.focused = true
	s.activity = ActivityNone
}

// SetUser inserts or updates nick with its membership prefix ("@", "+", ...).
func (s *Session) SetUser(nick, prefix string) {
	if nick == "" {
		return
	}
	s.roster[nick] = prefix + nick
	s.markRosterDirty()
}

// RemoveUser drops nick from the roster.
func (s *Session) RemoveUser(nick string) {
	if _, ok := s.roster[nick]; !ok {
		return
	}
	delete(s.roster, nick)
	s.markRosterDirty()
}

// RenameUser moves the entry of oldNick to newNick, keeping its prefix.
func (s *Session) RenameUser(oldNick, newNick string) {
	label, ok := s.roster[oldNick]
	if !ok || newNick == "" {
		return
	}
	delete(s.roster, oldNick)
	s.roster[newNick] = strings.TrimSuffix(label, oldNick) + newNick
	s.markRosterDirty()
}

// ClearRoster removes every user.
func (s *Session) ClearRoster() {
	clear(s.roster)
	s.markRosterDirty()
}

// Roster returns the user labels ordered by nick.
func (s *Session) Roster() []string {
	nicks := make([]string, 0, len(s.roster))
	for nick := range s.roster {
		nicks = append(nicks, nick)
	}
	sort.Strings(nicks)

	labels := make([]string, len(nicks))
	for i, nick := range nicks {
		labels[i] = s.roster[nick]
	}
	return labels
}

// Counts returns the number of users, operators and voiced users.
func (s *Session) Counts() RosterCounts {
	c := RosterCounts{Users: len(s.roster)}
	for _, label := range s.roster {
		if label == "" {
			continue
		}
		switch label[0] {
		case '@', '&', '~':
			c.Ops++
		case '+':
			c.Voiced++
		}
	}
	return c
}

// RosterDirty reports whether a roster refresh is pending for s.
func (s *Session) RosterDirty() bool {
	if s.registry == nil || s.registry.refresher == nil {
		return false
	}
	return s.registry.refresher.IsDirty(s.id)
}

func (s *Session) markRosterDirty() {
	if s.registry != nil && s.registry.refresher != nil {
		s.registry.refresher.MarkDirty(s.id)
	}
}

// RosterRefreshFunc receives the current roster labels of a session whose
// roster changed since the last refresh.
type RosterRefreshFunc func(id SessionID, labels []string)

// Registry owns every open session, keyed by SessionID. It is not
// goroutine-safe: use it from the presentation thread.
type Registry struct {
	sessions  map[SessionID]*Session
	order     []SessionID
	focused   *Session
	refresher *Refresher[SessionID]
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithRosterRefresh coalesces roster changes into one refresh per idle turn of
// sched. refresh is called once per dirty session that is still open.
func WithRosterRefresh(sched Scheduler, refresh RosterRefreshFunc) RegistryOption {
	return func(r *Registry) {
		r.refresher = NewRefresher(sched, func(ids []SessionID) {
			for _, id := range ids {
				if s, ok := r.sessions[id]; ok {
					refresh(id, s.Roster())
				}
			}
		})
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{sessions: make(map[SessionID]*Session)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a session named name.
func (r *Registry) Open(name string) *Session {
	s := &Session{
		id:       SessionID(uuid.New()),
		name:     name,
		buffer:   NewTextBuffer(),
		roster:   make(map[string]string),
		registry: r,
	}
	r.sessions[s.id] = s
	r.order = append(r.order, s.id)
	return s
}

// Get returns the session for id.
func (r *Registry) Get(id SessionID) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Find returns the first open session named name, compared case-insensitively.
func (r *Registry) Find(name string) (*Session, bool) {
	for _, id := range r.order {
		if s := r.sessions[id]; strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return nil, false
}

// Close removes the session for id. Unknown ids are ignored.
func (r *Registry) Close(id SessionID) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.focused == s {
		r.focused = nil
	}
	if r.refresher != nil {
		r.refresher.Forget(id)
	}
	s.registry = nil
}

// Focused returns the active session, if any.
func (r *Registry) Focused() *Session {
	return r.focused
}

// Sessions returns the open sessions in creation order.
func (r *Registry) Sessions() []*Session {
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
