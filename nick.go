package chatmarkup

// NickColor maps a nickname to one of the 16 mIRC colors by summing its bytes.
// Distinct nicks may share a color.
func NickColor(nick string) int {
	sum := 0
	for i := 0; i < len(nick); i++ {
		sum += int(nick[i])
	}
	return sum % NumColors
}

// nickSpan is the byte range of the speaking nick inside a raw message.
type nickSpan struct {
	start int
	end   int
	color int
}

func (n nickSpan) contains(i int) bool {
	return n.end > n.start && i >= n.start && i < n.end
}

// findNick detects a "<nick>" or "* nick " prefix, skipping leading blanks and
// formatting codes. The returned span excludes the brackets and the action marker.
func findNick(msg string) (nickSpan, bool) {
	i := 0
	for i < len(msg) {
		if msg[i] == ' ' || msg[i] == '\t' {
			i++
		} else if n := controlLen(msg, i); n > 0 {
			i += n
		} else {
			break
		}
	}
	if i >= len(msg) {
		return nickSpan{}, false
	}

	switch {
	case msg[i] == '<':
		start := i + 1
		j := start
		for j < len(msg) && msg[j] != '>' && msg[j] != ' ' {
			j++
		}
		if j < len(msg) && msg[j] == '>' && j > start {
			return nickSpan{start: start, end: j, color: NickColor(msg[start:j])}, true
		}
	case msg[i] == '*' && i+1 < len(msg) && msg[i+1] == ' ':
		start := i + 2
		j := start
		for j < len(msg) && msg[j] != ' ' {
			j++
		}
		if j > start {
			return nickSpan{start: start, end: j, color: NickColor(msg[start:j])}, true
		}
	}
	return nickSpan{}, false
}
