package engine

// orchestrator (C8) turns composer transitions into host-facing Replies: a
// diff protocol (backspace N, insert the rest) plus word-boundary
// detection and the restore arbiter's final word-ends decision.
type orchestrator struct {
	comp        *composer
	opts        Options
	lastUnicode []rune
}

func newOrchestrator(opts Options) *orchestrator {
	return &orchestrator{comp: newComposer(opts), opts: opts}
}

func (o *orchestrator) reset() {
	o.comp.resetWord()
	o.lastUnicode = nil
}

func isPrintableASCII(b byte) bool { return b >= 0x20 && b < 0x7f }

func isLetterOrDigit(b byte) bool {
	lower := b | 0x20
	return (lower >= 'a' && lower <= 'z') || (b >= '0' && b <= '9')
}

// isBoundaryKey reports whether a key event ends the current word: space,
// return, tab, or any printable punctuation the composer itself doesn't
// consume as a letter/digit.
func isBoundaryKey(ev KeyEvent) bool {
	switch ev.KeySym {
	case uint32(KeySpace), uint32(KeyReturn), uint32(KeyTab):
		return true
	}
	if ev.KeySym < 0x100 {
		b := byte(ev.KeySym)
		if isPrintableASCII(b) && !isLetterOrDigit(b) {
			return true
		}
	}
	return false
}

// diff computes the backspace-then-insert delta between two rendered
// strings sharing a common prefix.
func diff(prev, next []rune) (backspaces uint8, insert []rune) {
	common := 0
	for common < len(prev) && common < len(next) && prev[common] == next[common] {
		common++
	}
	n := len(prev) - common
	if n > 255 {
		n = 255
	}
	return uint8(n), append([]rune(nil), next[common:]...)
}

// HandleKey processes one key event and returns what the host should do to
// its text buffer, plus whether the host should additionally act on the
// triggering key itself (e.g. Return still needs to insert a newline).
func (o *orchestrator) HandleKey(ev KeyEvent) (Reply, bool) {
	if ev.Modifiers&(ModControl|ModMod1|ModMod4) != 0 {
		o.reset()
		return Reply{}, true
	}

	if ev.KeySym == KeyEscape {
		if !o.opts.EscRestore || o.comp.buf.empty() {
			o.reset()
			return Reply{}, true
		}
		return o.finish(DecisionRestore, true), true
	}

	if ev.KeySym == KeyBackspace || ev.KeySym == KeyDelete {
		if o.comp.buf.empty() {
			return Reply{}, true
		}
		return o.handleBackspace(), false
	}

	if isBoundaryKey(ev) {
		return o.handleBoundary(ev)
	}

	if ev.KeySym >= 0x100 {
		return Reply{}, true
	}
	key := byte(ev.KeySym)
	if !isLetterOrDigit(key) {
		return Reply{}, true
	}

	o.comp.processKey(key, ev.Caps, ev.Shift)
	next := []rune(o.comp.buf.toUnicodeString())
	bs, ins := diff(o.lastUnicode, next)
	o.lastUnicode = next
	return Reply{Action: ReplyNone, Backspaces: bs, Insert: ins}, false
}

func (o *orchestrator) handleBackspace() Reply {
	keys := o.comp.buf.allKeys()
	if len(keys) == 0 {
		o.reset()
		return Reply{}
	}
	keys = keys[:len(keys)-1]
	fresh := newComposer(o.opts)
	for _, k := range keys {
		fresh.processKey(k.Key, k.Caps, k.Shift)
	}
	o.comp = fresh
	next := []rune(o.comp.buf.toUnicodeString())
	bs, ins := diff(o.lastUnicode, next)
	o.lastUnicode = next
	return Reply{Action: ReplyNone, Backspaces: bs, Insert: ins}
}

// handleBoundary runs the restore arbiter, emits the final word (plus the
// boundary character itself when it's printable), and resets for the next
// word.
func (o *orchestrator) handleBoundary(ev KeyEvent) (Reply, bool) {
	if o.comp.buf.empty() {
		o.reset()
		return Reply{}, true
	}
	decision := o.decide()
	boundaryChar := rune(0)
	forwardKey := false
	if ev.KeySym < 0x100 && isPrintableASCII(byte(ev.KeySym)) {
		boundaryChar = rune(ev.KeySym)
	} else {
		forwardKey = true
	}
	return o.finish(decision, true, boundaryChar), forwardKey
}

func (o *orchestrator) decide() RestoreDecision {
	tier := englishTier(o.comp.buf.rawString())
	s := restoreSignals{
		hadTransform: o.comp.hadTransform(),
		hasStroke:    o.comp.hasStroke(),
		vn:           o.comp.validity(),
		enTier:       tier,
	}
	d := decideRestore(s, o.opts)
	if d == DecisionWait {
		// The word is ending regardless of whether the arbiter wanted more
		// input. Wait degrades to Restore if any EN pattern fired at all (no
		// high-confidence threshold here: an incomplete syllable has no VN
		// reading to protect), Keep otherwise.
		if tier != EnNone {
			return DecisionRestore
		}
		return DecisionKeep
	}
	return d
}

// finish produces the terminal Reply for a word: either the composed
// Vietnamese text or the raw ASCII it restores to, optionally with a
// trailing boundary character, and resets the composer for the next word.
func (o *orchestrator) finish(decision RestoreDecision, resetAfter bool, boundaryChar ...rune) Reply {
	var text []rune
	action := ReplyCommit
	if decision == DecisionRestore {
		action = ReplyRestore
		text = []rune(o.comp.buf.rawString())
	} else {
		text = []rune(o.comp.buf.toUnicodeString())
	}
	if len(boundaryChar) == 1 && boundaryChar[0] != 0 {
		text = append(text, boundaryChar[0])
	}
	bs, ins := diff(o.lastUnicode, text)
	if resetAfter {
		o.reset()
	}
	return Reply{Action: action, Backspaces: bs, Insert: ins}
}
