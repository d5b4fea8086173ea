package engine

// Deferred decision kinds (C4/C3): a transform whose validity depends on
// characters typed later in the word.
const (
	deferNone uint8 = iota
	deferBreveOnA
	deferHornOnU
	deferHornOnO
	deferDelayedStrokeOnD
	deferPendingTonePlacement
)

// deferredDecision carries a tagged value the processor re-examines on
// every subsequent key, and resolves or drops on word commit.
type deferredDecision struct {
	kind     uint8
	position int
	aux      int  // second index, used only by deferDelayedStrokeOnD (the literal 'd' char slot)
	payload  byte // e.g. pending tone value for pendingTonePlacement, or a raw-entry index
}

func (d *deferredDecision) isPending() bool { return d.kind != deferNone }
func (d *deferredDecision) clear()          { *d = deferredDecision{} }

func (d *deferredDecision) set(kind uint8, position int, payload byte) {
	d.kind = kind
	d.position = position
	d.payload = payload
}

// setDelayedStroke records a non-adjacent "d ... d" (dede) pending stroke:
// onsetIdx is the original onset 'd' that may yet be struck, literalIdx is
// the char slot holding the second 'd' as an ordinary literal letter (to be
// absorbed if a mark key confirms), and rawIdx is that second d's raw entry
// (to be marked consumed on confirmation).
func (d *deferredDecision) setDelayedStroke(onsetIdx, literalIdx, rawIdx int) {
	d.kind = deferDelayedStrokeOnD
	d.position = onsetIdx
	d.aux = literalIdx
	d.payload = byte(rawIdx)
}

// breveValidFinal reports whether a final consonant confirms a pending
// breve on 'a': m, n (not followed by h), p, t, c, or the cluster "ng".
// "ănh" is not a legal Vietnamese rime, so n+h does not confirm it.
func breveValidFinal(coda string) bool {
	switch coda {
	case "m", "n", "p", "t", "c", "ng":
		return true
	default:
		return false
	}
}

// hornUValidFinal reports whether a final confirms that both vowels of a
// "uo" nucleus take the horn (dược, được) rather than just the second
// (huơ has no final and only the 'ơ' takes the horn).
func hornUValidFinal(coda string) bool {
	switch coda {
	case "c", "m", "n", "p", "t", "ng":
		return true
	default:
		return false
	}
}
