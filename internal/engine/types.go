// Package engine implements the Vietnamese Telex/VNI composition core: a
// stateful, single-threaded transducer that turns ASCII key events into
// Unicode Vietnamese syllables while discriminating intentional English
// typing and restoring it untouched.
package engine

// KeyEvent represents a keyboard event handed to the core by the host.
type KeyEvent struct {
	KeySym    uint32 // X11 keysym value, or an ASCII code point for KeySym < 0x100
	Caps      bool
	Shift     bool
	Modifiers uint32 // Ctrl/Alt/Super bits; ModControl or ModMod1 short-circuits the core
}

// Modifier flags for keyboard state.
const (
	ModNone    uint32 = 0
	ModShift   uint32 = 1 << 0
	ModLock    uint32 = 1 << 1 // Caps Lock
	ModControl uint32 = 1 << 2
	ModMod1    uint32 = 1 << 3 // Alt
	ModMod4    uint32 = 1 << 6 // Super/Windows key
)

// Common keysym values.
const (
	KeyBackspace uint32 = 0xff08
	KeyReturn    uint32 = 0xff0d
	KeyEscape    uint32 = 0xff1b
	KeySpace     uint32 = 0x0020
	KeyTab       uint32 = 0xff09
	KeyDelete    uint32 = 0xffff
)

// Action is the result of processing one key through the composition
// processor (C3). It tells the orchestrator what the buffer's visible
// state did, not what the host should do with it.
type Action int

const (
	ActionNone Action = iota
	ActionUpdate
	ActionTransform
	ActionRevert
	ActionReject
	ActionRestore
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUpdate:
		return "Update"
	case ActionTransform:
		return "Transform"
	case ActionRevert:
		return "Revert"
	case ActionReject:
		return "Reject"
	case ActionRestore:
		return "Restore"
	default:
		return "Unknown"
	}
}

// ReplyAction discriminates what the host should do with a Reply.
type ReplyAction int

const (
	ReplyNone ReplyAction = iota
	ReplyCommit
	ReplyRestore
)

func (a ReplyAction) String() string {
	switch a {
	case ReplyNone:
		return "None"
	case ReplyCommit:
		return "Commit"
	case ReplyRestore:
		return "Restore"
	default:
		return "Unknown"
	}
}

// Reply is the only interface the host sees during composition: delete
// Backspaces graphemes to the left of the caret, then insert Insert.
type Reply struct {
	Action     ReplyAction
	Backspaces uint8
	Insert     []rune
}

// ToneMark is one of the five Vietnamese tones (thanh).
type ToneMark int

const (
	ToneNone  ToneMark = iota // ngang
	ToneSac                   // sắc
	ToneHuyen                 // huyền
	ToneHoi                   // hỏi
	ToneNga                   // ngã
	ToneNang                  // nặng
)

// VowelMark is a vowel/consonant modifier: circumflex, breve, horn, or the
// d-stroke (which, despite the name, modifies a consonant, not a vowel).
type VowelMark int

const (
	MarkNone VowelMark = iota
	MarkCircumflex
	MarkBreve
	MarkHorn
	MarkStroke
)

// Method selects the keyboard convention: Telex or VNI.
type Method int

const (
	MethodTelex Method = iota
	MethodVNI
)

// ToneRule selects modern vs traditional tone placement for oa/oe/uy nuclei.
type ToneRule int

const (
	ToneRuleTraditional ToneRule = iota
	ToneRuleModern
)

// ProcessedChar is one syllable-position character: a base letter plus the
// marks applied to it. Unicode rendering is a pure function of this record.
// Stroke is recorded as Mark == MarkStroke; there is no separate flag.
type ProcessedChar struct {
	Base byte // ascii base letter: a,e,i,o,u,y,d,b,c,...
	Caps bool
	Mark VowelMark
	Tone ToneMark
}

// RawEntry is one raw keystroke, with a flag marking whether a later
// transform consumed it (e.g. the second 'a' in "aa" -> "â").
type RawEntry struct {
	Key      byte
	Caps     bool
	Shift    bool
	Consumed bool
}

// Options is the configuration surface exposed through Core.Configure.
type Options struct {
	Method               Method
	ModernTonePlacement  bool
	EnglishAutoRestore   bool
	EscRestore           bool
	SkipWAsVowelShortcut bool
}

// DefaultOptions returns the engine's default configuration.
func DefaultOptions() Options {
	return Options{
		Method:               MethodTelex,
		ModernTonePlacement:  false,
		EnglishAutoRestore:   true,
		EscRestore:           true,
		SkipWAsVowelShortcut: false,
	}
}
