package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/mattn/go-runewidth"

	"github.com/tranvietnam/vnkey/internal/engine"
)

const (
	serviceName = "com.github.goviet.ime"
	objectPath  = "/Engine"
)

// InputEngine is the D-Bus object that receives key events from Fcitx5.
type InputEngine struct {
	core   *engine.Core
	logger *log.Logger
}

// NewInputEngine creates a new InputEngine with default settings.
func NewInputEngine(logger *log.Logger) *InputEngine {
	return &InputEngine{
		core:   engine.NewCore(),
		logger: logger,
	}
}

// ProcessKey handles key events from Fcitx5 frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl/Alt state).
// Output: handled (was key consumed), action (0 None, 1 Commit, 2 Restore),
// backspaces (graphemes to delete to the left), insert (text to type).
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, uint8, uint8, string, *dbus.Error) {
	event := engine.KeyEvent{
		KeySym:    keysym,
		Caps:      modifiers&engine.ModLock != 0,
		Shift:     modifiers&engine.ModShift != 0,
		Modifiers: modifiers,
	}

	reply, handled := e.core.HandleKey(event)

	if e.logger != nil {
		e.logKey(keysym, modifiers, reply, handled)
	}

	return handled, uint8(reply.Action), reply.Backspaces, string(reply.Insert), nil
}

// logKey records one key event and the engine's reply, column-aligned with
// go-runewidth so Vietnamese combining/wide output lines up the same as the
// plain-ASCII columns either side of it.
func (e *InputEngine) logKey(keysym uint32, modifiers uint32, reply engine.Reply, handled bool) {
	keyStr := fmt.Sprintf("0x%x", keysym)
	if keysym < 0x100 && isPrintable(byte(keysym)) {
		keyStr = fmt.Sprintf("%q", rune(keysym))
	} else {
		switch keysym {
		case engine.KeyBackspace:
			keyStr = "Backspace"
		case engine.KeySpace:
			keyStr = "Space"
		case engine.KeyReturn:
			keyStr = "Enter"
		case engine.KeyTab:
			keyStr = "Tab"
		case engine.KeyEscape:
			keyStr = "Esc"
		case engine.KeyDelete:
			keyStr = "Delete"
		}
	}

	modsStr := ""
	if modifiers&engine.ModShift != 0 {
		modsStr += "Shift+"
	}
	if modifiers&engine.ModControl != 0 {
		modsStr += "Ctrl+"
	}
	if modifiers&engine.ModMod1 != 0 {
		modsStr += "Alt+"
	}

	preedit := e.core.CurrentBufferUnicode()
	keyCol := runewidth.FillRight(modsStr+keyStr, 15)
	preeditCol := runewidth.FillRight(fmt.Sprintf("%q", preedit), 15)
	insertCol := runewidth.FillRight(fmt.Sprintf("%q", string(reply.Insert)), 15)

	e.logger.Printf("Type: %s | Preedit: %s | Action: %-8s | Backspaces: %d | Insert: %s | Handled: %v",
		keyCol, preeditCol, reply.Action, reply.Backspaces, insertCol, handled)
}

func isPrintable(b byte) bool { return b >= 0x20 && b < 0x7f }

// Reset clears the current composition state.
func (e *InputEngine) Reset() *dbus.Error {
	e.core.Reset()
	fmt.Println(">>> [GoViet] Engine reset")
	return nil
}

// SetEnabled enables or disables the engine.
func (e *InputEngine) SetEnabled(enabled bool) *dbus.Error {
	e.core.SetEnabled(enabled)
	fmt.Printf(">>> [GoViet] Engine enabled: %v\n", enabled)
	return nil
}

// GetPreedit returns the current preedit string.
func (e *InputEngine) GetPreedit() (string, *dbus.Error) {
	return e.core.CurrentBufferUnicode(), nil
}

// Configure replaces the engine's input method and behavior options.
// method: 0 = Telex, 1 = VNI.
func (e *InputEngine) Configure(method uint8, modernTone, autoRestore, escRestore, skipWVowel bool) *dbus.Error {
	opts := engine.Options{
		Method:               engine.MethodTelex,
		ModernTonePlacement:  modernTone,
		EnglishAutoRestore:   autoRestore,
		EscRestore:           escRestore,
		SkipWAsVowelShortcut: skipWVowel,
	}
	if method == 1 {
		opts.Method = engine.MethodVNI
	}
	e.core.Configure(opts)
	fmt.Printf(">>> [GoViet] Reconfigured: method=%d modernTone=%v autoRestore=%v escRestore=%v skipW=%v\n",
		method, modernTone, autoRestore, escRestore, skipWVowel)
	return nil
}

func main() {
	// 1. Connect to Session Bus
	conn, err := dbus.SessionBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to session bus:", err)
		os.Exit(1)
	}
	defer conn.Close()

	// 2. Register Service Name
	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to request name:", err)
		os.Exit(1)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		fmt.Fprintln(os.Stderr, "Name already taken - another instance may be running")
		os.Exit(1)
	}

	// 3. Setup Logging
	logFile, err := os.OpenFile("typing.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	var logger *log.Logger
	if err == nil {
		logger = log.New(logFile, "", log.LstdFlags)
		fmt.Println(">>> [GoViet] Logging to typing.log")
	} else {
		fmt.Fprintf(os.Stderr, ">>> [GoViet] Failed to open log file: %v\n", err)
	}
	defer logFile.Close()

	// 4. Create and export the engine
	inputEngine := NewInputEngine(logger)

	err = conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export object:", err)
		os.Exit(1)
	}

	// 5. Print startup banner
	fmt.Println("================================================")
	fmt.Println("GoViet-IME Backend is running!")
	fmt.Println("================================================")
	fmt.Printf("  Service:     %s\n", serviceName)
	fmt.Printf("  Object Path: %s\n", objectPath)
	fmt.Printf("  Input Method: Telex\n")
	fmt.Printf("  Output Format: Unicode\n")
	fmt.Println("------------------------------------------------")
	fmt.Println("Waiting for key events...")
	fmt.Println()

	// 6. Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n>>> [GoViet] Shutting down...")
}
