// Package typing implements the per-keystroke state machine a racer
// runs locally: typed-character history, cursor movement, per-character
// classification and the race countdown.
package typing

import "strings"

// punctuation accepted in addition to letters, digits and space.
const acceptedPunct = `.,;!?'"@#$%&()-`

// Accepts reports whether r is a whitelisted key. Anything else is
// ignored by the machine: no state change, no side effect.
func Accepts(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ':
		return true
	}
	return strings.ContainsRune(acceptedPunct, r)
}

// Machine tracks one participant's typing state against a reference
// text. It is not safe for concurrent use; the caller's event loop
// feeds it one key at a time.
type Machine struct {
	reference   []string
	trace       [][]rune
	wordIndex   int
	letterIndex int
	started     bool
	frozen      bool
}

// NewMachine returns a machine for the given reference words.
func NewMachine(reference []string) *Machine {
	return &Machine{reference: reference}
}

// Started reports whether the first accepted key has been consumed.
func (m *Machine) Started() bool { return m.started }

// Cursor returns the current (wordIndex, letterIndex) position.
func (m *Machine) Cursor() (word, letter int) {
	return m.wordIndex, m.letterIndex
}

// Trace returns the typed history. The returned slices are the
// machine's own backing arrays; callers must not mutate them.
func (m *Machine) Trace() [][]rune { return m.trace }

// Reference returns the words the machine was built with.
func (m *Machine) Reference() []string { return m.reference }

// Freeze stops the machine from accepting further input. Called when
// the countdown reaches zero.
func (m *Machine) Freeze() { m.frozen = true }

// Press consumes one printable key or space. It reports whether the
// key was accepted; non-whitelisted keys, input after Freeze, and a
// space while the cursor is on the final reference word are dropped.
func (m *Machine) Press(key rune) bool {
	if m.frozen || !Accepts(key) {
		return false
	}

	if key == ' ' {
		// Commit the current word and open the next one. There is no
		// word to open past the last reference word, so space is
		// rejected there and the cursor stays within bounds.
		if m.wordIndex >= len(m.reference)-1 {
			return false
		}
		m.started = true
		if len(m.trace) == 0 {
			m.trace = append(m.trace, []rune{})
		}
		m.trace = append(m.trace, []rune{})
		m.wordIndex++
		m.letterIndex = 0
		return true
	}

	m.started = true
	if len(m.trace) == 0 {
		m.trace = append(m.trace, []rune{})
	}
	m.trace[len(m.trace)-1] = append(m.trace[len(m.trace)-1], key)
	m.letterIndex++
	return true
}

// Backspace removes the last typed character. At the start of a word it
// rewinds to the previous word, restoring the cursor to that word's
// recorded length so an already-committed word can be corrected. At
// (0,0) it is a no-op.
func (m *Machine) Backspace() {
	if m.frozen {
		return
	}
	if m.letterIndex == 0 && m.wordIndex == 0 {
		return
	}
	if m.letterIndex == 0 {
		// Drop the (empty) current entry and reopen the previous word.
		m.trace = m.trace[:len(m.trace)-1]
		m.wordIndex--
		m.letterIndex = len(m.trace[len(m.trace)-1])
		return
	}
	last := m.trace[len(m.trace)-1]
	m.trace[len(m.trace)-1] = last[:len(last)-1]
	m.letterIndex--
}

// Progress derives the live percent-complete from the cursor position.
func (m *Machine) Progress() float64 {
	if len(m.reference) == 0 {
		return 0
	}
	return float64(m.wordIndex) / float64(len(m.reference)) * 100
}
