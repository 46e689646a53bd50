package typing

// CharClass is the render classification of one reference character.
type CharClass int

const (
	// Unchecked means the position has not been typed yet.
	Unchecked CharClass = iota
	// Correct means the typed character matches the reference.
	Correct
	// Incorrect means the typed character differs from the reference.
	Incorrect
)

// WordRender is the classification of one reference word plus any
// trailing overflow the racer typed beyond the word's length.
type WordRender struct {
	// Chars has one entry per reference character.
	Chars []CharClass
	// Overflow holds characters typed past the reference word's end;
	// they always render as incorrect.
	Overflow []rune
	// Errored marks a word the cursor has moved past whose trace does
	// not exactly equal the reference word.
	Errored bool
}

// Classify computes the render state for every reference word. It is a
// pure function of (trace, reference, currentWord): calling it twice on
// the same input yields the same output, and it never mutates its
// arguments.
func Classify(trace [][]rune, reference []string, currentWord int) []WordRender {
	out := make([]WordRender, len(reference))
	for w, word := range reference {
		ref := []rune(word)
		render := WordRender{Chars: make([]CharClass, len(ref))}

		var typed []rune
		if w < len(trace) {
			typed = trace[w]
		}

		for l, want := range ref {
			if l >= len(typed) {
				continue
			}
			if typed[l] == want {
				render.Chars[l] = Correct
			} else {
				render.Chars[l] = Incorrect
			}
		}

		if len(typed) > len(ref) {
			render.Overflow = typed[len(ref):]
		}

		// Only words the racer has moved past can be marked errored.
		if w < currentWord && typed != nil {
			if len(typed) != len(ref) || string(typed) != word {
				render.Errored = true
			}
		}

		out[w] = render
	}
	return out
}
