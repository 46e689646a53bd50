// Package score computes the final speed and accuracy figures for a
// finished race from the typed trace and the reference text.
package score

import "math"

// Policy selects how a trace is matched against the reference.
type Policy int

const (
	// CharMatch flattens the trace and the reference to character
	// sequences and compares position by position. Speeds use the
	// conventional 5-characters-per-word definition. This is the
	// canonical policy for multiplayer races.
	CharMatch Policy = iota
	// WordMatch counts whole typed words and scores a word as correct
	// only when it exactly equals the reference word at its index.
	WordMatch
)

// Result is the output of Compute.
type Result struct {
	RawWPM   int
	WPM      int
	Accuracy float64
}

// Compute scores a trace against the reference words for a race that
// lasted elapsedSeconds. A zero or negative elapsed time yields a zero
// result rather than a division error, as does an empty trace.
func Compute(trace [][]rune, reference []string, elapsedSeconds int, policy Policy) Result {
	if elapsedSeconds <= 0 {
		return Result{}
	}
	minutes := float64(elapsedSeconds) / 60

	switch policy {
	case WordMatch:
		return wordMatch(trace, reference, minutes)
	default:
		return charMatch(trace, reference, minutes)
	}
}

func charMatch(trace [][]rune, reference []string, minutes float64) Result {
	var typed []rune
	for _, word := range trace {
		typed = append(typed, word...)
	}
	var expected []rune
	for _, word := range reference {
		expected = append(expected, []rune(word)...)
	}

	total := len(typed)
	correct := 0
	for i, r := range typed {
		if i < len(expected) && expected[i] == r {
			correct++
		}
	}

	res := Result{
		RawWPM: int(math.Round(float64(total) / 5 / minutes)),
		WPM:    int(math.Round(float64(correct) / 5 / minutes)),
	}
	if total > 0 {
		res.Accuracy = math.Round(float64(correct) / float64(total) * 100)
	}
	return res
}

func wordMatch(trace [][]rune, reference []string, minutes float64) Result {
	total := len(trace)
	correct := 0
	for i, word := range trace {
		if i < len(reference) && string(word) == reference[i] {
			correct++
		}
	}

	res := Result{
		RawWPM: int(math.Round(float64(total) / minutes)),
		WPM:    int(math.Round(float64(correct) / minutes)),
	}
	if total > 0 {
		res.Accuracy = math.Round(float64(correct) / float64(total) * 100)
	}
	return res
}
