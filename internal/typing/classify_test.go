package typing

import (
	"reflect"
	"testing"
)

func TestClassifyTehAgainstThe(t *testing.T) {
	trace := [][]rune{[]rune("teh")}
	got := Classify(trace, []string{"the"}, 0)

	want := []CharClass{Correct, Incorrect, Incorrect}
	if !reflect.DeepEqual(got[0].Chars, want) {
		t.Errorf("chars = %v, want %v", got[0].Chars, want)
	}
	if got[0].Errored {
		t.Error("word under cursor marked errored")
	}
}

func TestClassifyUntypedIsUnchecked(t *testing.T) {
	got := Classify(nil, []string{"cat"}, 0)

	for i, c := range got[0].Chars {
		if c != Unchecked {
			t.Errorf("char %d = %v, want Unchecked", i, c)
		}
	}
}

func TestClassifyOverflow(t *testing.T) {
	trace := [][]rune{[]rune("hiya")}
	got := Classify(trace, []string{"hi"}, 0)

	if string(got[0].Overflow) != "ya" {
		t.Errorf("overflow = %q, want ya", got[0].Overflow)
	}
	want := []CharClass{Correct, Correct}
	if !reflect.DeepEqual(got[0].Chars, want) {
		t.Errorf("chars = %v, want %v", got[0].Chars, want)
	}
}

func TestClassifyPastWordErrored(t *testing.T) {
	trace := [][]rune{[]rune("teh"), []rune("c")}
	got := Classify(trace, []string{"the", "cat"}, 1)

	if !got[0].Errored {
		t.Error("mistyped past word not marked errored")
	}
	if got[1].Errored {
		t.Error("current word marked errored")
	}
}

func TestClassifyPastWordCorrectNotErrored(t *testing.T) {
	trace := [][]rune{[]rune("the"), []rune("")}
	got := Classify(trace, []string{"the", "cat"}, 1)

	if got[0].Errored {
		t.Error("correctly typed past word marked errored")
	}
}

func TestClassifyShortPastWordErrored(t *testing.T) {
	// Wrong length alone marks a committed word, even if every typed
	// character matched.
	trace := [][]rune{[]rune("th"), []rune("")}
	got := Classify(trace, []string{"the", "cat"}, 1)

	if !got[0].Errored {
		t.Error("short past word not marked errored")
	}
}

func TestClassifyIsPure(t *testing.T) {
	trace := [][]rune{[]rune("teh"), []rune("ca")}
	ref := []string{"the", "cat"}

	first := Classify(trace, ref, 1)
	second := Classify(trace, ref, 1)

	if !reflect.DeepEqual(first, second) {
		t.Error("classification differs between identical calls")
	}
}
