package race

import (
	"errors"
	"fmt"
	"testing"
)

func participant(id string) Participant {
	return Participant{ID: id, Name: "player " + id, Avatar: "cat"}
}

func TestJoinOrderPreserved(t *testing.T) {
	s := NewSession("abc123", participant("a"))

	if err := s.Join(participant("b")); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if err := s.Join(participant("c")); err != nil {
		t.Fatalf("join c: %v", err)
	}

	want := []string{"a", "b", "c"}
	for i, p := range s.Players {
		if p.ID != want[i] {
			t.Errorf("roster[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestJoinDuplicateRejected(t *testing.T) {
	s := NewSession("abc123", participant("a"))

	err := s.Join(participant("a"))
	if !errors.Is(err, ErrDuplicateParticipant) {
		t.Fatalf("err = %v, want ErrDuplicateParticipant", err)
	}
	if len(s.Players) != 1 {
		t.Errorf("roster length = %d, want 1", len(s.Players))
	}
}

func TestJoinFullRejected(t *testing.T) {
	s := NewSession("abc123", participant("p0"))
	for i := 1; i < Capacity; i++ {
		if err := s.Join(participant(fmt.Sprintf("p%d", i))); err != nil {
			t.Fatalf("join p%d: %v", i, err)
		}
	}

	err := s.Join(participant("extra"))
	if !errors.Is(err, ErrFull) {
		t.Fatalf("err = %v, want ErrFull", err)
	}
	if len(s.Players) != Capacity {
		t.Errorf("roster length = %d, want %d", len(s.Players), Capacity)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	s := NewSession("abc123", participant("a"))
	s.Join(participant("b"))
	if !s.Start([]string{"the", "cat"}) {
		t.Fatal("start failed")
	}

	err := s.Join(participant("c"))
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("err = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	s := NewSession("abc123", participant("a"))

	if s.Start([]string{"the"}) {
		t.Fatal("single-player session started")
	}
	if s.State != StateWaiting {
		t.Errorf("state = %s, want waiting", s.State)
	}

	s.Join(participant("b"))
	if !s.Start([]string{"the"}) {
		t.Fatal("two-player session refused to start")
	}
	if s.State != StateInProgress {
		t.Errorf("state = %s, want in_progress", s.State)
	}
}

func TestStartTwiceIsNoop(t *testing.T) {
	s := NewSession("abc123", participant("a"))
	s.Join(participant("b"))
	s.Start([]string{"the"})

	if s.Start([]string{"other"}) {
		t.Fatal("second start succeeded")
	}
	if s.Words[0] != "the" {
		t.Errorf("reference text overwritten: %v", s.Words)
	}
}

func TestAddResultCompleteOnExactRoster(t *testing.T) {
	s := NewSession("abc123", participant("a"))
	s.Join(participant("b"))
	s.Start([]string{"the"})

	if complete := s.AddResult(Result{PlayerID: "a", WPM: 40}); complete {
		t.Fatal("complete after one of two results")
	}
	if complete := s.AddResult(Result{PlayerID: "b", WPM: 50}); !complete {
		t.Fatal("not complete after all results")
	}
}

func TestDuplicateResultIgnored(t *testing.T) {
	s := NewSession("abc123", participant("a"))
	s.Join(participant("b"))
	s.Start([]string{"the"})

	s.AddResult(Result{PlayerID: "a", WPM: 40})
	if complete := s.AddResult(Result{PlayerID: "a", WPM: 99}); complete {
		t.Fatal("duplicate submission finalized the session early")
	}
	if got := s.Results["a"].WPM; got != 40 {
		t.Errorf("duplicate overwrote result: wpm = %d, want 40", got)
	}
	if len(s.ResultList()) != 1 {
		t.Errorf("result list length = %d, want 1", len(s.ResultList()))
	}
}

func TestRankings(t *testing.T) {
	s := NewSession("abc123", participant("a"))
	s.Join(participant("b"))
	s.Join(participant("c"))
	s.Start([]string{"the"})

	s.AddResult(Result{PlayerID: "a", WPM: 40, Accuracy: 90})
	s.AddResult(Result{PlayerID: "b", WPM: 55, Accuracy: 80})
	s.AddResult(Result{PlayerID: "c", WPM: 40, Accuracy: 95})

	got := s.Rankings()
	want := []string{"b", "c", "a"} // speed first, accuracy breaks the tie
	for i, r := range got {
		if r.PlayerID != want[i] {
			t.Errorf("rank %d = %s, want %s", i, r.PlayerID, want[i])
		}
	}
}
