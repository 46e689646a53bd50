package words

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	got := Clean("The quick, brown fox; it's FAST!")
	want := []string{"the", "quick", "brown", "fox", "its", "fast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clean = %v, want %v", got, want)
	}
}

func TestCleanStripsUnderscore(t *testing.T) {
	got := Clean("snake_case words")
	want := []string{"snakecase", "words"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clean = %v, want %v", got, want)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("one\n\ttwo   three ")
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clean = %v, want %v", got, want)
	}
}

func TestParagraphFromUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("A tiny, tidy paragraph."))
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL).Paragraph(context.Background())
	if err != nil {
		t.Fatalf("paragraph: %v", err)
	}
	want := []string{"a", "tiny", "tidy", "paragraph"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("words = %v, want %v", got, want)
	}
}

func TestParagraphFallsBackOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL).Paragraph(context.Background())
	if err == nil {
		t.Fatal("upstream failure not reported")
	}
	if !reflect.DeepEqual(got, Clean(FallbackText)) {
		t.Errorf("words = %v, want fallback sentence", got)
	}
}

func TestParagraphFallsBackOnDialError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	got, err := NewProvider(srv.URL).Paragraph(context.Background())
	if err == nil {
		t.Fatal("dial failure not reported")
	}
	if len(got) == 0 || got[0] != "the" {
		t.Errorf("words = %v, want fallback sentence", got)
	}
}
