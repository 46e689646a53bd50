// Package words supplies the reference text every participant in a
// race must type.
package words

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// FallbackText is substituted whenever the upstream prose provider
// fails: a race should degrade to a fixed sentence, not to an error.
const FallbackText = "The quick brown fox jumps over the lazy dog"

// DefaultURL is the public prose generator the original deployment used.
const DefaultURL = "http://metaphorpsum.com/paragraphs/2/4"

// Provider fetches paragraphs of prose and normalizes them into the
// lowercase, punctuation-free word sequence the race works with.
type Provider struct {
	url    string
	client *http.Client
}

// NewProvider returns a provider that fetches from url.
func NewProvider(url string) *Provider {
	return &Provider{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Paragraph returns the cleaned reference words. Upstream failures are
// not surfaced: the fixed fallback sentence is returned instead, along
// with the error for logging.
func (p *Provider) Paragraph(ctx context.Context) ([]string, error) {
	text, err := p.fetch(ctx)
	if err != nil {
		return Clean(FallbackText), err
	}
	return Clean(text), nil
}

func (p *Provider) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching paragraph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching paragraph: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("reading paragraph: %w", err)
	}
	return string(body), nil
}

// Clean lowercases text, strips everything that is not a letter, digit
// or whitespace, and splits it into words.
func Clean(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
