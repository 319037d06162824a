package ai

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ericgreene/go-serp"
)

// SearchResult is one organic hit from a web search.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchConfig holds configuration for web search.
type SearchConfig struct {
	MaxResults int
	SafeSearch bool
}

// DefaultSearchConfig returns standard search configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{MaxResults: 3, SafeSearch: true}
}

// Sentiment pulls meme-coin market sentiment from web search and caches it
// so a fleet of agents does not hammer the search API every tick. Without
// SERP_API_KEY it silently contributes nothing.
type Sentiment struct {
	mu      sync.Mutex
	cached  string
	fetched time.Time
	ttl     time.Duration
}

func NewSentiment() *Sentiment {
	return &Sentiment{ttl: 5 * time.Minute}
}

// MarketContext returns a short sentiment blurb for prompt enrichment.
// Failures are logged and swallowed, the decision just goes out without it.
func (s *Sentiment) MarketContext() string {
	if os.Getenv("SERP_API_KEY") == "" {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.fetched) < s.ttl {
		return s.cached
	}

	results, err := performWebSearch("meme coin market sentiment today", DefaultSearchConfig())
	if err != nil {
		log.Printf("sentiment search failed: %v", err)
		return s.cached
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.Snippet)
	}
	s.cached = strings.TrimSpace(b.String())
	s.fetched = time.Now()
	return s.cached
}

func performWebSearch(query string, config SearchConfig) ([]SearchResult, error) {
	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SERP_API_KEY not set")
	}

	parameter := map[string]string{
		"q":   query,
		"key": apiKey,
		"num": strconv.Itoa(config.MaxResults),
	}
	if config.SafeSearch {
		parameter["safe"] = "active"
	}

	queryResponse := serp.NewGoogleSearch(parameter)
	results, err := queryResponse.GetJSON()
	if err != nil {
		return nil, err
	}

	var searchResults []SearchResult
	for _, result := range results.OrganicResults {
		searchResults = append(searchResults, SearchResult{
			Title:   result.Title,
			Snippet: result.Snippet,
			Link:    result.Link,
		})
	}

	return searchResults, nil
}
