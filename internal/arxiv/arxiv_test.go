// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pdiddy/research-collector/pkg/types"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Quantum Error Correction at Scale</title>
    <summary>We present a study of quantum error correction codes.</summary>
    <published>2023-01-17T18:59:59Z</published>
    <author><name>Alice Chen</name></author>
    <author><name>Bob Diaz</name></author>
    <link href="http://arxiv.org/abs/2301.07041v2" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/2301.07041v2" rel="related" type="application/pdf" title="pdf"/>
    <arxiv:primary_category term="quant-ph"/>
    <category term="quant-ph"/>
    <category term="cs.ET"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v1</id>
    <title>Another Paper</title>
    <summary>Short.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <author><name>Carol Evans</name></author>
    <link href="http://arxiv.org/abs/2302.00001v1" rel="alternate" type="text/html"/>
    <category term="cs.LG"/>
  </entry>
</feed>`

func testConfig() types.CollectConfig {
	return types.CollectConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "research-collector-test/0.1",
		},
		RequestsPerSecond: 1000, // no throttling in tests
		MaxRetries:        1,
	}
}

func withTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = old })
	return ts
}

func TestSearchParsesFeed(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(feedFixture))
	})

	client := NewClient(testConfig())
	papers, err := client.Search(context.Background(), "quantum computing", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	p := papers[0]
	if p.PaperID != "2301.07041v2" {
		t.Errorf("PaperID = %q, want %q", p.PaperID, "2301.07041v2")
	}
	if p.Title != "Quantum Error Correction at Scale" {
		t.Errorf("Title = %q", p.Title)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Alice Chen" || p.Authors[1] != "Bob Diaz" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Published != "2023-01-17T18:59:59Z" {
		t.Errorf("Published = %q, want raw timestamp passthrough", p.Published)
	}
	if p.PDFURL != "http://arxiv.org/pdf/2301.07041v2" {
		t.Errorf("PDFURL = %q, want titled pdf link", p.PDFURL)
	}
	if p.PrimaryCategory != "quant-ph" {
		t.Errorf("PrimaryCategory = %q, want quant-ph", p.PrimaryCategory)
	}
	if len(p.Categories) != 2 || p.Categories[1] != "cs.ET" {
		t.Errorf("Categories = %v", p.Categories)
	}
	if p.Source != SourceName {
		t.Errorf("Source = %q, want %q", p.Source, SourceName)
	}
}

func TestSearchPDFFallback(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedFixture))
	})

	client := NewClient(testConfig())
	papers, err := client.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Second entry has no titled pdf link; the abs URL is rewritten.
	p := papers[1]
	if p.PDFURL != "http://arxiv.org/pdf/2302.00001v1" {
		t.Errorf("PDFURL = %q, want rewritten /abs/ link", p.PDFURL)
	}
	// No primary_category element; first category term is used.
	if p.PrimaryCategory != "cs.LG" {
		t.Errorf("PrimaryCategory = %q, want first category fallback", p.PrimaryCategory)
	}
}

func TestSearchQueryParameters(t *testing.T) {
	var got url.Values
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "  quantum   computing ", 7); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if q := got.Get("search_query"); q != "all:quantum+computing" {
		t.Errorf("search_query = %q, want %q", q, "all:quantum+computing")
	}
	if got.Get("max_results") != "7" {
		t.Errorf("max_results = %q, want 7", got.Get("max_results"))
	}
	if got.Get("sortBy") != "relevance" {
		t.Errorf("sortBy = %q, want relevance", got.Get("sortBy"))
	}
	if got.Get("start") != "0" {
		t.Errorf("start = %q, want 0", got.Get("start"))
	}
}

func TestSearchSendsUserAgent(t *testing.T) {
	var gotUA string
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "x", 1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotUA != "research-collector-test/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestSearchEmptyTopic(t *testing.T) {
	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "   ", 10); err == nil {
		t.Error("Search() with blank topic should fail")
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	var got url.Values
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "x", 0); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Get("max_results") != "10" {
		t.Errorf("max_results = %q, want default 10", got.Get("max_results"))
	}
}

func TestSearchHTTPError(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "x", 10); err == nil {
		t.Error("Search() should surface non-200 responses as errors")
	}
}

func TestSearchMalformedXML(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	})

	client := NewClient(testConfig())
	if _, err := client.Search(context.Background(), "x", 10); err == nil {
		t.Error("Search() should fail on malformed XML")
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"http://arxiv.org/abs/quant-ph/0201082v1", "quant-ph/0201082v1"},
		{"http://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractID(tt.in); got != tt.want {
			t.Errorf("extractID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
