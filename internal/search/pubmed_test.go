package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medcheck/internal/cache"
	"medcheck/internal/model"
)

const efetchBody = `<?xml version="1.0" encoding="UTF-8"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>12345678</PMID>
      <Article>
        <ArticleTitle>[Vaccine safety] in large cohorts</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Concerns persist about vaccines.</AbstractText>
          <AbstractText Label="CONCLUSIONS">No association [was found] between vaccination and autism.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>87654321</PMID>
      <Article>
        <ArticleTitle>Diet and weight loss</ArticleTitle>
        <Abstract>
          <AbstractText>Participants on the diet lost more weight.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>11112222</PMID>
      <Article>
        <ArticleTitle>Article with no abstract</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, esearchIDs string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			if r.URL.Query().Get("db") != "pubmed" {
				t.Errorf("expected db=pubmed, got %s", r.URL.Query().Get("db"))
			}
			_, _ = w.Write([]byte(`{"esearchresult": {"count": "3", "idlist": [` + esearchIDs + `]}}`))
		case "/efetch.fcgi":
			_, _ = w.Write([]byte(efetchBody))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(serverURL string, c cache.Cache) *PubMedClient {
	return NewPubMedClient(
		model.SearchConfig{BaseURL: serverURL, Tool: "medcheck-test", MaxResults: 50},
		model.HTTPConfig{Timeout: 5 * time.Second},
		c,
		time.Minute,
		nil,
		testLogger(),
	)
}

func TestPubMedClient_Retrieve(t *testing.T) {
	server := newTestServer(t, `"12345678", "87654321", "11112222"`)
	defer server.Close()

	client := newTestClient(server.URL, nil)
	records, err := client.Retrieve(context.Background(), "vaccines autism", 50)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	// Third article has no abstract and is dropped
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "12345678" {
		t.Errorf("expected ID 12345678, got %s", first.ID)
	}
	// Conclusion preferred over background section
	if first.Text != "No association (was found) between vaccination and autism." {
		t.Errorf("unexpected text: %q", first.Text)
	}
	// Bracket normalization applied to the title too
	if first.Title != "(Vaccine safety) in large cohorts" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.SourceURL != "https://pubmed.ncbi.nlm.nih.gov/12345678/" {
		t.Errorf("unexpected URL: %s", first.SourceURL)
	}

	// Article without a conclusion falls back to the abstract
	if records[1].Text != "Participants on the diet lost more weight." {
		t.Errorf("unexpected fallback text: %q", records[1].Text)
	}
}

func TestPubMedClient_Retrieve_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esearch.fcgi" {
			t.Errorf("efetch must not be called with zero IDs, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"esearchresult": {"count": "0", "idlist": []}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	records, err := client.Retrieve(context.Background(), "nonsense query", 50)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}

func TestPubMedClient_Retrieve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	if _, err := client.Retrieve(context.Background(), "q", 50); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPubMedClient_Retrieve_UsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/esearch.fcgi" {
			calls++
			_, _ = w.Write([]byte(`{"esearchresult": {"count": "1", "idlist": ["12345678"]}}`))
			return
		}
		_, _ = w.Write([]byte(efetchBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, cache.NewMemoryCache(time.Minute, time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := client.Retrieve(context.Background(), "vaccines", 50); err != nil {
			t.Fatalf("Retrieve %d failed: %v", i, err)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 upstream search, got %d", calls)
	}
}

func TestNormalizeID_TruncatesConcatenatedIDs(t *testing.T) {
	// Upstream sometimes returns several IDs mashed into one field
	if got := normalizeID("12345678\n9876543"); got != "12345678" {
		t.Errorf("expected 12345678, got %q", got)
	}
	if got := normalizeID("1234567"); got != "1234567" {
		t.Errorf("short IDs must pass through, got %q", got)
	}
}
