package pubmed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wnk4242/lsr/internal/record"
)

const esearchXML = `<?xml version="1.0"?>
<eSearchResult>
  <Count>247</Count>
  <RetMax>3</RetMax>
  <IdList>
    <Id>11111</Id>
    <Id>22222</Id>
    <Id>33333</Id>
  </IdList>
</eSearchResult>`

func efetchXML(articles string) string {
	return `<?xml version="1.0"?><PubmedArticleSet>` + articles + `</PubmedArticleSet>`
}

func articleXML(pmid, title, journal, year, abstract string) string {
	abs := ""
	if abstract != "" {
		abs = "<Abstract><AbstractText>" + abstract + "</AbstractText></Abstract>"
	}
	return fmt.Sprintf(`<PubmedArticle><MedlineCitation><PMID>%s</PMID><Article>
<Journal><Title>%s</Title><JournalIssue><PubDate><Year>%s</Year></PubDate></JournalIssue></Journal>
<ArticleTitle>%s</ArticleTitle>%s
</Article></MedlineCitation></PubmedArticle>`, pmid, journal, year, title, abs)
}

func TestSearch_ParsesIDsAndCount(t *testing.T) {
	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		fmt.Fprint(w, esearchXML)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	page, err := client.Search(context.Background(), "psilocybin AND depression", 100, 2020, 2024)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if page.TotalHits != 247 {
		t.Errorf("expected 247 total hits, got %d", page.TotalHits)
	}
	if len(page.PMIDs) != 3 || page.PMIDs[0] != "11111" {
		t.Errorf("unexpected PMIDs: %v", page.PMIDs)
	}

	wantFilter := `("2020"[Date - Publication] : "2024"[Date - Publication])`
	if !strings.Contains(gotTerm, wantFilter) {
		t.Errorf("date filter missing from term %q", gotTerm)
	}
	if !strings.HasPrefix(gotTerm, "psilocybin AND depression AND ") {
		t.Errorf("query not conjoined with filter: %q", gotTerm)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	client := NewClient()
	_, err := client.Search(context.Background(), "   ", 100, 2020, 2024)
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	_, err := client.Search(context.Background(), "q", 10, 2020, 2024)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !IsRateLimited(err) {
		t.Errorf("expected 429 to report rate limited")
	}
}

func TestFetch_ParsesCitations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchXML(
			articleXML("1", "With Abstract", "Nature", "2021", "Some abstract.")+
				articleXML("2", "Without Abstract", "Science", "2022", "")))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	citations, err := client.Fetch(context.Background(), []string{"1", "2"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(citations))
	}

	first := citations[0]
	if first.Title != "With Abstract" || first.Journal != "Nature" || first.Year != "2021" {
		t.Errorf("unexpected citation: %+v", first)
	}
	if first.AbstractSource != record.SourcePubMedXML {
		t.Errorf("expected pubmed_xml source, got %q", first.AbstractSource)
	}

	second := citations[1]
	if second.Abstract != "" || second.AbstractSource != record.SourceNone {
		t.Errorf("abstract-less citation mis-tagged: %+v", second)
	}
}

func TestFetch_MultiSegmentAbstractJoined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchXML(`<PubmedArticle><MedlineCitation><PMID>1</PMID><Article>
<Journal><Title>J</Title></Journal>
<ArticleTitle>Structured</ArticleTitle>
<Abstract><AbstractText>Background part.</AbstractText><AbstractText>Methods part.</AbstractText></Abstract>
</Article></MedlineCitation></PubmedArticle>`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	citations, err := client.Fetch(context.Background(), []string{"1"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if citations[0].Abstract != "Background part. Methods part." {
		t.Errorf("segments not joined: %q", citations[0].Abstract)
	}
}

func TestFetch_BatchesRequests(t *testing.T) {
	var batchSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		batchSizes = append(batchSizes, len(ids))
		fmt.Fprint(w, efetchXML(""))
	}))
	defer srv.Close()

	pmids := make([]string, FetchBatchSize+10)
	for i := range pmids {
		pmids[i] = fmt.Sprintf("%d", i)
	}

	client := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	if _, err := client.Fetch(context.Background(), pmids); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(batchSizes) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batchSizes))
	}
	if batchSizes[0] != FetchBatchSize || batchSizes[1] != 10 {
		t.Errorf("unexpected batch sizes: %v", batchSizes)
	}
}

func TestFetchWithFallback_ScrapesPIPAbstract(t *testing.T) {
	scraped := false
	mux := http.NewServeMux()
	mux.HandleFunc("/efetch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchXML(articleXML("99", "Needs Scrape", "J", "1995", "")))
	})
	mux.HandleFunc("/99/", func(w http.ResponseWriter, r *http.Request) {
		scraped = true
		fmt.Fprint(w, `<html><body><section class="abstract"><p>PIP: Family planning summary.</p></section></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL+"/esearch", srv.URL+"/efetch", srv.URL))
	citations, err := client.FetchWithFallback(context.Background(), []string{"99"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !scraped {
		t.Fatalf("record page was not scraped")
	}
	if citations[0].Abstract != "PIP: Family planning summary." {
		t.Errorf("PIP abstract not adopted: %q", citations[0].Abstract)
	}
	if citations[0].AbstractSource != record.SourcePIPWeb {
		t.Errorf("expected pip_web source, got %q", citations[0].AbstractSource)
	}
}

func TestFetchWithFallback_RejectsNonPIPText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/efetch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchXML(articleXML("7", "Plain Page", "J", "2001", "")))
	})
	mux.HandleFunc("/7/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="abstract"><p>An ordinary abstract without the marker.</p></div></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL+"/esearch", srv.URL+"/efetch", srv.URL))
	citations, err := client.FetchWithFallback(context.Background(), []string{"7"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if citations[0].Abstract != "" {
		t.Errorf("non-PIP text adopted: %q", citations[0].Abstract)
	}
	if citations[0].AbstractSource != record.SourceNone {
		t.Errorf("expected none source, got %q", citations[0].AbstractSource)
	}
}

func TestFetchWithFallback_SkipsCitationsWithAbstracts(t *testing.T) {
	scrapes := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/efetch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, efetchXML(articleXML("5", "Has One", "J", "2010", "Already here.")))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		scrapes++
		fmt.Fprint(w, "<html></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(WithBaseURLs(srv.URL+"/esearch", srv.URL+"/efetch", srv.URL))
	if _, err := client.FetchWithFallback(context.Background(), []string{"5"}); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if scrapes != 0 {
		t.Errorf("scraped despite existing abstract")
	}
}
