package pubmed

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/wnk4242/lsr/internal/record"
)

// esearchResult is the esearch.fcgi response envelope.
type esearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDList  idList   `xml:"IdList"`
}

type idList struct {
	IDs []string `xml:"Id"`
}

// articleSet is the efetch.fcgi citation envelope.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string  `xml:"PMID"`
	Article article `xml:"Article"`
}

type article struct {
	ArticleTitle string        `xml:"ArticleTitle"`
	Journal      journal       `xml:"Journal"`
	Abstract     *abstractNode `xml:"Abstract"`
}

type journal struct {
	Title   string `xml:"Title"`
	PubYear string `xml:"JournalIssue>PubDate>Year"`
}

type abstractNode struct {
	Texts []string `xml:"AbstractText"`
}

// parseArticleSet converts efetch XML into raw citations. A citation whose
// Abstract element is absent is tagged "none" so the caller can decide on
// the PIP fallback.
func parseArticleSet(data []byte) ([]Citation, error) {
	var set articleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: parsing efetch result: %v", ErrInvalidResponse, err)
	}

	citations := make([]Citation, 0, len(set.Articles))
	for _, art := range set.Articles {
		cit := Citation{
			PMID:           art.MedlineCitation.PMID,
			Title:          art.MedlineCitation.Article.ArticleTitle,
			Journal:        art.MedlineCitation.Article.Journal.Title,
			Year:           art.MedlineCitation.Article.Journal.PubYear,
			AbstractSource: record.SourceNone,
		}

		if abs := art.MedlineCitation.Article.Abstract; abs != nil && len(abs.Texts) > 0 {
			cit.Abstract = strings.Join(abs.Texts, " ")
			cit.AbstractSource = record.SourcePubMedXML
		}

		citations = append(citations, cit)
	}

	return citations, nil
}
