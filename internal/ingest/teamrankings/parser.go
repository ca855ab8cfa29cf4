package teamrankings

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/trendboard/internal/stats"
)

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseStatTable extracts the header texts and body rows of the first table
// in the document. Rows without td cells (header rows) are skipped; row width
// is left for the normalizer to check.
func ParseStatTable(doc *goquery.Document) (stats.RawTable, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return stats.RawTable{}, stats.ErrNoTableFound
	}

	var raw stats.RawTable
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		raw.Headers = append(raw.Headers, cellText(th))
	})

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() == 0 {
			return
		}
		row := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			row = append(row, cellText(td))
		})
		raw.Rows = append(raw.Rows, row)
	})

	return raw, nil
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
