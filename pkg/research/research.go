// Package research is the offline helper that populates attribute lookup
// tables from podcast RSS feeds. It is deliberately not part of the ranking
// pipeline: the pipeline only ever reads the flat tables this tool writes,
// so ranking runs stay reproducible and network-free.
package research

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// Feed is one show's RSS feed to research.
type Feed struct {
	Key string
	URL string
}

// Result is what a feed lookup yielded for one show.
type Result struct {
	Key     string
	Genre   string
	Country string
}

// Researcher fetches podcast feeds and extracts the iTunes category and the
// feed-language country hint.
type Researcher struct {
	client *http.Client
	parser *gofeed.Parser
	norm   *normalize.Normalizer
}

// New creates a Researcher sharing the pipeline's normalizer.
func New(norm *normalize.Normalizer) *Researcher {
	return &Researcher{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		norm:   norm,
	}
}

// ReadFeedList parses a (show name, feed URL) CSV. Names are normalized to
// canonical keys; rows missing either column are skipped.
func (r *Researcher) ReadFeedList(rd io.Reader) ([]Feed, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	var feeds []Feed
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed list line %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		key := r.norm.Normalize(rec[0])
		url := strings.TrimSpace(rec[1])
		if key == "" || url == "" || strings.EqualFold(url, "feed_url") {
			continue
		}
		feeds = append(feeds, Feed{Key: key, URL: url})
	}
	return feeds, nil
}

// Research looks up every feed, skipping failures with a note on stderr so a
// dead feed never sinks the batch.
func (r *Researcher) Research(ctx context.Context, feeds []Feed) []Result {
	var results []Result
	for _, feed := range feeds {
		res, err := r.lookup(ctx, feed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", feed.Key, err)
			continue
		}
		results = append(results, res)
	}
	return results
}

func (r *Researcher) lookup(ctx context.Context, feed Feed) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create feed request %s: %w", feed.Key, err)
	}
	req.Header.Set("User-Agent", "podrank/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch feed %s: %w", feed.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("feed %s status %d", feed.Key, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("parse feed %s: %w", feed.Key, err)
	}

	return Result{
		Key:     feed.Key,
		Genre:   feedGenre(parsed),
		Country: languageCountry(parsed.Language),
	}, nil
}

// feedGenre picks the show's primary iTunes category, falling back to the
// first plain feed category.
func feedGenre(feed *gofeed.Feed) string {
	if feed.ITunesExt != nil && len(feed.ITunesExt.Categories) > 0 {
		c := feed.ITunesExt.Categories[0]
		if c.Subcategory != nil && c.Subcategory.Text != "" {
			return c.Subcategory.Text
		}
		return c.Text
	}
	if len(feed.Categories) > 0 {
		return feed.Categories[0]
	}
	return ""
}

// languageCountry maps an RSS language tag to a country label. Only the
// region subtag carries a country; a bare language code tells us nothing.
func languageCountry(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 && i+1 < len(lang) {
		region := strings.ToUpper(lang[i+1:])
		if len(region) == 2 {
			return region
		}
	}
	return ""
}

// WriteTable writes a (normalized_name, value, note) attribute table, sorted
// by key, in the format the resolver loads. Empty values are omitted.
func WriteTable(w io.Writer, values map[string]string, note string) error {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"normalized_name", "value", "note"}); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, k := range keys {
		if err := cw.Write([]string{k, values[k], note}); err != nil {
			return fmt.Errorf("write table row %s: %w", k, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenreTable extracts the key→genre map of the results.
func GenreTable(results []Result) map[string]string {
	out := make(map[string]string)
	for _, r := range results {
		if r.Genre != "" {
			out[r.Key] = r.Genre
		}
	}
	return out
}

// CountryTable extracts the key→country map of the results.
func CountryTable(results []Result) map[string]string {
	out := make(map[string]string)
	for _, r := range results {
		if r.Country != "" {
			out[r.Key] = r.Country
		}
	}
	return out
}
