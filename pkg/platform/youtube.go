package platform

import (
	"fmt"
	"io"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// YouTubeLoader reads the YouTube playlist export. Unlike the other
// platforms this file has a clean header row; it is also the only feed that
// exposes an explicit country column (FeatureCountry), which becomes the
// highest-priority country source downstream.
type YouTubeLoader struct {
	path string
	norm *normalize.Normalizer
}

// NewYouTube creates the YouTube loader.
func NewYouTube(path string, norm *normalize.Normalizer) *YouTubeLoader {
	return &YouTubeLoader{path: path, norm: norm}
}

func (l *YouTubeLoader) Name() Platform { return YouTube }

func (l *YouTubeLoader) Load() (*RecordSet, error) {
	return openAndParse(l.path, l.Parse)
}

// Parse reads the export body. Exposed for tests against in-memory data.
func (l *YouTubeLoader) Parse(rd io.Reader) (*RecordSet, error) {
	rows, err := readRows(rd, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecordSet{Platform: YouTube}, nil
	}

	idx := headerIndex(rows[0])
	nameCol, ok := idx["playlist_name"]
	if !ok {
		return nil, fmt.Errorf("youtube export missing playlist_name column")
	}
	viewsCol := colOr(idx, "views", -1)
	countryCol := colOr(idx, "FeatureCountry", -1)

	set := &RecordSet{Platform: YouTube}
	for _, row := range rows[1:] {
		set.Report.Rows++

		name := field(row, nameCol)
		if name == "" {
			set.Report.DroppedName++
			continue
		}

		metric, ok := cleanNumber(field(row, viewsCol))
		if !ok {
			set.Report.ZeroedMetric++
		}

		set.Records = append(set.Records, Record{
			RawName: name,
			Key:     l.norm.Normalize(name),
			Metric:  metric,
			Country: field(row, countryCol),
		})
		set.Report.Loaded++
	}
	return set, nil
}

func colOr(idx map[string]int, name string, fallback int) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return fallback
}
