package platform

import (
	"io"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// SpotifyLoader reads the Spotify top-shows export: seven preamble lines,
// then positional columns (rank, show name, plays, category). Play counts
// carry thousands separators.
type SpotifyLoader struct {
	path string
	norm *normalize.Normalizer
}

// NewSpotify creates the Spotify loader.
func NewSpotify(path string, norm *normalize.Normalizer) *SpotifyLoader {
	return &SpotifyLoader{path: path, norm: norm}
}

func (l *SpotifyLoader) Name() Platform { return Spotify }

func (l *SpotifyLoader) Load() (*RecordSet, error) {
	return openAndParse(l.path, l.Parse)
}

// Parse reads the export body. Exposed for tests against in-memory data.
func (l *SpotifyLoader) Parse(rd io.Reader) (*RecordSet, error) {
	rows, err := readRows(rd, 7)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecordSet{Platform: Spotify}, nil
	}

	// Row after the preamble is the column header.
	set := &RecordSet{Platform: Spotify}
	for _, row := range rows[1:] {
		set.Report.Rows++

		name := field(row, 1)
		if name == "" {
			set.Report.DroppedName++
			continue
		}

		metric, ok := cleanNumber(field(row, 2))
		if !ok {
			set.Report.ZeroedMetric++
		}

		set.Records = append(set.Records, Record{
			RawName:  name,
			Key:      l.norm.Normalize(name),
			Metric:   metric,
			Category: field(row, 3),
		})
		set.Report.Loaded++
	}
	return set, nil
}
