package platform

import (
	"fmt"
	"io"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// AppleLoader reads the Apple Podcasts export: a header row with "Podcast"
// and "Plays (>30s)" columns.
type AppleLoader struct {
	path string
	norm *normalize.Normalizer
}

// NewApple creates the Apple loader.
func NewApple(path string, norm *normalize.Normalizer) *AppleLoader {
	return &AppleLoader{path: path, norm: norm}
}

func (l *AppleLoader) Name() Platform { return Apple }

func (l *AppleLoader) Load() (*RecordSet, error) {
	return openAndParse(l.path, l.Parse)
}

// Parse reads the export body. Exposed for tests against in-memory data.
func (l *AppleLoader) Parse(rd io.Reader) (*RecordSet, error) {
	rows, err := readRows(rd, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecordSet{Platform: Apple}, nil
	}

	idx := headerIndex(rows[0])
	nameCol, ok := idx["Podcast"]
	if !ok {
		return nil, fmt.Errorf("apple export missing Podcast column")
	}
	playsCol := colOr(idx, "Plays (>30s)", -1)

	set := &RecordSet{Platform: Apple}
	for _, row := range rows[1:] {
		set.Report.Rows++

		name := field(row, nameCol)
		if name == "" {
			set.Report.DroppedName++
			continue
		}

		metric, ok := cleanNumber(field(row, playsCol))
		if !ok {
			set.Report.ZeroedMetric++
		}

		set.Records = append(set.Records, Record{
			RawName: name,
			Key:     l.norm.Normalize(name),
			Metric:  metric,
		})
		set.Report.Loaded++
	}
	return set, nil
}
