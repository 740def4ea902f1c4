package platform

import (
	"io"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// IHeartLoader reads the iHeart nominations export: two preamble lines, then
// positional columns (rank, show title, unique listeners, total streams,
// completion, followers). Numbers are comma- and space-grouped and the
// completion column carries a percent suffix.
type IHeartLoader struct {
	path string
	norm *normalize.Normalizer
}

// NewIHeart creates the iHeart loader.
func NewIHeart(path string, norm *normalize.Normalizer) *IHeartLoader {
	return &IHeartLoader{path: path, norm: norm}
}

func (l *IHeartLoader) Name() Platform { return IHeart }

func (l *IHeartLoader) Load() (*RecordSet, error) {
	return openAndParse(l.path, l.Parse)
}

// Parse reads the export body. Exposed for tests against in-memory data.
func (l *IHeartLoader) Parse(rd io.Reader) (*RecordSet, error) {
	rows, err := readRows(rd, 2)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecordSet{Platform: IHeart}, nil
	}

	// Row after the preamble is the column header.
	set := &RecordSet{Platform: IHeart}
	for _, row := range rows[1:] {
		set.Report.Rows++

		name := field(row, 1)
		if name == "" {
			set.Report.DroppedName++
			continue
		}

		metric, ok := cleanNumber(field(row, 3))
		if !ok {
			set.Report.ZeroedMetric++
		}
		completion, _ := cleanNumber(field(row, 4))

		set.Records = append(set.Records, Record{
			RawName:    name,
			Key:        l.norm.Normalize(name),
			Metric:     metric,
			Completion: completion,
		})
		set.Report.Loaded++
	}
	return set, nil
}
