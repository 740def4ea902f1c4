package platform

import (
	"fmt"
	"io"

	"github.com/elonfeng/podrank/pkg/normalize"
)

// AmazonLoader reads the Amazon export: two preamble lines, then a header
// row. Amazon is the retailer feed with its own "Category Name" column, the
// highest-priority genre source downstream, and a percent-suffixed
// "Average Completion Rate".
type AmazonLoader struct {
	path string
	norm *normalize.Normalizer
}

// NewAmazon creates the Amazon loader.
func NewAmazon(path string, norm *normalize.Normalizer) *AmazonLoader {
	return &AmazonLoader{path: path, norm: norm}
}

func (l *AmazonLoader) Name() Platform { return Amazon }

func (l *AmazonLoader) Load() (*RecordSet, error) {
	return openAndParse(l.path, l.Parse)
}

// Parse reads the export body. Exposed for tests against in-memory data.
func (l *AmazonLoader) Parse(rd io.Reader) (*RecordSet, error) {
	rows, err := readRows(rd, 2)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecordSet{Platform: Amazon}, nil
	}

	idx := headerIndex(rows[0])
	nameCol, ok := idx["Show Title"]
	if !ok {
		return nil, fmt.Errorf("amazon export missing Show Title column")
	}
	playsCol := colOr(idx, "Total Plays", -1)
	categoryCol := colOr(idx, "Category Name", -1)
	completionCol := colOr(idx, "Average Completion Rate", -1)

	set := &RecordSet{Platform: Amazon}
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
		completion, _ := cleanNumber(field(row, completionCol))

		set.Records = append(set.Records, Record{
			RawName:    name,
			Key:        l.norm.Normalize(name),
			Metric:     metric,
			Category:   field(row, categoryCol),
			Completion: completion,
		})
		set.Report.Loaded++
	}
	return set, nil
}
