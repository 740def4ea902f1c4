package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/podrank/pkg/normalize"
)

func testNorm() *normalize.Normalizer {
	return normalize.New(normalize.VariantStrict)
}

func TestCleanNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234", 1234, true},
		{"1 234 567", 1234567, true},
		{"12,345,678", 12345678, true},
		{"85%", 0.85, true},
		{" 42 ", 42, true},
		{"3.14", 3.14, true},
		{"0", 0, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-5", 0, false},
	}
	for _, c := range cases {
		got, ok := cleanNumber(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.InDelta(t, c.want, got, 1e-9, "input %q", c.in)
	}
}

func TestSpotifyParse(t *testing.T) {
	body := strings.Join([]string{
		"Spotify for Podcasters",
		"Export generated 2025-06-01",
		"Region: US",
		"Window: trailing 30 days",
		"-",
		"-",
		"-",
		"rank,show_name,plays,category",
		"1,The Joe Rogan Experience,\"12,345,678\",Interview & Talk",
		"2,Crime Junkie,\"9,876,543\",True Crime",
		"3,,\"1,000\",Comedy",
		"4,The Daily,n/a,News",
	}, "\n")

	set, err := NewSpotify("", testNorm()).Parse(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, Spotify, set.Platform)
	assert.Equal(t, 4, set.Report.Rows)
	assert.Equal(t, 3, set.Report.Loaded)
	assert.Equal(t, 1, set.Report.DroppedName)
	assert.Equal(t, 1, set.Report.ZeroedMetric)

	require.Len(t, set.Records, 3)
	assert.Equal(t, "The Joe Rogan Experience", set.Records[0].RawName)
	assert.Equal(t, "the joe rogan experience", set.Records[0].Key)
	assert.Equal(t, float64(12345678), set.Records[0].Metric)
	assert.Equal(t, "Interview & Talk", set.Records[0].Category)
	assert.Equal(t, float64(0), set.Records[2].Metric)
}

func TestSpotifyParseEmpty(t *testing.T) {
	set, err := NewSpotify("", testNorm()).Parse(strings.NewReader("just one line"))
	require.NoError(t, err)
	assert.Empty(t, set.Records)
}

func TestYouTubeParse(t *testing.T) {
	body := strings.Join([]string{
		"playlist_name,views,FeatureCountry",
		"The Rest Is History,\"2,500,000\",GB",
		"Kill Tony,1000000,US",
		",500,US",
	}, "\n")

	set, err := NewYouTube("", testNorm()).Parse(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, set.Records, 2)
	assert.Equal(t, "the rest is history", set.Records[0].Key)
	assert.Equal(t, float64(2500000), set.Records[0].Metric)
	assert.Equal(t, "GB", set.Records[0].Country)
	assert.Equal(t, "US", set.Records[1].Country)
	assert.Equal(t, 1, set.Report.DroppedName)
}

func TestYouTubeParseMissingNameColumn(t *testing.T) {
	_, err := NewYouTube("", testNorm()).Parse(strings.NewReader("title,views\nA,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playlist_name")
}

func TestAmazonParse(t *testing.T) {
	body := strings.Join([]string{
		"Amazon Music Podcast Report",
		"Reporting period: May 2025",
		"Show Title,Total Plays,Category Name,Average Completion Rate",
		"Morbid,\"4,200,000\",True Crime,72%",
		"SmartLess,3100000,Comedy,68%",
	}, "\n")

	set, err := NewAmazon("", testNorm()).Parse(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, set.Records, 2)
	assert.Equal(t, "morbid", set.Records[0].Key)
	assert.Equal(t, float64(4200000), set.Records[0].Metric)
	assert.Equal(t, "True Crime", set.Records[0].Category)
	assert.InDelta(t, 0.72, set.Records[0].Completion, 1e-9)
}

func TestAppleParse(t *testing.T) {
	body := strings.Join([]string{
		"Podcast,Plays (>30s)",
		"The Daily,\"8,000,000\"",
		"Hidden Brain,2750000",
	}, "\n")

	set, err := NewApple("", testNorm()).Parse(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, set.Records, 2)
	assert.Equal(t, "the daily", set.Records[0].Key)
	assert.Equal(t, float64(8000000), set.Records[0].Metric)
	assert.Equal(t, float64(2750000), set.Records[1].Metric)
}

func TestIHeartParse(t *testing.T) {
	body := strings.Join([]string{
		"iHeart Podcast Awards Nominations",
		"Exported 2025-06-01",
		"Rank,Show Title,Unique Listeners,Total Streams,Completion,Followers",
		"1,Stuff You Should Know,\"1 200 000\",\"5 600 000\",64%,\"900,000\"",
		"2,The Breakfast Club,800000,\"3,400,000\",59%,700000",
	}, "\n")

	set, err := NewIHeart("", testNorm()).Parse(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, set.Records, 2)
	assert.Equal(t, "stuff you should know", set.Records[0].Key)
	assert.Equal(t, float64(5600000), set.Records[0].Metric)
	assert.InDelta(t, 0.64, set.Records[0].Completion, 1e-9)
	assert.Equal(t, float64(3400000), set.Records[1].Metric)
}

func TestLoadAllSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	applePath := filepath.Join(dir, "apple.csv")
	require.NoError(t, os.WriteFile(applePath, []byte("Podcast,Plays (>30s)\nThe Daily,100\n"), 0o644))

	sets := LoadAll([]Loader{
		NewSpotify(filepath.Join(dir, "missing.csv"), testNorm()),
		NewApple(applePath, testNorm()),
	})

	require.Len(t, sets, 1)
	assert.Equal(t, Apple, sets[0].Platform)
	assert.Equal(t, float64(100), sets[0].Records[0].Metric)
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "spotify_plays", MetricName(Spotify))
	assert.Equal(t, "youtube_views", MetricName(YouTube))
	assert.Equal(t, "amazon_plays", MetricName(Amazon))
	assert.Equal(t, "apple_plays", MetricName(Apple))
	assert.Equal(t, "iheart_streams", MetricName(IHeart))
	assert.Equal(t, "other_metric", MetricName(Platform("other")))
}
