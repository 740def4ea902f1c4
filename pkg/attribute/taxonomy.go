package attribute

import "strings"

// Standard genre categories. Every free-text genre value from any source is
// folded onto one of these (or GenreOther).
const (
	GenreTrueCrime      = "True Crime"
	GenreNewsPolitics   = "News & Politics"
	GenreComedy         = "Comedy"
	GenreInterviewTalk  = "Interview & Talk"
	GenreSports         = "Sports"
	GenreBusiness       = "Business"
	GenreEducation      = "Education"
	GenreSocietyCulture = "Society & Culture"
	GenreEntertainment  = "Entertainment"
	GenreOther          = "Other"
)

// CountryUnknown is the sentinel for shows with no resolvable country.
const CountryUnknown = "Unknown"

// genreKeywords maps each standard category to the substrings that claim it.
// Order matters: the first matching category wins, so the more specific
// buckets come before Entertainment.
var genreKeywords = []struct {
	genre    string
	keywords []string
}{
	{GenreTrueCrime, []string{"true crime", "crime", "murder", "mystery"}},
	{GenreNewsPolitics, []string{"news", "politics", "political", "current events"}},
	{GenreComedy, []string{"comedy", "humor", "funny", "comedic"}},
	{GenreInterviewTalk, []string{"interview", "talk", "conversation", "chat"}},
	{GenreSports, []string{"sports", "football", "basketball", "baseball", "athletic"}},
	{GenreBusiness, []string{"business", "finance", "financial", "investing", "money", "entrepreneurship"}},
	{GenreEducation, []string{"education", "science", "learning", "academic", "history", "psychology"}},
	{GenreSocietyCulture, []string{"society", "culture", "relationships", "religion", "spirituality"}},
	{GenreEntertainment, []string{"entertainment", "pop culture", "celebrity", "lifestyle", "variety"}},
}

// MapGenre folds any free-text genre value onto the standard taxonomy via
// case-insensitive substring matching. Total: always returns a category,
// GenreOther when nothing matches.
func MapGenre(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return GenreOther
	}
	for _, g := range genreKeywords {
		for _, kw := range g.keywords {
			if strings.Contains(v, kw) {
				return g.genre
			}
		}
	}
	return GenreOther
}

// genreBlocklist holds platform category labels that denote packaging rather
// than content genre (ranking tiers, catch-all buckets). A platform-native
// category on this list is ignored during resolution.
var genreBlocklist = map[string]bool{
	"top 25":             true,
	"honorable mention":  true,
	"kids & family":      true,
	"fiction":            true,
	"leisure":            true,
}

// ValidPlatformGenre reports whether a platform-supplied category is a real
// content genre rather than a placeholder label.
func ValidPlatformGenre(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return false
	}
	return !genreBlocklist[c]
}
