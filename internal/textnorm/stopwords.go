package textnorm

// Stop word sets for index normalization. Tokens shorter than four
// characters never reach these lookups, so three-letter function words
// are left out on purpose.

var stopwordsFinnish = toSet([]string{
	"että", "sekä", "tämä", "tämän", "tätä", "tässä", "tästä", "tähän",
	"joka", "jonka", "jotka", "joiden", "jossa", "josta", "johon",
	"kuin", "niin", "myös", "mukaan", "siitä", "sitä", "sillä",
	"taikka", "jollei", "kuitenkin", "tulee", "voidaan", "olla",
	"ovat", "oleva", "olevan", "ollut", "jälkeen", "ennen", "kanssa",
	"vain", "sama", "saman", "muun", "muut", "muiden",
})

var stopwordsSwedish = toSet([]string{
	"detta", "denna", "dessa", "eller", "enligt", "inte", "skall",
	"vara", "varje", "vilken", "vilket", "vilka", "samt", "även",
	"efter", "genom", "samma", "andra", "annan", "annat", "över",
	"under", "dock", "till", "från", "skulle", "vars",
	"därför", "såsom", "respektive", "finns", "vidare",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
