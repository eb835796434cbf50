package linkparser

import (
	"github.com/PuerkitoBio/purell"
)

// DefaultCleanFlags normalizes links without changing what they point to
// on well-behaved servers. Fragments are left alone; the Parser decides
// about them before cleaning.
const DefaultCleanFlags = purell.FlagsSafe |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagSortQuery

// PurellCleaner returns a clean function that normalizes links with purell.
// Links purell cannot parse are returned unchanged.
func PurellCleaner(flags purell.NormalizationFlags) func(string) string {
	return func(raw string) string {
		cleaned, err := purell.NormalizeURLString(raw, flags)
		if err != nil {
			return raw
		}
		return cleaned
	}
}
