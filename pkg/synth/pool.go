package synth

import "strings"

var (
	regionalMarkers = []string{"india", "raveena", "aditi"}
	femaleMarkers   = []string{"female", "woman", "zira", "heera", "raveena", "aditi", "neerja"}
	maleMarkers     = []string{"male", "man", "david", "mark", "prabhat"}
)

// CandidatePool narrows voices to those suitable for gender. The stages run
// in order and each is skipped when it would leave nothing:
//
//  1. English voices.
//  2. Indian English voices.
//  3. Voices whose name matches the gender, or failing that any voice not
//     explicitly named for the other gender.
//
// The input slice is not modified.
func CandidatePool(voices []Voice, gender Gender) []Voice {
	pool := narrow(voices, isEnglish)
	pool = narrow(pool, isIndianEnglish)

	if gender == Female {
		if named := filter(pool, isNamedFemale); len(named) > 0 {
			return named
		}
		return narrow(pool, func(v Voice) bool {
			return !containsAny(lowerName(v), "male", "man")
		})
	}

	if named := filter(pool, isNamedMale); len(named) > 0 {
		return named
	}
	return narrow(pool, func(v Voice) bool {
		return !containsAny(lowerName(v), "female", "woman")
	})
}

func isEnglish(v Voice) bool {
	return strings.HasPrefix(v.Lang, "en") ||
		strings.Contains(v.Lang, "en-") ||
		strings.Contains(lowerName(v), "english")
}

func isIndianEnglish(v Voice) bool {
	return strings.Contains(v.Lang, "en-IN") || containsAny(lowerName(v), regionalMarkers...)
}

// Any name containing "female" or "woman" also contains "male" or "man", so
// only the proper-name markers can match here.
func isNamedFemale(v Voice) bool {
	name := lowerName(v)
	return containsAny(name, femaleMarkers...) && !containsAny(name, "male", "man")
}

func isNamedMale(v Voice) bool {
	name := lowerName(v)
	return containsAny(name, maleMarkers...) && !strings.Contains(name, "female")
}

// narrow applies keep and falls back to the input when nothing matches.
func narrow(voices []Voice, keep func(Voice) bool) []Voice {
	if out := filter(voices, keep); len(out) > 0 {
		return out
	}
	return voices
}

func filter(voices []Voice, keep func(Voice) bool) []Voice {
	var out []Voice
	for _, v := range voices {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func lowerName(v Voice) string { return strings.ToLower(v.Name) }

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
