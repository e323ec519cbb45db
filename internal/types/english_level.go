package types

import "strings"

// EnglishLevel is a normalized English proficiency label. Levels form an
// ordinal ladder used for minimum-requirement comparisons.
type EnglishLevel string

// Normalized proficiency levels, weakest first.
const (
	EnglishBasic        EnglishLevel = "basic"
	EnglishPre          EnglishLevel = "pre"
	EnglishIntermediate EnglishLevel = "intermediate"
	EnglishUpper        EnglishLevel = "upper"
	EnglishFluent       EnglishLevel = "fluent"
)

var englishLevelRank = map[EnglishLevel]int{
	EnglishBasic:        1,
	EnglishPre:          2,
	EnglishIntermediate: 3,
	EnglishUpper:        4,
	EnglishFluent:       5,
}

// NormalizeEnglishLevel maps free-form proficiency text (CEFR codes, synonyms,
// "No English" variants) onto the ordinal ladder. Returns "" for text it
// cannot place.
func NormalizeEnglishLevel(value string) EnglishLevel {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return ""
	}
	if _, ok := englishLevelRank[EnglishLevel(s)]; ok {
		return EnglishLevel(s)
	}
	switch s {
	case "no_english", "none", "n/a", "na", "unknown":
		return EnglishBasic
	}
	switch {
	case strings.Contains(s, "fluent"), strings.Contains(s, "native"), strings.Contains(s, "c2"):
		return EnglishFluent
	case strings.Contains(s, "upper"), strings.Contains(s, "advanced"), strings.Contains(s, "b2"):
		return EnglishUpper
	case strings.Contains(s, "intermediate"), strings.Contains(s, "b1"):
		return EnglishIntermediate
	case strings.Contains(s, "pre"), strings.Contains(s, "a2"):
		return EnglishPre
	case strings.Contains(s, "basic"), strings.Contains(s, "a1"):
		return EnglishBasic
	}
	return ""
}

// Rank returns the ordinal position of the level, or 0 for an unknown level.
func (l EnglishLevel) Rank() int {
	return englishLevelRank[NormalizeEnglishLevel(string(l))]
}

// Satisfies reports whether the level meets a required minimum. An empty or
// unrecognized requirement is treated as no constraint.
func (l EnglishLevel) Satisfies(required EnglishLevel) bool {
	req := NormalizeEnglishLevel(string(required))
	if req == "" {
		return true
	}
	return l.Rank() >= req.Rank()
}
