package gurmukhi

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gurbaninow/database/internal/domain"
)

// VishraamClass is a pause marker strength, identified by its character.
type VishraamClass rune

const (
	VishraamLight  VishraamClass = '.'
	VishraamMedium VishraamClass = ','
	VishraamHeavy  VishraamClass = ';'
)

// AllVishraams lists every pause marker class.
var AllVishraams = []VishraamClass{VishraamLight, VishraamMedium, VishraamHeavy}

func isVishraam(r rune) bool {
	return r == rune(VishraamLight) || r == rune(VishraamMedium) || r == rune(VishraamHeavy)
}

// StripVishraams removes the given pause marker classes, or all of them when none are given.
func StripVishraams(s string, classes ...VishraamClass) string {
	if len(classes) == 0 {
		classes = AllVishraams
	}
	return strings.Map(func(r rune) rune {
		for _, c := range classes {
			if r == rune(c) {
				return -1
			}
		}
		return r
	}, s)
}

// lineEnding matches trailing danda runs, verse numbers and the Rahao refrain marker.
var lineEnding = regexp.MustCompile(`(?:\s*[।॥][।॥\s੦-੯]*|\s+ਰਹਾਉ(?:\s+ਦੂਜਾ)?)+\s*$`)

// StripEndings removes the sentence-ending markers at the end of a line,
// such as "॥੧॥" and "॥ ਰਹਾਉ ॥".
func StripEndings(s string) string {
	return strings.TrimRightFunc(lineEnding.ReplaceAllString(s, ""), unicode.IsSpace)
}

// independentToCarrier maps independent vowels to the bare vowel carrier they are written on.
var independentToCarrier = map[rune]rune{
	'ਆ': 'ਅ', 'ਐ': 'ਅ', 'ਔ': 'ਅ',
	'ਇ': 'ੲ', 'ਈ': 'ੲ', 'ਏ': 'ੲ',
	'ਉ': 'ੳ', 'ਊ': 'ੳ', 'ਓ': 'ੳ',
}

// StripAccents removes the nukta from letters and reduces independent vowels
// to their carriers, so ਸ਼ becomes ਸ and ਆ becomes ਅ.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r == nukta
	})), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Map(func(r rune) rune {
		if carrier, ok := independentToCarrier[r]; ok {
			return carrier
		}
		return r
	}, stripped)
}

// FirstLetters reduces every word to its first letter. Pause markers at the
// end of a word are kept after its letter.
func FirstLetters(s string) string {
	var b strings.Builder
	for _, word := range strings.Fields(s) {
		first := []rune(word)[0]
		if isVishraam(first) {
			continue
		}
		b.WriteRune(first)

		trailing := strings.TrimRightFunc(word, isVishraam)
		b.WriteString(word[len(trailing):])
	}
	return b.String()
}

const zeroWidthSpace = "\u200B"

var (
	larivaarSpace       = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	larivaarDigits      = regexp.MustCompile(`(\d+)`)
	larivaarBracketNum  = regexp.MustCompile(`(\]|\[) (\d+) `)
	larivaarBeforeMark  = regexp.MustCompile(`(\D)(\]|\[)`)
	larivaarAfterMark   = regexp.MustCompile(`(\]|\[)(\D)`)
	larivaarSpaceJoiner = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+\x{200B}`)
	larivaarJoinerSpace = regexp.MustCompile(`\x{200B}[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
)

// Larivaar joins the words of a GurbaniAkhar line with zero width spaces.
// Verse numbers and their danda brackets stay separated by ordinary spaces.
func Larivaar(s string) string {
	s = larivaarSpace.ReplaceAllString(s, zeroWidthSpace)
	s = larivaarDigits.ReplaceAllString(s, " ${1} ")
	s = larivaarBracketNum.ReplaceAllString(s, "${1}${2}")
	s = larivaarBeforeMark.ReplaceAllString(s, "${1} ${2}")
	s = larivaarAfterMark.ReplaceAllString(s, "${1} ${2}")
	s = larivaarSpaceJoiner.ReplaceAllString(s, " ")
	s = larivaarJoinerSpace.ReplaceAllString(s, " ")
	return s
}

// ParseVishraams builds the vishraam list from inline ',' (jamki) and ';'
// (pause) markers. Larivaar input is split on zero width spaces.
func ParseVishraams(s string, larivaar bool) []domain.Vishraam {
	vishraams := []domain.Vishraam{}
	if !strings.ContainsAny(s, ",;") {
		return vishraams
	}

	sep := " "
	if larivaar {
		sep = zeroWidthSpace
	}

	for index, word := range strings.Split(s, sep) {
		if word == "" {
			continue
		}
		var kind string
		switch word[len(word)-1] {
		case ',':
			kind = domain.VishraamJamki
		case ';':
			kind = domain.VishraamPause
		default:
			continue
		}
		vishraams = append(vishraams, domain.Vishraam{
			Index: index,
			Word:  word[:len(word)-1],
			Type:  kind,
		})
	}
	return vishraams
}

// Words splits a line into the words vishraam indexes refer to.
func Words(s string) []string {
	return strings.Split(StripVishraams(s), " ")
}
