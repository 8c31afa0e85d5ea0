// Package gurmukhi converts between the GurbaniAkhar ASCII font encoding and
// Unicode Gurmukhi, and provides the text transforms behind the search keys
// and transliterations stored with every line.
package gurmukhi

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	sihari  = '\u0A3F'
	nukta   = '\u0A3C'
	virama  = '\u0A4D'
	ikOnkar = "\u0A74"
)

// asciiToUnicode maps GurbaniAkhar characters to Unicode. Nukta letters are
// written decomposed since their precomposed forms are excluded from NFC.
var asciiToUnicode = map[rune]string{
	'a': "ੳ", 'A': "ਅ", 'e': "ੲ", 's': "ਸ", 'h': "ਹ",
	'k': "ਕ", 'K': "ਖ", 'g': "ਗ", 'G': "ਘ", '|': "ਙ",
	'c': "ਚ", 'C': "ਛ", 'j': "ਜ", 'J': "ਝ", '\\': "ਞ",
	't': "ਟ", 'T': "ਠ", 'f': "ਡ", 'F': "ਢ", 'x': "ਣ",
	'q': "ਤ", 'Q': "ਥ", 'd': "ਦ", 'D': "ਧ", 'n': "ਨ",
	'p': "ਪ", 'P': "ਫ", 'b': "ਬ", 'B': "ਭ", 'm': "ਮ",
	'X': "ਯ", 'r': "ਰ", 'l': "ਲ", 'v': "ਵ", 'V': "ੜ",

	'S': "ਸ਼", '^': "ਖ਼", 'Z': "ਗ਼", 'z': "ਜ਼", '&': "ਫ਼", 'L': "ਲ਼",

	'w': "ਾ", 'I': "ੀ", 'u': "ੁ", 'U': "ੂ", 'y': "ੇ", 'Y': "ੈ",
	'o': "ੋ", 'O': "ੌ", 'M': "ੰ", 'N': "ਂ", '`': "ੱ", '~': "ੱ",
	'W': "ਾਂ", 'E': "ਓ", 'Ú': "ਃ", 'ü': "ੁ", 'µ': "ੰ", 'ˆ': "ਂ",

	'H': "੍ਹ", '@': "੍ਹ", 'R': "੍ਰ", '®': "੍ਰ", 'Í': "੍ਯ", 'Î': "੍ਯ",
	'ç': "੍ਚ", '†': "੍ਟ", 'œ': "੍ਤ", '´': "ੵ",

	'0': "੦", '1': "੧", '2': "੨", '3': "੩", '4': "੪",
	'5': "੫", '6': "੬", '7': "੭", '8': "੮", '9': "੯",

	'[': "।", ']': "॥",
}

// subjoined ASCII characters attach to the preceding consonant, so a sihari
// written before the consonant lands after them.
var subjoined = map[rune]bool{
	'H': true, '@': true, 'R': true, '®': true, 'Í': true, 'Î': true,
	'ç': true, '†': true, 'œ': true, '´': true,
}

// vowelComposer folds carrier + vowel sign pairs into independent vowels.
var vowelComposer = strings.NewReplacer(
	"ਅਾ", "ਆ",
	"ਅੈ", "ਐ",
	"ਅੌ", "ਔ",
	"ੲਿ", "ਇ",
	"ੲੀ", "ਈ",
	"ੲੇ", "ਏ",
	"ੳੁ", "ਉ",
	"ੳੂ", "ਊ",
	"ੳੋ", "ਓ",
)

// IsUnicode reports whether s already contains Unicode Gurmukhi.
func IsUnicode(s string) bool {
	for _, r := range s {
		if r >= 0x0A00 && r <= 0x0A7F {
			return true
		}
	}
	return false
}

// ToUnicode converts GurbaniAkhar ASCII text to NFC Unicode Gurmukhi.
// Text that already contains Unicode Gurmukhi is only normalized.
// Characters without a mapping, such as spaces and vishraam marks, pass through.
func ToUnicode(s string) string {
	if IsUnicode(s) {
		return norm.NFC.String(s)
	}

	s = strings.ReplaceAll(s, "<>", ikOnkar)
	src := []rune(s)

	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(src); i++ {
		r := src[i]

		if r == 'i' && i+1 < len(src) {
			if next, ok := asciiToUnicode[src[i+1]]; ok && !subjoined[src[i+1]] {
				// Sihari is typed before its consonant but stored after it.
				b.WriteString(next)
				i++
				for i+1 < len(src) && subjoined[src[i+1]] {
					i++
					b.WriteString(asciiToUnicode[src[i]])
				}
				b.WriteRune(sihari)
				continue
			}
		}
		if r == 'i' {
			b.WriteRune(sihari)
			continue
		}

		if mapped, ok := asciiToUnicode[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	return norm.NFC.String(vowelComposer.Replace(b.String()))
}

var (
	// unicodeToASCII is the inverse of asciiToUnicode for single runes.
	unicodeToASCII = map[rune]string{}
	// nuktaToASCII maps a base consonant to its nukta form.
	nuktaToASCII = map[rune]string{
		'ਸ': "S", 'ਖ': "^", 'ਗ': "Z", 'ਜ': "z", 'ਫ': "&", 'ਲ': "L",
	}
	// subjoinedToASCII maps the consonant following a virama.
	subjoinedToASCII = map[rune]string{
		'ਹ': "H", 'ਰ': "R", 'ਯ': "Í", 'ਚ': "ç", 'ਟ': "†", 'ਤ': "œ",
	}
	independentToASCII = map[rune]string{
		'ਆ': "Aw", 'ਇ': "ie", 'ਈ': "eI", 'ਉ': "au", 'ਊ': "aU",
		'ਏ': "ey", 'ਐ': "AY", 'ਓ': "E", 'ਔ': "AO",
	}
)

func init() {
	// Prefer the canonical key when several ASCII characters share an output.
	preferred := map[string]rune{"ੱ": '`', "ਂ": 'N', "ੰ": 'M', "ੁ": 'u'}
	for r, u := range asciiToUnicode {
		if utf8.RuneCountInString(u) != 1 {
			continue
		}
		if p, ok := preferred[u]; ok && p != r {
			continue
		}
		ur, _ := utf8.DecodeRuneInString(u)
		unicodeToASCII[ur] = string(r)
	}
	unicodeToASCII['\u0A75'] = "´"
	unicodeToASCII['\u0A74'] = "<>"
}

// ToASCII converts Unicode Gurmukhi to GurbaniAkhar ASCII.
// Runes outside the Gurmukhi block pass through unchanged.
func ToASCII(s string) string {
	src := []rune(norm.NFD.String(s))

	out := make([]byte, 0, len(s))
	clusterStart := 0

	for i := 0; i < len(src); i++ {
		r := src[i]

		switch {
		case r == sihari:
			// Move the sihari in front of the consonant cluster it follows.
			out = append(out[:clusterStart], append([]byte{'i'}, out[clusterStart:]...)...)
			continue

		case r == virama && i+1 < len(src):
			if mapped, ok := subjoinedToASCII[src[i+1]]; ok {
				out = append(out, mapped...)
				i++
				continue
			}
			continue

		case r == nukta:
			continue
		}

		if mapped, ok := independentToASCII[r]; ok {
			clusterStart = len(out)
			out = append(out, mapped...)
			continue
		}

		if i+1 < len(src) && src[i+1] == nukta {
			if mapped, ok := nuktaToASCII[r]; ok {
				clusterStart = len(out)
				out = append(out, mapped...)
				i++
				continue
			}
		}

		mapped, ok := unicodeToASCII[r]
		if !ok {
			out = utf8.AppendRune(out, r)
			clusterStart = len(out)
			continue
		}
		if isConsonant(r) {
			clusterStart = len(out)
		}
		out = append(out, mapped...)
	}

	return string(out)
}

// isConsonant reports whether r starts a consonant cluster, carriers included.
func isConsonant(r rune) bool {
	return (r >= 'ਕ' && r <= 'ਹ') || r == 'ੜ' || r == 'ਅ' || r == 'ੲ' || r == 'ੳ' ||
		(r >= '\u0A59' && r <= '\u0A5E')
}
