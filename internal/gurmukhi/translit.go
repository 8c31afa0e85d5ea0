package gurmukhi

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	bindi   = 'ਂ'
	visarga = 'ਃ'
	tippi   = 'ੰ'
	addak   = 'ੱ'
	yakash  = 'ੵ'
	danda   = '।'
	dDanda  = '॥'
)

// script describes how Unicode Gurmukhi is rendered in a target alphabet.
type script struct {
	consonants map[rune]string
	nukta      map[rune]string // base consonant -> nukta form
	vowelSigns map[rune]string
	vowels     map[rune]string
	signs      map[rune]string
	virama     string
	inherent   string
	digit      func(d int) string
	geminate   func(consonant string) string
}

var english = &script{
	consonants: map[rune]string{
		'ਕ': "k", 'ਖ': "kh", 'ਗ': "g", 'ਘ': "gh", 'ਙ': "ng",
		'ਚ': "ch", 'ਛ': "chh", 'ਜ': "j", 'ਝ': "jh", 'ਞ': "ny",
		'ਟ': "t", 'ਠ': "th", 'ਡ': "d", 'ਢ': "dh", 'ਣ': "n",
		'ਤ': "t", 'ਥ': "th", 'ਦ': "d", 'ਧ': "dh", 'ਨ': "n",
		'ਪ': "p", 'ਫ': "ph", 'ਬ': "b", 'ਭ': "bh", 'ਮ': "m",
		'ਯ': "y", 'ਰ': "r", 'ਲ': "l", 'ਵ': "v", 'ੜ': "r",
		'ਸ': "s", 'ਹ': "h",
	},
	nukta: map[rune]string{
		'ਸ': "sh", 'ਖ': "kh", 'ਗ': "g", 'ਜ': "z", 'ਫ': "f", 'ਲ': "l",
	},
	vowelSigns: map[rune]string{
		'ਾ': "aa", 'ਿ': "i", 'ੀ': "ee", 'ੁ': "u", 'ੂ': "oo",
		'ੇ': "e", 'ੈ': "ai", 'ੋ': "o", 'ੌ': "au",
	},
	vowels: map[rune]string{
		'ਅ': "a", 'ਆ': "aa", 'ਇ': "i", 'ਈ': "ee", 'ਉ': "u", 'ਊ': "oo",
		'ਏ': "e", 'ਐ': "ai", 'ਓ': "o", 'ਔ': "au", 'ੲ': "i", 'ੳ': "u",
	},
	signs: map[rune]string{
		bindi: "n", tippi: "n", visarga: "h", yakash: "y",
		danda: "|", dDanda: "||", 'ੴ': "ik oankaar",
	},
	inherent: "a",
	digit:    func(d int) string { return string(rune('0' + d)) },
	geminate: func(c string) string { return c[:1] + c },
}

var shahmukhi = &script{
	consonants: map[rune]string{
		'ਕ': "ک", 'ਖ': "کھ", 'ਗ': "گ", 'ਘ': "گھ", 'ਙ': "ں",
		'ਚ': "چ", 'ਛ': "چھ", 'ਜ': "ج", 'ਝ': "جھ", 'ਞ': "ں",
		'ਟ': "ٹ", 'ਠ': "ٹھ", 'ਡ': "ڈ", 'ਢ': "ڈھ", 'ਣ': "ݨ",
		'ਤ': "ت", 'ਥ': "تھ", 'ਦ': "د", 'ਧ': "دھ", 'ਨ': "ن",
		'ਪ': "پ", 'ਫ': "پھ", 'ਬ': "ب", 'ਭ': "بھ", 'ਮ': "م",
		'ਯ': "ی", 'ਰ': "ر", 'ਲ': "ل", 'ਵ': "و", 'ੜ': "ڑ",
		'ਸ': "س", 'ਹ': "ہ",
	},
	nukta: map[rune]string{
		'ਸ': "ش", 'ਖ': "خ", 'ਗ': "غ", 'ਜ': "ز", 'ਫ': "ف", 'ਲ': "ل",
	},
	vowelSigns: map[rune]string{
		'ਾ': "ا", 'ਿ': "ِ", 'ੀ': "ی", 'ੁ': "ُ", 'ੂ': "و",
		'ੇ': "ے", 'ੈ': "ے", 'ੋ': "و", 'ੌ': "و",
	},
	vowels: map[rune]string{
		'ਅ': "ا", 'ਆ': "آ", 'ਇ': "اِ", 'ਈ': "ای", 'ਉ': "اُ", 'ਊ': "او",
		'ਏ': "اے", 'ਐ': "اے", 'ਓ': "او", 'ਔ': "او", 'ੲ': "ا", 'ੳ': "ا",
	},
	signs: map[rune]string{
		bindi: "ن", tippi: "ن", visarga: "ہ", yakash: "ی",
		danda: "۔", dDanda: "۔۔", 'ੴ': "ایک اونکار",
	},
	digit:    func(d int) string { return string(rune('۰' + d)) },
	geminate: func(c string) string { return c + "ّ" },
}

// devanagari is derived from the Gurmukhi tables: both blocks share their layout
// 0x100 code points apart.
var devanagari = &script{
	consonants: map[rune]string{},
	nukta:      map[rune]string{},
	vowelSigns: map[rune]string{},
	vowels:     map[rune]string{'ੲ': "इ", 'ੳ': "उ"},
	signs: map[rune]string{
		bindi: "ं", tippi: "ं", visarga: "ः", yakash: "्य",
		danda: "।", dDanda: "॥", 'ੴ': "१ओं",
	},
	virama:   "्",
	digit:    func(d int) string { return string(rune('०' + d)) },
	geminate: func(c string) string { return c + "्" + c },
}

func init() {
	shift := func(r rune) string { return string(r - 0x100) }
	for r := range english.consonants {
		devanagari.consonants[r] = shift(r)
	}
	for r := range english.nukta {
		devanagari.nukta[r] = shift(r) + "़"
	}
	for r := range english.vowelSigns {
		devanagari.vowelSigns[r] = shift(r)
	}
	for r := range english.vowels {
		if _, ok := devanagari.vowels[r]; !ok {
			devanagari.vowels[r] = shift(r)
		}
	}
}

// ToEnglish renders Gurmukhi phonetically in the Latin alphabet.
func ToEnglish(s string) string { return english.render(ToUnicode(s)) }

// ToHindi renders Gurmukhi in Devanagari.
func ToHindi(s string) string { return devanagari.render(ToUnicode(s)) }

// ToShahmukhi renders Gurmukhi in the Perso-Arabic Shahmukhi alphabet.
func ToShahmukhi(s string) string { return shahmukhi.render(ToUnicode(s)) }

func (sc *script) render(s string) string {
	src := []rune(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	geminate := false

	for i := 0; i < len(src); i++ {
		r := src[i]

		if c, ok := sc.consonants[r]; ok {
			if i+1 < len(src) && src[i+1] == nukta {
				if n, ok := sc.nukta[r]; ok {
					c = n
				}
				i++
			}
			if geminate {
				c = sc.geminate(c)
				geminate = false
			}
			b.WriteString(c)
			if sc.inherent != "" && sc.takesInherent(src, i+1) {
				b.WriteString(sc.inherent)
			}
			continue
		}

		switch r {
		case addak:
			geminate = true
			continue
		case virama:
			b.WriteString(sc.virama)
			continue
		case nukta:
			continue
		}

		if v, ok := sc.vowelSigns[r]; ok {
			b.WriteString(v)
			continue
		}
		if v, ok := sc.vowels[r]; ok {
			b.WriteString(v)
			continue
		}
		if v, ok := sc.signs[r]; ok {
			b.WriteString(v)
			continue
		}
		if r >= '੦' && r <= '੯' {
			b.WriteString(sc.digit(int(r - '੦')))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// takesInherent reports whether a consonant followed by src[next] is pronounced
// with the inherent vowel. Word-final consonants and those carrying a vowel
// sign or virama are not.
func (sc *script) takesInherent(src []rune, next int) bool {
	if next >= len(src) {
		return false
	}
	r := src[next]
	if _, ok := sc.consonants[r]; ok {
		return true
	}
	if _, ok := sc.vowels[r]; ok {
		return true
	}
	return r == bindi || r == tippi || r == addak || r == visarga
}
