// Package derive computes the fields stored next to every line that are not
// part of the tree format: larivaar renderings, search keys and transliterations.
package derive

import (
	"github.com/gurbaninow/database/internal/gurmukhi"
)

// Keys are the two initials-search keys stored per content and transliteration row.
// FirstLetters has every pause marker removed; VishraamFirstLetters keeps the
// medium and heavy markers after the letter of the word they follow.
type Keys struct {
	FirstLetters         string
	VishraamFirstLetters string
}

// Content is the derived rendering of one source's text for a line.
type Content struct {
	Gurmukhi string
	Larivaar string
	Keys
}

// Transliteration is the rendering of a line's text in one target language.
type Transliteration struct {
	Language string
	Text     string
	Keys
}

// Transliterator binds a language name to the function producing its script.
type Transliterator struct {
	Language string
	Func     func(string) string
}

// DefaultTransliterators are the transliterations stored for every line content row.
var DefaultTransliterators = []Transliterator{
	{Language: "English", Func: gurmukhi.ToEnglish},
	{Language: "Hindi", Func: gurmukhi.ToHindi},
	{Language: "Urdu", Func: gurmukhi.ToShahmukhi},
}

// Generator derives line fields. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	transliterators []Transliterator
}

// New creates a generator. Without arguments it uses DefaultTransliterators.
func New(transliterators ...Transliterator) *Generator {
	if len(transliterators) == 0 {
		transliterators = DefaultTransliterators
	}
	return &Generator{transliterators: transliterators}
}

// Languages returns the language names transliterations are produced for, in order.
func (g *Generator) Languages() []string {
	names := make([]string, len(g.transliterators))
	for i, t := range g.transliterators {
		names[i] = t.Language
	}
	return names
}

// Content derives the larivaar rendering and search keys of a source text.
// Sirlekh lines keep their line endings in the keys.
func (g *Generator) Content(text string, sirlekh bool) Content {
	return Content{
		Gurmukhi: text,
		Larivaar: gurmukhi.Larivaar(text),
		Keys:     searchKeys(text, sirlekh),
	}
}

// Transliterations renders text in every configured language, each with its own keys.
func (g *Generator) Transliterations(text string, sirlekh bool) []Transliteration {
	full := prepare(text, sirlekh, gurmukhi.AllVishraams...)
	paused := prepare(text, sirlekh, gurmukhi.VishraamLight)

	out := make([]Transliteration, len(g.transliterators))
	for i, t := range g.transliterators {
		out[i] = Transliteration{
			Language: t.Language,
			Text:     t.Func(gurmukhi.ToUnicode(text)),
			Keys: Keys{
				FirstLetters:         gurmukhi.FirstLetters(t.Func(full)),
				VishraamFirstLetters: gurmukhi.FirstLetters(t.Func(paused)),
			},
		}
	}
	return out
}

// searchKeys returns the full and pause-aware first-letter keys of a source
// text in GurbaniAkhar.
func searchKeys(text string, sirlekh bool) Keys {
	return Keys{
		FirstLetters:         gurmukhi.ToASCII(gurmukhi.FirstLetters(prepare(text, sirlekh, gurmukhi.AllVishraams...))),
		VishraamFirstLetters: gurmukhi.ToASCII(gurmukhi.FirstLetters(prepare(text, sirlekh, gurmukhi.VishraamLight))),
	}
}

// prepare canonicalizes text up to the point where letters are reduced.
func prepare(text string, sirlekh bool, strip ...gurmukhi.VishraamClass) string {
	s := gurmukhi.ToUnicode(text)
	if !sirlekh {
		s = gurmukhi.StripEndings(s)
	}
	s = gurmukhi.StripAccents(s)
	return gurmukhi.StripVishraams(s, strip...)
}
