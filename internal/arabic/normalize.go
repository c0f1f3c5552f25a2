// Package arabic canonicalizes Arabic text and turns user input into query
// variants: normalization, Latin transliteration and light root expansion.
//
// All lookup tables in this package are built once at package initialization
// and never mutated afterwards, so every exported function is safe for
// concurrent use without locking.
package arabic

import (
	"strings"
	"unicode/utf8"
)

const (
	Alef            = 'ا'
	AlefMadda       = 'آ'
	AlefHamzaAbove  = 'أ'
	AlefHamzaBelow  = 'إ'
	AlefWasla       = 'ٱ'
	SuperscriptAlef = '\u0670'
	TehMarbuta      = 'ة'
	Heh             = 'ه'
	AlefMaksura     = 'ى'
	Yeh             = 'ي'
	Tatweel         = '\u0640'
	Kaf             = 'ك'
	Keheh           = 'ک'
	FarsiYeh        = 'ی'
)

// isDiacritic reports whether r is a combining harakat mark
// (tanween, short vowels, shadda, sukun, maddah and hamza marks)
func isDiacritic(r rune) bool {
	return (r >= '\u064B' && r <= '\u065F') || r == SuperscriptAlef
}

// IsArabicLetter reports whether r is a base Arabic letter. Tatweel is
// excluded: it is a joining glyph, not a letter
func IsArabicLetter(r rune) bool {
	switch {
	case r == Tatweel:
		return false
	case r >= '\u0620' && r <= '\u064A':
		return true
	case r >= '\u066E' && r <= '\u06D3':
		return true
	case r >= '\u06FA' && r <= '\u06FC':
		return true
	}
	return false
}

// ContainsArabic reports whether s has at least one Arabic letter
func ContainsArabic(s string) bool {
	for _, r := range s {
		if IsArabicLetter(r) {
			return true
		}
	}
	return false
}

// Normalize returns the canonical form of text. The folds run in a fixed
// order and each pass assumes the previous ones already ran:
//
//  1. strip diacritics
//  2. fold hamza-bearing and wasla alef forms to bare alef
//  3. fold word-final teh marbuta to heh
//  4. fold alef maksura to yeh
//  5. drop tatweel
//  6. fold Persian keheh and Farsi yeh to Arabic kaf and yeh
//
// Normalize is total and idempotent
func Normalize(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)

	runes = stripDiacritics(runes)
	for i, r := range runes {
		switch r {
		case AlefMadda, AlefHamzaAbove, AlefHamzaBelow, AlefWasla:
			runes[i] = Alef
		}
	}
	for i, r := range runes {
		if r == TehMarbuta && (i == len(runes)-1 || !IsArabicLetter(runes[i+1])) {
			runes[i] = Heh
		}
	}
	for i, r := range runes {
		if r == AlefMaksura {
			runes[i] = Yeh
		}
	}
	runes = dropRune(runes, Tatweel)
	for i, r := range runes {
		switch r {
		case Keheh:
			runes[i] = Kaf
		case FarsiYeh:
			runes[i] = Yeh
		}
	}
	return string(runes)
}

func stripDiacritics(runes []rune) []rune {
	out := runes[:0]
	for _, r := range runes {
		if !isDiacritic(r) {
			out = append(out, r)
		}
	}
	return out
}

func dropRune(runes []rune, drop rune) []rune {
	out := runes[:0]
	for _, r := range runes {
		if r != drop {
			out = append(out, r)
		}
	}
	return out
}

// Tokens normalizes text and splits it on whitespace
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// runeLen is a shorthand used by the affix guards
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
