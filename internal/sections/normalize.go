package sections

import (
	"strings"
)

// Bullet is the canonical bullet glyph normalized text uses.
const Bullet = "•"

// bulletRunes are the list markers folded to Bullet. The two private-use
// code points are the Symbol and Wingdings bullets Word emits.
var bulletRunes = []rune{'•', '●', '▪', '■', '◦', '‣', '⁃', '∙', '·', '○', '➢', '\uf0b7', '\uf0a7'}

var bulletReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(bulletRunes))
	for _, r := range bulletRunes {
		if string(r) == Bullet {
			continue
		}
		pairs = append(pairs, string(r), Bullet)
	}
	return strings.NewReplacer(pairs...)
}()

// NormalizeText lowercases the text, folds bullet glyphs to a single
// character, and collapses whitespace.
func NormalizeText(text string) string {
	text = bulletReplacer.Replace(text)
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// IsBulletGlyph reports whether r is one of the recognized list markers.
func IsBulletGlyph(r rune) bool {
	for _, b := range bulletRunes {
		if r == b {
			return true
		}
	}
	return false
}
