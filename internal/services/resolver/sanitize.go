package resolver

import "strings"

// stylizedLetters maps decorative Unicode letter variants (small caps,
// superscripts, accented capitals) seen in player display names back to
// their plain ASCII letter.
var stylizedLetters = map[rune]rune{
	'ᴀ': 'a', 'À': 'a', 'Á': 'a', 'Ä': 'a', 'ᴬ': 'a', 'ᵃ': 'a',
	'ʙ': 'b', 'ᴮ': 'b', 'ᵇ': 'b',
	'ᴄ': 'c', 'Ç': 'c', 'ᶜ': 'c',
	'ᴅ': 'd', 'ᴰ': 'd', 'ᵈ': 'd',
	'ᴇ': 'e', 'È': 'e', 'É': 'e', 'Ë': 'e', 'ᴱ': 'e', 'ᵉ': 'e',
	'ꜰ': 'f', 'ᶠ': 'f',
	'ɢ': 'g', 'ᴳ': 'g', 'ᵍ': 'g',
	'ʜ': 'h', 'ᴴ': 'h', 'ʰ': 'h',
	'ɪ': 'i', 'Ì': 'i', 'Í': 'i', 'Ï': 'i', 'ᴵ': 'i', 'ⁱ': 'i',
	'ᴊ': 'j', 'ᴶ': 'j', 'ʲ': 'j',
	'ᴋ': 'k', 'ᴷ': 'k', 'ᵏ': 'k',
	'ʟ': 'l', 'ᴸ': 'l', 'ˡ': 'l',
	'ᴍ': 'm', 'ᴹ': 'm', 'ᵐ': 'm',
	'ɴ': 'n', 'Ñ': 'n', 'ᴺ': 'n', 'ⁿ': 'n',
	'ᴏ': 'o', 'Ò': 'o', 'Ó': 'o', 'Ö': 'o', 'ᴼ': 'o', 'ᵒ': 'o',
	'ᴘ': 'p', 'ᴾ': 'p', 'ᵖ': 'p',
	'ǫ': 'q',
	'ʀ': 'r', 'ᴿ': 'r', 'ʳ': 'r',
	'ꜱ': 's', 'ˢ': 's',
	'ᴛ': 't', 'ᵀ': 't', 'ᵗ': 't',
	'ᴜ': 'u', 'Ù': 'u', 'Ú': 'u', 'Ü': 'u', 'ᵁ': 'u', 'ᵘ': 'u',
	'ᴠ': 'v', 'ⱽ': 'v', 'ᵛ': 'v',
	'ᴡ': 'w', 'ᵂ': 'w', 'ʷ': 'w',
	'ˣ': 'x',
	'ʏ': 'y', 'ʸ': 'y',
	'ᴢ': 'z', 'ᶻ': 'z',
}

// Sanitize lowercases a display name, folds stylized Unicode letters to
// ASCII and strips everything that is not a-z or 0-9. Both the lookup
// input and the stored names go through this before comparison.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if mapped, ok := stylizedLetters[r]; ok {
			r = mapped
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
