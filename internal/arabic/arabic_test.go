package arabic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics and final teh marbuta", "مَكْتَبَةٌ", "مكتبه"},
		{"hamza above", "أحمد", "احمد"},
		{"hamza below", "إبراهيم", "ابراهيم"},
		{"madda", "آمن", "امن"},
		{"wasla", "ٱلله", "الله"},
		{"alef maksura", "موسى", "موسي"},
		{"tatweel", "الـــله", "الله"},
		{"keheh", "کتاب", "كتاب"},
		{"farsi yeh", "علی", "علي"},
		{"shadda", "اللَّهِ", "الله"},
		{"empty", "", ""},
		{"latin untouched", "Kafi 8", "Kafi 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"بِسْمِ اللَّهِ الرَّحْمَنِ الرَّحِيمِ",
		"قَالَ أَمِيرُ الْمُؤْمِنِينَ عَلَيْهِ السَّلَامُ",
		"مكتبةٌ إسلاميّة آلاف الكُتُب",
		"یک کتاب فارسی",
		"ـــــ",
		"ة",
		"mixed نصّ text",
	}
	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), s)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"بسم", "الله"}, Tokens("  بِسْمِ   اللَّهِ "))
	assert.Empty(t, Tokens("   "))
}

func TestContainsArabic(t *testing.T) {
	assert.True(t, ContainsArabic("abc محمد"))
	assert.False(t, ContainsArabic("abc 123"))
	assert.False(t, ContainsArabic("ـ"))
}

func TestIsLatin(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"muhammad", true},
		{"al-kafi", true},
		{"ja'far sadiq", true},
		{"محمد", false},
		{"kafi 8", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLatin(tt.in), tt.in)
	}
}

func TestTransliterate_Dictionary(t *testing.T) {
	// Given: dictionary words and phrases
	// When: transliterating them
	// Then: the curated spelling comes first
	assert.Equal(t, []QueryVariant{{"محمد"}}, Transliterate("Muhammad"))
	assert.Equal(t, []QueryVariant{{"بسم", "الله"}}, Transliterate("bismillah"))

	spellings, ok := LookupDictionary("hussein")
	require.True(t, ok)
	assert.Equal(t, []string{"الحسين", "حسين"}, spellings)
}

func TestTransliterate_Article(t *testing.T) {
	// Given: a standalone article before an unknown word
	variants := Transliterate("al kafi")

	// Then: every variant carries the article and one reads الكافي
	require.NotEmpty(t, variants)
	var joined []string
	for _, v := range variants {
		require.Len(t, v, 1)
		assert.True(t, strings.HasPrefix(v[0], "ال"), v[0])
		joined = append(joined, v.String())
	}
	assert.Contains(t, joined, "الكافي")
}

func TestTransliterate_NonEmpty(t *testing.T) {
	inputs := []string{
		"kitab", "xyz", "q", "aeiou", "zzz", "tahdhib", "h",
		"wal-qamar", "shaykh al-mufid", "the quick brown fox jumps over lazy dogs",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			// When: transliterating a pure ASCII letter input
			variants := Transliterate(in)

			// Then: there is a bounded, non-empty set of Arabic variants
			require.NotEmpty(t, variants)
			assert.LessOrEqual(t, len(variants), MaxVariants)
			for _, v := range variants {
				assert.True(t, ContainsArabic(v.String()), v.String())
			}
		})
	}
}

func TestTransliterate_PrefersDigraphs(t *testing.T) {
	variants := Transliterate("shams")
	require.NotEmpty(t, variants)
	assert.True(t, strings.HasPrefix(variants[0][0], "ش"), variants[0][0])
}

func TestExpandRoot(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"المسلمون", []string{"المسلمون", "مسلمون", "المسلم", "مسلم"}},
		{"والكتاب", []string{"والكتاب", "الكتاب"}},
		{"من", []string{"من"}},
		{"كتب", []string{"كتب"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ExpandRoot(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got[0])
		})
	}
	assert.Nil(t, ExpandRoot("  "))
}

func TestFamily(t *testing.T) {
	assert.Equal(t, []string{"كتب", "مكتب", "يكتب", "تكتب", "نكتب", "كاتب"}, Family("كتب"))
	assert.Nil(t, Family(""))
}

func TestVerbEndingVariants(t *testing.T) {
	assert.Equal(t, []string{"قالوا", "قال"}, VerbEndingVariants("قالوا"))
	assert.Equal(t, []string{"قال", "قالوا"}, VerbEndingVariants("قال"))
	assert.Equal(t, []string{"مستشفيات"}, VerbEndingVariants("مستشفيات"))

	assert.Equal(t, "كتب", AlternateVerbEnding("كتبوا"))
	assert.Equal(t, "مستشفيات", AlternateVerbEnding("مستشفيات"))
}
