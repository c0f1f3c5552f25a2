package arabic

// rawDictionary maps common Latin spellings to known-correct Arabic
// spellings. Values are normalized once when the package loads
var rawDictionary = map[string][]string{
	// names
	"allah":    {"الله"},
	"muhammad": {"محمد"},
	"mohammad": {"محمد"},
	"mohammed": {"محمد"},
	"ahmad":    {"أحمد"},
	"ali":      {"علي"},
	"fatima":   {"فاطمة"},
	"fatimah":  {"فاطمة"},
	"zahra":    {"الزهراء", "زهراء"},
	"hasan":    {"الحسن", "حسن"},
	"hassan":   {"الحسن", "حسن"},
	"husayn":   {"الحسين", "حسين"},
	"husain":   {"الحسين", "حسين"},
	"hussein":  {"الحسين", "حسين"},
	"hussain":  {"الحسين", "حسين"},
	"sajjad":   {"السجاد"},
	"baqir":    {"الباقر", "باقر"},
	"sadiq":    {"الصادق", "صادق"},
	"jafar":    {"جعفر"},
	"jaafar":   {"جعفر"},
	"kazim":    {"الكاظم", "كاظم"},
	"musa":     {"موسى"},
	"rida":     {"الرضا"},
	"reza":     {"الرضا"},
	"jawad":    {"الجواد"},
	"hadi":     {"الهادي"},
	"askari":   {"العسكري"},
	"mahdi":    {"المهدي", "مهدي"},
	"ibrahim":  {"إبراهيم"},
	"isa":      {"عيسى"},
	"maryam":   {"مريم"},
	"nuh":      {"نوح"},
	"yusuf":    {"يوسف"},
	"sulayman": {"سليمان"},
	"dawud":    {"داود"},
	"jibril":   {"جبرئيل", "جبريل"},
	"abu":      {"أبو", "أبي"},
	"ibn":      {"ابن", "بن"},
	"bin":      {"بن", "ابن"},
	"abd":      {"عبد"},
	"abdullah": {"عبد الله"},
	"salman":   {"سلمان"},
	"zurara":   {"زرارة"},
	"kulayni":  {"الكليني"},
	"saduq":    {"الصدوق"},
	"tusi":     {"الطوسي"},
	"majlisi":  {"المجلسي"},

	// works
	"quran":    {"القرآن", "قرآن"},
	"koran":    {"القرآن"},
	"kafi":     {"الكافي", "كافي"},
	"bihar":    {"بحار"},
	"anwar":    {"الأنوار", "أنوار"},
	"wasail":   {"وسائل"},
	"tahdhib":  {"تهذيب"},
	"istibsar": {"الاستبصار"},
	"nahj":     {"نهج"},
	"balagha":  {"البلاغة"},
	"balaghah": {"البلاغة"},
	"sahifa":   {"الصحيفة", "صحيفة"},

	// vocabulary
	"hadith":   {"حديث", "الحديث"},
	"hadeeth":  {"حديث"},
	"ahadith":  {"أحاديث"},
	"imam":     {"الإمام", "إمام"},
	"imamah":   {"الإمامة", "إمامة"},
	"imamate":  {"الإمامة"},
	"nabi":     {"النبي", "نبي"},
	"rasul":    {"رسول", "الرسول"},
	"rasool":   {"رسول"},
	"salat":    {"الصلاة", "صلاة"},
	"salah":    {"الصلاة", "صلاة"},
	"sawm":     {"الصوم", "صوم"},
	"siyam":    {"الصيام"},
	"zakat":    {"الزكاة", "زكاة"},
	"khums":    {"الخمس", "خمس"},
	"hajj":     {"الحج", "حج"},
	"jihad":    {"الجهاد", "جهاد"},
	"tawhid":   {"التوحيد", "توحيد"},
	"tawheed":  {"التوحيد"},
	"adl":      {"العدل", "عدل"},
	"nubuwwah": {"النبوة", "نبوة"},
	"wilayah":  {"الولاية", "ولاية"},
	"wilaya":   {"الولاية", "ولاية"},
	"qiyamah":  {"القيامة", "قيامة"},
	"jannah":   {"الجنة", "جنة"},
	"jahannam": {"جهنم"},
	"iman":     {"الإيمان", "إيمان"},
	"islam":    {"الإسلام", "إسلام"},
	"kufr":     {"الكفر", "كفر"},
	"shirk":    {"الشرك", "شرك"},
	"taqwa":    {"التقوى", "تقوى"},
	"ilm":      {"العلم", "علم"},
	"aql":      {"العقل", "عقل"},
	"dua":      {"الدعاء", "دعاء"},
	"ziyarah":  {"الزيارة", "زيارة"},
	"ziyarat":  {"زيارة"},
	"sunnah":   {"السنة", "سنة"},
	"shia":     {"الشيعة", "شيعة"},
	"shiah":    {"الشيعة"},
	"ahl":      {"أهل"},
	"bayt":     {"البيت", "بيت"},
	"bait":     {"البيت"},
	"sabr":     {"الصبر", "صبر"},
	"rizq":     {"الرزق", "رزق"},
	"tawbah":   {"التوبة", "توبة"},
	"akhlaq":   {"الأخلاق", "أخلاق"},
	"ghaybah":  {"الغيبة", "غيبة"},
	"raja":     {"الرجعة"},

	// particles
	"wa":   {"و"},
	"fi":   {"في"},
	"min":  {"من"},
	"ila":  {"إلى"},
	"ala":  {"على"},
	"an":   {"عن", "أن"},
	"la":   {"لا"},
	"ma":   {"ما"},
	"bi":   {"ب"},
	"li":   {"ل"},
	"inna": {"إن"},
	"qala": {"قال"},
}

// rawPhrases maps multi-word Latin expressions that should not be split
var rawPhrases = map[string][]string{
	"ahl al-bayt":         {"أهل البيت"},
	"ahl al bayt":         {"أهل البيت"},
	"ahlul bayt":          {"أهل البيت"},
	"ahlulbayt":           {"أهل البيت"},
	"bismillah":           {"بسم الله"},
	"insha allah":         {"إن شاء الله"},
	"inshallah":           {"إن شاء الله"},
	"amir al-muminin":     {"أمير المؤمنين"},
	"amir al muminin":     {"أمير المؤمنين"},
	"amirul muminin":      {"أمير المؤمنين"},
	"nahj al-balagha":     {"نهج البلاغة"},
	"bihar al-anwar":      {"بحار الأنوار"},
	"la ilaha illa allah": {"لا إله إلا الله"},
}

var (
	dictionary = buildDictionary(rawDictionary)
	phrases    = buildDictionary(rawPhrases)
)

func buildDictionary(raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(raw))
	for latin, spellings := range raw {
		normalized := make([]string, 0, len(spellings))
		seen := make(map[string]struct{}, len(spellings))
		for _, s := range spellings {
			n := Normalize(s)
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			normalized = append(normalized, n)
		}
		out[latin] = normalized
	}
	return out
}

// LookupDictionary returns the known Arabic spellings for a Latin word.
// The returned slice must not be modified
func LookupDictionary(latin string) ([]string, bool) {
	v, ok := dictionary[latin]
	return v, ok
}
