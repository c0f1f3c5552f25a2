package references

// chapter is one entry of the scripture chapter table
type chapter struct {
	number   int
	name     string
	maxVerse int
	aliases  []string
}

// chapters lists the 114 chapters in canonical order with their verse counts
var chapters = []chapter{
	{number: 1, name: "الفاتحة", maxVerse: 7, aliases: []string{"الحمد", "أم الكتاب"}},
	{number: 2, name: "البقرة", maxVerse: 286},
	{number: 3, name: "آل عمران", maxVerse: 200},
	{number: 4, name: "النساء", maxVerse: 176},
	{number: 5, name: "المائدة", maxVerse: 120},
	{number: 6, name: "الأنعام", maxVerse: 165},
	{number: 7, name: "الأعراف", maxVerse: 206},
	{number: 8, name: "الأنفال", maxVerse: 75},
	{number: 9, name: "التوبة", maxVerse: 129, aliases: []string{"براءة"}},
	{number: 10, name: "يونس", maxVerse: 109},
	{number: 11, name: "هود", maxVerse: 123},
	{number: 12, name: "يوسف", maxVerse: 111},
	{number: 13, name: "الرعد", maxVerse: 43},
	{number: 14, name: "إبراهيم", maxVerse: 52},
	{number: 15, name: "الحجر", maxVerse: 99},
	{number: 16, name: "النحل", maxVerse: 128},
	{number: 17, name: "الإسراء", maxVerse: 111, aliases: []string{"بني إسرائيل"}},
	{number: 18, name: "الكهف", maxVerse: 110},
	{number: 19, name: "مريم", maxVerse: 98},
	{number: 20, name: "طه", maxVerse: 135},
	{number: 21, name: "الأنبياء", maxVerse: 112},
	{number: 22, name: "الحج", maxVerse: 78},
	{number: 23, name: "المؤمنون", maxVerse: 118},
	{number: 24, name: "النور", maxVerse: 64},
	{number: 25, name: "الفرقان", maxVerse: 77},
	{number: 26, name: "الشعراء", maxVerse: 227},
	{number: 27, name: "النمل", maxVerse: 93},
	{number: 28, name: "القصص", maxVerse: 88},
	{number: 29, name: "العنكبوت", maxVerse: 69},
	{number: 30, name: "الروم", maxVerse: 60},
	{number: 31, name: "لقمان", maxVerse: 34},
	{number: 32, name: "السجدة", maxVerse: 30},
	{number: 33, name: "الأحزاب", maxVerse: 73},
	{number: 34, name: "سبأ", maxVerse: 54},
	{number: 35, name: "فاطر", maxVerse: 45, aliases: []string{"الملائكة"}},
	{number: 36, name: "يس", maxVerse: 83},
	{number: 37, name: "الصافات", maxVerse: 182},
	{number: 38, name: "ص", maxVerse: 88},
	{number: 39, name: "الزمر", maxVerse: 75},
	{number: 40, name: "غافر", maxVerse: 85, aliases: []string{"المؤمن"}},
	{number: 41, name: "فصلت", maxVerse: 54, aliases: []string{"حم السجدة"}},
	{number: 42, name: "الشورى", maxVerse: 53},
	{number: 43, name: "الزخرف", maxVerse: 89},
	{number: 44, name: "الدخان", maxVerse: 59},
	{number: 45, name: "الجاثية", maxVerse: 37},
	{number: 46, name: "الأحقاف", maxVerse: 35},
	{number: 47, name: "محمد", maxVerse: 38, aliases: []string{"القتال"}},
	{number: 48, name: "الفتح", maxVerse: 29},
	{number: 49, name: "الحجرات", maxVerse: 18},
	{number: 50, name: "ق", maxVerse: 45},
	{number: 51, name: "الذاريات", maxVerse: 60},
	{number: 52, name: "الطور", maxVerse: 49},
	{number: 53, name: "النجم", maxVerse: 62},
	{number: 54, name: "القمر", maxVerse: 55},
	{number: 55, name: "الرحمن", maxVerse: 78},
	{number: 56, name: "الواقعة", maxVerse: 96},
	{number: 57, name: "الحديد", maxVerse: 29},
	{number: 58, name: "المجادلة", maxVerse: 22},
	{number: 59, name: "الحشر", maxVerse: 24},
	{number: 60, name: "الممتحنة", maxVerse: 13},
	{number: 61, name: "الصف", maxVerse: 14},
	{number: 62, name: "الجمعة", maxVerse: 11},
	{number: 63, name: "المنافقون", maxVerse: 11},
	{number: 64, name: "التغابن", maxVerse: 18},
	{number: 65, name: "الطلاق", maxVerse: 12},
	{number: 66, name: "التحريم", maxVerse: 12},
	{number: 67, name: "الملك", maxVerse: 30},
	{number: 68, name: "القلم", maxVerse: 52},
	{number: 69, name: "الحاقة", maxVerse: 52},
	{number: 70, name: "المعارج", maxVerse: 44},
	{number: 71, name: "نوح", maxVerse: 28},
	{number: 72, name: "الجن", maxVerse: 28},
	{number: 73, name: "المزمل", maxVerse: 20},
	{number: 74, name: "المدثر", maxVerse: 56},
	{number: 75, name: "القيامة", maxVerse: 40},
	{number: 76, name: "الإنسان", maxVerse: 31, aliases: []string{"الدهر", "هل أتى"}},
	{number: 77, name: "المرسلات", maxVerse: 50},
	{number: 78, name: "النبأ", maxVerse: 40},
	{number: 79, name: "النازعات", maxVerse: 46},
	{number: 80, name: "عبس", maxVerse: 42},
	{number: 81, name: "التكوير", maxVerse: 29},
	{number: 82, name: "الانفطار", maxVerse: 19},
	{number: 83, name: "المطففين", maxVerse: 36},
	{number: 84, name: "الانشقاق", maxVerse: 25},
	{number: 85, name: "البروج", maxVerse: 22},
	{number: 86, name: "الطارق", maxVerse: 17},
	{number: 87, name: "الأعلى", maxVerse: 19},
	{number: 88, name: "الغاشية", maxVerse: 26},
	{number: 89, name: "الفجر", maxVerse: 30},
	{number: 90, name: "البلد", maxVerse: 20},
	{number: 91, name: "الشمس", maxVerse: 15},
	{number: 92, name: "الليل", maxVerse: 21},
	{number: 93, name: "الضحى", maxVerse: 11},
	{number: 94, name: "الشرح", maxVerse: 8, aliases: []string{"الانشراح", "ألم نشرح"}},
	{number: 95, name: "التين", maxVerse: 8},
	{number: 96, name: "العلق", maxVerse: 19},
	{number: 97, name: "القدر", maxVerse: 5},
	{number: 98, name: "البينة", maxVerse: 8, aliases: []string{"لم يكن"}},
	{number: 99, name: "الزلزلة", maxVerse: 8, aliases: []string{"الزلزال"}},
	{number: 100, name: "العاديات", maxVerse: 11},
	{number: 101, name: "القارعة", maxVerse: 11},
	{number: 102, name: "التكاثر", maxVerse: 8},
	{number: 103, name: "العصر", maxVerse: 3},
	{number: 104, name: "الهمزة", maxVerse: 9},
	{number: 105, name: "الفيل", maxVerse: 5},
	{number: 106, name: "قريش", maxVerse: 4},
	{number: 107, name: "الماعون", maxVerse: 7},
	{number: 108, name: "الكوثر", maxVerse: 3},
	{number: 109, name: "الكافرون", maxVerse: 6},
	{number: 110, name: "النصر", maxVerse: 3},
	{number: 111, name: "المسد", maxVerse: 5, aliases: []string{"تبت", "اللهب"}},
	{number: 112, name: "الإخلاص", maxVerse: 4, aliases: []string{"التوحيد"}},
	{number: 113, name: "الفلق", maxVerse: 5},
	{number: 114, name: "الناس", maxVerse: 6},
}
