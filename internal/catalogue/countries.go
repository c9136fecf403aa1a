// Package catalogue holds the fixed, process-wide, read-only country
// list the Memory game deals its cards from (spec.md §3 Memory room:
// "cardCount/2 distinct country descriptors ... from the fixed country
// catalogue"). spec.md leaves the catalogue's contents unspecified
// beyond the {countryKey, flag, nameKo} shape it requires of a card;
// this is a reasonable, large-enough-for-cardCount=60 fixed list in
// that shape.
package catalogue

// Country is one entry in the fixed catalogue.
type Country struct {
	Key    string
	Flag   string
	NameKo string
}

// All is the process-wide catalogue, immutable after init. It must
// have at least 30 entries to support the largest Memory deck
// (cardCount=60 needs 30 distinct pairs).
var All = []Country{
	{"kr", "🇰🇷", "대한민국"},
	{"us", "🇺🇸", "미국"},
	{"jp", "🇯🇵", "일본"},
	{"cn", "🇨🇳", "중국"},
	{"gb", "🇬🇧", "영국"},
	{"fr", "🇫🇷", "프랑스"},
	{"de", "🇩🇪", "독일"},
	{"it", "🇮🇹", "이탈리아"},
	{"es", "🇪🇸", "스페인"},
	{"pt", "🇵🇹", "포르투갈"},
	{"nl", "🇳🇱", "네덜란드"},
	{"be", "🇧🇪", "벨기에"},
	{"ch", "🇨🇭", "스위스"},
	{"at", "🇦🇹", "오스트리아"},
	{"se", "🇸🇪", "스웨덴"},
	{"no", "🇳🇴", "노르웨이"},
	{"dk", "🇩🇰", "덴마크"},
	{"fi", "🇫🇮", "핀란드"},
	{"pl", "🇵🇱", "폴란드"},
	{"gr", "🇬🇷", "그리스"},
	{"tr", "🇹🇷", "튀르키예"},
	{"ru", "🇷🇺", "러시아"},
	{"ua", "🇺🇦", "우크라이나"},
	{"in", "🇮🇳", "인도"},
	{"id", "🇮🇩", "인도네시아"},
	{"th", "🇹🇭", "태국"},
	{"vn", "🇻🇳", "베트남"},
	{"ph", "🇵🇭", "필리핀"},
	{"my", "🇲🇾", "말레이시아"},
	{"sg", "🇸🇬", "싱가포르"},
	{"au", "🇦🇺", "호주"},
	{"nz", "🇳🇿", "뉴질랜드"},
	{"ca", "🇨🇦", "캐나다"},
	{"mx", "🇲🇽", "멕시코"},
	{"br", "🇧🇷", "브라질"},
	{"ar", "🇦🇷", "아르헨티나"},
	{"cl", "🇨🇱", "칠레"},
	{"co", "🇨🇴", "콜롬비아"},
	{"pe", "🇵🇪", "페루"},
	{"za", "🇿🇦", "남아프리카공화국"},
	{"eg", "🇪🇬", "이집트"},
	{"ma", "🇲🇦", "모로코"},
	{"ng", "🇳🇬", "나이지리아"},
	{"ke", "🇰🇪", "케냐"},
	{"sa", "🇸🇦", "사우디아라비아"},
	{"ae", "🇦🇪", "아랍에미리트"},
	{"il", "🇮🇱", "이스라엘"},
	{"ie", "🇮🇪", "아일랜드"},
	{"is", "🇮🇸", "아이슬란드"},
	{"cz", "🇨🇿", "체코"},
}
