package mission

import "github.com/dustwatch/dustwatch/internal/airquality"

// Guideline keys name the household objects the behavioral guides attach to.
const (
	KeyWindow      = "window"
	KeyDog         = "dog"
	KeyPlants      = "plants"
	KeySofa        = "sofa"
	KeyLight       = "light"
	KeyStove       = "stove"
	KeySink        = "sink"
	KeyFan         = "fan"
	KeyDoor        = "door"
	KeyRefrigeator = "refrigeator" // catalog spelling, kept for data compatibility
	KeyClean       = "clean"
)

// GuidelineKeys is the fixed guide ordering before profile scoring.
var GuidelineKeys = []string{
	KeyWindow, KeyDog, KeyPlants, KeySofa, KeyLight, KeyStove,
	KeySink, KeyFan, KeyDoor, KeyRefrigeator, KeyClean,
}

// guideTitles maps guideline keys to their Korean display names.
var guideTitles = map[string]string{
	KeyWindow:      "창문",
	KeyDog:         "반려견",
	KeyPlants:      "식물",
	KeySofa:        "가구",
	KeyLight:       "조명",
	KeyStove:       "가스레인지",
	KeySink:        "세면대",
	KeyFan:         "공기청정기",
	KeyDoor:        "출입문",
	KeyRefrigeator: "냉장고",
	KeyClean:       "청소",
}

// Title returns the Korean display name for a guideline key.
func Title(key string) string {
	if t, ok := guideTitles[key]; ok {
		return t
	}
	return key
}

// Catalog returns the full mission catalog. IDs are stable: the daily
// selector's seeded tie-break keys on them.
func Catalog() []Mission {
	return []Mission{
		{
			ID: 1, Title: "환기 타이밍 확인하기",
			Description: "미세먼지 농도가 낮은 시간대에 10분간 창문을 열어 환기하세요.",
			Category:    "환기", GuidelineKey: KeyWindow,
			DustConditions: []string{"good", "moderate"},
		},
		{
			ID: 2, Title: "공기청정기 필터 점검",
			Description: "공기청정기 필터 상태를 확인하고 필요하면 교체하세요.",
			Category:    "공기질", GuidelineKey: KeyFan,
			DustConditions: []string{"bad", "very_bad"},
		},
		{
			ID: 3, Title: "외출 후 손과 얼굴 씻기",
			Description: "외출에서 돌아오면 세면대에서 손과 얼굴을 꼼꼼히 씻으세요.",
			Category:    "위생", GuidelineKey: KeySink,
			DustConditions: []string{"moderate", "bad", "very_bad"},
		},
		{
			ID: 4, Title: "외출 전 마스크 챙기기",
			Description: "출입문 옆에 보건용 마스크를 두고 외출 전 착용하세요.",
			Category:    "외출", GuidelineKey: KeyDoor,
			DustConditions: []string{"bad", "very_bad"},
		},
		{
			ID: 5, Title: "물 한 잔 마시기",
			Description: "냉장고에서 시원한 물을 꺼내 수분을 충분히 섭취하세요.",
			Category:    "건강", GuidelineKey: KeyRefrigeator,
		},
		{
			ID: 6, Title: "바닥 물걸레질하기",
			Description: "가라앉은 먼지가 다시 날리지 않도록 물걸레로 바닥을 닦으세요.",
			Category:    "청소", GuidelineKey: KeyClean,
			DustConditions: []string{"bad", "very_bad"},
		},
		{
			ID: 7, Title: "반려견 산책 시간 조정",
			Description: "미세먼지 농도를 확인하고 농도가 낮은 시간대로 산책을 옮기세요.",
			Category:    "반려동물", GuidelineKey: KeyDog,
			DustConditions: []string{"bad", "very_bad"},
		},
		{
			ID: 8, Title: "소파와 침구 먼지 털기",
			Description: "패브릭 가구에 쌓인 먼지를 청소기로 제거하세요.",
			Category:    "청소", GuidelineKey: KeySofa,
		},
		{
			ID: 9, Title: "반려식물 잎 닦아주기",
			Description: "잎에 쌓인 먼지를 젖은 천으로 닦아 식물의 공기 정화 기능을 살리세요.",
			Category:    "식물", GuidelineKey: KeyPlants,
		},
		{
			ID: 10, Title: "요리 중 환풍기 켜기",
			Description: "가스레인지를 쓸 때는 반드시 환풍기나 후드를 함께 켜세요.",
			Category:    "공기질", GuidelineKey: KeyStove,
		},
		{
			ID: 11, Title: "저녁 조명 점검하기",
			Description: "간접 조명으로 바꾸고 램프 주변 먼지를 닦아주세요.",
			Category:    "생활", GuidelineKey: KeyLight,
		},
		{
			ID: 12, Title: "현관 매트 청소하기",
			Description: "밖에서 묻혀 온 먼지가 실내로 퍼지지 않게 현관 매트를 털어내세요.",
			Category:    "청소", GuidelineKey: KeyDoor,
			DustConditions: []string{"moderate", "bad", "very_bad"},
		},
	}
}

// guideline holds the message catalog for one household object.
type guideline struct {
	base        map[airquality.Level][]string
	conditional map[string]map[airquality.Level][]string
}

// Conditional message keys derived from profile attributes. Senior maps to
// the elderly key, every other age group maps to age_<group>.
const (
	condHealthPrefix = "health_"
	condPetDog       = "pet_dog"
	condAgeElderly   = "age_elderly"
	condAgePrefix    = "age_"
	condChild        = "child"
)

// guidelines is the static behavioral message catalog, keyed by guideline
// key, then by coarse dust level. Message texts follow the
// "행동 (왜 해야 하는가: 설명)" convention where an explanation exists.
var guidelines = map[string]guideline{
	KeyWindow: {
		base: map[airquality.Level][]string{
			airquality.LevelGood: {
				"창문을 활짝 열어 30분 이상 환기하세요 (실내 오염물질을 배출할 좋은 기회입니다)",
			},
			airquality.LevelModerate: {
				"하루 2~3회, 10분 이내로 짧게 환기하세요",
			},
			airquality.LevelBad: {
				"창문을 닫고 환기는 공기청정기로 대신하세요 (바깥 미세먼지가 실내로 유입될 수 있음)",
			},
			airquality.LevelVeryBad: {
				"창문을 닫고 틈새를 점검하세요 (고농도 미세먼지는 작은 틈으로도 유입됨)",
			},
		},
		conditional: map[string]map[airquality.Level][]string{
			condHealthPrefix + "asthma": {
				airquality.LevelBad:     {"환기 대신 공기청정기를 가동하세요 (천식 증상을 악화시킬 수 있음)"},
				airquality.LevelVeryBad: {"창문 개폐를 최소화하세요 (고농도 노출은 천식 발작을 유발할 수 있음)"},
			},
			condChild: {
				airquality.LevelBad: {"아이 방 창문은 꼭 닫아두세요 (아이는 호흡량 대비 노출량이 더 큼)"},
			},
		},
	},
	KeyDog: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"마음껏 산책하세요! 오늘은 공기가 좋아요"},
			airquality.LevelModerate: {"산책은 짧게, 큰 도로는 피해서 다녀오세요"},
			airquality.LevelBad:      {"산책을 미루거나 실내 놀이로 대체하세요 (반려견도 미세먼지에 민감함)"},
			airquality.LevelVeryBad:  {"산책을 금지하고 실내에서 활동하세요 (호흡기 손상을 초래할 수 있음)"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condPetDog: {
				airquality.LevelModerate: {"산책 후 발과 털을 젖은 수건으로 닦아주세요 (털에 붙은 먼지가 실내로 퍼질 수 있음)"},
				airquality.LevelBad:      {"산책 후 발과 털을 꼭 씻겨주세요 (털에 붙은 먼지가 실내로 퍼질 수 있음)"},
				airquality.LevelVeryBad:  {"배변은 베란다나 실내 패드로 해결하세요"},
			},
		},
	},
	KeyPlants: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"식물에 물을 주고 잎을 닦아주세요"},
			airquality.LevelModerate: {"잎에 쌓인 먼지를 분무기로 씻어내세요 (잎이 미세먼지를 흡착해 공기 정화에 기여)"},
			airquality.LevelBad:      {"공기 정화 식물을 창가에서 거실 안쪽으로 옮기세요"},
			airquality.LevelVeryBad:  {"잎을 젖은 천으로 닦아주세요 (먼지가 쌓이면 정화 기능이 저하됨)"},
		},
	},
	KeySofa: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"소파 커버를 세탁하기 좋은 날이에요"},
			airquality.LevelModerate: {"패브릭 가구를 청소기로 밀어주세요"},
			airquality.LevelBad:      {"소파를 두드리지 말고 청소기로만 청소하세요 (먼지가 재비산할 수 있음)"},
			airquality.LevelVeryBad:  {"가구 표면을 젖은 천으로 닦으세요 (마른 걸레는 먼지를 날릴 수 있음)"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condChild: {
				airquality.LevelBad:     {"아이가 앉는 자리는 물걸레로 한 번 더 닦아주세요"},
				airquality.LevelVeryBad: {"아이가 앉는 자리는 물걸레로 한 번 더 닦아주세요"},
			},
		},
	},
	KeyLight: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"자연광을 활용하고 조명은 꺼두세요"},
			airquality.LevelModerate: {"램프 갓에 쌓인 먼지를 닦아주세요"},
			airquality.LevelBad:      {"조명 주변 먼지를 물걸레로 제거하세요 (열기류가 먼지를 순환시킴)"},
			airquality.LevelVeryBad:  {"천장 조명 주변을 청소하세요 (대류로 먼지가 방 전체에 퍼질 수 있음)"},
		},
	},
	KeyStove: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"요리 후에도 5분간 환풍기를 켜두세요"},
			airquality.LevelModerate: {"조리 중에는 반드시 후드를 켜세요 (조리 연기는 초미세먼지를 다량 유발함)"},
			airquality.LevelBad:      {"굽거나 튀기는 요리를 줄이세요 (실내 미세먼지 농도를 크게 높일 수 있음)"},
			airquality.LevelVeryBad:  {"오늘은 기름 요리를 피하세요 (환기가 어려워 연기가 실내에 축적됨)"},
		},
	},
	KeySink: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"외출 후 손을 씻는 습관을 유지하세요"},
			airquality.LevelModerate: {"외출 후 손과 얼굴을 씻으세요 (피부에 붙은 먼지를 씻어냄)"},
			airquality.LevelBad:      {"귀가 즉시 손, 얼굴, 코 속까지 씻으세요 (점막에 붙은 먼지가 염증을 유발할 수 있음)"},
			airquality.LevelVeryBad:  {"샤워로 온몸의 먼지를 씻어내세요"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condHealthPrefix + "allergy_rhinitis": {
				airquality.LevelModerate: {"식염수로 코를 세척하세요 (비염 증상 완화에 권장됨)"},
				airquality.LevelBad:      {"식염수로 코를 세척하세요 (비염 증상 완화에 권장됨)"},
				airquality.LevelVeryBad:  {"외출했다면 귀가 즉시 코 세척을 하세요"},
			},
		},
	},
	KeyFan: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"공기청정기는 절전 모드로 충분해요"},
			airquality.LevelModerate: {"공기청정기를 자동 모드로 켜두세요"},
			airquality.LevelBad:      {"공기청정기를 강 모드로 가동하세요"},
			airquality.LevelVeryBad:  {"공기청정기를 최대 출력으로 가동하고 방문을 닫으세요 (좁은 공간일수록 정화 효율 증가)"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condHealthPrefix + "asthma": {
				airquality.LevelModerate: {"침실에 공기청정기를 두고 주무세요 (수면 중 노출 감소)"},
				airquality.LevelBad:      {"침실에 공기청정기를 두고 주무세요 (수면 중 노출 감소)"},
				airquality.LevelVeryBad:  {"흡입기를 가까운 곳에 준비해두세요 (고농도 노출은 발작을 유발할 수 있음)"},
			},
		},
	},
	KeyDoor: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"가벼운 옷차림으로 외출을 즐기세요"},
			airquality.LevelModerate: {"외출 전 미세먼지 농도를 한 번 더 확인하세요"},
			airquality.LevelBad:      {"외출 시 보건용 마스크(KF80 이상)를 착용하세요"},
			airquality.LevelVeryBad:  {"꼭 필요한 외출이 아니면 실내에 머무르세요 (고농도 노출은 호흡기 질환을 악화시킴)"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condHealthPrefix + "lung_disease": {
				airquality.LevelModerate: {"외출 시간을 짧게 잡고 마스크를 착용하세요"},
				airquality.LevelBad:      {"외출을 최소화하세요 (폐질환 환자는 증상 악화 위험이 큼)"},
				airquality.LevelVeryBad:  {"외출을 금지하고 실내에서 안정을 취하세요"},
			},
			condAgeElderly: {
				airquality.LevelBad:     {"무리한 야외 활동을 피하세요 (노년층은 심혈관 부담이 증가함)"},
				airquality.LevelVeryBad: {"외출을 삼가고 수분을 자주 섭취하세요"},
			},
			condAgePrefix + "child": {
				airquality.LevelBad:     {"야외 활동 대신 실내 놀이를 준비하세요"},
				airquality.LevelVeryBad: {"등하교 시 마스크 착용을 꼭 확인해주세요"},
			},
			condChild: {
				airquality.LevelBad:     {"아이 외출 시 소형 마스크를 챙겨주세요"},
				airquality.LevelVeryBad: {"아이와의 외출은 미루는 것이 좋아요"},
			},
		},
	},
	KeyRefrigeator: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"신선한 과일과 채소를 챙겨 드세요"},
			airquality.LevelModerate: {"물을 자주 마시세요 (수분이 점막의 먼지 배출을 보조함)"},
			airquality.LevelBad:      {"하루 8잔 이상 물을 마시세요 (기관지 점막 건조를 막아줌)"},
			airquality.LevelVeryBad:  {"따뜻한 물과 차를 수시로 마시세요"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condAgeElderly: {
				airquality.LevelModerate: {"한 번에 많이보다 조금씩 자주 마시세요"},
				airquality.LevelBad:      {"한 번에 많이보다 조금씩 자주 마시세요 (노년층은 탈수에 더 취약함)"},
				airquality.LevelVeryBad:  {"한 번에 많이보다 조금씩 자주 마시세요 (노년층은 탈수에 더 취약함)"},
			},
		},
	},
	KeyClean: {
		base: map[airquality.Level][]string{
			airquality.LevelGood:     {"환기와 함께 청소하기 좋은 날이에요"},
			airquality.LevelModerate: {"청소기보다 물걸레 청소를 먼저 하세요"},
			airquality.LevelBad:      {"마른 빗자루 청소는 피하세요 (가라앉은 먼지가 재비산함)"},
			airquality.LevelVeryBad:  {"물걸레로만 청소하세요 (마른 청소는 먼지를 다시 날릴 수 있음)"},
		},
		conditional: map[string]map[airquality.Level][]string{
			condPetDog: {
				airquality.LevelModerate: {"반려견 방석과 장난감도 함께 세탁하세요"},
				airquality.LevelBad:      {"반려견 털이 쌓이는 구석을 집중적으로 청소하세요 (털이 먼지를 붙잡아 축적시킴)"},
				airquality.LevelVeryBad:  {"반려견 털이 쌓이는 구석을 집중적으로 청소하세요 (털이 먼지를 붙잡아 축적시킴)"},
			},
			condHealthPrefix + "allergy_rhinitis": {
				airquality.LevelBad:     {"청소 중에는 마스크를 착용하세요 (청소 먼지가 비염을 유발할 수 있음)"},
				airquality.LevelVeryBad: {"청소 중에는 마스크를 착용하세요 (청소 먼지가 비염을 유발할 수 있음)"},
			},
		},
	},
}
