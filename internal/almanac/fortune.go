package almanac

// DailyFortune is the day's almanac page.
type DailyFortune struct {
	Date      DateLabels       `json:"date"`
	Fortune   FortuneSummary   `json:"fortune"`
	Advice    ProgrammerAdvice `json:"programmerAdvice"`
	Lifestyle Lifestyle        `json:"lifestyle"`
}

// DateLabels holds the display forms of the fortune's date.
type DateLabels struct {
	Gregorian string `json:"gregorian"`
	Lunar     string `json:"lunar"`
}

// FortuneSummary is the overall star score with the things to do and avoid.
type FortuneSummary struct {
	Score     int      `json:"score"`
	DoList    []string `json:"doList"`
	AvoidList []string `json:"avoidList"`
}

// ProgrammerAdvice holds the programming-flavoured fields.
type ProgrammerAdvice struct {
	LuckyLanguage         string `json:"luckyLanguage"`
	LuckyScore            int    `json:"luckyScore"`
	CodeTypeAdvice        string `json:"codeTypeAdvice"`
	BugProbabilityPercent int    `json:"bugProbabilityPercent"`
	BestWorkWindow        string `json:"bestWorkWindow"`
	WorkPosition          string `json:"workPosition"`
	MeetingSuitable       bool   `json:"meetingSuitable"`
	CodeReviewSuitable    bool   `json:"codeReviewSuitable"`
	DeploySuitable        bool   `json:"deploySuitable"`
}

// Lifestyle holds dress and luck fields.
type Lifestyle struct {
	DressStyle     string `json:"dressStyle"`
	LuckyColor     string `json:"luckyColor"`
	LuckyNumber    int    `json:"luckyNumber"`
	LuckyDirection string `json:"luckyDirection"`
}

// DetailedFortune breaks the day down by aspect and by double-hour.
type DetailedFortune struct {
	Aspects   []Aspect   `json:"aspects"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// Aspect is one area of life with its own score.
type Aspect struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// TimeSlot is a two-hour period and its verdict.
type TimeSlot struct {
	Label   string  `json:"label"`
	Verdict Verdict `json:"verdict"`
}

// Verdict rates a time slot.
type Verdict string

const (
	VerdictAuspicious   Verdict = "auspicious"
	VerdictNeutral      Verdict = "neutral"
	VerdictInauspicious Verdict = "inauspicious"
)

// DisplayName returns the single-character almanac label (吉/平/凶).
func (v Verdict) DisplayName() string {
	switch v {
	case VerdictAuspicious:
		return "吉"
	case VerdictInauspicious:
		return "凶"
	default:
		return "平"
	}
}

// Daily builds the DailyFortune for d. The zero Date means today.
func Daily(d Date) DailyFortune {
	d = d.orToday()
	h := Hash(d)
	bucket := h % 10

	return DailyFortune{
		Date: DateLabels{
			Gregorian: GregorianLabel(d),
			Lunar:     LunarLabel(d),
		},
		Fortune: FortuneSummary{
			Score:     h%5 + 1,
			DoList:    SelectMany(doItems, h, listSize, seedDo),
			AvoidList: SelectMany(avoidItems, h, listSize, seedAvoid),
		},
		Advice: ProgrammerAdvice{
			LuckyLanguage:         SelectOne(languages, h, seedLanguage),
			LuckyScore:            bucket + 1,
			CodeTypeAdvice:        SelectOne(codeTypes, h, seedCodeType),
			BugProbabilityPercent: h%30 + 10,
			BestWorkWindow:        SelectOne(workWindows, h, seedWorkWindow),
			WorkPosition:          SelectOne(workPositions, h, seedPosition),
			MeetingSuitable:       bucket > 5,
			CodeReviewSuitable:    bucket > 4,
			DeploySuitable:        bucket > 6,
		},
		Lifestyle: Lifestyle{
			DressStyle:     SelectOne(dressStyles, h, seedDress),
			LuckyColor:     SelectOne(luckyColors, h, seedColor),
			LuckyNumber:    bucket,
			LuckyDirection: SelectOne(directionNames, h, seedDirection),
		},
	}
}

// Detailed builds the DetailedFortune for d. The zero Date means today.
func Detailed(d Date) DetailedFortune {
	h := Hash(d.orToday())

	aspects := make([]Aspect, 0, len(aspectDefs))
	for _, def := range aspectDefs {
		aspects = append(aspects, Aspect{
			Name:        def.name,
			Score:       (h+def.scoreOffset)%5 + 1,
			Description: SelectOne(def.descriptions, h, def.seed),
		})
	}

	slots := make([]TimeSlot, 0, len(timeSlotLabels))
	for i, label := range timeSlotLabels {
		slots = append(slots, TimeSlot{
			Label:   label,
			Verdict: SelectOne(verdicts, h, seedFirstSlot+i),
		})
	}

	return DetailedFortune{Aspects: aspects, TimeSlots: slots}
}
