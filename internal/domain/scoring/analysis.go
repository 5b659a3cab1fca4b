package scoring

import "math"

// Recommendation thresholds on the overall score.
const (
	HighlyQualifiedThreshold  = 80
	GoodPotentialThreshold    = 60
	PartiallyAlignedThreshold = 40
)

// Level is the recommendation tier derived from the overall score.
type Level string

// Recommendation levels.
const (
	LevelHighlyQualified  Level = "highly_qualified"
	LevelGoodPotential    Level = "good_potential"
	LevelPartiallyAligned Level = "partially_aligned"
	LevelLowAlignment     Level = "low_alignment"
	LevelInsufficientData Level = "insufficient_data"
)

var levelText = map[Level]string{ //nolint:gochecknoglobals // presentation strings
	LevelHighlyQualified:  "highly qualified, immediate interview",
	LevelGoodPotential:    "good potential, next phase",
	LevelPartiallyAligned: "partially aligned, review specifics",
	LevelLowAlignment:     "low alignment to job profile",
	LevelInsufficientData: "insufficient data",
}

// String returns the human readable recommendation.
func (l Level) String() string {
	if s, ok := levelText[l]; ok {
		return s
	}
	return string(l)
}

// Recommendation pairs the machine level with its display text.
type Recommendation struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Recommend maps an overall score to a recommendation. hasData is false when
// no category could be scored.
func Recommend(overall int, hasData bool) Recommendation {
	var lvl Level
	switch {
	case !hasData:
		lvl = LevelInsufficientData
	case overall >= HighlyQualifiedThreshold:
		lvl = LevelHighlyQualified
	case overall >= GoodPotentialThreshold:
		lvl = LevelGoodPotential
	case overall >= PartiallyAlignedThreshold:
		lvl = LevelPartiallyAligned
	default:
		lvl = LevelLowAlignment
	}
	return Recommendation{Level: lvl, Text: lvl.String()}
}

// CategoryScore is the averaged score of the answered questions of one category.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Answered int      `json:"answered"`
}

// AnalysisResult is the full taxonomy analysis of one questionnaire.
type AnalysisResult struct {
	Categories     []CategoryScore `json:"categories"`
	Overall        int             `json:"overall"`
	Recommendation Recommendation  `json:"recommendation"`
}

// Score returns the score of a category and whether it was present.
func (r AnalysisResult) Score(c Category) (int, bool) {
	for _, cs := range r.Categories {
		if cs.Category == c {
			return cs.Score, true
		}
	}
	return 0, false
}

type resolver func(answer string) int

// AggregateCategory averages the answered questions of a category. It returns
// false when none of the category's questions has a non-empty answer.
func AggregateCategory(c Category, answers map[string]string) (CategoryScore, bool) {
	return aggregate(c, answers, ScoreAnswer)
}

func aggregate(c Category, answers map[string]string, score resolver) (CategoryScore, bool) {
	var sum, n int
	for _, qid := range QuestionsFor(c) {
		raw, ok := answers[qid]
		if !ok {
			continue
		}
		text := ParseAnswer(raw).Text
		if text == "" {
			continue
		}
		sum += score(text)
		n++
	}
	if n == 0 {
		return CategoryScore{}, false
	}
	return CategoryScore{Category: c, Score: roundMean(sum, n), Answered: n}, true
}

// ComputeAnalysis scores every taxonomy category present in answers. It has
// no side effects; equal input gives equal output.
func ComputeAnalysis(answers map[string]string) AnalysisResult {
	return compute(answers, ScoreAnswer, nil)
}

func compute(answers map[string]string, score resolver, omitted func(Category)) AnalysisResult {
	res := AnalysisResult{Categories: []CategoryScore{}}
	sum := 0
	for _, entry := range taxonomy {
		cs, ok := aggregate(entry.category, answers, score)
		if !ok {
			if omitted != nil {
				omitted(entry.category)
			}
			continue
		}
		res.Categories = append(res.Categories, cs)
		sum += cs.Score
	}
	if len(res.Categories) > 0 {
		res.Overall = roundMean(sum, len(res.Categories))
	}
	res.Recommendation = Recommend(res.Overall, len(res.Categories) > 0)
	return res
}

// ChartDataset is the bar/radar chart input derived from an analysis.
type ChartDataset struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Max    int      `json:"max"`
}

// ChartData lays out the present categories in taxonomy order for charting.
func ChartData(r AnalysisResult) ChartDataset {
	ds := ChartDataset{
		Labels: make([]string, 0, len(r.Categories)),
		Values: make([]int, 0, len(r.Categories)),
		Max:    100,
	}
	for _, cs := range r.Categories {
		ds.Labels = append(ds.Labels, string(cs.Category))
		ds.Values = append(ds.Values, cs.Score)
	}
	return ds
}

func roundMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
