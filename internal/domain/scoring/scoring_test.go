package scoring_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// goldenAnswers lists every exact-match answer with its expected score.
var goldenAnswers = []struct {
	answer string
	want   int
}{
	{"Sem experiência", 0},
	{"Menos de 1 ano", 25},
	{"1 a 2 anos", 50},
	{"3 a 5 anos", 75},
	{"Mais de 5 anos", 100},
	{"Nenhuma experiência na área", 0},
	{"Pouca experiência na área", 33},
	{"Experiência moderada", 66},
	{"Ampla experiência na área", 100},
	{"Estagiário", 0},
	{"Júnior", 25},
	{"Pleno", 50},
	{"Sênior", 75},
	{"Especialista", 100},
	{"Nenhum", 0},
	{"Básico", 25},
	{"Intermediário", 50},
	{"Avançado", 75},
	{"Avançado / Fluente", 100},
	{"Fluente", 100},
	{"Nativo", 100},
	{"Ensino Fundamental", 0},
	{"Ensino Médio", 25},
	{"Superior Incompleto", 50},
	{"Superior Completo", 75},
	{"Pós-graduação", 100},
	{"Mestrado", 100},
	{"Doutorado", 100},
	{"Nenhuma certificação", 0},
	{"1 certificação", 33},
	{"2 a 3 certificações", 66},
	{"Mais de 3 certificações", 100},
	{"Nunca liderei equipes", 0},
	{"Liderança informal", 33},
	{"Liderei equipes pequenas", 66},
	{"Liderei equipes grandes", 100},
	{"Nenhuma equipe", 0},
	{"Até 5 pessoas", 33},
	{"6 a 15 pessoas", 66},
	{"Mais de 15 pessoas", 100},
	{"Ruim", 0},
	{"Regular", 25},
	{"Bom", 50},
	{"Muito bom", 75},
	{"Excelente", 100},
	{"Nunca", 0},
	{"Raramente", 25},
	{"Às vezes", 50},
	{"Frequentemente", 75},
	{"Sempre", 100},
	{"Muito acima da faixa", 0},
	{"Acima da faixa", 33},
	{"A combinar", 50},
	{"Abaixo da faixa", 66},
	{"Dentro da faixa", 100},
	{"Imediata", 100},
	{"Em até 15 dias", 75},
	{"Em até 30 dias", 50},
	{"Em até 60 dias", 25},
	{"Mais de 60 dias", 0},
	{"Sim", 100},
	{"Depende da proposta", 50},
	{"Não", 0},
	{"Totalmente alinhado", 100},
	{"Muito alinhado", 75},
	{"Parcialmente alinhado", 50},
	{"Pouco alinhado", 25},
	{"Não alinhado", 0},
	{"Muito baixa", 0},
	{"Baixa", 25},
	{"Média", 50},
	{"Alta", 75},
	{"Muito alta", 100},
}

func TestScoreAnswer(t *testing.T) {
	Convey("Given the exact answer table", t, func() {
		Convey("Every known answer should score its tabulated value", func() {
			So(len(goldenAnswers), ShouldEqual, len(scoring.KnownAnswers()))
			for _, tc := range goldenAnswers {
				So(scoring.ScoreAnswer(tc.answer), ShouldEqual, tc.want)
				got, ok := scoring.LookupExact(tc.answer)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, tc.want)
				_, path := scoring.Resolve(tc.answer)
				So(path, ShouldEqual, scoring.PathExact)
			}
		})

		Convey("Surrounding whitespace does not change the score", func() {
			So(scoring.ScoreAnswer(" Avançado"), ShouldEqual, 75)
			So(scoring.ScoreAnswer("Imediata \n"), ShouldEqual, 100)
			_, path := scoring.Resolve("  Avançado  ")
			So(path, ShouldEqual, scoring.PathExact)

			a, ok := scoring.AggregateCategory(scoring.CategoryTecnico, map[string]string{"conhecimento_tecnico": " Avançado"})
			So(ok, ShouldBeTrue)
			So(a.Score, ShouldEqual, scoring.ScoreAnswer(" Avançado"))
		})

		Convey("Well-known answers keep their scores", func() {
			So(scoring.ScoreAnswer("Avançado / Fluente"), ShouldEqual, 100)
			So(scoring.ScoreAnswer("Avançado"), ShouldEqual, 75)
			So(scoring.ScoreAnswer("Excelente"), ShouldEqual, 100)
			So(scoring.ScoreAnswer("Imediata"), ShouldEqual, 100)
			So(scoring.ScoreAnswer("Sem experiência"), ShouldEqual, 0)
			So(scoring.ScoreAnswer("Mais de 5 anos"), ShouldEqual, 100)
		})

		Convey("Tabulated scores stay on the 5-level or 3-level scales", func() {
			allowed := map[int]bool{0: true, 25: true, 33: true, 50: true, 66: true, 75: true, 100: true}
			for _, score := range scoring.KnownAnswers() {
				So(allowed[score], ShouldBeTrue)
			}
		})
	})

	Convey("Given answers outside the table", t, func() {
		Convey("Text containing básic should score 25", func() {
			for _, s := range []string{"Conhecimento básico em Excel", "BÁSICO", "nível basico? básica"} {
				_, exact := scoring.LookupExact(s)
				So(exact, ShouldBeFalse)
				So(scoring.ScoreAnswer(s), ShouldEqual, 25)
			}
		})

		Convey("The heuristic checks the stronger markers first", func() {
			So(scoring.ScoreAnswer("Inglês avançado"), ShouldEqual, 100)
			So(scoring.ScoreAnswer("quase fluente"), ShouldEqual, 100)
			So(scoring.ScoreAnswer("Espanhol intermediário"), ShouldEqual, 50)
			So(scoring.ScoreAnswer("Nenhuma ideia"), ShouldEqual, 0)
			So(scoring.ScoreAnswer("Ainda não"), ShouldEqual, 0)
			_, path := scoring.Resolve("Ainda não")
			So(path, ShouldEqual, scoring.PathHeuristic)
		})

		Convey("Unrecognized text should score the neutral default", func() {
			So(scoring.ScoreAnswer("xyz"), ShouldEqual, 50)
			So(scoring.ScoreAnswer("xyz"), ShouldEqual, scoring.UnknownAnswerDefaultScore)
			_, path := scoring.Resolve("xyz")
			So(path, ShouldEqual, scoring.PathDefault)
		})

		Convey("Heuristic reports no match for unrelated text", func() {
			_, ok := scoring.Heuristic("Python e Go")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAggregateCategory(t *testing.T) {
	Convey("Given answers for a single category", t, func() {
		answers := map[string]string{"ingles": "Avançado / Fluente"}

		Convey("The answered category should be present with the mean", func() {
			cs, ok := scoring.AggregateCategory(scoring.CategoryIdiomas, answers)
			So(ok, ShouldBeTrue)
			So(cs.Score, ShouldEqual, 100)
			So(cs.Answered, ShouldEqual, 1)
		})

		Convey("An unanswered category should be absent, not zero", func() {
			_, ok := scoring.AggregateCategory(scoring.CategoryTecnico, answers)
			So(ok, ShouldBeFalse)
		})

		Convey("Blank answers do not count as answered", func() {
			_, ok := scoring.AggregateCategory(scoring.CategoryTecnico, map[string]string{"ferramentas": "   "})
			So(ok, ShouldBeFalse)
		})

		Convey("The mean is rounded half away from zero", func() {
			cs, ok := scoring.AggregateCategory(scoring.CategoryExperiencia, map[string]string{
				"tempo_experiencia": "Menos de 1 ano",
				"experiencia_area":  "Nenhuma experiência na área",
			})
			So(ok, ShouldBeTrue)
			So(cs.Score, ShouldEqual, 13)
		})

		Convey("Embedded score suffixes are stripped before lookup", func() {
			cs, ok := scoring.AggregateCategory(scoring.CategoryIdiomas, map[string]string{"ingles": "Fluente|4"})
			So(ok, ShouldBeTrue)
			So(cs.Score, ShouldEqual, 100)
		})
	})
}

func allAnswered(answer string) map[string]string {
	out := map[string]string{}
	for _, c := range scoring.Categories() {
		for _, q := range scoring.QuestionsFor(c) {
			out[q] = answer
		}
	}
	return out
}

func TestComputeAnalysis(t *testing.T) {
	Convey("Given no answers", t, func() {
		res := scoring.ComputeAnalysis(map[string]string{})

		Convey("Then there is insufficient data", func() {
			So(res.Categories, ShouldBeEmpty)
			So(res.Overall, ShouldEqual, 0)
			So(res.Recommendation.Level, ShouldEqual, scoring.LevelInsufficientData)
			So(res.Recommendation.Text, ShouldEqual, "insufficient data")
		})

		Convey("And nil input behaves the same", func() {
			So(scoring.ComputeAnalysis(nil), ShouldResemble, res)
		})
	})

	Convey("Given the candidate with fluent English and long experience", t, func() {
		res := scoring.ComputeAnalysis(map[string]string{
			"ingles":            "Avançado / Fluente",
			"tempo_experiencia": "Mais de 5 anos",
		})

		Convey("Then the overall score is 100 and highly qualified", func() {
			So(res.Overall, ShouldEqual, 100)
			So(res.Recommendation.Text, ShouldEqual, "highly qualified, immediate interview")
			So(len(res.Categories), ShouldEqual, 2)
		})

		Convey("And categories follow the taxonomy order", func() {
			So(res.Categories[0].Category, ShouldEqual, scoring.CategoryExperiencia)
			So(res.Categories[1].Category, ShouldEqual, scoring.CategoryIdiomas)
		})
	})

	Convey("Given every category scoring high", t, func() {
		res := scoring.ComputeAnalysis(allAnswered("Excelente"))
		So(len(res.Categories), ShouldEqual, len(scoring.Categories()))
		So(res.Recommendation.Level, ShouldEqual, scoring.LevelHighlyQualified)
	})

	Convey("Given every category scoring low", t, func() {
		res := scoring.ComputeAnalysis(allAnswered("Regular"))
		So(res.Overall, ShouldEqual, 25)
		So(res.Recommendation.Level, ShouldEqual, scoring.LevelLowAlignment)
	})

	Convey("Given identical input twice", t, func() {
		answers := map[string]string{
			"ingles":          "Intermediário",
			"comunicacao":     "Muito bom",
			"disponibilidade": "Em até 30 dias",
			"desconhecida":    "resposta livre",
		}
		So(scoring.ComputeAnalysis(answers), ShouldResemble, scoring.ComputeAnalysis(answers))
	})

	Convey("Given the threshold ladder", t, func() {
		So(scoring.Recommend(80, true).Level, ShouldEqual, scoring.LevelHighlyQualified)
		So(scoring.Recommend(79, true).Level, ShouldEqual, scoring.LevelGoodPotential)
		So(scoring.Recommend(60, true).Level, ShouldEqual, scoring.LevelGoodPotential)
		So(scoring.Recommend(59, true).Level, ShouldEqual, scoring.LevelPartiallyAligned)
		So(scoring.Recommend(40, true).Level, ShouldEqual, scoring.LevelPartiallyAligned)
		So(scoring.Recommend(39, true).Level, ShouldEqual, scoring.LevelLowAlignment)
		So(scoring.Recommend(0, false).Level, ShouldEqual, scoring.LevelInsufficientData)
	})
}

func TestChartData(t *testing.T) {
	Convey("Given an analysis", t, func() {
		res := scoring.ComputeAnalysis(map[string]string{
			"mudanca":     "Sim",
			"ferramentas": "Básico",
		})
		ds := scoring.ChartData(res)
		So(ds.Labels, ShouldResemble, []string{"Técnico", "Cultura"})
		So(ds.Values, ShouldResemble, []int{25, 100})
		So(ds.Max, ShouldEqual, 100)
	})
}

func TestEngine(t *testing.T) {
	Convey("Given an engine with an unknown-answer hook", t, func() {
		var unknown []string
		e := scoring.NewEngine(
			scoring.WithMetrics(false),
			scoring.WithUnknownAnswerHook(func(_ context.Context, answer string) {
				unknown = append(unknown, answer)
			}),
		)
		answers := map[string]string{"ingles": "Fluente", "ferramentas": "Jira e Confluence"}

		Convey("Its result matches the pure function", func() {
			So(e.Analyze(context.Background(), answers), ShouldResemble, scoring.ComputeAnalysis(answers))
			So(unknown, ShouldResemble, []string{"Jira e Confluence"})
		})
	})

	Convey("Given an instrumented engine", t, func() {
		e := scoring.NewEngine()
		res := e.Analyze(context.Background(), map[string]string{"comunicacao": "xyz"})
		So(res.Overall, ShouldEqual, scoring.UnknownAnswerDefaultScore)
	})
}

func TestParseAnswer(t *testing.T) {
	Convey("Given raw answer strings", t, func() {
		So(scoring.ParseAnswer("Sim|3"), ShouldResemble, scoring.Answer{Text: "Sim", Score: 3})
		So(scoring.ParseAnswer(" Ótimo | 4 "), ShouldResemble, scoring.Answer{Text: "Ótimo", Score: 4})
		So(scoring.ParseAnswer("a|b"), ShouldResemble, scoring.Answer{Text: "a|b"})
		So(scoring.ParseAnswer("x|5"), ShouldResemble, scoring.Answer{Text: "x|5"})
		So(scoring.ParseAnswer("x|0").Scored(), ShouldBeFalse)
		So(scoring.ParseAnswer("Intermediário"), ShouldResemble, scoring.Answer{Text: "Intermediário"})
	})
}

func definition(id string) scoring.ScoredQuestionDefinition {
	return scoring.ScoredQuestionDefinition{
		ID:       id,
		Question: "Como você lida com prazos apertados?",
		Options: []scoring.ScoredOption{
			{Text: "Perco o prazo", Score: 1},
			{Text: "Peço extensão", Score: 2},
			{Text: "Replanejo", Score: 3},
			{Text: "Antecipo riscos", Score: 4},
		},
	}
}

func TestScoreCustomQuestions(t *testing.T) {
	Convey("Given three author-scored questions", t, func() {
		defs := []scoring.ScoredQuestionDefinition{definition("q1"), definition("q2"), definition("q3")}
		answers := map[string]string{
			"q1": "Antecipo riscos|4",
			"q2": "Peço extensão",
			"q3": "Peço extensão|2",
		}
		sum := scoring.ScoreCustomQuestions(defs, answers)

		Convey("Then items follow definition order", func() {
			So(len(sum.Items), ShouldEqual, 3)
			So(sum.Items[0].QuestionID, ShouldEqual, "q1")
			So(sum.Items[2].QuestionID, ShouldEqual, "q3")
		})

		Convey("Embedded scores are used directly", func() {
			So(sum.Items[0].Percentage, ShouldEqual, 100)
			So(sum.Items[2].Percentage, ShouldEqual, 50)
		})

		Convey("Answers without an embedded score are not guessed", func() {
			So(sum.Items[1].Answered, ShouldBeFalse)
			So(sum.Items[1].Score, ShouldEqual, 0)
			So(sum.Items[1].Answer, ShouldEqual, "Peço extensão")
		})

		Convey("The average covers answered questions only", func() {
			So(sum.Answered, ShouldEqual, 2)
			So(sum.Average, ShouldEqual, 75)
		})
	})

	Convey("Given no definitions", t, func() {
		sum := scoring.ScoreCustomQuestions(nil, map[string]string{"q1": "x|4"})
		So(sum.Items, ShouldBeEmpty)
		So(sum.Average, ShouldEqual, 0)
	})
}

func TestValidateDefinition(t *testing.T) {
	Convey("Given a complete definition", t, func() {
		So(scoring.ValidateDefinition(definition("q1")), ShouldBeNil)
	})

	Convey("Given a definition with three options", t, func() {
		def := definition("q1")
		def.Options = def.Options[:3]
		err := scoring.ValidateDefinition(def)
		So(errors.Is(err, scoring.ErrInvalidDefinition), ShouldBeTrue)
	})

	Convey("Given a blank option text", t, func() {
		def := definition("q1")
		def.Options[2].Text = "   "
		So(errors.Is(scoring.ValidateDefinition(def), scoring.ErrInvalidDefinition), ShouldBeTrue)
		So(def.Options[2].Text, ShouldEqual, "   ")
	})

	Convey("Given a repeated score", t, func() {
		def := definition("q1")
		def.Options[3].Score = 3
		err := scoring.ValidateDefinition(def)
		So(errors.Is(err, scoring.ErrInvalidDefinition), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "more than once")
	})

	Convey("Given an out of range score", t, func() {
		def := definition("q1")
		def.Options[0].Score = 5
		So(errors.Is(scoring.ValidateDefinition(def), scoring.ErrInvalidDefinition), ShouldBeTrue)
	})

	Convey("Ranked orders options worst to best", t, func() {
		def := definition("q1")
		def.Options[0], def.Options[3] = def.Options[3], def.Options[0]
		ranked := def.Ranked()
		So(ranked[0].Score, ShouldEqual, 1)
		So(ranked[3].Score, ShouldEqual, 4)
	})
}

func TestQuestionSet(t *testing.T) {
	Convey("Given the legacy list shape", t, func() {
		var q scoring.QuestionSet
		So(json.Unmarshal([]byte(`["ingles","comunicacao"]`), &q), ShouldBeNil)
		So(q.Predefined, ShouldResemble, []string{"ingles", "comunicacao"})
		So(q.Scored, ShouldBeEmpty)
	})

	Convey("Given the structured shape", t, func() {
		var q scoring.QuestionSet
		So(json.Unmarshal([]byte(`{"predefined":["ingles"],"scored":["q1","q2"]}`), &q), ShouldBeNil)
		So(q.Predefined, ShouldResemble, []string{"ingles"})
		So(q.Scored, ShouldResemble, []string{"q1", "q2"})
	})

	Convey("Given null inside a struct", t, func() {
		var job struct {
			Questions scoring.QuestionSet `json:"custom_questions"`
		}
		So(json.Unmarshal([]byte(`{"custom_questions":null}`), &job), ShouldBeNil)
		So(job.Questions.Predefined, ShouldBeEmpty)
	})

	Convey("Given an unsupported shape", t, func() {
		var q scoring.QuestionSet
		err := json.Unmarshal([]byte(`42`), &q)
		So(errors.Is(err, scoring.ErrInvalidQuestionSet), ShouldBeTrue)
	})

	Convey("Marshal always writes the structured form", t, func() {
		b, err := json.Marshal(scoring.QuestionSet{Predefined: []string{"ingles"}})
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `{"predefined":["ingles"],"scored":[]}`)
	})
}
