package scoring

import "strings"

// AnswerTableVersion identifies the revision of the exact-match table below.
// Bump it whenever an entry is added, removed or re-scored so stored
// analyses can be traced back to the table that produced them.
const AnswerTableVersion = "2024.2"

// UnknownAnswerDefaultScore is the neutral score given to answers that match
// neither the exact table nor the substring heuristic.
const UnknownAnswerDefaultScore = 50

// Path tells which lookup stage resolved an answer.
type Path string

// Lookup stages, in the order they are tried.
const (
	PathExact     Path = "exact"
	PathHeuristic Path = "heuristic"
	PathDefault   Path = "default"
)

// answerTable maps known answer strings to scores. Five-level scales use
// 0/25/50/75/100, three-level scales plus "none" use 0/33/66/100.
var answerTable = map[string]int{ //nolint:gochecknoglobals // immutable lookup table
	// experience length
	"Sem experiência": 0,
	"Menos de 1 ano":  25,
	"1 a 2 anos":      50,
	"3 a 5 anos":      75,
	"Mais de 5 anos":  100,

	// experience in the job's field
	"Nenhuma experiência na área": 0,
	"Pouca experiência na área":   33,
	"Experiência moderada":        66,
	"Ampla experiência na área":   100,

	// seniority
	"Estagiário":   0,
	"Júnior":       25,
	"Pleno":        50,
	"Sênior":       75,
	"Especialista": 100,

	// knowledge level
	"Nenhum":        0,
	"Básico":        25,
	"Intermediário": 50,
	"Avançado":      75,

	// languages
	"Avançado / Fluente": 100,
	"Fluente":            100,
	"Nativo":             100,

	// education
	"Ensino Fundamental":  0,
	"Ensino Médio":        25,
	"Superior Incompleto": 50,
	"Superior Completo":   75,
	"Pós-graduação":       100,
	"Mestrado":            100,
	"Doutorado":           100,

	// certifications
	"Nenhuma certificação":    0,
	"1 certificação":          33,
	"2 a 3 certificações":     66,
	"Mais de 3 certificações": 100,

	// leadership
	"Nunca liderei equipes":    0,
	"Liderança informal":       33,
	"Liderei equipes pequenas": 66,
	"Liderei equipes grandes":  100,
	"Nenhuma equipe":           0,
	"Até 5 pessoas":            33,
	"6 a 15 pessoas":           66,
	"Mais de 15 pessoas":       100,

	// quality rating
	"Ruim":      0,
	"Regular":   25,
	"Bom":       50,
	"Muito bom": 75,
	"Excelente": 100,

	// frequency
	"Nunca":          0,
	"Raramente":      25,
	"Às vezes":       50,
	"Frequentemente": 75,
	"Sempre":         100,

	// salary expectation vs offered range
	"Muito acima da faixa": 0,
	"Acima da faixa":       33,
	"A combinar":           50,
	"Abaixo da faixa":      66,
	"Dentro da faixa":      100,

	// start availability
	"Imediata":        100,
	"Em até 15 dias":  75,
	"Em até 30 dias":  50,
	"Em até 60 dias":  25,
	"Mais de 60 dias": 0,

	// yes / conditional / no
	"Sim":                 100,
	"Depende da proposta": 50,
	"Não":                 0,

	// values alignment
	"Totalmente alinhado":   100,
	"Muito alinhado":        75,
	"Parcialmente alinhado": 50,
	"Pouco alinhado":        25,
	"Não alinhado":          0,

	// motivation
	"Muito baixa": 0,
	"Baixa":       25,
	"Média":       50,
	"Alta":        75,
	"Muito alta":  100,
}

// KnownAnswers returns a copy of the exact-match table.
func KnownAnswers() map[string]int {
	out := make(map[string]int, len(answerTable))
	for k, v := range answerTable {
		out[k] = v
	}
	return out
}

// LookupExact returns the tabulated score for answer, if any.
func LookupExact(answer string) (int, bool) {
	score, ok := answerTable[answer]
	return score, ok
}

// Heuristic scores free text by substring, checking the most specific
// markers first. The second return is false when nothing matched.
func Heuristic(answer string) (int, bool) {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "avançad"), strings.Contains(lower, "fluente"):
		return 100, true
	case strings.Contains(lower, "intermediári"):
		return 50, true
	case strings.Contains(lower, "básic"):
		return 25, true
	case strings.Contains(lower, "nenhum"), strings.Contains(lower, "não"):
		return 0, true
	}
	return 0, false
}

// Resolve scores an answer and reports which stage produced the score.
// Surrounding whitespace is ignored.
func Resolve(answer string) (int, Path) {
	answer = strings.TrimSpace(answer)
	if score, ok := LookupExact(answer); ok {
		return score, PathExact
	}
	if score, ok := Heuristic(answer); ok {
		return score, PathHeuristic
	}
	return UnknownAnswerDefaultScore, PathDefault
}

// ScoreAnswer maps an answer to a 0-100 score. It never fails: unrecognized
// input resolves to UnknownAnswerDefaultScore.
func ScoreAnswer(answer string) int {
	score, _ := Resolve(answer)
	return score
}
