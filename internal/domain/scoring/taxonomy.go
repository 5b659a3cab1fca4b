package scoring

// Category is one competency bucket of the questionnaire taxonomy.
type Category string

// Taxonomy categories. The order of declaration is the report order.
const (
	CategoryTecnico        Category = "Técnico"
	CategoryExperiencia    Category = "Experiência"
	CategoryLideranca      Category = "Liderança"
	CategoryComportamental Category = "Comportamental"
	CategoryFinanceiro     Category = "Financeiro"
	CategoryIdiomas        Category = "Idiomas"
	CategoryCultura        Category = "Cultura"
)

type categoryQuestions struct {
	category  Category
	questions []string
}

var taxonomy = []categoryQuestions{ //nolint:gochecknoglobals // fixed taxonomy
	{CategoryTecnico, []string{"conhecimento_tecnico", "ferramentas", "certificacoes", "formacao"}},
	{CategoryExperiencia, []string{"tempo_experiencia", "experiencia_area", "nivel_senioridade"}},
	{CategoryLideranca, []string{"experiencia_lideranca", "tamanho_equipe", "tomada_decisao"}},
	{CategoryComportamental, []string{"trabalho_equipe", "comunicacao", "resolucao_problemas", "adaptabilidade"}},
	{CategoryFinanceiro, []string{"pretensao_salarial"}},
	{CategoryIdiomas, []string{"ingles", "espanhol", "outros_idiomas"}},
	{CategoryCultura, []string{"disponibilidade", "alinhamento_valores", "disponibilidade_viagem", "mudanca", "motivacao"}},
}

// Categories returns the taxonomy categories in report order.
func Categories() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		out[i] = c.category
	}
	return out
}

// QuestionsFor returns the question ids mapped to a category, or nil for an
// unknown category.
func QuestionsFor(c Category) []string {
	for _, entry := range taxonomy {
		if entry.category == c {
			return append([]string(nil), entry.questions...)
		}
	}
	return nil
}

// CategoryOf returns the category a question id belongs to.
func CategoryOf(questionID string) (Category, bool) {
	for _, entry := range taxonomy {
		for _, q := range entry.questions {
			if q == questionID {
				return entry.category, true
			}
		}
	}
	return "", false
}
