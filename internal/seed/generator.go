package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const randomFloatDivisor = 1000000

//nolint:gochecknoglobals // sample vocabularies
var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fábio", "Gabriela", "Heitor", "Íris", "João", "Lívia", "Marcos"}
	lastNames  = []string{"Souza", "Lima", "Araújo", "Conceição", "Pereira", "Gonçalves", "Ribeiro", "Melo"}
	places     = [][2]string{{"Recife", "PE"}, {"São Paulo", "SP"}, {"Belo Horizonte", "MG"}, {"Porto Alegre", "RS"}, {"Natal", "RN"}}
	jobTitles  = []string{"Analista de Dados", "Desenvolvedor(a) Backend", "Coordenador(a) de RH", "Designer de Produto", "Engenheiro(a) de Dados"}
	companies  = []string{"Acme Tecnologia", "Nordeste Digital", "Grupo Horizonte"}
	unknown    = []string{"Jira e Confluence", "Prefiro não dizer", "Depende do projeto"}

	scoredQuestions = []scoring.ScoredQuestionDefinition{
		{
			ID:       "prioridades",
			Question: "Como você organiza demandas simultâneas?",
			Options: []scoring.ScoredOption{
				{Text: "Atendo na ordem em que chegam", Score: 1},
				{Text: "Peço ajuda ao gestor", Score: 2},
				{Text: "Priorizo por prazo", Score: 3},
				{Text: "Priorizo por impacto e prazo, e comunico", Score: 4},
			},
		},
		{
			ID:       "feedback",
			Question: "Como você reage a um feedback negativo?",
			Options: []scoring.ScoredOption{
				{Text: "Discordo e sigo como antes", Score: 1},
				{Text: "Aceito sem comentar", Score: 2},
				{Text: "Peço exemplos para entender", Score: 3},
				{Text: "Busco entender e monto um plano de melhoria", Score: 4},
			},
		},
	}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick[T any](xs []T) T {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(xs))))
	return xs[n.Int64()]
}

// answerPool lists the table answers in a stable order.
func answerPool() []string {
	table := scoring.KnownAnswers()
	out := make([]string, 0, len(table))
	for a := range table {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

type generator struct {
	cfg  Config
	pool []string
	now  func() time.Time
}

func newGenerator(cfg Config) *generator {
	return &generator{cfg: cfg, pool: answerPool(), now: time.Now}
}

// job creates one job using every scored sample question.
func (g *generator) job(index int) model.Job {
	ids := make([]string, len(scoredQuestions))
	for i, q := range scoredQuestions {
		ids[i] = q.ID
	}
	return model.Job{
		ID:              uuid.NewString(),
		Title:           pick(jobTitles),
		Company:         pick(companies),
		Location:        "Remoto",
		Questions:       scoring.QuestionSet{Scored: ids},
		ScoredQuestions: append([]scoring.ScoredQuestionDefinition(nil), scoredQuestions...),
		CreatedAt:       g.now().Add(-time.Duration(index) * time.Hour),
	}
}

// application creates one application for job. unknownCount receives the
// number of answers that fall outside the answer table.
func (g *generator) application(job model.Job, index int) (model.Application, int) { //nolint:gocritic // hugeParam: read-only copy
	first, last := pick(firstNames), pick(lastNames)
	place := pick(places)
	answers := make(map[string]string)
	unknownCount := 0

	for _, c := range scoring.Categories() {
		for _, qid := range scoring.QuestionsFor(c) {
			if getRandomFloat() < g.cfg.SkipRatio {
				continue
			}
			if getRandomFloat() < g.cfg.UnknownRatio {
				answers[qid] = pick(unknown)
				unknownCount++
				continue
			}
			answers[qid] = pick(g.pool)
		}
	}
	for _, def := range job.ScoredQuestions {
		opt := pick(def.Options)
		answers[def.ID] = opt.Text + "|" + strconv.Itoa(opt.Score)
	}

	return model.Application{
		ID:    uuid.NewString(),
		JobID: job.ID,
		Candidate: model.Candidate{
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s.%d@example.com", asciiLower(first), asciiLower(last), index),
			Phone:      fmt.Sprintf("(81) 9%04d-%04d", index%10000, (index*7919)%10000),
			City:       place[0],
			State:      place[1],
			Education:  pick([]string{"Ensino Superior", "Pós-graduação", "Mestrado"}),
			Experience: pick([]string{"2 anos", "4 anos", "Mais de 5 anos"}),
		},
		Answers:     answers,
		Status:      "submitted",
		SubmittedAt: job.CreatedAt.Add(time.Duration(index+1) * time.Minute),
	}, unknownCount
}

func asciiLower(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		}
	}
	return string(out)
}

// generate builds the dataset concurrently, keeping jobs and applications in
// index order.
func generate(ctx context.Context, cfg Config, stats *Stats) (Dataset, error) {
	g := newGenerator(cfg)
	logger.Get().Info(ctx, "generating seed data",
		logger.Int("jobs", cfg.Jobs),
		logger.Int("applicationsPerJob", cfg.ApplicationsPerJob),
	)

	ds := Dataset{Jobs: make([]model.Job, cfg.Jobs)}
	for i := range ds.Jobs {
		ds.Jobs[i] = g.job(i)
	}

	total := cfg.Jobs * cfg.ApplicationsPerJob
	ds.Applications = make([]model.Application, total)
	type appResult struct {
		index   int
		app     model.Application
		unknown int
	}
	results := make(chan appResult, total)

	workerCount := min(max(cfg.Workers, 1), max(total, 1))
	perWorker := total / workerCount
	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = total
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				job := ds.Jobs[i/cfg.ApplicationsPerJob]
				app, unknown := g.application(job, i%cfg.ApplicationsPerJob)
				results <- appResult{index: i, app: app, unknown: unknown}
			}
		}(start, end)
	}

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return Dataset{}, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-results:
			ds.Applications[r.index] = r.app
			stats.AnswersGenerated += len(r.app.Answers)
			stats.UnknownAnswers += r.unknown
		}
	}
	return ds, nil
}
