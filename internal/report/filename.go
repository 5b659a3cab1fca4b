package report

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const dateLayout = "2006-01-02"

// Slug strips diacritics and replaces every run of characters outside
// [A-Za-z0-9] with a single underscore.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Filename names a single-candidate report: Relatorio_<Name>_<YYYY-MM-DD>.pdf.
func Filename(candidate string, date time.Time) string {
	name := Slug(candidate)
	if name == "" {
		name = "Candidato"
	}
	return "Relatorio_" + name + "_" + date.Format(dateLayout) + ".pdf"
}

// JobFilename names a roster or batch export: Relatorio_<Job>_<kind>_<YYYY-MM-DD>.pdf.
func JobFilename(jobTitle string, mode Mode, date time.Time) string {
	job := Slug(jobTitle)
	if job == "" {
		job = "Vaga"
	}
	kind := "Lote"
	if mode == ModeRoster {
		kind = "Resumo"
	}
	return "Relatorio_" + job + "_" + kind + "_" + date.Format(dateLayout) + ".pdf"
}

func filenameFor(req Request, date time.Time) string {
	if req.Mode == ModeSingle {
		return Filename(req.Entries[0].Application.Candidate.Name, date)
	}
	return JobFilename(req.Job.Title, req.Mode, date)
}
