package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/seed"
)

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	scoreInputFile = ""
	exportApplicationID, exportJobID, exportMode, exportOutDir, exportOutFile = "", "", string(report.ModeRoster), ".", ""
	seedCfg = seed.DefaultConfig()
	seedSQLite = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	convey.Convey("Given a questionnaire file", t, func() {
		path := filepath.Join(t.TempDir(), "answers.json")
		body := `{"answers":{"ingles":"Fluente","espanhol":"Fluente","prioridades":"Priorizo por prazo|3"},
			"scored_questions":[{"id":"prioridades","question":"Como?","options":[
				{"text":"a","score":1},{"text":"b","score":2},{"text":"Priorizo por prazo","score":3},{"text":"d","score":4}]}]}`
		convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)

		convey.Convey("When scoring it", func() {
			out, err := execute(t, "score", "--in", path)

			convey.Convey("Then the analysis is printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var a service.Analysis
				convey.So(json.Unmarshal([]byte(out), &a), convey.ShouldBeNil)
				convey.So(a.Result.Overall, convey.ShouldEqual, 100)
				convey.So(a.Chart.Labels, convey.ShouldResemble, []string{"Idiomas"})
				convey.So(a.Custom.Average, convey.ShouldEqual, 75)
			})
		})

		convey.Convey("When a scored question is malformed", func() {
			bad := filepath.Join(t.TempDir(), "bad.json")
			convey.So(os.WriteFile(bad, []byte(`{"answers":{},"scored_questions":[{"id":"x","question":"q","options":[]}]}`), 0o600), convey.ShouldBeNil)
			_, err := execute(t, "score", "--in", bad)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "invalid scored question definition")
		})

		convey.Convey("When the input has no answers", func() {
			empty := filepath.Join(t.TempDir(), "empty.json")
			convey.So(os.WriteFile(empty, []byte(`{}`), 0o600), convey.ShouldBeNil)
			_, err := execute(t, "score", "--in", empty)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestExportFlags(t *testing.T) {
	convey.Convey("Given the export command", t, func() {
		convey.Convey("When neither target is given", func() {
			_, err := execute(t, "export")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "must provide either")
		})

		convey.Convey("When both targets are given", func() {
			_, err := execute(t, "export", "--application", "a", "--job", "j")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "cannot use")
		})

		convey.Convey("When the job mode is unknown", func() {
			_, err := execute(t, "export", "--job", "j", "--mode", "single")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "unknown --mode")
		})
	})
}

func TestSeedThenSpreadsheet(t *testing.T) {
	convey.Convey("Given an empty SQLite store", t, func() {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "seed.db")
		t.Setenv("RECRUTA_STORE__SQLITE_PATH", dbPath)

		convey.Convey("When seeding it", func() {
			out, err := execute(t, "seed", "--jobs", "1", "--applications", "3")
			convey.So(err, convey.ShouldBeNil)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			convey.So(lines, convey.ShouldHaveLength, 4)
			jobFields := strings.Split(lines[0], "\t")
			convey.So(jobFields[0], convey.ShouldEqual, "job")

			convey.Convey("Then the job exports as a workbook", func() {
				out, err := execute(t, "export", "--job", jobFields[1], "--mode", "sheet", "--out-dir", dir)
				convey.So(err, convey.ShouldBeNil)

				path := strings.TrimSpace(out)
				convey.So(filepath.Ext(path), convey.ShouldEqual, ".xlsx")
				info, err := os.Stat(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("Then an unknown job is not found", func() {
				_, err := execute(t, "export", "--job", "missing", "--mode", "sheet", "--out-dir", dir)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "not found")
			})
		})
	})
}

func TestStoreDSN(t *testing.T) {
	convey.Convey("The DSN follows the driver", t, func() {
		cfg, err := setup(t.Context(), &bytes.Buffer{})
		convey.So(err, convey.ShouldBeNil)
		cfg.Store.SQLitePath = "local.db"
		cfg.Store.DatabaseURL = "postgres://db"
		convey.So(storeDSN(cfg), convey.ShouldEqual, "local.db")
		cfg.Store.Driver = "postgres"
		convey.So(storeDSN(cfg), convey.ShouldEqual, "postgres://db")
	})
}

func TestNewCompositor(t *testing.T) {
	convey.Convey("Given the default config with the estimating measurer", t, func() {
		t.Setenv("RECRUTA_RENDER__MEASURER", "estimate")
		cfg, err := setup(t.Context(), &bytes.Buffer{})
		convey.So(err, convey.ShouldBeNil)

		c, err := newCompositor(cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(c.Layout().PageWidth, convey.ShouldEqual, cfg.Render.PageWidth)
	})
}
