package layout_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

func sections(heights ...float64) []layout.Section {
	out := make([]layout.Section, len(heights))
	for i, h := range heights {
		out[i] = layout.Section{ID: fmt.Sprintf("s%d", i), Kind: layout.KindCard, Height: h}
	}
	return out
}

func ids(p layout.Page) []string {
	out := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.ID
	}
	return out
}

func TestLayout(t *testing.T) {
	Convey("Given the default A4 layout", t, func() {
		l := layout.A4()

		Convey("Then the usable height excludes header and footer", func() {
			So(l.Usable(), ShouldEqual, 1123-56-40)
			So(l.Validate(), ShouldBeNil)
		})

		Convey("When margins eat the whole page", func() {
			l.TopMargin = 1100
			So(errors.Is(l.Validate(), layout.ErrInvalidLayout), ShouldBeTrue)
		})

		Convey("When the width is zero", func() {
			l.PageWidth = 0
			So(errors.Is(l.Validate(), layout.ErrInvalidLayout), ShouldBeTrue)
		})
	})
}

func TestPack(t *testing.T) {
	Convey("Given sections that fit two per page", t, func() {
		pages := layout.Pack(sections(400, 400, 400, 400, 100), 1000)

		Convey("Then order is preserved and pages close when full", func() {
			So(len(pages), ShouldEqual, 3)
			So(ids(pages[0]), ShouldResemble, []string{"s0", "s1"})
			So(ids(pages[1]), ShouldResemble, []string{"s2", "s3"})
			So(ids(pages[2]), ShouldResemble, []string{"s4"})
			So(pages[0].Height, ShouldEqual, 800)
		})
	})

	Convey("Given a section exactly filling the remainder", t, func() {
		pages := layout.Pack(sections(600, 400), 1000)
		So(len(pages), ShouldEqual, 1)
		So(pages[0].Overflow, ShouldBeFalse)
	})

	Convey("Given an oversized section in the middle", t, func() {
		pages := layout.Pack(sections(300, 1500, 0, 200), 1000)

		Convey("Then it sits alone on its page flagged as overflow", func() {
			So(len(pages), ShouldEqual, 3)
			So(ids(pages[1]), ShouldResemble, []string{"s1"})
			So(pages[1].Overflow, ShouldBeTrue)
			So(pages[0].Overflow, ShouldBeFalse)
			So(ids(pages[2]), ShouldResemble, []string{"s2", "s3"})
		})
	})

	Convey("Given an oversized first section", t, func() {
		pages := layout.Pack(sections(2000), 1000)
		So(len(pages), ShouldEqual, 1)
		So(pages[0].Overflow, ShouldBeTrue)
	})

	Convey("Given no sections", t, func() {
		So(layout.Pack(nil, 1000), ShouldBeEmpty)
	})

	Convey("Given random section heights", t, func() {
		rng := rand.New(rand.NewSource(7))
		usable := layout.A4().Usable()
		for round := 0; round < 50; round++ {
			hs := make([]float64, 1+rng.Intn(30))
			for i := range hs {
				hs[i] = float64(rng.Intn(1400))
			}
			in := sections(hs...)
			pages := layout.Pack(in, usable)

			var flat []layout.Section
			for _, p := range pages {
				So(p.Sections, ShouldNotBeEmpty)
				if p.Height > usable {
					So(len(p.Sections), ShouldEqual, 1)
					So(p.Overflow, ShouldBeTrue)
				}
				flat = append(flat, p.Sections...)
			}
			So(flat, ShouldResemble, in)
		}
	})
}

func TestPackFixed(t *testing.T) {
	Convey("Given three roster cards at two per page", t, func() {
		pages := layout.PackFixed(sections(500, 500, 500), 2)

		Convey("Then the last page gets exactly one filler", func() {
			So(len(pages), ShouldEqual, 2)
			So(len(pages[1].Sections), ShouldEqual, 2)
			So(pages[1].Sections[0].ID, ShouldEqual, "s2")
			So(pages[1].Sections[1].IsFiller(), ShouldBeTrue)
			So(pages[0].Sections[1].IsFiller(), ShouldBeFalse)
		})
	})

	Convey("Given an even count", t, func() {
		pages := layout.PackFixed(sections(500, 500, 500, 500), 2)
		So(len(pages), ShouldEqual, 2)
		for _, p := range pages {
			for _, s := range p.Sections {
				So(s.IsFiller(), ShouldBeFalse)
			}
		}
	})

	Convey("Given a single card", t, func() {
		pages := layout.PackFixed(sections(500), 2)
		So(len(pages), ShouldEqual, 1)
		So(pages[0].Sections[1].Kind, ShouldEqual, layout.KindFiller)
	})

	Convey("Given degenerate input", t, func() {
		So(layout.PackFixed(nil, 2), ShouldBeEmpty)
		So(layout.PackFixed(sections(1), 0), ShouldBeEmpty)
	})
}

func TestEstimator(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default estimator", t, func() {
		e := layout.NewEstimator()
		width := float64(layout.DefaultPageWidth)

		Convey("Then estimates are deterministic and keep order", func() {
			blocks := []layout.Block{
				{ID: "card", Kind: layout.KindCard, Text: "Maria Souza"},
				{ID: "chart", Kind: layout.KindChart, Rows: 7},
			}
			a, err := e.Measure(ctx, blocks, width)
			So(err, ShouldBeNil)
			b, _ := e.Measure(ctx, blocks, width)
			So(a, ShouldResemble, b)
			So(a[0].ID, ShouldEqual, "card")
			So(a[1].Height, ShouldEqual, 96+7*30)
		})

		Convey("Then longer text yields taller sections", func() {
			short, _ := e.Measure(ctx, []layout.Block{{Kind: layout.KindCard, Text: "curta"}}, width)
			long, _ := e.Measure(ctx, []layout.Block{{Kind: layout.KindCard, Text: string(make([]byte, 2000))}}, width)
			So(long[0].Height, ShouldBeGreaterThan, short[0].Height)
		})

		Convey("Then fillers have no height", func() {
			out, _ := e.Measure(ctx, []layout.Block{{Kind: layout.KindFiller, Text: "ignored"}}, width)
			So(out[0].Height, ShouldEqual, 0)
		})

		Convey("Then a cancelled context is reported", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := e.Measure(cctx, nil, width)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given an estimator with overrides", t, func() {
		e := layout.NewEstimator(
			layout.WithKindHeight(layout.KindRoster, 300, 0),
			layout.WithTextMetrics(20, 10),
		)
		out, err := e.Measure(ctx, []layout.Block{{Kind: layout.KindRoster, Text: "x"}}, 794)
		So(err, ShouldBeNil)
		So(out[0].Height, ShouldEqual, 300)
	})
}
