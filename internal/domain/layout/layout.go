// Package layout packs measured report sections onto fixed-size pages.
package layout

import "fmt"

// A4 portrait at 96 dpi, with room for the running header and footer.
const (
	DefaultPageWidth    = 794
	DefaultPageHeight   = 1123
	DefaultTopMargin    = 56
	DefaultFooterHeight = 40
)

// Layout holds the page geometry in raster units (CSS pixels).
type Layout struct {
	PageWidth    float64 `json:"page_width"`
	PageHeight   float64 `json:"page_height"`
	TopMargin    float64 `json:"top_margin"`
	FooterHeight float64 `json:"footer_height"`
}

// A4 returns the default portrait geometry.
func A4() Layout {
	return Layout{
		PageWidth:    DefaultPageWidth,
		PageHeight:   DefaultPageHeight,
		TopMargin:    DefaultTopMargin,
		FooterHeight: DefaultFooterHeight,
	}
}

// Usable is the content height left between header and footer.
func (l Layout) Usable() float64 {
	return l.PageHeight - l.TopMargin - l.FooterHeight
}

// Validate rejects geometries that leave no content area.
func (l Layout) Validate() error {
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		return fmt.Errorf("%w: page %gx%g", ErrInvalidLayout, l.PageWidth, l.PageHeight)
	}
	if l.TopMargin < 0 || l.FooterHeight < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidLayout)
	}
	if l.Usable() <= 0 {
		return fmt.Errorf("%w: no usable height", ErrInvalidLayout)
	}
	return nil
}

// Kind classifies a section for estimation and rendering.
type Kind string

// Section kinds.
const (
	KindCard           Kind = "card"
	KindChart          Kind = "chart"
	KindRecommendation Kind = "recommendation"
	KindQuestions      Kind = "questions"
	KindRoster         Kind = "roster"
	KindFiller         Kind = "filler"
)

// Section is a measured, unsplittable block.
type Section struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	Height float64 `json:"height"`
}

// Page is an ordered group of sections. Overflow is set when a single
// section taller than the usable height was placed on it.
type Page struct {
	Sections []Section `json:"sections"`
	Height   float64   `json:"height"`
	Overflow bool      `json:"overflow,omitempty"`
}

// Pack distributes sections over pages greedily, in order. A page is closed
// when the next section would not fit and the page already holds something.
// Sections taller than usable end up alone on a page flagged Overflow.
func Pack(sections []Section, usable float64) []Page {
	var pages []Page
	var cur Page
	for _, s := range sections {
		if len(cur.Sections) > 0 && cur.Height+s.Height > usable {
			pages = append(pages, cur)
			cur = Page{}
		}
		cur.Sections = append(cur.Sections, s)
		cur.Height += s.Height
		if s.Height > usable {
			cur.Overflow = true
		}
	}
	if len(cur.Sections) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// PackFixed puts exactly perPage sections on every page, padding the last
// page with filler sections.
func PackFixed(sections []Section, perPage int) []Page {
	if perPage <= 0 || len(sections) == 0 {
		return nil
	}
	pages := make([]Page, 0, (len(sections)+perPage-1)/perPage)
	fillers := 0
	for start := 0; start < len(sections); start += perPage {
		end := min(start+perPage, len(sections))
		p := Page{Sections: append([]Section(nil), sections[start:end]...)}
		for len(p.Sections) < perPage {
			fillers++
			p.Sections = append(p.Sections, Filler(fillers))
		}
		for _, s := range p.Sections {
			p.Height += s.Height
		}
		pages = append(pages, p)
	}
	return pages
}

// Filler returns the n-th placeholder section.
func Filler(n int) Section {
	return Section{ID: fmt.Sprintf("filler-%d", n), Kind: KindFiller}
}

// IsFiller reports whether s is a placeholder.
func (s Section) IsFiller() bool { return s.Kind == KindFiller }
