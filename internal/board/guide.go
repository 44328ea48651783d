package board

import "fmt"

// Slide is one onboarding card.
type Slide struct {
	Title string
	Body  string
}

// GuideCloseLabel is shown on the last slide instead of "next".
const GuideCloseLabel = "GET TO WORK"

var guideSlides = []Slide{
	{Title: "DEFINE", Body: "Clarity is power. Set specific goals."},
	{Title: "EXECUTE", Body: "Action beats intention. Complete your list."},
	{Title: "MOMENTUM", Body: "Consistency compounds. Don't break the chain."},
}

// Guide walks the onboarding slides. The zero value starts at the first slide.
type Guide struct {
	index int
}

func (g *Guide) Slides() []Slide {
	out := make([]Slide, len(guideSlides))
	copy(out, guideSlides)
	return out
}

func (g *Guide) Current() Slide {
	return guideSlides[g.index]
}

func (g *Guide) IsLast() bool {
	return g.index == len(guideSlides)-1
}

// Next advances one slide. It reports false on the last slide, where the guide closes.
func (g *Guide) Next() bool {
	if g.IsLast() {
		return false
	}
	g.index++
	return true
}

func (g *Guide) Prev() bool {
	if g.index == 0 {
		return false
	}
	g.index--
	return true
}

// Position renders the slide counter, e.g. "01 / 03".
func (g *Guide) Position() string {
	return fmt.Sprintf("%02d / %02d", g.index+1, len(guideSlides))
}
