package visualizer

import (
	"fmt"
	"image"

	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/game"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/stats"
)

const (
	chartWidth  = 800
	chartHeight = 480
)

// RenderProgression draws each player's cumulative score by round.
func RenderProgression(snap *game.Snapshot) (image.Image, error) {
	const (
		left, right, top, bottom = 60, 150, 40, 50
		yStep                    = 50
	)
	plotW := float64(chartWidth - left - right)
	plotH := float64(chartHeight - top - bottom)

	maxRound := 1
	maxScore := 0
	for _, p := range snap.Players {
		for _, r := range p.History {
			maxRound = max(maxRound, r.Round)
			maxScore = max(maxScore, r.Total)
		}
	}
	yMax := niceCeil(maxScore, yStep)
	px := func(round int) float64 {
		return float64(left) + plotW*float64(round)/float64(maxRound)
	}
	py := func(score int) float64 {
		return float64(top) + plotH - plotH*float64(score)/float64(yMax)
	}

	doc := newSVG(chartWidth, chartHeight)
	labels := []label{{x: chartWidth / 2, y: 24, text: "Score Progression", align: alignCenter}}

	yTicks := lo.RangeWithSteps(0, yMax+1, max(yStep, niceCeil(yMax/8, yStep)))
	for _, v := range yTicks {
		doc.line(float64(left), py(v), float64(left)+plotW, py(v), gridColor, 1)
		labels = append(labels, label{x: left - 6, y: int(py(v)) + 4, text: fmt.Sprint(v), align: alignRight})
	}
	for r := 0; r <= maxRound; r++ {
		labels = append(labels, label{x: int(px(r)), y: top + int(plotH) + 18, text: fmt.Sprint(r), align: alignCenter})
	}
	doc.line(float64(left), float64(top), float64(left), float64(top)+plotH, axisColor, 2)
	doc.line(float64(left), float64(top)+plotH, float64(left)+plotW, float64(top)+plotH, axisColor, 2)
	labels = append(labels,
		label{x: left + int(plotW)/2, y: chartHeight - 10, text: "Round", align: alignCenter},
		label{x: 8, y: top - 10, text: "Total Score"})

	for i, p := range snap.Players {
		clr := palette[i%len(palette)]
		pts := [][2]float64{{px(0), py(0)}}
		for _, r := range p.History {
			pts = append(pts, [2]float64{px(r.Round), py(r.Total)})
		}
		doc.polyline(pts, clr, 3)
		for _, pt := range pts[1:] {
			doc.circle(pt[0], pt[1], 4, clr)
		}
		ly := float64(top + 10 + i*22)
		lx := float64(chartWidth - right + 16)
		doc.rect(lx, ly-8, 16, 10, clr)
		labels = append(labels, label{x: int(lx) + 22, y: int(ly) + 2, text: p.Name})
	}

	img, err := doc.rasterize()
	if err != nil {
		return nil, err
	}
	drawLabels(img, labels)
	return img, nil
}

// RenderCategories draws how often each category was scored, as horizontal
// bars.
func RenderCategories(snap *game.Snapshot) (image.Image, error) {
	const (
		left, right, top, bottom = 190, 60, 50, 30
	)
	freq := stats.CategoryFrequency(snap)
	plotW := float64(chartWidth - left - right)
	plotH := float64(chartHeight - top - bottom)

	doc := newSVG(chartWidth, chartHeight)
	labels := []label{{x: chartWidth / 2, y: 28, text: "Scoring Category Frequency", align: alignCenter}}
	if len(freq) == 0 {
		labels = append(labels, label{x: chartWidth / 2, y: chartHeight / 2, text: "No turns played", align: alignCenter})
	}

	maxCount := 1
	if len(freq) > 0 {
		maxCount = freq[0].Count
	}
	slot := plotH / float64(max(len(freq), 1))
	barH := min(slot*0.7, 36)
	for i, cc := range freq {
		y := float64(top) + slot*float64(i) + (slot-barH)/2
		w := plotW * float64(cc.Count) / float64(maxCount)
		doc.rect(float64(left), y, w, barH, palette[i%len(palette)])
		mid := int(y + barH/2 + 4)
		labels = append(labels,
			label{x: left - 8, y: mid, text: scoring.Describe(cc.Category), align: alignRight},
			label{x: left + int(w) + 6, y: mid, text: fmt.Sprint(cc.Count)})
	}
	doc.line(float64(left), float64(top), float64(left), float64(top)+plotH, axisColor, 2)

	img, err := doc.rasterize()
	if err != nil {
		return nil, err
	}
	drawLabels(img, labels)
	return img, nil
}
