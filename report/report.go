// Package report summarizes the outcome of a trimming run.
package report

import (
	"fmt"
	"image/color"
	"log"

	"github.com/dasnellings/tagTools/trim"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Log prints the final counts of a run, each as a share of all pairs.
func Log(s trim.Stats) {
	log.Printf("Read pairs processed: %d\n", s.Pairs)
	line := func(what string, n int) {
		log.Printf("%-30s %10d (%.2f%%)\n", what, n, s.Percent(n))
	}
	line("Overlapping pairs:", s.Overlap)
	line("Invalid mate 1:", s.InvalidMate0)
	line("Invalid mate 2:", s.InvalidMate1)
	line("Pairs with an empty mate:", s.EmptyMate)
	line("Pairs written:", s.Accepted)
	line("Pairs skipped:", s.Rejected)
	for i, l := range Summary(s) {
		if l.Count > 0 {
			log.Printf("Mate %d length: mean %.1f, sd %.1f\n", i+1, l.Mean, l.StdDev)
		}
	}
}

// Lengths describes the distribution of written read lengths of one mate.
type Lengths struct {
	Count  int
	Mean   float64
	StdDev float64
}

// Summary returns the written length distribution of each mate.
func Summary(s trim.Stats) [2]Lengths {
	var ans [2]Lengths
	for i := range s.Lengths {
		x := make([]float64, 0, len(s.Lengths[i]))
		w := make([]float64, 0, len(s.Lengths[i]))
		for n, c := range s.Lengths[i] {
			if c == 0 {
				continue
			}
			ans[i].Count += c
			x = append(x, float64(n))
			w = append(w, float64(c))
		}
		if ans[i].Count == 0 {
			continue
		}
		ans[i].Mean, ans[i].StdDev = stat.MeanStdDev(x, w)
		if ans[i].Count == 1 {
			ans[i].StdDev = 0
		}
	}
	return ans
}

// Graph draws the written length histogram of a mate for the terminal.
// It returns an empty string if no reads of that mate were written.
func Graph(s trim.Stats, mate int) string {
	if len(s.Lengths[mate]) == 0 {
		return ""
	}
	data := make([]float64, len(s.Lengths[mate]))
	for n, c := range s.Lengths[mate] {
		data[n] = float64(c)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("mate %d reads by trimmed length", mate+1)))
}

// Plot saves a bar chart of written read lengths of both mates. The image
// format follows the extension of file.
func Plot(s trim.Stats, file string) error {
	p := plot.New()
	p.Title.Text = "Trimmed read lengths"
	p.X.Label.Text = "Length"
	p.Y.Label.Text = "Reads"

	width := vg.Points(3)
	colors := [2]color.Color{color.RGBA{R: 31, G: 119, B: 180, A: 255}, color.RGBA{R: 255, G: 127, B: 14, A: 255}}
	for i := range s.Lengths {
		if len(s.Lengths[i]) == 0 {
			continue
		}
		values := make(plotter.Values, len(s.Lengths[i]))
		for n, c := range s.Lengths[i] {
			values[n] = float64(c)
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return errors.Wrapf(err, "mate %d", i+1)
		}
		bars.Color = colors[i]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(i) * width
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("mate %d", i+1), bars)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return errors.Wrapf(err, "saving %s", file)
	}
	return nil
}
