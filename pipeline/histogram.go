package pipeline

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/weaksignal/lfkit/pkg/errors"
)

// marginalsBins is the bin count of the marginals histogram.
const marginalsBins = 20

// SaveMarginalsHistogram writes a histogram of marginal probabilities to an
// image file. The format follows the extension; .png, .svg and .pdf are
// supported.
func SaveMarginalsHistogram(path string, marginals []float64) error {
	if path == "" {
		return errors.NewValidationError("path", "histogram path is empty", path)
	}
	if len(marginals) == 0 {
		return errors.NewValueError("SaveMarginalsHistogram", "no marginals to plot")
	}

	vals := make(plotter.Values, len(marginals))
	copy(vals, marginals)
	h, err := plotter.NewHist(vals, marginalsBins)
	if err != nil {
		return errors.Wrap(err, "pipeline: failed to bin marginals")
	}

	pl := plot.New()
	pl.Title.Text = "Training marginals"
	pl.X.Label.Text = "P(label = +1)"
	pl.Y.Label.Text = "candidates"
	pl.Add(h)

	if err := pl.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "pipeline: failed to save marginals histogram")
	}
	return nil
}
