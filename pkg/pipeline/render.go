package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/rampboard/pkg/chart"
	rio "github.com/matzehuels/rampboard/pkg/io"
	"github.com/matzehuels/rampboard/pkg/proportion"
)

// Render generates output artifacts in the requested formats. SVG and JSON
// show the ranked key; CSV holds every group.
func Render(g *proportion.Grouped, r proportion.Ranked, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	title := opts.Title
	if title == "" {
		title = r.Key
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = chart.RenderSVG(r,
				chart.WithTitle(title),
				chart.WithSize(opts.Width, opts.Height),
				chart.WithPercentLabels(!opts.RawLabels),
			)
		case FormatJSON:
			data, err = chart.RenderJSON(r, title, !opts.RawLabels)
		case FormatCSV:
			var buf bytes.Buffer
			err = rio.WriteGrouped(&buf, g)
			data = buf.Bytes()
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
