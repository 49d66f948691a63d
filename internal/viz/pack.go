package viz

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/evolab/taxatree/internal/hierarchy"
)

var compiledPackTemplate *template.Template

func init() {
	compiledPackTemplate = template.Must(template.New("pack").Parse(packTemplate))
}

// packCircle is one rendered circle. Leaf radii scale with genome count, so
// data-rich taxa dominate the picture.
type packCircle struct {
	X, Y, R   float64
	Name      string
	Rank      string
	Genomes   int
	IsLeaf    bool
	Collapsed bool
	ShowLabel bool
}

const (
	packBaseRadius = 14.0
	packPadding    = 6.0
	packCanvas     = 900.0
)

// RenderPack generates a nested circle-pack SVG of the view. A collapsed
// node is drawn as a single filled circle standing in for its subtree.
func RenderPack(view *hierarchy.View, opts Options) (string, error) {
	if view == nil || view.Root == nil {
		return "", fmt.Errorf("view cannot be empty")
	}

	root := layoutPack(view.Root)
	scale := (packCanvas/2 - packPadding) / root.r
	var circles []packCircle
	collectCircles(root, packCanvas/2, packCanvas/2, scale, &circles)

	data := struct {
		Title   string
		Size    float64
		Colors  themePalette
		Circles []packCircle
	}{
		Title:   opts.Title,
		Size:    packCanvas,
		Colors:  themeColors(opts.Theme),
		Circles: circles,
	}

	var buf bytes.Buffer
	if err := compiledPackTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// packLayout is a node with its radius and child offsets in parent-relative
// units, computed bottom-up.
type packLayout struct {
	node     *hierarchy.Node
	r        float64
	children []*packLayout
	dx, dy   []float64
}

// layoutPack computes radii bottom-up: a terminal circle scales with the
// square root of its genome count so area tracks the data, and an enclosing
// circle is sized to hold its children arranged on a ring.
func layoutPack(n *hierarchy.Node) *packLayout {
	l := &packLayout{node: n}

	if len(n.Children) == 0 || n.Collapsed {
		l.r = packBaseRadius * math.Sqrt(1+float64(n.Taxon.TotalGenomes()))
		return l
	}

	var circumference, maxR float64
	for _, c := range n.Children {
		cl := layoutPack(c)
		l.children = append(l.children, cl)
		circumference += 2*cl.r + packPadding
		if cl.r > maxR {
			maxR = cl.r
		}
	}

	ringR := circumference / (2 * math.Pi)
	if len(l.children) == 1 {
		ringR = 0
	}
	l.r = ringR + maxR + packPadding

	angle := 0.0
	for _, cl := range l.children {
		step := (2*cl.r + packPadding) / circumference * 2 * math.Pi
		theta := angle + step/2
		l.dx = append(l.dx, ringR*math.Cos(theta))
		l.dy = append(l.dy, ringR*math.Sin(theta))
		angle += step
	}
	return l
}

func collectCircles(l *packLayout, x, y, scale float64, out *[]packCircle) {
	n := l.node
	*out = append(*out, packCircle{
		X:         x,
		Y:         y,
		R:         l.r * scale,
		Name:      n.Taxon.Name,
		Rank:      n.Taxon.Rank,
		Genomes:   n.Taxon.TotalGenomes(),
		IsLeaf:    len(l.children) == 0 && !n.Collapsed,
		Collapsed: n.Collapsed,
		ShowLabel: l.r*scale > 24,
	})
	for i, cl := range l.children {
		collectCircles(cl, x+l.dx[i]*scale, y+l.dy[i]*scale, scale, out)
	}
}

const packTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      background: {{.Colors.Background}};
      display: flex;
      justify-content: center;
    }
    circle {
      stroke: {{.Colors.EdgeColor}};
      stroke-width: 1;
      fill: {{.Colors.Canvas}};
      fill-opacity: 0.5;
    }
    circle.leaf {
      fill: {{.Colors.Leaf}};
      fill-opacity: 0.8;
    }
    circle.collapsed {
      fill: {{.Colors.Collapsed}};
      fill-opacity: 0.8;
    }
    circle:hover {
      stroke-width: 2.5;
      stroke: {{.Colors.Internal}};
    }
    text {
      fill: {{.Colors.Text}};
      font-size: 11px;
      text-anchor: middle;
      pointer-events: none;
    }
  </style>
</head>
<body>
  <svg width="{{.Size}}" height="{{.Size}}" viewBox="0 0 {{.Size}} {{.Size}}">
    {{range .Circles}}<circle cx="{{.X}}" cy="{{.Y}}" r="{{.R}}"{{if .Collapsed}} class="collapsed"{{else if .IsLeaf}} class="leaf"{{end}}>
      <title>{{.Rank}} {{.Name}} ({{.Genomes}} genomes)</title>
    </circle>
    {{end}}
    {{range .Circles}}{{if .ShowLabel}}<text x="{{.X}}" y="{{.Y}}">{{.Name}}</text>
    {{end}}{{end}}
  </svg>
</body>
</html>`
