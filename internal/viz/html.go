package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledGraphTemplate is parsed at init time to fail fast on template errors.
var compiledGraphTemplate *template.Template

func init() {
	compiledGraphTemplate = template.Must(template.New("graph").Parse(graphTemplate))
}

// Options configures document generation.
type Options struct {
	Title  string
	Theme  string // "light" or "dark"
	Layout string // graph layout: "tree", "circle", or "grid"
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		Title:  "Taxonomy",
		Theme:  "light",
		Layout: "tree",
	}
}

// ValidLayouts lists the supported graph layout names.
var ValidLayouts = []string{"tree", "circle", "grid"}

// RenderGraph generates a self-contained HTML page showing the visible
// taxa as an interactive Cytoscape.js graph.
func RenderGraph(graph *GraphData, opts Options) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if graph.IsEmpty() {
		return "", fmt.Errorf("graph has no visible taxa")
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := graphTemplateData{
		Title:     opts.Title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		Colors:    themeColors(opts.Theme),
	}

	var buf bytes.Buffer
	if err := compiledGraphTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "tree", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be tree, circle, or grid", layout)
	}
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js
// layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "breadthfirst"
	}
}

// themePalette holds the colors a theme assigns to page elements.
type themePalette struct {
	Background string
	Canvas     string
	Text       string
	Internal   string
	Leaf       string
	Collapsed  string
	EdgeColor  string
}

func themeColors(theme string) themePalette {
	if theme == "dark" {
		return themePalette{
			Background: "#1e1e2e",
			Canvas:     "#181825",
			Text:       "#cdd6f4",
			Internal:   "#89b4fa",
			Leaf:       "#a6e3a1",
			Collapsed:  "#f9e2af",
			EdgeColor:  "#585b70",
		}
	}
	return themePalette{
		Background: "#f5f5f5",
		Canvas:     "#ffffff",
		Text:       "#333333",
		Internal:   "#4A90D9",
		Leaf:       "#27AE60",
		Collapsed:  "#E8923A",
		EdgeColor:  "#95A5A6",
	}
}

// graphTemplateData holds data for the graph HTML template.
type graphTemplateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
	Colors    themePalette
}

const graphTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: {{.Colors.Background}};
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: {{.Colors.Canvas}};
    }
    #tooltip {
      position: absolute;
      display: none;
      background: {{.Colors.Canvas}};
      color: {{.Colors.Text}};
      border: 1px solid {{.Colors.EdgeColor}};
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .rank {
      font-size: 10px;
      text-transform: uppercase;
      opacity: 0.6;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      opacity: 0.8;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': '{{.Colors.Internal}}',
              'label': 'data(name)',
              'color': '{{.Colors.Text}}',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'mapData(genomes, 0, 50, 20, 60)',
              'height': 'mapData(genomes, 0, 50, 20, 60)'
            }
          },
          {
            selector: 'node[?isLeaf]',
            style: {
              'background-color': '{{.Colors.Leaf}}'
            }
          },
          {
            selector: 'node[?collapsed]',
            style: {
              'background-color': '{{.Colors.Collapsed}}',
              'shape': 'diamond'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '{{.Colors.EdgeColor}}',
              'target-arrow-color': '{{.Colors.EdgeColor}}',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'width': 2
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed, edge.dimmed',
            style: {
              'opacity': 0.25
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          directed: true,
          spacingFactor: 1.2
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="rank">' + escapeHtml(data.rank || 'unranked') + '</div>';
        html += '<div class="label">' + escapeHtml(data.name) + '</div>';
        if (data.commonName) html += '<div class="detail">' + escapeHtml(data.commonName) + '</div>';
        html += '<div class="detail">Genomes: ' + data.genomes + '</div>';
        if (data.collapsed) html += '<div class="detail">Collapsed subtree</div>';
        return html;
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
