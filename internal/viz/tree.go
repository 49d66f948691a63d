package viz

import (
	"bytes"
	"html/template"

	"github.com/evolab/taxatree/internal/hierarchy"
)

var compiledTreeTemplate *template.Template

func init() {
	compiledTreeTemplate = template.Must(template.New("tree").Parse(treeTemplate))
}

// treeNode is the template-facing shape of one hierarchy node.
type treeNode struct {
	Name       string
	CommonName string
	Rank       string
	Genomes    int
	IsLeaf     bool
	Open       bool
	Children   []treeNode
}

// RenderTree generates a collapsible HTML tree of the view. Every node is a
// <details> element whose open attribute mirrors the view's collapse state,
// so the page opens showing exactly what the application showed.
func RenderTree(view *hierarchy.View, opts Options) (string, error) {
	data := struct {
		Title  string
		Colors themePalette
		Root   treeNode
	}{
		Title:  opts.Title,
		Colors: themeColors(opts.Theme),
		Root:   toTreeNode(view.Root),
	}

	var buf bytes.Buffer
	if err := compiledTreeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toTreeNode(n *hierarchy.Node) treeNode {
	t := n.Taxon
	out := treeNode{
		Name:       t.Name,
		CommonName: t.CommonName,
		Rank:       t.Rank,
		Genomes:    t.TotalGenomes(),
		IsLeaf:     len(n.Children) == 0,
		Open:       !n.Collapsed,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toTreeNode(c))
	}
	return out
}

const treeTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 2em;
      background: {{.Colors.Background}};
      color: {{.Colors.Text}};
    }
    details {
      margin-left: 1.5em;
    }
    details.root {
      margin-left: 0;
    }
    summary {
      cursor: pointer;
      padding: 2px 4px;
      border-radius: 3px;
    }
    summary:hover {
      background: rgba(128, 128, 128, 0.15);
    }
    .leaf {
      margin-left: 2.7em;
      padding: 2px 4px;
    }
    .rank {
      font-size: 0.75em;
      text-transform: uppercase;
      opacity: 0.6;
      margin-right: 0.5em;
    }
    .common {
      opacity: 0.7;
      font-style: italic;
    }
    .genomes {
      font-size: 0.8em;
      opacity: 0.6;
      margin-left: 0.5em;
    }
  </style>
</head>
<body>
{{define "node"}}{{if .IsLeaf}}<div class="leaf"><span class="rank">{{.Rank}}</span>{{.Name}}{{if .CommonName}} <span class="common">({{.CommonName}})</span>{{end}}{{if .Genomes}}<span class="genomes">{{.Genomes}} genomes</span>{{end}}</div>
{{else}}<details{{if .Open}} open{{end}}>
  <summary><span class="rank">{{.Rank}}</span>{{.Name}}{{if .CommonName}} <span class="common">({{.CommonName}})</span>{{end}}{{if .Genomes}}<span class="genomes">{{.Genomes}} genomes</span>{{end}}</summary>
  {{range .Children}}{{template "node" .}}{{end}}
</details>
{{end}}{{end}}<details class="root"{{if .Root.Open}} open{{end}}>
  <summary><span class="rank">{{.Root.Rank}}</span>{{.Root.Name}}{{if .Root.CommonName}} <span class="common">({{.Root.CommonName}})</span>{{end}}</summary>
  {{range .Root.Children}}{{template "node" .}}{{end}}
</details>
</body>
</html>`
