package viz

import (
	"fmt"

	"github.com/evolab/taxatree/internal/hierarchy"
	"github.com/evolab/taxatree/internal/spore"
)

// Render produces the document for a view in the selected display type.
func Render(view *hierarchy.View, dt spore.DisplayType, opts Options) (string, error) {
	if view == nil {
		return "", fmt.Errorf("view cannot be nil")
	}
	switch dt {
	case spore.DisplayTree:
		return RenderTree(view, opts)
	case spore.DisplayGraph:
		return RenderGraph(BuildGraph(view), opts)
	case spore.DisplayPack:
		return RenderPack(view, opts)
	default:
		return "", fmt.Errorf("unknown display type %q", dt)
	}
}
