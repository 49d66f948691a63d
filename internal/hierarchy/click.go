package hierarchy

import (
	"context"

	"github.com/evolab/taxatree/internal/taxon"
)

// Action is the single operation a node click resolved to.
type Action string

// Click outcomes.
const (
	ActionExpanded        Action = "expanded"
	ActionUprooted        Action = "uprooted"
	ActionFetchedChildren Action = "fetched-children"
	ActionCollapsed       Action = "collapsed"
)

// Expander is the slice of the taxonomy service a click handler needs.
type Expander interface {
	HasMissingChildren(ctx context.Context, t *taxon.Taxon) (bool, error)
	ResolveChildren(ctx context.Context, tree *taxon.Tree, t *taxon.Taxon) (int, error)
	ExpandTreeUp(ctx context.Context, tree *taxon.Tree) (*taxon.Tree, bool, error)
}

// Click resolves a node click to exactly one action, in priority order:
//
//  1. a collapsed node expands, nothing else happens;
//  2. the view root with no materialized parent grows the tree upward;
//  3. a node with unfetched children fetches and attaches them;
//  4. otherwise the node collapses.
//
// Rule 1 means re-expanding a collapsed node never reaches the network, even
// when that node also has unfetched children; those are only fetched by a
// second click. The returned tree is the one to render afterwards, which
// differs from the input only when the action was ActionUprooted.
func Click(ctx context.Context, exp Expander, tree *taxon.Tree, n *Node) (Action, *taxon.Tree, error) {
	if n.Collapsed {
		n.Collapsed = false
		return ActionExpanded, tree, nil
	}

	if n.Parent == nil && n.Taxon.Parent == nil {
		grownTree, grown, err := exp.ExpandTreeUp(ctx, tree)
		if err != nil {
			return "", tree, err
		}
		if grown {
			return ActionUprooted, grownTree, nil
		}
		// Already top-level, fall through to the remaining rules.
	}

	missing, err := exp.HasMissingChildren(ctx, n.Taxon)
	if err != nil {
		return "", tree, err
	}
	if missing {
		if _, err := exp.ResolveChildren(ctx, tree, n.Taxon); err != nil {
			return "", tree, err
		}
		return ActionFetchedChildren, tree, nil
	}

	n.Collapsed = true
	return ActionCollapsed, tree, nil
}
