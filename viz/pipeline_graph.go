// ABOUTME: Graphviz rendering of the deal pipeline
// ABOUTME: Links each deal stage to its properties and each property to its contact
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

// GeneratePipelineGraph returns DOT source for the pipeline. Properties link
// to their contact when the contact is in contacts; unknown links are skipped.
func GeneratePipelineGraph(ctx context.Context, properties []models.Property, contacts []models.Contact) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			logging.L.Warn("close graphviz failed", "err", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			logging.L.Warn("close graph failed", "err", err)
		}
	}()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	stageNodes := make(map[Category]*cgraph.Node)
	for _, cat := range Categories {
		node, err := graph.CreateNodeByName("stage_" + string(cat))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(string(cat))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(cat.Hex())
		node.SetFontColor("white")
		stageNodes[cat] = node
	}

	contactNodes := make(map[string]*cgraph.Node)
	for _, c := range contacts {
		node, err := graph.CreateNodeByName("contact_" + c.ID)
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		label := c.Fields.Name
		if c.Fields.Temperature != "" {
			label = fmt.Sprintf("%s\n(%s)", c.Fields.Name, c.Fields.Temperature)
		}
		node.SetLabel(label)
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightgreen")
		contactNodes[c.ID] = node
	}

	for _, p := range properties {
		node, err := graph.CreateNodeByName("property_" + p.ID)
		if err != nil {
			return "", fmt.Errorf("failed to create property node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", p.Fields.Address, FormatThousands(p.Asking())))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		cat := StageCategory(p.Fields.DealStage)
		if _, err := graph.CreateEdgeByName("stage_"+p.ID, stageNodes[cat], node); err != nil {
			return "", fmt.Errorf("failed to create stage edge: %w", err)
		}

		if contactNode, ok := contactNodes[p.ContactID()]; ok {
			edge, err := graph.CreateEdgeByName("contact_"+p.ID, node, contactNode)
			if err != nil {
				return "", fmt.Errorf("failed to create contact edge: %w", err)
			}
			edge.SetLabel("contact")
			edge.SetStyle("dotted")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
