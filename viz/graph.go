// ABOUTME: Ownership graph generation with GraphViz
// ABOUTME: Renders one user's records and the foreign keys between them
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

type nodeStyle struct {
	shape cgraph.Shape
	color string
}

var kindStyles = map[models.Kind]nodeStyle{
	models.KindUser:     {cgraph.DoubleCircleShape, "gold"},
	models.KindCompany:  {cgraph.BoxShape, "lightblue"},
	models.KindContact:  {cgraph.EllipseShape, "lightgreen"},
	models.KindDeal:     {cgraph.DiamondShape, "lightyellow"},
	models.KindLead:     {cgraph.EllipseShape, "pink"},
	models.KindActivity: {cgraph.BoxShape, "lavender"},
	models.KindNote:     {cgraph.NoteShape, "white"},
}

// ownershipGraph accumulates nodes keyed by kind and id.
type ownershipGraph struct {
	graph *cgraph.Graph
	nodes map[string]*cgraph.Node
}

func nodeKey(kind models.Kind, id string) string {
	return string(kind) + "_" + id
}

func (o *ownershipGraph) addNode(rec models.Record, detail string) error {
	kind := rec.RecordKind()
	node, err := o.graph.CreateNodeByName(nodeKey(kind, rec.RecordID()))
	if err != nil {
		return fmt.Errorf("failed to create %s node: %w", kind, err)
	}
	label := fmt.Sprintf("%s\n(%s)", rec.Label(), kind.Title())
	if detail != "" {
		label = fmt.Sprintf("%s\n%s\n(%s)", rec.Label(), detail, kind.Title())
	}
	style := kindStyles[kind]
	node.SetLabel(label)
	node.SetShape(style.shape)
	node.SetStyle(cgraph.FilledNodeStyle)
	node.SetFillColor(style.color)
	o.nodes[nodeKey(kind, rec.RecordID())] = node
	return nil
}

// link draws an edge when both ends are in the graph.
func (o *ownershipGraph) link(from models.Record, ref models.Ref, label string, style cgraph.EdgeStyle) error {
	src, ok := o.nodes[nodeKey(from.RecordKind(), from.RecordID())]
	if !ok {
		return nil
	}
	dst, ok := o.nodes[nodeKey(ref.Kind, ref.ID)]
	if !ok {
		return nil
	}
	edge, err := o.graph.CreateEdgeByName(label, src, dst)
	if err != nil {
		return fmt.Errorf("failed to create edge: %w", err)
	}
	edge.SetLabel(label)
	if style != "" {
		edge.SetStyle(style)
	}
	return nil
}

var refLabels = map[string]string{
	"companyId":            "at",
	"contactId":            "with",
	"dealId":               "on",
	"convertedToContactId": "converted to",
}

// Output formats accepted by RenderOwnershipGraph.
var Formats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

// GenerateOwnershipGraph renders every record owned by userID as DOT source.
func (g *GraphGenerator) GenerateOwnershipGraph(ctx context.Context, userID string) (string, error) {
	var buf bytes.Buffer
	if err := g.RenderOwnershipGraph(ctx, userID, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderOwnershipGraph lays out the ownership graph and writes it in format.
func (g *GraphGenerator) RenderOwnershipGraph(ctx context.Context, userID string, format graphviz.Format, w io.Writer) error {
	owned, err := db.ListOwned(ctx, g.db, userID)
	if err != nil {
		return err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	if err := buildOwnershipGraph(graph, owned); err != nil {
		return err
	}

	if err := gv.Render(ctx, graph, format, w); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}
	return nil
}

func buildOwnershipGraph(graph *cgraph.Graph, owned *db.Owned) error {
	graph.SetLabel(fmt.Sprintf("Records owned by %s", owned.User.Label()))
	graph.SetRankDir(cgraph.LRRank)

	o := &ownershipGraph{graph: graph, nodes: make(map[string]*cgraph.Node)}

	records := []models.Record{owned.User}
	details := []string{owned.User.Email}
	for i := range owned.Companies {
		records = append(records, &owned.Companies[i])
		details = append(details, "")
	}
	for i := range owned.Contacts {
		records = append(records, &owned.Contacts[i])
		details = append(details, owned.Contacts[i].Email)
	}
	for i := range owned.Deals {
		d := &owned.Deals[i]
		records = append(records, d)
		details = append(details, fmt.Sprintf("%s %.0f (%d%%)", d.Stage, d.Value, d.Probability))
	}
	for i := range owned.Leads {
		records = append(records, &owned.Leads[i])
		details = append(details, string(owned.Leads[i].Status))
	}
	for i := range owned.Activities {
		a := &owned.Activities[i]
		records = append(records, a)
		details = append(details, fmt.Sprintf("%s %s", a.Type, a.Status))
	}
	for i := range owned.Notes {
		records = append(records, &owned.Notes[i])
		details = append(details, "")
	}

	for i, rec := range records {
		if err := o.addNode(rec, details[i]); err != nil {
			return err
		}
	}

	for _, rec := range records[1:] {
		for _, ref := range rec.References() {
			if ref.Kind == models.KindUser {
				if err := o.link(owned.User, models.Ref{Kind: rec.RecordKind(), ID: rec.RecordID()}, "owns", cgraph.DottedEdgeStyle); err != nil {
					return err
				}
				continue
			}
			style := cgraph.EdgeStyle("")
			if ref.Field == "convertedToContactId" {
				style = cgraph.DashedEdgeStyle
			}
			if err := o.link(rec, ref, refLabels[ref.Field], style); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountGraph reports node and edge counts of rendered DOT source.
func CountGraph(dot string) (nodes, edges int) {
	return strings.Count(dot, "[label="), strings.Count(dot, "->")
}
