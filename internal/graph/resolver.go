package graph

import (
	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/geometry"
)

// DirectionFunc decides which end of an arrow is the tail and which is
// the head when no arrowhead detection settles it. It receives the
// arrow's box and returns the two anchor points in (tail, head) order.
type DirectionFunc func(arrow geometry.Box) (tail, head geometry.Point)

// DefaultDirection assumes reading order: vertical arrows point down,
// horizontal arrows point right. Square boxes count as vertical.
func DefaultDirection(arrow geometry.Box) (geometry.Point, geometry.Point) {
	a, b, _ := anchorEnds(arrow)
	return a, b
}

// anchorEnds returns the two connection anchors of an arrow region: the
// midpoints of the short sides along the dominant elongation axis. The
// first anchor is the top or left end. Ties between width and height
// are treated as vertical.
func anchorEnds(b geometry.Box) (geometry.Point, geometry.Point, bool) {
	c := b.Center()
	if b.Height() >= b.Width() {
		return geometry.Point{X: c.X, Y: b.Y1}, geometry.Point{X: c.X, Y: b.Y2}, true
	}
	return geometry.Point{X: b.X1, Y: c.Y}, geometry.Point{X: b.X2, Y: c.Y}, false
}

// associateArrowheads assigns each arrowhead to the arrow it most
// plausibly tips: the head's center must fall inside the arrow's box
// expanded by marginFrac, and among qualifying arrows the one with the
// nearest anchor wins. An arrow keeps at most one head, the nearest.
func associateArrowheads(arrows, arrowheads []detect.Detection, marginFrac float64) map[int]*geometry.Point {
	type assignment struct {
		center geometry.Point
		dist   float64
	}
	assigned := make(map[int]assignment)

	for _, h := range arrowheads {
		hc := h.Box.Center()
		best, bestDist := -1, 0.0
		for i, arrow := range arrows {
			if !arrow.Box.ExpandFrac(marginFrac).Contains(hc) {
				continue
			}
			a1, a2, _ := anchorEnds(arrow.Box)
			d := a1.DistanceTo(hc)
			if d2 := a2.DistanceTo(hc); d2 < d {
				d = d2
			}
			if best == -1 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}
		if prev, ok := assigned[best]; !ok || bestDist < prev.dist {
			assigned[best] = assignment{center: hc, dist: bestDist}
		}
	}

	heads := make(map[int]*geometry.Point, len(assigned))
	for i, a := range assigned {
		c := a.center
		heads[i] = &c
	}
	return heads
}

// ResolveOptions tunes arrow-to-node matching.
type ResolveOptions struct {
	// MarginFrac expands every node box by this fraction of its
	// diagonal when testing whether an anchor touches the node.
	MarginFrac float64

	// MaxRadius caps, in pixels, how far an anchor may sit from a
	// node's unexpanded box and still match it. Callers derive it from
	// the image diagonal.
	MaxRadius float64

	// Direction supplies tail/head order for arrows without an
	// associated arrowhead. Nil means DefaultDirection.
	Direction DirectionFunc

	// CollapseChains enables merging of multi-segment arrows: when an
	// arrow end matches no node, it may continue into another arrow
	// whose end lies nearby, and the whole chain becomes one edge.
	CollapseChains bool

	// ChainRadius is the pixel distance within which two loose arrow
	// ends are considered joined. Only used when CollapseChains is on.
	ChainRadius float64
}

// Resolution is the outcome of matching arrows against nodes.
type Resolution struct {
	// Edges are the resolved directed edges, in discovery order.
	// Parallel duplicates are possible here; assembly collapses them.
	Edges []Edge

	// Diagnostics records arrows that were dropped or flagged.
	Diagnostics Diagnostics

	// Junctions is the number of loose-end meeting points found while
	// collapsing chains. Zero when chain collapsing is off.
	Junctions int
}

// ResolveArrows turns arrow detections into directed edges between the
// given nodes.
//
// # Algorithm
//
// For every arrow, independently:
//
//  1. Anchors: take the midpoints of the two short sides along the
//     box's dominant axis. These approximate where the drawn line
//     enters and leaves the region.
//  2. Direction: if an arrowhead detection associates with this arrow,
//     the anchor nearer the arrowhead's center is the head. Otherwise
//     the configured DirectionFunc decides (reading order by default).
//  3. Matching: each anchor matches the nodes whose expanded box
//     contains it, within MaxRadius of the original box. The node with
//     the nearest center wins; several candidates flag the edge
//     ambiguous; none leaves the end unresolved.
//
// An arrow with both ends resolved to distinct nodes becomes an edge
// carrying the arrow's confidence. Unresolved and self-looping arrows
// are dropped with a diagnostic.
//
// With CollapseChains enabled, unresolved ends are first clustered into
// junctions; arrows meeting at a junction continue each other, and each
// node-to-node walk across junctions becomes a single edge carrying the
// weakest confidence along the way.
func ResolveArrows(arrows, arrowheads []detect.Detection, nodes []Node, opts ResolveOptions) *Resolution {
	direction := opts.Direction
	if direction == nil {
		direction = DefaultDirection
	}

	r := &resolver{
		index:     NewNodeIndex(nodes, opts.MarginFrac),
		opts:      opts,
		direction: direction,
	}
	heads := associateArrowheads(arrows, arrowheads, opts.MarginFrac)

	res := &Resolution{}
	ends := make([]arrowEnds, len(arrows))
	for i, arrow := range arrows {
		ends[i] = r.resolveEnds(arrow, heads[i], res)
	}

	if opts.CollapseChains {
		r.collapseChains(arrows, ends, res)
	} else {
		r.emitDirect(arrows, ends, res)
	}
	return res
}

type resolver struct {
	index     *NodeIndex
	opts      ResolveOptions
	direction DirectionFunc
}

// arrowEnds is one arrow's matching outcome. A node of -1 means the
// end touched no node.
type arrowEnds struct {
	tailPt, headPt geometry.Point
	tail, head     int
	ambiguous      bool
}

// resolveEnds orients one arrow and matches both anchors, recording an
// ambiguity diagnostic when an anchor had several candidates.
func (r *resolver) resolveEnds(arrow detect.Detection, headCenter *geometry.Point, res *Resolution) arrowEnds {
	a1, a2, _ := anchorEnds(arrow.Box)

	var tailPt, headPt geometry.Point
	if headCenter != nil {
		// The end nearer the arrowhead is the head; an exact tie falls
		// back to reading order.
		if headCenter.DistanceTo(a1) < headCenter.DistanceTo(a2) {
			tailPt, headPt = a2, a1
		} else {
			tailPt, headPt = a1, a2
		}
	} else {
		tailPt, headPt = r.direction(arrow.Box)
	}

	tail, tailAmb := r.match(tailPt)
	head, headAmb := r.match(headPt)
	if tailAmb || headAmb {
		d := res.Diagnostics.addf(CodeAmbiguousMatch,
			"arrow endpoint matched multiple nodes, nearest chosen")
		d.Box = boxRef(arrow.Box)
	}

	return arrowEnds{
		tailPt: tailPt, headPt: headPt,
		tail: tail, head: head,
		ambiguous: tailAmb || headAmb,
	}
}

// match finds the node an anchor point attaches to. It returns -1 when
// no node qualifies, and reports whether more than one did.
func (r *resolver) match(p geometry.Point) (int, bool) {
	ids := r.index.Candidates(p, r.opts.MaxRadius)
	if len(ids) == 0 {
		return -1, false
	}

	best, bestDist := -1, 0.0
	for _, id := range ids {
		n, _ := r.index.Node(id)
		d := n.Box.Center().DistanceTo(p)
		// Ties keep the lower identifier; ids arrive sorted.
		if best == -1 || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, len(ids) > 1
}

// emitDirect converts fully matched arrows straight into edges.
func (r *resolver) emitDirect(arrows []detect.Detection, ends []arrowEnds, res *Resolution) {
	for i, e := range ends {
		switch {
		case e.tail < 0 && e.head < 0:
			d := res.Diagnostics.addf(CodeUnresolvedArrow,
				"arrow matched no node at either end")
			d.Box = boxRef(arrows[i].Box)
		case e.tail < 0:
			d := res.Diagnostics.addf(CodeUnresolvedArrow,
				"arrow tail matched no node")
			d.Box = boxRef(arrows[i].Box)
		case e.head < 0:
			d := res.Diagnostics.addf(CodeUnresolvedArrow,
				"arrow head matched no node")
			d.Box = boxRef(arrows[i].Box)
		case e.tail == e.head:
			d := res.Diagnostics.addf(CodeSelfLoopRejected,
				"arrow connects node %d to itself", e.tail)
			d.Box = boxRef(arrows[i].Box)
			d.NodeID = nodeRef(e.tail)
		default:
			res.Edges = append(res.Edges, Edge{
				Source:     e.tail,
				Target:     e.head,
				Confidence: arrows[i].Confidence,
				Ambiguous:  e.ambiguous,
			})
		}
	}
}

// endRef locates one arrow end: at a node, or at a junction of loose
// ends.
type endRef struct {
	node     int // >= 0 when the end matched a node
	junction int // >= 0 when the end joined a junction
}

// collapseChains merges multi-segment arrows before emitting edges.
//
// Loose ends (ends that matched no node) are clustered into junctions:
// the first loose end opens a junction at its anchor point, and later
// loose ends within ChainRadius of a junction join it. Every arrow then
// becomes a directed hop between node/junction references, and each
// walk from a node through junctions to another node is emitted as one
// edge. The edge's confidence is the weakest hop on the walk, and it is
// ambiguous if any hop was.
func (r *resolver) collapseChains(arrows []detect.Detection, ends []arrowEnds, res *Resolution) {
	var junctions []geometry.Point

	joinJunction := func(p geometry.Point) int {
		best, bestDist := -1, 0.0
		for j, c := range junctions {
			d := c.DistanceTo(p)
			if d <= r.opts.ChainRadius && (best == -1 || d < bestDist) {
				best, bestDist = j, d
			}
		}
		if best >= 0 {
			return best
		}
		junctions = append(junctions, p)
		return len(junctions) - 1
	}

	refs := make([][2]endRef, len(arrows))
	for i, e := range ends {
		tail := endRef{node: e.tail, junction: -1}
		if e.tail < 0 {
			tail = endRef{node: -1, junction: joinJunction(e.tailPt)}
		}
		head := endRef{node: e.head, junction: -1}
		if e.head < 0 {
			head = endRef{node: -1, junction: joinJunction(e.headPt)}
		}
		refs[i] = [2]endRef{tail, head}
	}
	res.Junctions = len(junctions)

	// Hops leaving each junction, in arrow order.
	outgoing := make(map[int][]int)
	for i, ref := range refs {
		if ref[0].junction >= 0 {
			outgoing[ref[0].junction] = append(outgoing[ref[0].junction], i)
		}
	}

	// Walk forward from every arrow that starts at a node.
	for i, ref := range refs {
		if ref[0].node < 0 {
			continue
		}
		r.walkChain(i, refs, ends, outgoing, arrows, res)
	}

	// An arrow is resolved only when its tail traces back to a node and
	// its head traces forward to one. Everything else dangles and is
	// reported, exactly as a dangling arrow would be without chains.
	fed, reaches := junctionReachability(refs, len(junctions))
	for i, ref := range refs {
		tailOK := ref[0].node >= 0 || fed[ref[0].junction]
		headOK := ref[1].node >= 0 || reaches[ref[1].junction]
		if !tailOK || !headOK {
			d := res.Diagnostics.addf(CodeUnresolvedArrow,
				"arrow chain reaches no node")
			d.Box = boxRef(arrows[i].Box)
		}
	}
}

// junctionReachability computes, for every junction, whether some chain
// feeds it from a node (fed) and whether some chain leads from it to a
// node (reaches). Both are fixpoints over the hop relation.
func junctionReachability(refs [][2]endRef, junctions int) (fed, reaches []bool) {
	fed = make([]bool, junctions)
	reaches = make([]bool, junctions)

	for changed := true; changed; {
		changed = false
		for _, ref := range refs {
			if j := ref[1].junction; j >= 0 && !fed[j] {
				if ref[0].node >= 0 || fed[ref[0].junction] {
					fed[j] = true
					changed = true
				}
			}
			if j := ref[0].junction; j >= 0 && !reaches[j] {
				if ref[1].node >= 0 || reaches[ref[1].junction] {
					reaches[j] = true
					changed = true
				}
			}
		}
	}
	return fed, reaches
}

// chainState is one frontier entry of a chain walk.
type chainState struct {
	ref       endRef
	minConf   float64
	ambiguous bool
}

// walkChain breadth-first follows arrow i from its source node through
// junctions, emitting an edge for every node it reaches.
func (r *resolver) walkChain(i int, refs [][2]endRef, ends []arrowEnds, outgoing map[int][]int, arrows []detect.Detection, res *Resolution) {
	source := refs[i][0].node

	queue := []chainState{{
		ref:       refs[i][1],
		minConf:   arrows[i].Confidence,
		ambiguous: ends[i].ambiguous,
	}}
	visited := make(map[int]bool)

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if s.ref.node >= 0 {
			if s.ref.node == source {
				d := res.Diagnostics.addf(CodeSelfLoopRejected,
					"arrow chain returns to node %d", source)
				d.NodeID = nodeRef(source)
				continue
			}
			res.Edges = append(res.Edges, Edge{
				Source:     source,
				Target:     s.ref.node,
				Confidence: s.minConf,
				Ambiguous:  s.ambiguous,
			})
			continue
		}

		j := s.ref.junction
		if visited[j] {
			continue
		}
		visited[j] = true

		for _, next := range outgoing[j] {
			conf := s.minConf
			if arrows[next].Confidence < conf {
				conf = arrows[next].Confidence
			}
			queue = append(queue, chainState{
				ref:       refs[next][1],
				minConf:   conf,
				ambiguous: s.ambiguous || ends[next].ambiguous,
			})
		}
	}
}
