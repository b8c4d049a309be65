package walkmesh

import (
	"container/heap"

	"go.uber.org/zap"

	"gowalkmesh/common"
	"gowalkmesh/common/logger"
)

// Obstacle is a dynamic circular blocker with a world position and an
// influence radius.
type Obstacle struct {
	Position common.Vec3
	Radius   float64
}

const (
	// Fixed buffer added to every obstacle radius when classifying
	// blocked faces and obstructed segments.
	obstacleBuffer = 0.5
	// Single-shot radius escalation applied when the first search
	// around obstacles fails.
	obstacleEscalation = 1.5
	// Recursion cap for the same-face reroute through a neighbor
	// center. Exhaustion is "no path", not a stack concern.
	maxSameFaceDepth = 1
)

// FindPath computes the shortest walkable path between two points and
// returns its waypoints, or nil when no path exists. Off-mesh points
// and non-walkable start or goal faces yield nil.
func (m *Mesh) FindPath(start, goal common.Vec3) []common.Vec3 {
	return m.FindPathAroundObstacles(start, goal, nil)
}

// FindPathAroundObstacles is FindPath with dynamic obstacles excluded
// from the search. When the search fails with obstacles present it is
// retried once with every radius scaled by 1.5 before reporting nil.
func (m *Mesh) FindPathAroundObstacles(start, goal common.Vec3, obstacles []Obstacle) []common.Vec3 {
	path := m.findPathScaled(start, goal, obstacles, 1.0, 0)
	if path == nil && len(obstacles) > 0 {
		logger.L().Debug("path search failed, escalating obstacle radius",
			zap.Int("obstacles", len(obstacles)))
		path = m.findPathScaled(start, goal, obstacles, obstacleEscalation, 0)
	}
	return path
}

func (m *Mesh) findPathScaled(start, goal common.Vec3, obstacles []Obstacle, scale float64, depth int) []common.Vec3 {
	sf := m.FindFaceAt(start)
	gf := m.FindFaceAt(goal)
	if sf == NoFace || gf == NoFace || !m.IsWalkable(sf) || !m.IsWalkable(gf) {
		return nil
	}

	blocked := m.blockedFaces(obstacles, scale)
	// Obstacles never block the literal start or goal face.
	delete(blocked, sf)
	delete(blocked, gf)

	if sf == gf {
		if !segmentObstructed(start, goal, obstacles, scale) {
			return []common.Vec3{start, goal}
		}
		if depth >= maxSameFaceDepth {
			logger.L().Debug("same-face reroute exhausted", zap.Int32("face", sf))
			return nil
		}
		// Route through an unobstructed neighbor's center and solve
		// the rest from there.
		for _, nf := range m.AdjacentFaces(sf) {
			if nf == NoFace || !m.IsWalkable(nf) || blocked[nf] {
				continue
			}
			if sub := m.findPathScaled(m.FaceCenter(nf), goal, obstacles, scale, depth+1); sub != nil {
				return append([]common.Vec3{start}, sub...)
			}
		}
		return nil
	}

	faces := m.searchFaces(sf, gf, blocked)
	if faces == nil {
		return nil
	}
	waypoints := make([]common.Vec3, 0, len(faces)+1)
	waypoints = append(waypoints, start)
	for _, f := range faces[1 : len(faces)-1] {
		waypoints = append(waypoints, m.FaceCenter(f))
	}
	waypoints = append(waypoints, goal)
	return m.smoothPath(waypoints, obstacles, scale)
}

// blockedFaces collects the faces whose centroid lies within
// radius*scale+buffer of any obstacle, in the xy plane.
func (m *Mesh) blockedFaces(obstacles []Obstacle, scale float64) map[int32]bool {
	blocked := make(map[int32]bool)
	if len(obstacles) == 0 {
		return blocked
	}
	for f := int32(0); f < m.faceCount; f++ {
		center := m.FaceCenter(f)
		for _, ob := range obstacles {
			if common.Vdist2D(center, ob.Position) <= ob.Radius*scale+obstacleBuffer {
				blocked[f] = true
				break
			}
		}
	}
	return blocked
}

func segmentObstructed(p, q common.Vec3, obstacles []Obstacle, scale float64) bool {
	for _, ob := range obstacles {
		r := ob.Radius*scale + obstacleBuffer
		if common.DistancePtSegSqr2D(ob.Position, p, q) <= common.Sqr(r) {
			return true
		}
	}
	return false
}

// searchFaces runs A* over the face adjacency graph from sf to gf and
// returns the face chain including both endpoints, or nil. Edge cost
// is the centroid distance scaled by the destination face's material
// cost factor; the factor is never below 1, so the plain centroid
// distance heuristic stays admissible.
func (m *Mesh) searchFaces(sf, gf int32, blocked map[int32]bool) []int32 {
	goalCenter := m.FaceCenter(gf)
	nodes := make(map[int32]*pathNode)
	open := &nodeQueue{}
	heap.Init(open)

	sn := &pathNode{face: sf, parent: NoFace, total: m.FaceCenter(sf).Sub(goalCenter).Len()}
	nodes[sf] = sn
	open.offer(sn)

	for open.Len() > 0 {
		cur := open.poll()
		if cur.face == gf {
			var chain []int32
			for f := gf; f != NoFace; f = nodes[f].parent {
				chain = append(chain, f)
			}
			for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
				chain[i], chain[j] = chain[j], chain[i]
			}
			return chain
		}
		cur.closed = true
		curCenter := m.FaceCenter(cur.face)

		for e := int32(0); e < 3; e++ {
			slot := m.adjacency[cur.face*3+e]
			if slot < 0 {
				continue
			}
			nf := slot / 3
			if !m.IsWalkable(nf) || blocked[nf] {
				continue
			}
			nfCenter := m.FaceCenter(nf)
			cost := cur.cost + curCenter.Sub(nfCenter).Len()*m.table.Cost(m.materials[nf])

			node, ok := nodes[nf]
			if !ok {
				node = &pathNode{face: nf, parent: cur.face, cost: cost,
					total: cost + nfCenter.Sub(goalCenter).Len()}
				nodes[nf] = node
				open.offer(node)
				continue
			}
			if node.closed || cost >= node.cost {
				continue
			}
			node.parent = cur.face
			node.total += cost - node.cost
			node.cost = cost
			if node.index >= 0 {
				heap.Fix(open, node.index)
			} else {
				open.offer(node)
			}
		}
	}
	return nil
}

// smoothPath is a single greedy forward pass: a waypoint is kept only
// when the segment from the last kept waypoint to the following one is
// obstructed, either by geometry or by an obstacle. String-pulls the
// path without a full funnel pass.
func (m *Mesh) smoothPath(points []common.Vec3, obstacles []Obstacle, scale float64) []common.Vec3 {
	if len(points) <= 2 {
		return points
	}
	out := make([]common.Vec3, 0, len(points))
	out = append(out, points[0])
	anchor := points[0]
	for i := 1; i < len(points)-1; i++ {
		if !m.TestLineOfSight(anchor, points[i+1]) ||
			segmentObstructed(anchor, points[i+1], obstacles, scale) {
			out = append(out, points[i])
			anchor = points[i]
		}
	}
	return append(out, points[len(points)-1])
}

type pathNode struct {
	face   int32
	cost   float64 // accumulated cost from the start face
	total  float64 // cost plus heuristic to the goal
	parent int32
	closed bool
	index  int // heap slot, -1 when not queued
}

// nodeQueue is a binary min-heap keyed by (total, face); the face
// index tie-break keeps expansion order deterministic.
type nodeQueue struct {
	data []*pathNode
}

func (q *nodeQueue) Len() int { return len(q.data) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.data[i], q.data[j]
	if a.total != b.total {
		return a.total < b.total
	}
	return a.face < b.face
}

func (q *nodeQueue) Swap(i, j int) {
	q.data[i], q.data[j] = q.data[j], q.data[i]
	q.data[i].index = i
	q.data[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*pathNode)
	n.index = len(q.data)
	q.data = append(q.data, n)
}

func (q *nodeQueue) Pop() any {
	n := q.data[len(q.data)-1]
	q.data = q.data[:len(q.data)-1]
	n.index = -1
	return n
}

func (q *nodeQueue) offer(n *pathNode) { heap.Push(q, n) }

func (q *nodeQueue) poll() *pathNode { return heap.Pop(q).(*pathNode) }
