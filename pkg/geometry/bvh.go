package geometry

import (
	"fmt"
	"io"
	"strings"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// BVH build parameters
const (
	bucketCount     = 10   // Centroid buckets per axis
	traversalCost   = 0.25 // Cost of visiting an inner node, relative to one primitive test
	maxPrimsPerNode = 4    // Leaves may exceed this only when no split separates the primitives
)

// BVHNode represents a node in the Bounding Volume Hierarchy.
// Leaf nodes have Primitives set and no children.
type BVHNode struct {
	BoundingBox core.AABB
	Axis        int     // Split axis of an inner node
	Threshold   float64 // Centroids below the threshold went left
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []Primitive
}

// IsLeaf reports whether the node stores primitives directly
func (n *BVHNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after NewBVH returns and safe for concurrent queries.
type BVH struct {
	Root  *BVHNode
	count int
}

// primitiveInfo caches the values the builder reads repeatedly
type primitiveInfo struct {
	primitive Primitive
	bbox      core.AABB
	centroid  core.Point
}

// split is a candidate partition along one axis
type split struct {
	axis      int
	threshold float64
	cost      float64
}

// NewBVH builds a BVH over the given primitives using binned surface-area-heuristic splits
func NewBVH(primitives []Primitive) *BVH {
	if len(primitives) == 0 {
		return &BVH{}
	}

	infos := make([]primitiveInfo, len(primitives))
	for i, p := range primitives {
		infos[i] = primitiveInfo{primitive: p, bbox: p.BoundingBox(), centroid: p.Centroid()}
	}

	return &BVH{Root: buildBVH(infos), count: len(primitives)}
}

// buildBVH recursively builds the tree top-down
func buildBVH(infos []primitiveInfo) *BVHNode {
	node := &BVHNode{BoundingBox: core.EmptyAABB()}
	for _, info := range infos {
		node.BoundingBox = node.BoundingBox.Union(info.bbox)
	}

	best, ok := findBestSplit(infos)
	leafCost := float64(len(infos))
	if !ok || (best.cost >= leafCost && len(infos) <= maxPrimsPerNode) {
		return makeLeaf(node, infos)
	}

	left, right := partition(infos, best)

	// Ties on the threshold can leave one side empty; stop instead of recursing forever
	if len(left) == 0 || len(right) == 0 {
		return makeLeaf(node, infos)
	}

	node.Axis = best.axis
	node.Threshold = best.threshold
	node.Left = buildBVH(left)
	node.Right = buildBVH(right)
	return node
}

func makeLeaf(node *BVHNode, infos []primitiveInfo) *BVHNode {
	node.Primitives = make([]Primitive, len(infos))
	for i, info := range infos {
		node.Primitives[i] = info.primitive
	}
	return node
}

// findBestSplit returns the cheapest split over all three axes
func findBestSplit(infos []primitiveInfo) (split, bool) {
	var best split
	found := false
	for axis := 0; axis < 3; axis++ {
		if candidate, ok := findBestSplitOnAxis(infos, axis); ok && (!found || candidate.cost < best.cost) {
			best = candidate
			found = true
		}
	}
	return best, found
}

// findBestSplitOnAxis buckets centroids along one axis and scores every bucket boundary.
// cost = traversal + countLeft*areaLeft + countRight*areaRight, using AABB.HeuristicArea.
func findBestSplitOnAxis(infos []primitiveInfo, axis int) (split, bool) {
	lo, hi := infos[0].centroid.Axis(axis), infos[0].centroid.Axis(axis)
	for _, info := range infos[1:] {
		c := info.centroid.Axis(axis)
		lo = min(lo, c)
		hi = max(hi, c)
	}

	// All centroids coincide on this axis
	if !(hi > lo) {
		return split{}, false
	}

	bucketSize := (hi - lo) / bucketCount

	var counts [bucketCount]int
	var bounds [bucketCount]core.AABB
	for i := range bounds {
		bounds[i] = core.EmptyAABB()
	}
	for _, info := range infos {
		b := min(int((info.centroid.Axis(axis)-lo)/bucketSize), bucketCount-1)
		counts[b]++
		bounds[b] = bounds[b].Union(info.bbox)
	}

	best := split{axis: axis}
	found := false
	for boundary := 1; boundary < bucketCount; boundary++ {
		leftBox, rightBox := core.EmptyAABB(), core.EmptyAABB()
		leftCount, rightCount := 0, 0
		for b := 0; b < boundary; b++ {
			leftBox = leftBox.Union(bounds[b])
			leftCount += counts[b]
		}
		for b := boundary; b < bucketCount; b++ {
			rightBox = rightBox.Union(bounds[b])
			rightCount += counts[b]
		}
		if leftCount == 0 || rightCount == 0 {
			continue
		}

		cost := traversalCost +
			float64(leftCount)*leftBox.HeuristicArea() +
			float64(rightCount)*rightBox.HeuristicArea()
		if !found || cost < best.cost {
			best.cost = cost
			best.threshold = lo + float64(boundary)*bucketSize
			found = true
		}
	}

	return best, found
}

// partition splits primitives by comparing each centroid against the threshold
func partition(infos []primitiveInfo, s split) (left, right []primitiveInfo) {
	for _, info := range infos {
		if info.centroid.Axis(s.axis) < s.threshold {
			left = append(left, info)
		} else {
			right = append(right, info)
		}
	}
	return left, right
}

// Hit returns the nearest primitive hit with t in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	if _, ok := bvh.Root.BoundingBox.Hit(ray, tMin, tMax); !ok {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode assumes the ray already hits node's box. Children are visited nearest box first;
// the farther child is skipped when the nearer child produced a hit in front of its box.
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if node.IsLeaf() {
		var closest *material.HitRecord
		closestSoFar := tMax
		for _, primitive := range node.Primitives {
			if hit, ok := primitive.Hit(ray, tMin, closestSoFar); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	leftT, leftHit := node.Left.BoundingBox.Hit(ray, tMin, tMax)
	rightT, rightHit := node.Right.BoundingBox.Hit(ray, tMin, tMax)

	switch {
	case leftHit && rightHit:
		first, second, secondT := node.Left, node.Right, rightT
		if rightT < leftT {
			first, second, secondT = node.Right, node.Left, leftT
		}

		hit, ok := bvh.hitNode(first, ray, tMin, tMax)
		if !ok {
			return bvh.hitNode(second, ray, tMin, tMax)
		}
		if hit.T >= secondT {
			if other, ok := bvh.hitNode(second, ray, tMin, hit.T); ok && other.T < hit.T {
				hit = other
			}
		}
		return hit, true
	case leftHit:
		return bvh.hitNode(node.Left, ray, tMin, tMax)
	case rightHit:
		return bvh.hitNode(node.Right, ray, tMin, tMax)
	default:
		return nil, false
	}
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.EmptyAABB()
	}
	return bvh.Root.BoundingBox
}

// Len returns the number of primitives in the tree
func (bvh *BVH) Len() int {
	return bvh.count
}

// BVHStats summarizes the shape of a BVH
type BVHStats struct {
	Primitives  int
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64 // Mean leaf depth
	MaxLeafSize int
}

// Stats walks the tree and returns its statistics
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Primitives: bvh.count}
	if bvh.Root == nil {
		return stats
	}

	bvh.collectStats(bvh.Root, 0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth /= float64(stats.LeafNodes)
	}
	return stats
}

func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.AvgDepth += float64(depth)
		stats.MaxLeafSize = max(stats.MaxLeafSize, len(node.Primitives))
		return
	}

	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}

var axisNames = [3]string{"X", "Y", "Z"}

// Print writes an indented outline of the tree, one node per line
func (bvh *BVH) Print(w io.Writer) error {
	if bvh.Root == nil {
		_, err := fmt.Fprintln(w, "Empty")
		return err
	}
	return printNode(w, bvh.Root, 0)
}

func printNode(w io.Writer, node *BVHNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	if node.IsLeaf() {
		_, err := fmt.Fprintf(w, "%sLeaf (%d)\n", indent, len(node.Primitives))
		return err
	}

	if _, err := fmt.Fprintf(w, "%sInner (split on %s at %g)\n", indent, axisNames[node.Axis], node.Threshold); err != nil {
		return err
	}
	if err := printNode(w, node.Left, depth+1); err != nil {
		return err
	}
	return printNode(w, node.Right, depth+1)
}
