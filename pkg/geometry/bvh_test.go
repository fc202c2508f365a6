package geometry

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// idMaterial tags primitives so hits can be traced back to them
type idMaterial struct {
	id int
}

func (m *idMaterial) Scatter(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// MockPrimitive is a bounded shape with a configurable hit function
type MockPrimitive struct {
	bbox  core.AABB
	hitFn func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

func (m *MockPrimitive) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if m.hitFn != nil {
		return m.hitFn(ray, tMin, tMax)
	}
	return nil, false
}
func (m *MockPrimitive) BoundingBox() core.AABB { return m.bbox }
func (m *MockPrimitive) SurfaceArea() float64   { return m.bbox.SurfaceArea() }
func (m *MockPrimitive) Centroid() core.Point   { return m.bbox.Center() }

func randomPrimitives(random *rand.Rand, n int) []Primitive {
	primitives := make([]Primitive, 0, n)
	for i := 0; i < n; i++ {
		mat := &idMaterial{id: i}
		if i%2 == 0 {
			primitives = append(primitives, NewSphere(core.RandomVec3(random, -10, 10), 0.2+random.Float64(), mat))
			continue
		}
		base := core.RandomVec3(random, -10, 10)
		primitives = append(primitives, NewTriangle(
			base,
			base.Add(core.RandomVec3(random, -2, 2)),
			base.Add(core.RandomVec3(random, -2, 2)),
			mat,
		))
	}
	return primitives
}

// hitResult identifies the nearest hit for comparison
type hitResult struct {
	Hit bool
	ID  int
	T   float64
}

func toResult(hit *material.HitRecord, ok bool) hitResult {
	if !ok {
		return hitResult{}
	}
	return hitResult{Hit: true, ID: hit.Material.(*idMaterial).id, T: hit.T}
}

func bruteForceHit(primitives []Primitive, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax
	for _, p := range primitives {
		if hit, ok := p.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 3, 17, 200, 1000} {
		primitives := randomPrimitives(random, n)
		bvh := NewBVH(primitives)

		var fromBVH, fromScan []hitResult
		for i := 0; i < 500; i++ {
			origin := core.RandomVec3(random, -15, 15)
			target := core.RandomVec3(random, -10, 10)
			ray := core.NewRay(origin, target.Subtract(origin))

			fromBVH = append(fromBVH, toResult(bvh.Hit(ray, 0.001, math.Inf(1))))
			fromScan = append(fromScan, toResult(bruteForceHit(primitives, ray, 0.001, math.Inf(1))))
		}

		if diff := cmp.Diff(fromScan, fromBVH, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("BVH with %d primitives disagrees with linear scan (-scan +bvh):\n%s", n, diff)
		}
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)

	if _, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0, math.Inf(1)); ok {
		t.Error("Empty BVH should never report a hit")
	}
	if !bvh.BoundingBox().IsEmpty() {
		t.Error("Empty BVH should have an empty bounding box")
	}
	if stats := bvh.Stats(); stats.TotalNodes != 0 {
		t.Errorf("Expected no nodes, got %d", stats.TotalNodes)
	}
}

func TestBVH_CoincidentCentroids(t *testing.T) {
	// Concentric spheres cannot be separated by any centroid split
	var primitives []Primitive
	for i := 0; i < 20; i++ {
		primitives = append(primitives, NewSphere(core.NewVec3(1, 2, 3), float64(i+1), &idMaterial{id: i}))
	}

	bvh := NewBVH(primitives)
	stats := bvh.Stats()
	if stats.TotalNodes != 1 || stats.LeafNodes != 1 {
		t.Errorf("Expected a single leaf, got %d nodes and %d leaves", stats.TotalNodes, stats.LeafNodes)
	}
	if stats.MaxLeafSize != 20 {
		t.Errorf("Expected all 20 primitives in the leaf, got %d", stats.MaxLeafSize)
	}

	// From outside, the outermost sphere is nearest
	hit, ok := bvh.Hit(core.NewRay(core.NewVec3(1, 2, 100), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok || hit.Material.(*idMaterial).id != 19 {
		t.Errorf("Expected outermost sphere to be hit, got %+v", toResult(hit, ok))
	}
}

func TestBVH_LeafSizes(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	primitives := randomPrimitives(random, 500)
	stats := NewBVH(primitives).Stats()

	if stats.Primitives != 500 {
		t.Errorf("Expected 500 primitives, got %d", stats.Primitives)
	}
	if stats.MaxLeafSize > maxPrimsPerNode {
		t.Errorf("Expected leaves of at most %d primitives for distinct centroids, got %d", maxPrimsPerNode, stats.MaxLeafSize)
	}
	if stats.TotalNodes != 2*stats.LeafNodes-1 {
		t.Errorf("Binary tree should have 2*leaves-1 nodes: %d nodes, %d leaves", stats.TotalNodes, stats.LeafNodes)
	}
	if stats.MaxDepth < 3 || stats.AvgDepth <= 0 {
		t.Errorf("Unexpected depth stats: max=%d avg=%f", stats.MaxDepth, stats.AvgDepth)
	}
}

func TestBVH_PrunesFarChild(t *testing.T) {
	farVisited := false
	near := &MockPrimitive{
		bbox: core.NewAABB(core.NewVec3(-1, -1, -2), core.NewVec3(1, 1, -1)),
		hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			return &material.HitRecord{T: 1, Material: &idMaterial{id: 0}}, true
		},
	}
	far := &MockPrimitive{
		bbox: core.NewAABB(core.NewVec3(-1, -1, -20), core.NewVec3(1, 1, -19)),
		hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			farVisited = true
			return nil, false
		},
	}

	// Enough copies of each to force an inner node between the two clusters
	var primitives []Primitive
	for i := 0; i < maxPrimsPerNode; i++ {
		primitives = append(primitives, near, far)
	}
	bvh := NewBVH(primitives)

	hit, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok || hit.T != 1 {
		t.Fatalf("Expected near hit at t=1, got %+v", toResult(hit, ok))
	}
	if farVisited {
		t.Error("Far child should be pruned once a closer hit is known")
	}
}

func TestBVH_Print(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	bvh := NewBVH(randomPrimitives(random, 50))

	var buf bytes.Buffer
	if err := bvh.Print(&buf); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	stats := bvh.Stats()
	if len(lines) != stats.TotalNodes {
		t.Errorf("Expected %d lines, got %d", stats.TotalNodes, len(lines))
	}
	if !strings.HasPrefix(lines[0], "Inner (split on ") {
		t.Errorf("Expected root to be an inner node, got %q", lines[0])
	}

	leaves := 0
	for _, line := range lines {
		if strings.Contains(line, "Leaf (") {
			leaves++
		}
	}
	if leaves != stats.LeafNodes {
		t.Errorf("Expected %d leaf lines, got %d", stats.LeafNodes, leaves)
	}
}

func BenchmarkBVH_Hit(b *testing.B) {
	random := rand.New(rand.NewSource(42))
	bvh := NewBVH(randomPrimitives(random, 1000))
	rays := make([]core.Ray, 256)
	for i := range rays {
		rays[i] = core.NewRay(core.RandomVec3(random, -20, 20), core.RandomVec3(random, -1, 1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bvh.Hit(rays[i%len(rays)], 0.001, math.Inf(1))
	}
}
