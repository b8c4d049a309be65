package walkmesh

// Surface material codes carried per face. The domain is 0..30; codes
// outside it are treated as non-walkable.
const (
	MatUndefined     = int32(0)
	MatDirt          = int32(1)
	MatObscuring     = int32(2)
	MatGrass         = int32(3)
	MatStone         = int32(4)
	MatWood          = int32(5)
	MatWater         = int32(6)
	MatNonWalk       = int32(7)
	MatTransparent   = int32(8)
	MatCarpet        = int32(9)
	MatMetal         = int32(10)
	MatPuddles       = int32(11)
	MatSwamp         = int32(12)
	MatMud           = int32(13)
	MatLeaves        = int32(14)
	MatLava          = int32(15)
	MatBottomlessPit = int32(16)
	MatDeepWater     = int32(17)
	MatDoor          = int32(18)
	MatNonWalkGrass  = int32(19)
	MatTrigger       = int32(30)

	MaxMaterial = int32(30)
)

// MaterialTable is the walkable/non-walkable partition and the
// traversal cost factor per material. It is supplied at mesh
// construction so different rule sets can coexist in one process.
type MaterialTable struct {
	walkable [MaxMaterial + 1]bool
	cost     [MaxMaterial + 1]float64
}

// NewMaterialTable returns a table where every listed material is
// walkable at cost factor 1 and everything else is non-walkable.
func NewMaterialTable(walkable ...int32) *MaterialTable {
	t := &MaterialTable{}
	for i := range t.cost {
		t.cost[i] = 1.0
	}
	for _, m := range walkable {
		if m >= 0 && m <= MaxMaterial {
			t.walkable[m] = true
		}
	}
	return t
}

// DefaultMaterialTable is the reference partition: ordinary ground
// materials walk at cost 1, wet terrain at 1.5, deep water is passable
// but heavily penalized, and everything else is fail-closed.
func DefaultMaterialTable() *MaterialTable {
	t := NewMaterialTable(
		MatDirt, MatGrass, MatStone, MatWood, MatWater, MatCarpet,
		MatMetal, MatPuddles, MatSwamp, MatMud, MatLeaves,
		MatDeepWater, MatDoor, MatTrigger,
	)
	t.cost[MatWater] = 1.5
	t.cost[MatPuddles] = 1.5
	t.cost[MatSwamp] = 1.5
	t.cost[MatMud] = 1.5
	t.cost[MatDeepWater] = 10.0
	return t
}

// SetCost overrides the traversal cost factor of a material. Factors
// below 1 would break the A* heuristic admissibility and are clamped.
func (t *MaterialTable) SetCost(material int32, factor float64) {
	if material < 0 || material > MaxMaterial {
		return
	}
	if factor < 1.0 {
		factor = 1.0
	}
	t.cost[material] = factor
}

func (t *MaterialTable) Walkable(material int32) bool {
	if material < 0 || material > MaxMaterial {
		return false
	}
	return t.walkable[material]
}

func (t *MaterialTable) Cost(material int32) float64 {
	if material < 0 || material > MaxMaterial {
		return 1.0
	}
	return t.cost[material]
}
