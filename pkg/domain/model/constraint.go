// 指示: miu200521358
package model

// ConstraintType はコンストレイント種別を表す。
type ConstraintType string

// コンストレイント種別一覧。
const (
	ConstraintCopyTransforms ConstraintType = "COPY_TRANSFORMS"
	ConstraintCopyLocation   ConstraintType = "COPY_LOCATION"
	ConstraintCopyRotation   ConstraintType = "COPY_ROTATION"
	ConstraintIK             ConstraintType = "IK"
)

// Constraint はボーンから対象(オブジェクト,ボーン)ペアへの有向拘束を表す。
type Constraint struct {
	Type      ConstraintType
	Target    string // 対象オブジェクト名
	Subtarget string // 対象ボーン名
	// HeadTail はCopyLocationで対象のどの点を参照するか(0=ヘッド,1=テイル)。
	HeadTail float64
	// IK専用の第2対象スロット。
	PoleTarget    string
	PoleSubtarget string
	ChainCount    int
	PoleAngle     float64
}

// TargetEdgeRole は依存エッジの役割を表す。
type TargetEdgeRole string

// 依存エッジ役割一覧。
const (
	TargetEdgeRolePrimary TargetEdgeRole = "TARGET"
	TargetEdgeRolePole    TargetEdgeRole = "POLE_TARGET"
)

// TargetEdge はコンストレイントが張る依存エッジを表す。
type TargetEdge struct {
	Role   TargetEdgeRole
	Object string
	Bone   string
}

// TargetEdges は依存エッジ一覧を返す。IKは対象スロットを2つ持つため、
// 依存探索は種別分岐ではなくこの一覧の畳み込みで行う。
func (c *Constraint) TargetEdges() []TargetEdge {
	edges := make([]TargetEdge, 0, 2)
	if c.Target != "" && c.Subtarget != "" {
		edges = append(edges, TargetEdge{Role: TargetEdgeRolePrimary, Object: c.Target, Bone: c.Subtarget})
	}
	if c.Type == ConstraintIK && c.PoleTarget != "" && c.PoleSubtarget != "" {
		edges = append(edges, TargetEdge{Role: TargetEdgeRolePole, Object: c.PoleTarget, Bone: c.PoleSubtarget})
	}
	return edges
}
