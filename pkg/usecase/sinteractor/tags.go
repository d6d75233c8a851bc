// 指示: miu200521358
package sinteractor

import (
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// IsConstrainedTo はコンストレイントが候補ボーンを対象にしているか判定する。
// IKは対象スロットを2つ持つため、依存エッジ一覧の畳み込みで判定する。
func IsConstrainedTo(constraint *model.Constraint, candidate shost.PoseBoneRef) bool {
	for _, edge := range constraint.TargetEdges() {
		if edge.Object == candidate.Object.Name() && edge.Bone == candidate.Bone.Name() {
			return true
		}
	}
	return false
}
