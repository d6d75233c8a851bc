// 指示: miu200521358
package scene

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// nodeKey は依存グラフ上のボーンノードを表す。
type nodeKey struct {
	object string
	bone   string
}

// evaluate は現在フレームのアクション適用と全ボーンの姿勢解決を行う。
func (s *Scene) evaluate() error {
	if err := s.applyActions(); err != nil {
		return err
	}
	order, err := s.evaluationOrder()
	if err != nil {
		return err
	}
	for _, key := range order {
		obj, ok := s.ObjectByName(key.object)
		if !ok {
			continue
		}
		bone, pose, ok := obj.PoseBoneByName(key.bone)
		if !ok {
			continue
		}
		parent := obj.Bones.Parent(bone)
		local := model.RestRelativeMatrix(parent, bone).Muled(pose.BasisMatrix(bone.Connected))
		world := local
		if parent != nil {
			if parentPose, exists := obj.Pose[parent.Name()]; exists {
				world = parentPose.PoseMatrix.Muled(local)
			}
		}
		pose.PoseMatrix = s.applyConstraints(pose, world)
	}
	return nil
}

// applyActions は全オブジェクトのFカーブを現在フレームで評価し、
// ポーズチャンネルへ書き戻す。
func (s *Scene) applyActions() error {
	frame := float64(s.frame)
	for _, obj := range s.objects {
		if obj.Action == nil {
			continue
		}
		for _, fc := range obj.Action.FCurves {
			if len(fc.Keyframes) == 0 {
				continue
			}
			pose, ok := obj.Pose[fc.BoneName]
			if !ok {
				continue
			}
			if err := pose.ApplyChannelValue(fc.Channel, fc.ArrayIndex, fc.Evaluate(frame)); err != nil {
				return fmt.Errorf("カーブ値の適用に失敗しました(%s): %w", fc.DataPath(), err)
			}
		}
	}
	return nil
}

// evaluationOrder は親子関係とコンストレイント対象から評価順を決定する。
// 解決できない対象参照はエッジを張らずに無視する。
func (s *Scene) evaluationOrder() ([]nodeKey, error) {
	var nodes []nodeKey
	indegree := map[nodeKey]int{}
	dependents := map[nodeKey][]nodeKey{}

	for _, obj := range s.objects {
		for _, bone := range obj.Bones.Values() {
			nodes = append(nodes, nodeKey{object: obj.Name(), bone: bone.Name()})
		}
	}
	exists := map[nodeKey]bool{}
	for _, key := range nodes {
		exists[key] = true
		indegree[key] = 0
	}

	addEdge := func(from, to nodeKey) {
		if !exists[from] || !exists[to] || from == to {
			return
		}
		dependents[from] = append(dependents[from], to)
		indegree[to]++
	}

	for _, obj := range s.objects {
		for _, bone := range obj.Bones.Values() {
			key := nodeKey{object: obj.Name(), bone: bone.Name()}
			if parent := obj.Bones.Parent(bone); parent != nil {
				addEdge(nodeKey{object: obj.Name(), bone: parent.Name()}, key)
			}
			pose, ok := obj.Pose[bone.Name()]
			if !ok {
				continue
			}
			for _, constraint := range pose.Constraints {
				for _, edge := range constraint.TargetEdges() {
					addEdge(nodeKey{object: edge.Object, bone: edge.Bone}, key)
				}
			}
		}
	}

	// Kahn法。同時に解決可能なノードは登録順を保つ。
	queue := make([]nodeKey, 0, len(nodes))
	for _, key := range nodes {
		if indegree[key] == 0 {
			queue = append(queue, key)
		}
	}
	order := make([]nodeKey, 0, len(nodes))
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		order = append(order, key)
		for _, next := range dependents[key] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("ボーン依存関係が循環しています: %w", merrors.ErrUserPrecondition)
	}
	return order, nil
}

// applyConstraints はコンストレイントを定義順に適用した姿勢を返す。
func (s *Scene) applyConstraints(pose *model.PoseBone, world mmath.Mat4) mmath.Mat4 {
	for _, constraint := range pose.Constraints {
		target, ok := s.resolveTarget(constraint.Target, constraint.Subtarget)
		if !ok {
			continue
		}
		switch constraint.Type {
		case model.ConstraintCopyTransforms:
			world = target.Pose.PoseMatrix
		case model.ConstraintCopyLocation:
			// 対象ボーン上のヘッド〜テイル補間点へ平行移動を差し替える。
			// レスト姿勢は回転を持たないため、ローカルのテイルオフセットはTail-Headそのもの。
			tailOffset := target.Bone.Tail.Subed(target.Bone.Head)
			point := target.Pose.PoseMatrix.MulVec3(tailOffset.MuledScalar(constraint.HeadTail))
			world = world.SetTranslation(point)
		case model.ConstraintCopyRotation:
			translation, _, scale := world.Decompose()
			world = mmath.NewMat4FromTRS(translation, target.Pose.PoseMatrix.Quaternion(), scale)
		case model.ConstraintIK:
			// IKは依存エッジのみ寄与し、姿勢の書き換えは行わない。
		}
	}
	return world
}

// resolveTarget は(オブジェクト名, ボーン名)の対象参照を解決する。
func (s *Scene) resolveTarget(objectName, boneName string) (shost.PoseBoneRef, bool) {
	if objectName == "" || boneName == "" {
		return shost.PoseBoneRef{}, false
	}
	obj, ok := s.ObjectByName(objectName)
	if !ok {
		return shost.PoseBoneRef{}, false
	}
	return s.PoseBone(obj, boneName)
}
