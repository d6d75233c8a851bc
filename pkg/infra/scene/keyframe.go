// 指示: miu200521358
package scene

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// ConvertPoseToLocal はアーマチュア空間姿勢をローカルチャンネルへ逆変換して格納する。
// コンストレイントの寄与は含まれない(評価済み姿勢をそのまま基底へ戻す)。
func (s *Scene) ConvertPoseToLocal(ref shost.PoseBoneRef, pose mmath.Mat4) error {
	if ref.Object == nil || ref.Bone == nil || ref.Pose == nil {
		return fmt.Errorf("ポーズボーン参照が不完全です: %w", merrors.ErrInvalidArgument)
	}
	parent := ref.Object.Bones.Parent(ref.Bone)
	restRel := model.RestRelativeMatrix(parent, ref.Bone)

	basis := restRel.Inverted().Muled(pose)
	if parent != nil {
		parentPose, ok := ref.Object.Pose[parent.Name()]
		if !ok {
			return fmt.Errorf("親ボーンのポーズ状態がありません(%s): %w", parent.Name(), merrors.ErrInternalInconsistency)
		}
		basis = restRel.Inverted().Muled(parentPose.PoseMatrix.Inverted()).Muled(pose)
	}

	location, rotation, scale := basis.Decompose()
	if ref.Bone.Connected {
		location = mmath.ZERO_VEC3
	}
	ref.Pose.Location = location
	ref.Pose.SetRotation(rotation)
	ref.Pose.Scale = scale
	return nil
}

// KeyframeInsert は現在のチャンネル値をキーフレームとして挿入する。
func (s *Scene) KeyframeInsert(obj *model.ArmatureObject, boneName, channel string, arrayIndex, frame int, group string) error {
	_, pose, ok := obj.PoseBoneByName(boneName)
	if !ok {
		return fmt.Errorf("キー挿入対象ボーンが見つかりません(%s): %w", boneName, merrors.ErrInvalidArgument)
	}
	values, err := pose.ChannelValues(channel)
	if err != nil {
		return err
	}
	if arrayIndex < 0 || arrayIndex >= len(values) {
		return fmt.Errorf("チャンネル成分indexが範囲外です(%s[%d]): %w", channel, arrayIndex, merrors.ErrInvalidArgument)
	}
	fc := obj.EnsureAction().EnsureCurve(boneName, channel, arrayIndex, group)
	fc.Insert(float64(frame), values[arrayIndex])
	return nil
}

// RemoveBoneCurves はボーンのFカーブを全削除する。アクション未生成時は何もしない。
func (s *Scene) RemoveBoneCurves(obj *model.ArmatureObject, boneName string) {
	if obj == nil || obj.Action == nil {
		return
	}
	obj.Action.RemoveBoneCurves(boneName)
}
