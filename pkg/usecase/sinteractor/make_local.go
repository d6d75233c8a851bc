// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// MakeLocalArmature はリンク元アーマチュアの完全ローカルな複製を作り、
// 元を複製へ拘束する。既存の複製があればモーションを元へベイクしてから作り直すため、
// リンク先ファイルが更新されてもモーションを失わずに繰り返し実行できる。
func (uc *SpaceSwitchUsecase) MakeLocalArmature(request MakeLocalArmatureRequest) (*MakeLocalArmatureResult, error) {
	if err := uc.PollMakeLocalArmature(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}

	srcObj := uc.host.ActiveObject()

	// 既存のローカル複製を更新する場合に備えて再表示しておく。
	srcObj.HideViewport = false

	// 全ポーズボーンが同一オブジェクトへ拘束済みなら、既存の複製があると判断する。
	oldObjectName := ""
	type constraintEntry struct {
		pose       *model.PoseBone
		constraint *model.Constraint
	}
	var constraintsToRemove []constraintEntry
	for _, bone := range srcObj.Bones.Values() {
		ref, ok := uc.host.PoseBone(srcObj, bone.Name())
		if !ok {
			continue
		}
		if len(ref.Pose.Constraints) > 1 {
			return nil, fmt.Errorf("ボーン%sのコンストレイントが複数あり既存複製を特定できません: %w",
				bone.Name(), merrors.ErrUserPrecondition)
		}
		if len(ref.Pose.Constraints) == 1 {
			constraint := ref.Pose.Constraints[0]
			if oldObjectName == "" {
				oldObjectName = constraint.Target
			} else if oldObjectName != constraint.Target {
				return nil, fmt.Errorf("%sが複数オブジェクトへ拘束されており既存複製を特定できません: %w",
					srcObj.Name(), merrors.ErrUserPrecondition)
			}
			constraintsToRemove = append(constraintsToRemove, constraintEntry{pose: ref.Pose, constraint: constraint})
		}
	}

	frames := request.Range.Frames()
	srcRefs := uc.objectPoseBones(srcObj)

	// 既存複製のモーションは削除前に元へベイクして引き継ぐ。
	// ユーザーが複製だけ手で消していた場合はベイクも削除も行わない。
	if oldObjectName != "" {
		if oldObj, ok := uc.host.ObjectByName(oldObjectName); ok {
			if err := uc.customBake(frames, srcRefs, AllChannels()); err != nil {
				return nil, err
			}
			if err := uc.host.DeleteObject(oldObj); err != nil {
				return nil, err
			}
		}
	}
	for _, entry := range constraintsToRemove {
		entry.pose.RemoveConstraint(entry.constraint)
	}

	destObj, err := uc.host.DuplicateObject(srcObj,
		uc.templates.ExpandLocal(srcObj.Name(), srcObj.ArmatureName()))
	if err != nil {
		return nil, fmt.Errorf("元オブジェクトの複製に失敗しました: %w", err)
	}
	if destObj == srcObj {
		return nil, fmt.Errorf("複製結果が元オブジェクトと同一です: %w", merrors.ErrInternalInconsistency)
	}
	destObj.Linked = false

	// 複製を元へ拘束し、元のモーションを複製へベイクする。
	var destCaptures []constraintEntry
	for _, bone := range destObj.Bones.Values() {
		ref, ok := uc.host.PoseBone(destObj, bone.Name())
		if !ok {
			continue
		}
		capture := &model.Constraint{
			Type:      model.ConstraintCopyTransforms,
			Target:    srcObj.Name(),
			Subtarget: bone.Name(),
		}
		ref.Pose.Constraints = append(ref.Pose.Constraints, capture)
		destCaptures = append(destCaptures, constraintEntry{pose: ref.Pose, constraint: capture})
	}
	if err := uc.host.SetActiveObject(destObj); err != nil {
		return nil, err
	}
	if err := uc.customBake(frames, uc.objectPoseBones(destObj), AllChannels()); err != nil {
		return nil, err
	}
	for _, entry := range destCaptures {
		entry.pose.RemoveConstraint(entry.constraint)
	}

	// モーションを写し終えたので、今度は元を複製へ拘束する。
	for _, bone := range srcObj.Bones.Values() {
		ref, ok := uc.host.PoseBone(srcObj, bone.Name())
		if !ok {
			continue
		}
		ref.Pose.Constraints = append(ref.Pose.Constraints, &model.Constraint{
			Type:      model.ConstraintCopyTransforms,
			Target:    destObj.Name(),
			Subtarget: bone.Name(),
		})
	}

	// 誤って元を選択しないようビューポートから隠す。
	srcObj.HideViewport = true

	if err := uc.host.Reevaluate(); err != nil {
		return nil, err
	}
	return &MakeLocalArmatureResult{DuplicateName: destObj.Name()}, nil
}

// objectPoseBones はオブジェクト内の全ポーズボーン参照をindex順で返す。
func (uc *SpaceSwitchUsecase) objectPoseBones(obj *model.ArmatureObject) []shost.PoseBoneRef {
	refs := make([]shost.PoseBoneRef, 0, obj.Bones.Len())
	for _, bone := range obj.Bones.Values() {
		if ref, ok := uc.host.PoseBone(obj, bone.Name()); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}
