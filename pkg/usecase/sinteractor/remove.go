// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// DeleteBones は選択中の一時ボーンをベイクなしで撤去する。
func (uc *SpaceSwitchUsecase) DeleteBones() (*DeleteBonesResult, error) {
	if err := uc.PollDeleteBones(); err != nil {
		return nil, err
	}
	_, removed, err := uc.removeBonesCommon(false, nil)
	if err != nil {
		return nil, err
	}
	return &DeleteBonesResult{RemovedBoneNames: removed}, nil
}

// ApplyBones は拘束先の元ボーンへモーションをベイクしてから一時ボーンを撤去する。
func (uc *SpaceSwitchUsecase) ApplyBones(request ApplyBonesRequest) (*ApplyBonesResult, error) {
	if err := uc.PollApplyBones(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}
	baked, removed, err := uc.removeBonesCommon(true, request.Range.Frames())
	if err != nil {
		return nil, err
	}
	return &ApplyBonesResult{BakedBoneCount: baked, RemovedBoneNames: removed}, nil
}

// removeBonesCommon は選択中の一時ボーンを撤去する。
// doApply時は、一時ボーンへ拘束された元ボーンを先にベイクしてモーションを確定させる。
func (uc *SpaceSwitchUsecase) removeBonesCommon(doApply bool, frames []int) (int, []string, error) {
	tempRefs := uc.host.SelectedPoseBones()
	activeRef, hasActive := uc.host.ActivePoseBone()

	bakedCount := 0
	if doApply {
		// 一時ボーンへ拘束された元ボーンを集める。
		bakeRefs := make([]shost.PoseBoneRef, 0, len(tempRefs))
		seen := map[string]bool{}
		for _, obj := range uc.host.Objects() {
			for _, bone := range obj.Bones.Values() {
				ref, ok := uc.host.PoseBone(obj, bone.Name())
				if !ok {
					continue
				}
				if !uc.isConstrainedToAny(ref, tempRefs) {
					continue
				}
				key := obj.Name() + "/" + bone.Name()
				if seen[key] {
					continue
				}
				seen[key] = true
				bakeRefs = append(bakeRefs, ref)
			}
		}
		if len(bakeRefs) > 0 {
			if err := uc.customBake(frames, bakeRefs, AllChannels()); err != nil {
				return 0, nil, err
			}
			bakedCount = len(bakeRefs)
		}
		// 拘束された元ボーンが1本も無い場合、ベイクは省略して撤去だけ行う。
	}

	// 撤去単位は一時ボーンとその構造アンカー。
	// connectedの2段アンカーは祖父ボーンまで一緒に消す。
	var namesToRemove []string
	removeSeen := map[string]bool{}
	appendName := func(name string) {
		if !removeSeen[name] {
			removeSeen[name] = true
			namesToRemove = append(namesToRemove, name)
		}
	}
	for _, tempRef := range tempRefs {
		appendName(tempRef.Bone.Name())
		if parent := tempRef.Object.Bones.Parent(tempRef.Bone); parent != nil {
			appendName(parent.Name())
			if grandparent := tempRef.Object.Bones.Parent(parent); grandparent != nil {
				appendName(grandparent.Name())
			}
		}
		// ホストはボーン削除時にモーションを消さないため先に掃除する。
		uc.host.RemoveBoneCurves(tempRef.Object, tempRef.Bone.Name())
	}

	// 一時ボーンを対象にしたコンストレイントを元ボーンから外し、元ボーンを再表示する。
	type selectEntry struct {
		obj      *model.ArmatureObject
		boneName string
	}
	var bonesToSelect []selectEntry
	var boneToActivate *selectEntry
	for _, obj := range uc.host.Objects() {
		for _, bone := range obj.Bones.Values() {
			srcRef, ok := uc.host.PoseBone(obj, bone.Name())
			if !ok {
				continue
			}
			wasConstrained := false
			activatedHere := false
			remaining := srcRef.Pose.Constraints[:0:0]
			for _, constraint := range srcRef.Pose.Constraints {
				matched := false
				for _, tempRef := range tempRefs {
					if IsConstrainedTo(constraint, tempRef) {
						matched = true
						if hasActive && activeRef.Object == tempRef.Object && activeRef.Bone.Name() == tempRef.Bone.Name() {
							activatedHere = true
						}
						break
					}
				}
				if matched {
					wasConstrained = true
					continue
				}
				remaining = append(remaining, constraint)
			}
			if !wasConstrained {
				continue
			}
			srcRef.Pose.Constraints = remaining
			srcRef.Bone.Hide = false // 一時ボーン作成時に隠されていた。
			entry := selectEntry{obj: obj, boneName: bone.Name()}
			bonesToSelect = append(bonesToSelect, entry)
			if activatedHere {
				boneToActivate = &entry
			}
		}
	}

	tempObj, err := uc.host.TemporaryObject(uc.templates.ObjectName, uc.templates.ArmatureName)
	if err != nil {
		return 0, nil, err
	}
	session, err := uc.host.BeginStructuralEdit(tempObj)
	if err != nil {
		return 0, nil, err
	}
	for _, name := range namesToRemove {
		if err := session.RemoveBone(name); err != nil {
			return 0, nil, fmt.Errorf("一時ボーンの削除に失敗しました(%s): %w", name, err)
		}
	}
	if err := session.End(); err != nil {
		return 0, nil, err
	}

	// 対応する元ボーンへ選択とアクティブ状態を引き継ぐ。
	uc.host.ClearActiveBone()
	for _, entry := range bonesToSelect {
		ref, ok := uc.host.PoseBone(entry.obj, entry.boneName)
		if !ok {
			return 0, nil, fmt.Errorf("再選択対象ボーンが見つかりません(%s): %w", entry.boneName, merrors.ErrInternalInconsistency)
		}
		ref.Bone.Select = true
	}
	if boneToActivate != nil {
		if err := uc.host.SetActivePoseBone(boneToActivate.obj, boneToActivate.boneName); err != nil {
			return 0, nil, err
		}
	}

	uc.report(SwitchProgressEvent{Type: SwitchProgressEventTypeBonesRemoved, BoneCount: len(namesToRemove)})
	return bakedCount, namesToRemove, nil
}

// isConstrainedToAny はボーンのいずれかのコンストレイントが候補群を対象にしているか判定する。
func (uc *SpaceSwitchUsecase) isConstrainedToAny(ref shost.PoseBoneRef, candidates []shost.PoseBoneRef) bool {
	for _, constraint := range ref.Pose.Constraints {
		for _, candidate := range candidates {
			if IsConstrainedTo(constraint, candidate) {
				return true
			}
		}
	}
	return false
}
