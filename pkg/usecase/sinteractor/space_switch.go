// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// SwitchToWorld は選択中ボーンをワールド空間へ切り替える。
func (uc *SpaceSwitchUsecase) SwitchToWorld(request SwitchToWorldRequest) (*SpaceSwitchResult, error) {
	if err := uc.PollSwitchToWorld(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}
	return uc.spaceSwitch(uc.host.SelectedPoseBones(), nil, request.Range.Frames())
}

// SwitchToActive は選択中ボーンをアクティブボーンの空間へ切り替える。
// アクティブボーン自身は切替対象から除外される。
func (uc *SpaceSwitchUsecase) SwitchToActive(request SwitchToActiveRequest) (*SpaceSwitchResult, error) {
	if err := uc.PollSwitchToActive(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}
	active, ok := uc.host.ActivePoseBone()
	if !ok {
		return nil, fmt.Errorf("アクティブボーンがありません: %w", merrors.ErrUserPrecondition)
	}
	return uc.spaceSwitch(uc.host.SelectedPoseBones(), &active, request.Range.Frames())
}

// SwitchToTarget は選択中ボーンを指定(オブジェクト, ボーン)の空間へ切り替える。
func (uc *SpaceSwitchUsecase) SwitchToTarget(request SwitchToTargetRequest) (*SpaceSwitchResult, error) {
	if err := uc.PollSwitchToTarget(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}
	if request.Target == "" {
		return nil, fmt.Errorf("切替先オブジェクトが未指定です: %w", merrors.ErrUserPrecondition)
	}
	if request.Bone == "" {
		return nil, fmt.Errorf("切替先ボーンが未指定です: %w", merrors.ErrUserPrecondition)
	}
	targetObj, ok := uc.host.ObjectByName(request.Target)
	if !ok {
		return nil, fmt.Errorf("切替先オブジェクトがアーマチュアではありません(%s): %w", request.Target, merrors.ErrUserPrecondition)
	}
	dest, ok := uc.host.PoseBone(targetObj, request.Bone)
	if !ok {
		return nil, fmt.Errorf("切替先ボーンが見つかりません(%s/%s): %w", request.Target, request.Bone, merrors.ErrUserPrecondition)
	}
	return uc.spaceSwitch(uc.host.SelectedPoseBones(), &dest, request.Range.Frames())
}

// copyPlan は1本の元ボーンに対する一時階層の構築計画を表す。
type copyPlan struct {
	src        shost.PoseBoneRef
	copyName   string
	spaceName  string
	parentName string
	connected  bool
	wasActive  bool
}

// spaceSwitch は元ボーンの一時コピーを作り、モーションをベイクし、
// 元ボーンをコピーへ拘束する。destがnilの場合はワールド空間になる。
func (uc *SpaceSwitchUsecase) spaceSwitch(srcRefs []shost.PoseBoneRef, dest *shost.PoseBoneRef, frames []int) (*SpaceSwitchResult, error) {
	activeRef, hasActive := uc.host.ActivePoseBone()

	// 自分自身の空間へは拘束できないため対象から外す。
	if dest != nil {
		remaining := srcRefs[:0:0]
		for _, ref := range srcRefs {
			if ref.Object == dest.Object && ref.Bone.Name() == dest.Bone.Name() {
				continue
			}
			remaining = append(remaining, ref)
		}
		srcRefs = remaining
	}
	if len(srcRefs) < 1 {
		// 単独ボーンを自分自身へ切り替えようとした場合。何もせず成功扱いにする。
		return &SpaceSwitchResult{}, nil
	}

	// 元の選択を解除し、一時ボーン側を選択状態にする。
	for _, ref := range uc.host.SelectedPoseBones() {
		ref.Bone.Select = false
	}
	// コピーが撤去されるまで元ボーンを選択不能にする。
	for _, ref := range srcRefs {
		ref.Bone.Hide = true
	}

	tempObj, err := uc.host.TemporaryObject(uc.templates.ObjectName, uc.templates.ArmatureName)
	if err != nil {
		return nil, err
	}
	tempObj.ShowInFront = true

	session, err := uc.host.BeginStructuralEdit(tempObj)
	if err != nil {
		return nil, err
	}

	plans := make([]copyPlan, 0, len(srcRefs))
	for _, src := range srcRefs {
		plan := copyPlan{
			src:       src,
			connected: src.Bone.Connected,
			wasActive: hasActive && activeRef.Object == src.Object && activeRef.Bone.Name() == src.Bone.Name(),
		}

		copyName, err := session.NewBone(
			uc.templates.ExpandCopy(src.Bone.Name(), src.Object.ArmatureName(), src.Object.Name()),
			mmath.ZERO_VEC3,
			mmath.NewVec3(0, src.Bone.Length(), 0),
		)
		if err != nil {
			return nil, err
		}
		plan.copyName = copyName

		switch {
		case plan.connected:
			// connectedの複製は2段のアンカーで親テイル追従を再現する。
			// 親アンカーはテイルを軸に回る必要があるため1段では足りない。
			parent := src.Object.Bones.Parent(src.Bone)
			if parent == nil {
				return nil, fmt.Errorf("connectedボーンに親がありません(%s): %w", src.Bone.Name(), merrors.ErrInternalInconsistency)
			}
			var spaceTemplate string
			if dest != nil {
				spaceTemplate = uc.templates.ExpandSpace(dest.Bone.Name(), dest.Object.ArmatureName(), dest.Object.Name())
			} else {
				spaceTemplate = uc.templates.ExpandSpace(parent.Name(), src.Object.ArmatureName(), src.Object.Name())
			}
			parentName, err := session.NewBone(
				uc.templates.ExpandParent(src.Bone.Name(), src.Object.ArmatureName(), src.Object.Name()),
				mmath.ZERO_VEC3,
				mmath.NewVec3(0, 1, 0),
			)
			if err != nil {
				return nil, err
			}
			spaceName, err := session.NewBone(spaceTemplate, mmath.NewVec3(0, -1, 0), mmath.ZERO_VEC3)
			if err != nil {
				return nil, err
			}
			if err := session.SetParent(spaceName, parentName, false); err != nil {
				return nil, err
			}
			if err := session.SetParent(copyName, spaceName, true); err != nil {
				return nil, err
			}
			plan.parentName = parentName
			plan.spaceName = spaceName
		case dest != nil:
			spaceName, err := session.NewBone(
				uc.templates.ExpandSpace(dest.Bone.Name(), dest.Object.ArmatureName(), dest.Object.Name()),
				mmath.ZERO_VEC3,
				mmath.NewVec3(0, dest.Bone.Length(), 0),
			)
			if err != nil {
				return nil, err
			}
			if err := session.SetParent(copyName, spaceName, false); err != nil {
				return nil, err
			}
			plan.spaceName = spaceName
		}
		plans = append(plans, plan)
	}

	if err := session.End(); err != nil {
		return nil, err
	}
	if len(plans) != len(srcRefs) {
		return nil, fmt.Errorf("一時ボーン数が元ボーン数と一致しません(%d/%d): %w", len(plans), len(srcRefs), merrors.ErrInternalInconsistency)
	}
	uc.report(SwitchProgressEvent{Type: SwitchProgressEventTypeHierarchyBuilt, BoneCount: len(plans)})

	// モード遷移を挟んだため、一時ボーンは名前で引き直す。
	copyRefs := make([]shost.PoseBoneRef, 0, len(plans))
	constraintsToRemove := make([]*model.Constraint, 0, len(plans))
	for _, plan := range plans {
		copyRef, ok := uc.host.PoseBone(tempObj, plan.copyName)
		if !ok {
			return nil, fmt.Errorf("一時コピーが見つかりません(%s): %w", plan.copyName, merrors.ErrInternalInconsistency)
		}
		copyRefs = append(copyRefs, copyRef)

		copyRef.Bone.Select = true
		copyRef.Bone.Tag = model.TagCopy
		copyRef.Bone.UseDeform = false

		src := plan.src
		if plan.connected && src.Pose.RotationMode.IsEuler() {
			// 本来の親階層なしのオイラーは破綻しやすいため四元数へ切り替える。
			copyRef.Pose.RotationMode = model.RotationModeQuaternion
		} else {
			// 元の回転表現を引き継ぐ。グラフエディタでの編集に重要。
			copyRef.Pose.RotationMode = src.Pose.RotationMode
			copyRef.Pose.RotationAxisAngle = src.Pose.RotationAxisAngle
		}

		// 元ボーンは隠れるため、表示用属性をコピーへ引き継ぐ。
		// チャンネルロックは切替先空間で意味を失うことがあるため引き継がない。
		copyRef.Pose.CustomShape = src.Pose.CustomShape
		copyRef.Pose.CustomShapeTranslation = src.Pose.CustomShapeTranslation
		copyRef.Pose.CustomShapeRotationEuler = src.Pose.CustomShapeRotationEuler
		copyRef.Pose.CustomShapeScale = src.Pose.CustomShapeScale
		copyRef.Pose.UseCustomShapeBoneSize = src.Pose.UseCustomShapeBoneSize
		copyRef.Bone.ShowWire = src.Bone.ShowWire

		// 元ボーンのモーションを取り込むための一時拘束。ベイク後に外す。
		capture := &model.Constraint{
			Type:      model.ConstraintCopyTransforms,
			Target:    src.Object.Name(),
			Subtarget: src.Bone.Name(),
		}
		copyRef.Pose.Constraints = append(copyRef.Pose.Constraints, capture)
		constraintsToRemove = append(constraintsToRemove, capture)

		if plan.wasActive {
			if err := uc.host.SetActivePoseBone(tempObj, plan.copyName); err != nil {
				return nil, err
			}
		}

		if plan.spaceName != "" {
			spaceRef, ok := uc.host.PoseBone(tempObj, plan.spaceName)
			if !ok {
				return nil, fmt.Errorf("空間アンカーが見つかりません(%s): %w", plan.spaceName, merrors.ErrInternalInconsistency)
			}
			spaceRef.Bone.Hide = true
			spaceRef.Bone.Tag = model.TagSpace
			spaceRef.Bone.UseDeform = false

			anchorRef := spaceRef
			if plan.connected {
				parentRef, ok := uc.host.PoseBone(tempObj, plan.parentName)
				if !ok {
					return nil, fmt.Errorf("親アンカーが見つかりません(%s): %w", plan.parentName, merrors.ErrInternalInconsistency)
				}
				parentRef.Bone.Hide = true
				parentRef.Bone.Tag = model.TagSpace
				parentRef.Bone.UseDeform = false
				anchorRef = parentRef
			}

			copyLocation := &model.Constraint{Type: model.ConstraintCopyLocation}
			if plan.connected {
				// テイル追従でconnectedのヘッド拘束を再現する。
				copyLocation.HeadTail = 1.0
				if dest != nil {
					copyLocation.Target = dest.Object.Name()
					copyLocation.Subtarget = dest.Bone.Name()
				} else {
					parent := src.Object.Bones.Parent(src.Bone)
					copyLocation.Target = src.Object.Name()
					copyLocation.Subtarget = parent.Name()
				}
			} else {
				copyLocation.Target = dest.Object.Name()
				copyLocation.Subtarget = dest.Bone.Name()
			}
			anchorRef.Pose.Constraints = append(anchorRef.Pose.Constraints, copyLocation)

			if !plan.connected {
				// connectedの2段アンカーへ回転まで追従させるとジンバルロックの恐れがあるため、
				// 回転コピーは非connectedの単独アンカーに限る。
				copyRotation := &model.Constraint{
					Type:      model.ConstraintCopyRotation,
					Target:    dest.Object.Name(),
					Subtarget: dest.Bone.Name(),
				}
				anchorRef.Pose.Constraints = append(anchorRef.Pose.Constraints, copyRotation)
			}
		}
	}

	if err := uc.customBake(frames, copyRefs, AllChannels()); err != nil {
		return nil, err
	}

	if len(srcRefs) != len(copyRefs) || len(srcRefs) != len(constraintsToRemove) {
		return nil, fmt.Errorf("逆拘束の対応リストが一致しません(%d/%d/%d): %w",
			len(srcRefs), len(copyRefs), len(constraintsToRemove), merrors.ErrInternalInconsistency)
	}

	copyNames := make([]string, 0, len(copyRefs))
	for i, src := range srcRefs {
		copyRef := copyRefs[i]
		copyRef.Pose.RemoveConstraint(constraintsToRemove[i])

		// connectedのヘッドは親テイル追従のため位置拘束は不要。
		if !src.Bone.Connected {
			src.Pose.Constraints = append(src.Pose.Constraints, &model.Constraint{
				Type:      model.ConstraintCopyLocation,
				Target:    tempObj.Name(),
				Subtarget: copyRef.Bone.Name(),
			})
		}
		src.Pose.Constraints = append(src.Pose.Constraints, &model.Constraint{
			Type:      model.ConstraintCopyRotation,
			Target:    tempObj.Name(),
			Subtarget: copyRef.Bone.Name(),
		})
		copyNames = append(copyNames, copyRef.Bone.Name())
	}

	if err := uc.host.Reevaluate(); err != nil {
		return nil, err
	}
	uc.report(SwitchProgressEvent{Type: SwitchProgressEventTypeConstraintsRewired, BoneCount: len(copyNames)})
	return &SpaceSwitchResult{CopyBoneNames: copyNames}, nil
}
