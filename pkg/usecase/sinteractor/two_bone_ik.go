// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// 2ボーンIK用の一時ボーン名。テンプレートではなく固定名を使う。
const (
	ikTargetBoneName     = "ik_target"
	ikPoleTargetBoneName = "ik_pole_target"
)

// BuildTwoBoneIK は選択ボーンのテイル軌道とヘッド軌道をワールド空間でベイクし、
// 2ボーンIKコンストレイントの対象として取り付ける。
// ポール角の自動計算は行わず、指定値をそのまま使う。
func (uc *SpaceSwitchUsecase) BuildTwoBoneIK(request BuildTwoBoneIKRequest) (*BuildTwoBoneIKResult, error) {
	if err := uc.PollBuildTwoBoneIK(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}
	if request.Length < 0 {
		return nil, fmt.Errorf("ボーン長が負です(%f): %w", request.Length, merrors.ErrInvalidArgument)
	}

	src := uc.host.SelectedPoseBones()[0]
	if active, ok := uc.host.ActivePoseBone(); ok {
		src = active
	}

	for _, ref := range uc.host.SelectedPoseBones() {
		ref.Bone.Select = false
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
	targetName, err := session.NewBone(ikTargetBoneName, mmath.ZERO_VEC3, mmath.NewVec3(0, request.Length, 0))
	if err != nil {
		return nil, err
	}
	poleName, err := session.NewBone(ikPoleTargetBoneName, mmath.ZERO_VEC3, mmath.NewVec3(0, request.Length, 0))
	if err != nil {
		return nil, err
	}
	if err := session.End(); err != nil {
		return nil, err
	}

	targetRef, ok := uc.host.PoseBone(tempObj, targetName)
	if !ok {
		return nil, fmt.Errorf("IKターゲットボーンが見つかりません(%s): %w", targetName, merrors.ErrInternalInconsistency)
	}
	poleRef, ok := uc.host.PoseBone(tempObj, poleName)
	if !ok {
		return nil, fmt.Errorf("IKポールボーンが見つかりません(%s): %w", poleName, merrors.ErrInternalInconsistency)
	}
	for _, ref := range []shost.PoseBoneRef{targetRef, poleRef} {
		ref.Bone.Select = true
		ref.Bone.Tag = model.TagEmpty
		ref.Bone.UseDeform = false
	}

	// ターゲットは元ボーンのテイル、ポールはヘッドの軌道を拾う。
	targetCapture := &model.Constraint{
		Type:      model.ConstraintCopyLocation,
		Target:    src.Object.Name(),
		Subtarget: src.Bone.Name(),
		HeadTail:  1.0,
	}
	targetRef.Pose.Constraints = append(targetRef.Pose.Constraints, targetCapture)
	poleCapture := &model.Constraint{
		Type:      model.ConstraintCopyLocation,
		Target:    src.Object.Name(),
		Subtarget: src.Bone.Name(),
	}
	poleRef.Pose.Constraints = append(poleRef.Pose.Constraints, poleCapture)

	if err := uc.customBake(request.Range.Frames(), []shost.PoseBoneRef{targetRef, poleRef}, Channels{Location: true}); err != nil {
		return nil, err
	}

	targetRef.Pose.RemoveConstraint(targetCapture)
	poleRef.Pose.RemoveConstraint(poleCapture)

	src.Pose.Constraints = append(src.Pose.Constraints, &model.Constraint{
		Type:          model.ConstraintIK,
		Target:        tempObj.Name(),
		Subtarget:     targetName,
		PoleTarget:    tempObj.Name(),
		PoleSubtarget: poleName,
		ChainCount:    2,
		PoleAngle:     request.PoleAngle,
	})

	if err := uc.host.Reevaluate(); err != nil {
		return nil, err
	}
	return &BuildTwoBoneIKResult{TargetBoneName: targetName, PoleTargetBoneName: poleName}, nil
}
