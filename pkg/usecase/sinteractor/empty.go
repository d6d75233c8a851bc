// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

// AddEmpty は3Dカーソル位置へ無拘束の一時ボーンを1本追加する。
// ポーズモードのまま選択できるため、手動セットアップではエンプティオブジェクトより扱いやすい。
func (uc *SpaceSwitchUsecase) AddEmpty(request AddEmptyRequest) (*AddEmptyResult, error) {
	if err := uc.PollAddEmpty(); err != nil {
		return nil, err
	}
	if request.Length < 0 {
		return nil, fmt.Errorf("ボーン長が負です(%f): %w", request.Length, merrors.ErrInvalidArgument)
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
	cursor := uc.host.CursorLocation()
	boneName, err := session.NewBone(
		uc.templates.EmptyName,
		cursor,
		cursor.Added(mmath.NewVec3(0, request.Length, 0)),
	)
	if err != nil {
		return nil, err
	}
	if err := session.End(); err != nil {
		return nil, err
	}

	ref, ok := uc.host.PoseBone(tempObj, boneName)
	if !ok {
		return nil, fmt.Errorf("追加したボーンが見つかりません(%s): %w", boneName, merrors.ErrInternalInconsistency)
	}
	ref.Bone.Select = true
	ref.Bone.Tag = model.TagEmpty
	ref.Bone.UseDeform = false
	if err := uc.host.SetActivePoseBone(tempObj, boneName); err != nil {
		return nil, err
	}
	return &AddEmptyResult{BoneName: boneName}, nil
}
