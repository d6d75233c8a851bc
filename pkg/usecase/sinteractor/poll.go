// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// PollBakePose はポーズベイクの前提条件を検証する。
// ポーズモードで1つ以上選択され、アクティブオブジェクトがアクションを持つこと。
func (uc *SpaceSwitchUsecase) PollBakePose() error {
	if err := uc.pollPoseMode(); err != nil {
		return err
	}
	if len(uc.host.SelectedPoseBones()) < 1 {
		return fmt.Errorf("ボーンが選択されていません: %w", merrors.ErrUserPrecondition)
	}
	active := uc.host.ActiveObject()
	if active == nil || active.Action == nil {
		return fmt.Errorf("アクティブオブジェクトにベイク先アクションがありません: %w", merrors.ErrUserPrecondition)
	}
	return nil
}

// PollAddEmpty はエンプティボーン追加の前提条件を検証する。
func (uc *SpaceSwitchUsecase) PollAddEmpty() error {
	return uc.pollPoseMode()
}

// PollDeleteBones は一時ボーン削除の前提条件を検証する。
// 選択中の全ボーンが空間切替由来のタグを持つこと。
func (uc *SpaceSwitchUsecase) PollDeleteBones() error {
	if err := uc.pollPoseMode(); err != nil {
		return err
	}
	selected := uc.host.SelectedPoseBones()
	if len(selected) < 1 {
		return fmt.Errorf("ボーンが選択されていません: %w", merrors.ErrUserPrecondition)
	}
	for _, ref := range selected {
		if ref.Bone.Tag == model.TagNone {
			return fmt.Errorf("空間切替由来でないボーンが選択されています(%s): %w", ref.Bone.Name(), merrors.ErrUserPrecondition)
		}
	}
	return nil
}

// PollApplyBones はベイク付き撤去の前提条件を検証する。
// 選択中の全ボーンがコピータグを持つこと。
func (uc *SpaceSwitchUsecase) PollApplyBones() error {
	if err := uc.pollPoseMode(); err != nil {
		return err
	}
	selected := uc.host.SelectedPoseBones()
	if len(selected) < 1 {
		return fmt.Errorf("ボーンが選択されていません: %w", merrors.ErrUserPrecondition)
	}
	for _, ref := range selected {
		if ref.Bone.Tag != model.TagCopy {
			return fmt.Errorf("ベイク対象にできないボーンが選択されています(%s): %w", ref.Bone.Name(), merrors.ErrUserPrecondition)
		}
	}
	return nil
}

// PollSwitchToWorld はワールド空間切替の前提条件を検証する。
func (uc *SpaceSwitchUsecase) PollSwitchToWorld() error {
	return uc.pollUnconstrainedSelection(1)
}

// PollSwitchToActive はアクティブボーン空間切替の前提条件を検証する。
// アクティブボーンは切替対象から除外されるため2つ以上の選択が必要。
func (uc *SpaceSwitchUsecase) PollSwitchToActive() error {
	return uc.pollUnconstrainedSelection(2)
}

// PollSwitchToTarget は指定対象空間切替の前提条件を検証する。
func (uc *SpaceSwitchUsecase) PollSwitchToTarget() error {
	return uc.pollUnconstrainedSelection(1)
}

// PollBuildTwoBoneIK は2ボーンIK構築の前提条件を検証する。
func (uc *SpaceSwitchUsecase) PollBuildTwoBoneIK() error {
	if err := uc.pollPoseMode(); err != nil {
		return err
	}
	selected := uc.host.SelectedPoseBones()
	if len(selected) != 1 {
		return fmt.Errorf("ボーンを1つだけ選択してください(選択数%d): %w", len(selected), merrors.ErrUserPrecondition)
	}
	if len(selected[0].Pose.Constraints) > 0 {
		return fmt.Errorf("選択ボーンに既存コンストレイントがあります(%s): %w", selected[0].Bone.Name(), merrors.ErrUserPrecondition)
	}
	return nil
}

// PollMakeLocalArmature はローカル複製の前提条件を検証する。
func (uc *SpaceSwitchUsecase) PollMakeLocalArmature() error {
	if uc.host.Mode() != shost.ModeObject {
		return fmt.Errorf("オブジェクトモードではありません: %w", merrors.ErrUserPrecondition)
	}
	if uc.host.ActiveObject() == nil {
		return fmt.Errorf("アクティブオブジェクトがありません: %w", merrors.ErrUserPrecondition)
	}
	return nil
}

// pollPoseMode はポーズモードであることを検証する。
func (uc *SpaceSwitchUsecase) pollPoseMode() error {
	if uc.host.Mode() != shost.ModePose {
		return fmt.Errorf("ポーズモードではありません: %w", merrors.ErrUserPrecondition)
	}
	return nil
}

// pollUnconstrainedSelection は空間切替系操作共通の前提条件を検証する。
// 選択中の全ボーンが無拘束で、選択数がminCount以上であること。
func (uc *SpaceSwitchUsecase) pollUnconstrainedSelection(minCount int) error {
	if err := uc.pollPoseMode(); err != nil {
		return err
	}
	selected := uc.host.SelectedPoseBones()
	for _, ref := range selected {
		if len(ref.Pose.Constraints) > 0 {
			// 既に拘束済みのボーンへ重ねて切替できない。
			return fmt.Errorf("選択ボーンに既存コンストレイントがあります(%s): %w", ref.Bone.Name(), merrors.ErrUserPrecondition)
		}
	}
	if len(selected) < minCount {
		return fmt.Errorf("選択ボーン数が不足しています(%d/%d): %w", len(selected), minCount, merrors.ErrUserPrecondition)
	}
	return nil
}
