// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
)

// フレーム番号の許容範囲。
const (
	frameRangeMinStart = 0
	frameRangeMinEnd   = 1
	frameRangeMax      = 300000
)

// Channels はベイク対象チャンネルの組を表す。
type Channels struct {
	Location bool
	Rotation bool
	Scale    bool
}

// AllChannels は全チャンネル有効の組を返す。
func AllChannels() Channels {
	return Channels{Location: true, Rotation: true, Scale: true}
}

// Any はいずれかのチャンネルが有効か判定する。
func (c Channels) Any() bool {
	return c.Location || c.Rotation || c.Scale
}

// FrameRange はベイク対象のフレーム範囲(両端含む)を表す。
type FrameRange struct {
	Start int
	End   int
}

// Validate はフレーム範囲の妥当性を検証する。
func (r FrameRange) Validate() error {
	if r.Start < frameRangeMinStart || r.Start > frameRangeMax {
		return fmt.Errorf("開始フレームが範囲外です(%d): %w", r.Start, merrors.ErrInvalidArgument)
	}
	if r.End < frameRangeMinEnd || r.End > frameRangeMax {
		return fmt.Errorf("終了フレームが範囲外です(%d): %w", r.End, merrors.ErrInvalidArgument)
	}
	if r.Start > r.End {
		return fmt.Errorf("開始フレームが終了フレームを超えています(%d-%d): %w", r.Start, r.End, merrors.ErrInvalidArgument)
	}
	return nil
}

// Frames は範囲内のフレーム番号を昇順で返す。
func (r FrameRange) Frames() []int {
	frames := make([]int, 0, r.End-r.Start+1)
	for frame := r.Start; frame <= r.End; frame++ {
		frames = append(frames, frame)
	}
	return frames
}

// SwitchProgressEventType は空間切替処理の進捗イベント種別を表す。
type SwitchProgressEventType string

const (
	// SwitchProgressEventTypeFramesSampled はフレームサンプリング完了イベントを表す。
	SwitchProgressEventTypeFramesSampled SwitchProgressEventType = "frames_sampled"
	// SwitchProgressEventTypeChannelsKeyframed はキーフレーム書き込み完了イベントを表す。
	SwitchProgressEventTypeChannelsKeyframed SwitchProgressEventType = "channels_keyframed"
	// SwitchProgressEventTypeHierarchyBuilt は一時階層構築完了イベントを表す。
	SwitchProgressEventTypeHierarchyBuilt SwitchProgressEventType = "hierarchy_built"
	// SwitchProgressEventTypeConstraintsRewired はコンストレイント付け替え完了イベントを表す。
	SwitchProgressEventTypeConstraintsRewired SwitchProgressEventType = "constraints_rewired"
	// SwitchProgressEventTypeBonesRemoved は一時ボーン撤去完了イベントを表す。
	SwitchProgressEventTypeBonesRemoved SwitchProgressEventType = "bones_removed"
)

// SwitchProgressEvent は空間切替処理の進捗イベントを表す。
type SwitchProgressEvent struct {
	Type       SwitchProgressEventType
	FrameCount int
	BoneCount  int
}

// ISwitchProgressReporter は空間切替処理の進捗通知契約を表す。
type ISwitchProgressReporter interface {
	// ReportSwitchProgress は空間切替処理進捗を通知する。
	ReportSwitchProgress(event SwitchProgressEvent)
}

// BakePoseRequest はポーズベイク要求を表す。
type BakePoseRequest struct {
	Range    FrameRange
	Channels Channels
}

// BakePoseResult はポーズベイク結果を表す。
type BakePoseResult struct {
	BakedBoneCount int
	FrameCount     int
}

// AddEmptyRequest はエンプティボーン追加要求を表す。
type AddEmptyRequest struct {
	Length float64
}

// AddEmptyResult はエンプティボーン追加結果を表す。
type AddEmptyResult struct {
	BoneName string
}

// DeleteBonesResult は一時ボーン削除結果を表す。
type DeleteBonesResult struct {
	RemovedBoneNames []string
}

// ApplyBonesRequest はベイク付き一時ボーン撤去要求を表す。
type ApplyBonesRequest struct {
	Range FrameRange
}

// ApplyBonesResult はベイク付き一時ボーン撤去結果を表す。
type ApplyBonesResult struct {
	BakedBoneCount   int
	RemovedBoneNames []string
}

// SwitchToWorldRequest はワールド空間切替要求を表す。
type SwitchToWorldRequest struct {
	Range FrameRange
}

// SwitchToActiveRequest はアクティブボーン空間切替要求を表す。
type SwitchToActiveRequest struct {
	Range FrameRange
}

// SwitchToTargetRequest は指定対象空間切替要求を表す。
type SwitchToTargetRequest struct {
	Target string
	Bone   string
	Range  FrameRange
}

// SpaceSwitchResult は空間切替結果を表す。
type SpaceSwitchResult struct {
	CopyBoneNames []string
}

// BuildTwoBoneIKRequest は2ボーンIK構築要求を表す。
type BuildTwoBoneIKRequest struct {
	Length    float64
	PoleAngle float64
	Range     FrameRange
}

// BuildTwoBoneIKResult は2ボーンIK構築結果を表す。
type BuildTwoBoneIKResult struct {
	TargetBoneName     string
	PoleTargetBoneName string
}

// MakeLocalArmatureRequest はローカル複製要求を表す。
type MakeLocalArmatureRequest struct {
	Range FrameRange
}

// MakeLocalArmatureResult はローカル複製結果を表す。
type MakeLocalArmatureResult struct {
	DuplicateName string
}
