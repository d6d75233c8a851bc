// 指示: miu200521358
package sinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// BakePose は選択中ポーズボーンのチャンネルをキーフレームへベイクする。
func (uc *SpaceSwitchUsecase) BakePose(request BakePoseRequest) (*BakePoseResult, error) {
	if err := uc.PollBakePose(); err != nil {
		return nil, err
	}
	if err := request.Range.Validate(); err != nil {
		return nil, err
	}

	refs := uc.host.SelectedPoseBones()
	frames := request.Range.Frames()
	if err := uc.customBake(frames, refs, request.Channels); err != nil {
		return nil, err
	}
	return &BakePoseResult{BakedBoneCount: len(refs), FrameCount: len(frames)}, nil
}

// customBake はポーズボーン群の見た目の姿勢をフレームごとにサンプリングし、
// ローカルチャンネルのキーフレームとして書き戻す。
// サンプリング中のキー挿入は後続フレームの評価を壊すため、2段階で処理する。
func (uc *SpaceSwitchUsecase) customBake(frames []int, refs []shost.PoseBoneRef, channels Channels) error {
	if !channels.Any() {
		return fmt.Errorf("ベイク対象チャンネルが1つも有効ではありません: %w", merrors.ErrInvalidArgument)
	}

	originalFrame := uc.host.CurrentFrame()
	defer func() {
		// 書き込み失敗時もフレームは元へ戻す。
		_ = uc.host.SetFrame(originalFrame)
	}()

	// (ボーン, フレーム)ごとの見た目のローカル基底行列。
	samples := make([][]mmath.Mat4, len(refs))
	for i := range samples {
		samples[i] = make([]mmath.Mat4, 0, len(frames))
	}
	for _, frame := range frames {
		if err := uc.host.SetFrame(frame); err != nil {
			return fmt.Errorf("フレーム%dの評価に失敗しました: %w", frame, err)
		}
		for i, ref := range refs {
			samples[i] = append(samples[i], localBasisMatrix(ref))
		}
	}
	uc.report(SwitchProgressEvent{
		Type:       SwitchProgressEventTypeFramesSampled,
		FrameCount: len(frames),
		BoneCount:  len(refs),
	})

	for i, ref := range refs {
		group := ref.Bone.Name()
		// 連続性の基準はボーンごとに初期化する。ボーン間では引き継がない。
		var eulerPrev *mmath.Vec3
		var quatPrev *mmath.Quaternion

		for frameIndex, frame := range frames {
			applyBasisToPose(ref, samples[i][frameIndex])

			// connectedボーンのヘッドは親テイル固定のため、位置はキーに出来ない。
			if channels.Location && !ref.Bone.Connected {
				if err := uc.insertChannelKeys(ref, model.ChannelLocation, frame, group); err != nil {
					return err
				}
			}

			if channels.Rotation {
				switch {
				case ref.Pose.RotationMode == model.RotationModeQuaternion:
					if quatPrev != nil {
						quat := ref.Pose.RotationQuaternion.MakeCompatible(*quatPrev)
						ref.Pose.RotationQuaternion = quat
						quatPrev = &quat
					} else {
						quat := ref.Pose.RotationQuaternion
						quatPrev = &quat
					}
					if err := uc.insertChannelKeys(ref, model.ChannelRotationQuat, frame, group); err != nil {
						return err
					}
				case ref.Pose.RotationMode == model.RotationModeAxisAngle:
					if err := uc.insertChannelKeys(ref, model.ChannelRotationAxisAngle, frame, group); err != nil {
						return err
					}
				default:
					if eulerPrev != nil {
						euler := mmath.EulerCompatible(ref.Pose.RotationEuler, *eulerPrev)
						ref.Pose.RotationEuler = euler
						eulerPrev = &euler
					} else {
						euler := ref.Pose.RotationEuler
						eulerPrev = &euler
					}
					if err := uc.insertChannelKeys(ref, model.ChannelRotationEuler, frame, group); err != nil {
						return err
					}
				}
			}

			if channels.Scale {
				if err := uc.insertChannelKeys(ref, model.ChannelScale, frame, group); err != nil {
					return err
				}
			}
		}
	}
	uc.report(SwitchProgressEvent{
		Type:       SwitchProgressEventTypeChannelsKeyframed,
		FrameCount: len(frames),
		BoneCount:  len(refs),
	})
	return nil
}

// insertChannelKeys はチャンネルの全成分をキーフレームへ挿入する。
func (uc *SpaceSwitchUsecase) insertChannelKeys(ref shost.PoseBoneRef, channel string, frame int, group string) error {
	for index := 0; index < model.ChannelComponentCount(channel); index++ {
		if err := uc.host.KeyframeInsert(ref.Object, ref.Bone.Name(), channel, index, frame, group); err != nil {
			return fmt.Errorf("キーフレーム挿入に失敗しました(%s.%s[%d]): %w", ref.Bone.Name(), channel, index, err)
		}
	}
	return nil
}

// localBasisMatrix は評価済みアーマチュア空間姿勢からローカル基底行列を逆算する。
// レスト行列は平行移動のみなので、親姿勢とレスト相対を剥がせば基底が残る。
func localBasisMatrix(ref shost.PoseBoneRef) mmath.Mat4 {
	parent := ref.Object.Bones.Parent(ref.Bone)
	restRel := model.RestRelativeMatrix(parent, ref.Bone)
	if parent == nil {
		return restRel.Inverted().Muled(ref.Pose.PoseMatrix)
	}
	parentPose, ok := ref.Object.Pose[parent.Name()]
	if !ok {
		return restRel.Inverted().Muled(ref.Pose.PoseMatrix)
	}
	return restRel.Inverted().Muled(parentPose.PoseMatrix.Inverted()).Muled(ref.Pose.PoseMatrix)
}

// applyBasisToPose はローカル基底行列を分解してポーズチャンネルへ格納する。
func applyBasisToPose(ref shost.PoseBoneRef, basis mmath.Mat4) {
	location, rotation, scale := basis.Decompose()
	if ref.Bone.Connected {
		location = mmath.ZERO_VEC3
	}
	ref.Pose.Location = location
	ref.Pose.SetRotation(rotation)
	ref.Pose.Scale = scale
}
