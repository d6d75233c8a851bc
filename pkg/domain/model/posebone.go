// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
)

// RotationMode は回転チャンネルの表現方法を表す。
type RotationMode string

// 回転表現一覧。オイラーは適用軸順で区別する。
const (
	RotationModeQuaternion RotationMode = "QUATERNION"
	RotationModeAxisAngle  RotationMode = "AXIS_ANGLE"
	RotationModeXYZ        RotationMode = "XYZ"
	RotationModeXZY        RotationMode = "XZY"
	RotationModeYXZ        RotationMode = "YXZ"
	RotationModeYZX        RotationMode = "YZX"
	RotationModeZXY        RotationMode = "ZXY"
	RotationModeZYX        RotationMode = "ZYX"
)

// IsEuler はオイラー表現か判定する。
func (m RotationMode) IsEuler() bool {
	switch m {
	case RotationModeQuaternion, RotationModeAxisAngle:
		return false
	default:
		return true
	}
}

// EulerOrder はオイラー適用順序を返す。オイラー表現以外はXYZ扱い。
func (m RotationMode) EulerOrder() mmath.EulerOrder {
	switch m {
	case RotationModeXZY:
		return mmath.EulerOrderXZY
	case RotationModeYXZ:
		return mmath.EulerOrderYXZ
	case RotationModeYZX:
		return mmath.EulerOrderYZX
	case RotationModeZXY:
		return mmath.EulerOrderZXY
	case RotationModeZYX:
		return mmath.EulerOrderZYX
	default:
		return mmath.EulerOrderXYZ
	}
}

// RotationChannel は回転表現に対応するチャンネル名を返す。
func (m RotationMode) RotationChannel() string {
	switch m {
	case RotationModeQuaternion:
		return ChannelRotationQuat
	case RotationModeAxisAngle:
		return ChannelRotationAxisAngle
	default:
		return ChannelRotationEuler
	}
}

// PoseBone はボーンのポーズ状態(編集可能チャンネルと解決済み行列)を表す。
type PoseBone struct {
	Location     mmath.Vec3
	RotationMode RotationMode
	RotationQuaternion mmath.Quaternion
	RotationEuler      mmath.Vec3
	// RotationAxisAngle は(角度, 軸X, 軸Y, 軸Z)。
	RotationAxisAngle [4]float64
	Scale             mmath.Vec3

	// 表示用属性。元ボーンを隠した際にコピーへ引き継ぐ。
	CustomShape              string
	CustomShapeTranslation   mmath.Vec3
	CustomShapeRotationEuler mmath.Vec3
	CustomShapeScale         mmath.Vec3
	UseCustomShapeBoneSize   bool

	Constraints []*Constraint

	// PoseMatrix は評価後のアーマチュア空間姿勢。
	PoseMatrix mmath.Mat4
}

// NewPoseBone は初期ポーズ状態を生成する。
func NewPoseBone() *PoseBone {
	return &PoseBone{
		RotationMode:       RotationModeQuaternion,
		RotationQuaternion: mmath.NewQuaternion(),
		RotationAxisAngle:  [4]float64{0, 0, 1, 0},
		Scale:              mmath.ONE_VEC3,
		CustomShapeScale:   mmath.ONE_VEC3,
		PoseMatrix:         mmath.NewMat4(),
	}
}

// Rotation は現在の回転表現を四元数として返す。
func (pb *PoseBone) Rotation() mmath.Quaternion {
	switch pb.RotationMode {
	case RotationModeQuaternion:
		return pb.RotationQuaternion
	case RotationModeAxisAngle:
		axis := mmath.NewVec3(pb.RotationAxisAngle[1], pb.RotationAxisAngle[2], pb.RotationAxisAngle[3])
		return mmath.NewQuaternionFromAxisAngle(axis, pb.RotationAxisAngle[0])
	default:
		return mmath.QuatFromEuler(pb.RotationEuler, pb.RotationMode.EulerOrder())
	}
}

// SetRotation は四元数を現在の回転表現へ変換して格納する。
func (pb *PoseBone) SetRotation(q mmath.Quaternion) {
	switch pb.RotationMode {
	case RotationModeQuaternion:
		pb.RotationQuaternion = q
	case RotationModeAxisAngle:
		axis, angle := q.ToAxisAngle()
		pb.RotationAxisAngle = [4]float64{angle, axis.X, axis.Y, axis.Z}
	default:
		pb.RotationEuler = mmath.EulerFromQuat(q, pb.RotationMode.EulerOrder())
	}
}

// BasisMatrix はポーズチャンネルからローカル基底行列を合成する。
// connectedのボーンは平行移動が親のテイル由来のため位置を持たない。
func (pb *PoseBone) BasisMatrix(connected bool) mmath.Mat4 {
	location := pb.Location
	if connected {
		location = mmath.ZERO_VEC3
	}
	return mmath.NewMat4FromTRS(location, pb.Rotation(), pb.Scale)
}

// ChannelValues はチャンネルの現在値一覧を返す。
func (pb *PoseBone) ChannelValues(channel string) ([]float64, error) {
	switch channel {
	case ChannelLocation:
		return []float64{pb.Location.X, pb.Location.Y, pb.Location.Z}, nil
	case ChannelRotationQuat:
		q := pb.RotationQuaternion
		return []float64{q.W, q.X(), q.Y(), q.Z()}, nil
	case ChannelRotationAxisAngle:
		return []float64{pb.RotationAxisAngle[0], pb.RotationAxisAngle[1], pb.RotationAxisAngle[2], pb.RotationAxisAngle[3]}, nil
	case ChannelRotationEuler:
		return []float64{pb.RotationEuler.X, pb.RotationEuler.Y, pb.RotationEuler.Z}, nil
	case ChannelScale:
		return []float64{pb.Scale.X, pb.Scale.Y, pb.Scale.Z}, nil
	default:
		return nil, fmt.Errorf("未対応のチャンネルです: %s", channel)
	}
}

// ApplyChannelValue はチャンネル成分へ値を設定する。
func (pb *PoseBone) ApplyChannelValue(channel string, arrayIndex int, value float64) error {
	switch channel {
	case ChannelLocation:
		pb.Location = pb.Location.SetComponent(arrayIndex, value)
	case ChannelRotationQuat:
		q := pb.RotationQuaternion
		values := []float64{q.W, q.X(), q.Y(), q.Z()}
		if arrayIndex < 0 || arrayIndex >= len(values) {
			return fmt.Errorf("回転成分indexが範囲外です: %d", arrayIndex)
		}
		values[arrayIndex] = value
		pb.RotationQuaternion = mmath.NewQuaternionByValues(values[0], values[1], values[2], values[3])
	case ChannelRotationAxisAngle:
		if arrayIndex < 0 || arrayIndex >= 4 {
			return fmt.Errorf("回転成分indexが範囲外です: %d", arrayIndex)
		}
		pb.RotationAxisAngle[arrayIndex] = value
	case ChannelRotationEuler:
		pb.RotationEuler = pb.RotationEuler.SetComponent(arrayIndex, value)
	case ChannelScale:
		pb.Scale = pb.Scale.SetComponent(arrayIndex, value)
	default:
		return fmt.Errorf("未対応のチャンネルです: %s", channel)
	}
	return nil
}

// RemoveConstraint は対象コンストレイントを取り外す。
func (pb *PoseBone) RemoveConstraint(target *Constraint) {
	remaining := pb.Constraints[:0]
	for _, c := range pb.Constraints {
		if c != target {
			remaining = append(remaining, c)
		}
	}
	pb.Constraints = remaining
}
