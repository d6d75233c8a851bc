// 指示: miu200521358
package model

import (
	"fmt"
	"sort"
)

// チャンネル名一覧。キーフレーム挿入時のデータパス末尾と対応する。
const (
	ChannelLocation          = "location"
	ChannelRotationQuat      = "rotation_quaternion"
	ChannelRotationAxisAngle = "rotation_axis_angle"
	ChannelRotationEuler     = "rotation_euler"
	ChannelScale             = "scale"
)

// ChannelComponentCount はチャンネルの成分数を返す。
func ChannelComponentCount(channel string) int {
	switch channel {
	case ChannelRotationQuat, ChannelRotationAxisAngle:
		return 4
	case ChannelLocation, ChannelRotationEuler, ChannelScale:
		return 3
	default:
		return 0
	}
}

// Keyframe は1つのキーフレームを表す。
type Keyframe struct {
	Frame float64
	Value float64
}

// FCurve は1ボーン1チャンネル1成分のモーションカーブを表す。
type FCurve struct {
	BoneName   string
	Channel    string
	ArrayIndex int
	Group      string
	// Keyframes はフレーム昇順を保つ。
	Keyframes []Keyframe
}

// DataPath はホスト互換のデータパスを返す。
func (fc *FCurve) DataPath() string {
	return fmt.Sprintf("pose.bones[%q].%s", fc.BoneName, fc.Channel)
}

// Insert はキーフレームを挿入する。同一フレームは上書きする。
func (fc *FCurve) Insert(frame, value float64) {
	pos := sort.Search(len(fc.Keyframes), func(i int) bool {
		return fc.Keyframes[i].Frame >= frame
	})
	if pos < len(fc.Keyframes) && fc.Keyframes[pos].Frame == frame {
		fc.Keyframes[pos].Value = value
		return
	}
	fc.Keyframes = append(fc.Keyframes, Keyframe{})
	copy(fc.Keyframes[pos+1:], fc.Keyframes[pos:])
	fc.Keyframes[pos] = Keyframe{Frame: frame, Value: value}
}

// Evaluate はフレーム位置の値を返す。キー間は線形補間、範囲外は端の値。
func (fc *FCurve) Evaluate(frame float64) float64 {
	if len(fc.Keyframes) == 0 {
		return 0
	}
	if frame <= fc.Keyframes[0].Frame {
		return fc.Keyframes[0].Value
	}
	last := fc.Keyframes[len(fc.Keyframes)-1]
	if frame >= last.Frame {
		return last.Value
	}
	pos := sort.Search(len(fc.Keyframes), func(i int) bool {
		return fc.Keyframes[i].Frame >= frame
	})
	left := fc.Keyframes[pos-1]
	right := fc.Keyframes[pos]
	t := (frame - left.Frame) / (right.Frame - left.Frame)
	return left.Value + (right.Value-left.Value)*t
}

// KeyframeAt は指定フレームのキーフレームを返す。
func (fc *FCurve) KeyframeAt(frame float64) (Keyframe, bool) {
	for _, key := range fc.Keyframes {
		if key.Frame == frame {
			return key, true
		}
	}
	return Keyframe{}, false
}

// Action はオブジェクト単位のモーションカーブ集合を表す。
type Action struct {
	FCurves []*FCurve
}

// NewAction は空のアクションを生成する。
func NewAction() *Action {
	return &Action{}
}

// FindCurve はボーン・チャンネル・成分でカーブを検索する。
func (a *Action) FindCurve(boneName, channel string, arrayIndex int) (*FCurve, bool) {
	for _, fc := range a.FCurves {
		if fc.BoneName == boneName && fc.Channel == channel && fc.ArrayIndex == arrayIndex {
			return fc, true
		}
	}
	return nil, false
}

// EnsureCurve は対象カーブを取得し、無ければ生成する。
func (a *Action) EnsureCurve(boneName, channel string, arrayIndex int, group string) *FCurve {
	if fc, ok := a.FindCurve(boneName, channel, arrayIndex); ok {
		return fc
	}
	fc := &FCurve{BoneName: boneName, Channel: channel, ArrayIndex: arrayIndex, Group: group}
	a.FCurves = append(a.FCurves, fc)
	return fc
}

// RemoveBoneCurves はボーン名に紐づく全カーブを削除する。
// ホストはボーン削除時にモーションを消さないため、削除前の掃除に使う。
func (a *Action) RemoveBoneCurves(boneName string) {
	remaining := a.FCurves[:0]
	for _, fc := range a.FCurves {
		if fc.BoneName != boneName {
			remaining = append(remaining, fc)
		}
	}
	a.FCurves = remaining
}

// BoneCurves はボーン名に紐づくカーブ一覧を返す。
func (a *Action) BoneCurves(boneName string) []*FCurve {
	var result []*FCurve
	for _, fc := range a.FCurves {
		if fc.BoneName == boneName {
			result = append(result, fc)
		}
	}
	return result
}
