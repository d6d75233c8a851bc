// 指示: miu200521358
package model

import (
	"testing"
)

func TestFCurveInsertKeepsAscendingOrder(t *testing.T) {
	fc := &FCurve{BoneName: "arm", Channel: ChannelLocation, ArrayIndex: 0}
	fc.Insert(10, 1.0)
	fc.Insert(1, 0.0)
	fc.Insert(5, 0.5)

	if len(fc.Keyframes) != 3 {
		t.Fatalf("keyframe count mismatch: %d", len(fc.Keyframes))
	}
	for i := 1; i < len(fc.Keyframes); i++ {
		if fc.Keyframes[i-1].Frame >= fc.Keyframes[i].Frame {
			t.Fatalf("keyframes should be ascending: %v", fc.Keyframes)
		}
	}
}

func TestFCurveInsertOverwritesSameFrame(t *testing.T) {
	fc := &FCurve{BoneName: "arm", Channel: ChannelLocation, ArrayIndex: 0}
	fc.Insert(5, 1.0)
	fc.Insert(5, 2.0)
	if len(fc.Keyframes) != 1 {
		t.Fatalf("same frame should overwrite: %v", fc.Keyframes)
	}
	if fc.Keyframes[0].Value != 2.0 {
		t.Fatalf("value should be replaced: %f", fc.Keyframes[0].Value)
	}
}

func TestFCurveEvaluateInterpolatesLinearly(t *testing.T) {
	fc := &FCurve{BoneName: "arm", Channel: ChannelLocation, ArrayIndex: 0}
	fc.Insert(1, 0.0)
	fc.Insert(11, 10.0)

	if fc.Evaluate(6) != 5.0 {
		t.Fatalf("interpolation mismatch: %f", fc.Evaluate(6))
	}
	if fc.Evaluate(-5) != 0.0 {
		t.Fatalf("before range should clamp: %f", fc.Evaluate(-5))
	}
	if fc.Evaluate(100) != 10.0 {
		t.Fatalf("after range should clamp: %f", fc.Evaluate(100))
	}
}

func TestActionEnsureCurveReusesExisting(t *testing.T) {
	action := NewAction()
	first := action.EnsureCurve("arm", ChannelScale, 1, "arm")
	second := action.EnsureCurve("arm", ChannelScale, 1, "arm")
	if first != second {
		t.Fatalf("same channel should reuse curve")
	}
	if len(action.FCurves) != 1 {
		t.Fatalf("curve count mismatch: %d", len(action.FCurves))
	}
}

func TestActionRemoveBoneCurves(t *testing.T) {
	action := NewAction()
	action.EnsureCurve("arm", ChannelLocation, 0, "arm")
	action.EnsureCurve("arm", ChannelLocation, 1, "arm")
	action.EnsureCurve("leg", ChannelLocation, 0, "leg")

	action.RemoveBoneCurves("arm")
	if len(action.FCurves) != 1 {
		t.Fatalf("only leg curves should remain: %d", len(action.FCurves))
	}
	if action.FCurves[0].BoneName != "leg" {
		t.Fatalf("remaining curve mismatch: %s", action.FCurves[0].BoneName)
	}
}

func TestFCurveDataPathEmbedsBoneName(t *testing.T) {
	fc := &FCurve{BoneName: "Arm_Copy", Channel: ChannelRotationQuat, ArrayIndex: 0}
	if fc.DataPath() != `pose.bones["Arm_Copy"].rotation_quaternion` {
		t.Fatalf("data path mismatch: %s", fc.DataPath())
	}
}
