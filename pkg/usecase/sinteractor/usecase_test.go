// 指示: miu200521358
package sinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/scene"
)

// newRigScene はroot-Arm-Hand(connected)のリグとユースケースを用意する。
func newRigScene(t *testing.T) (*scene.Scene, *model.ArmatureObject, *SpaceSwitchUsecase) {
	t.Helper()
	s := scene.NewScene(nil)
	obj := model.NewArmatureObject("Rig", "RigArmature")

	root := model.NewBone("root", mmath.ZERO_VEC3, mmath.NewVec3(0, 1, 0))
	arm := model.NewBone("Arm", mmath.NewVec3(0, 1, 0), mmath.NewVec3(0, 2, 0))
	hand := model.NewBone("Hand", mmath.NewVec3(0, 2, 0), mmath.NewVec3(0, 3, 0))
	for _, bone := range []*model.Bone{root, arm, hand} {
		if _, err := obj.Bones.Append(bone); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	arm.ParentIndex = root.Index()
	hand.ParentIndex = arm.Index()
	hand.Connected = true

	obj.EnsureAction()
	if err := s.AddObject(obj); err != nil {
		t.Fatalf("add object failed: %v", err)
	}
	obj.Pose["Arm"].RotationMode = model.RotationModeXYZ
	if err := s.SetMode("POSE"); err != nil {
		t.Fatalf("set mode failed: %v", err)
	}
	if err := s.SetActiveObject(obj); err != nil {
		t.Fatalf("set active object failed: %v", err)
	}

	uc := NewSpaceSwitchUsecase(SpaceSwitchUsecaseDeps{Host: s})
	return s, obj, uc
}

// animateArmRotation はArmのオイラーZ回転へ0度→90度のキーを打つ。
func animateArmRotation(t *testing.T, obj *model.ArmatureObject) {
	t.Helper()
	curve := obj.Action.EnsureCurve("Arm", model.ChannelRotationEuler, 2, "Arm")
	curve.Insert(1, 0)
	curve.Insert(10, math.Pi/2)
}

// selectBones は指定ボーンだけを選択状態にする。
func selectBones(t *testing.T, s *scene.Scene, obj *model.ArmatureObject, names ...string) {
	t.Helper()
	for _, bone := range obj.Bones.Values() {
		bone.Select = false
	}
	for _, name := range names {
		bone, ok := obj.Bones.GetByName(name)
		if !ok {
			t.Fatalf("bone not found: %s", name)
		}
		bone.Select = true
	}
}

// findKeyframe はカーブの指定フレームのキー値を返す。
func findKeyframe(t *testing.T, action *model.Action, boneName, channel string, arrayIndex int, frame float64) float64 {
	t.Helper()
	curve, ok := action.FindCurve(boneName, channel, arrayIndex)
	if !ok {
		t.Fatalf("curve not found: %s.%s[%d]", boneName, channel, arrayIndex)
	}
	key, ok := curve.KeyframeAt(frame)
	if !ok {
		t.Fatalf("keyframe not found: %s.%s[%d]@%f", boneName, channel, arrayIndex, frame)
	}
	return key.Value
}
