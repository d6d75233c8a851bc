// 指示: miu200521358
package sinteractor

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

func TestSwitchToWorldBakesCopy(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)
	selectBones(t, s, obj, "Arm")

	result, err := uc.SwitchToWorld(SwitchToWorldRequest{Range: FrameRange{Start: 1, End: 10}})
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if len(result.CopyBoneNames) != 1 || result.CopyBoneNames[0] != "Arm_Copy" {
		t.Fatalf("unexpected copy names: %v", result.CopyBoneNames)
	}

	tempObj, ok := s.ObjectByName("SpaceSwitching")
	if !ok {
		t.Fatalf("temporary object should exist")
	}
	copyBone, ok := tempObj.Bones.GetByName("Arm_Copy")
	if !ok {
		t.Fatalf("copy bone should exist")
	}
	if copyBone.Tag != model.TagCopy {
		t.Fatalf("copy should be tagged: %q", copyBone.Tag)
	}
	if !copyBone.Select {
		t.Fatalf("copy should be selected")
	}
	if copyBone.UseDeform {
		t.Fatalf("copy should not deform")
	}

	// コピーは原点に生成され、元ボーンのワールドモーションを自前で持つ。
	// Armのポーズはヘッド(0,1,0)への平行移動を含むため位置キーが立つ。
	headY := findKeyframe(t, tempObj.Action, "Arm_Copy", model.ChannelLocation, 1, 1)
	if math.Abs(headY-1) > 1e-6 {
		t.Fatalf("copy location should capture head translation: %f", headY)
	}
	startZ := findKeyframe(t, tempObj.Action, "Arm_Copy", model.ChannelRotationEuler, 2, 1)
	endZ := findKeyframe(t, tempObj.Action, "Arm_Copy", model.ChannelRotationEuler, 2, 10)
	if math.Abs(startZ) > 1e-4 || math.Abs(endZ-math.Pi/2) > 1e-4 {
		t.Fatalf("copy rotation keys mismatch: %f %f", startZ, endZ)
	}

	// 元ボーンは隠され、コピーへ位置と回転で拘束される。
	arm, _ := obj.Bones.GetByName("Arm")
	if !arm.Hide {
		t.Fatalf("source should be hidden")
	}
	constraints := obj.Pose["Arm"].Constraints
	if len(constraints) != 2 {
		t.Fatalf("source should carry two reverse constraints: %d", len(constraints))
	}
	if constraints[0].Type != model.ConstraintCopyLocation || constraints[1].Type != model.ConstraintCopyRotation {
		t.Fatalf("unexpected constraint types: %s %s", constraints[0].Type, constraints[1].Type)
	}
	for _, constraint := range constraints {
		if constraint.Target != "SpaceSwitching" || constraint.Subtarget != "Arm_Copy" {
			t.Fatalf("reverse constraint should target the copy: %s/%s", constraint.Target, constraint.Subtarget)
		}
	}
}

func TestSwitchToWorldConnectedBuildsAnchors(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)
	obj.Pose["Hand"].RotationMode = model.RotationModeXYZ
	selectBones(t, s, obj, "Hand")

	if _, err := uc.SwitchToWorld(SwitchToWorldRequest{Range: FrameRange{Start: 1, End: 10}}); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	tempObj, ok := s.ObjectByName("SpaceSwitching")
	if !ok {
		t.Fatalf("temporary object should exist")
	}
	copyBone, ok := tempObj.Bones.GetByName("Hand_Copy")
	if !ok {
		t.Fatalf("copy bone should exist")
	}
	parentBone, ok := tempObj.Bones.GetByName("Hand_Parent")
	if !ok {
		t.Fatalf("parent anchor should exist")
	}
	spaceBone, ok := tempObj.Bones.GetByName("Arm_Space")
	if !ok {
		t.Fatalf("space anchor should exist")
	}

	// connectedの複製はアンカー2段にぶら下がり、ヘッドが親アンカーのテイルへ追従する。
	if !copyBone.Connected {
		t.Fatalf("copy should stay connected")
	}
	if parent := tempObj.Bones.Parent(copyBone); parent == nil || parent.Name() != spaceBone.Name() {
		t.Fatalf("copy should be parented to the space anchor")
	}
	if parent := tempObj.Bones.Parent(spaceBone); parent == nil || parent.Name() != parentBone.Name() {
		t.Fatalf("space anchor should be parented to the parent anchor")
	}
	if !parentBone.Hide || !spaceBone.Hide {
		t.Fatalf("anchors should be hidden")
	}
	if parentBone.Tag != model.TagSpace || spaceBone.Tag != model.TagSpace {
		t.Fatalf("anchors should be tagged as space bones")
	}

	// 位置追従は外側アンカーの1本だけ。回転コピーは付けない。
	parentConstraints := tempObj.Pose[parentBone.Name()].Constraints
	if len(parentConstraints) != 1 {
		t.Fatalf("outer anchor should carry one constraint: %d", len(parentConstraints))
	}
	follow := parentConstraints[0]
	if follow.Type != model.ConstraintCopyLocation || follow.HeadTail != 1.0 {
		t.Fatalf("outer anchor should follow the parent tail: %s %f", follow.Type, follow.HeadTail)
	}
	if follow.Target != "Rig" || follow.Subtarget != "Arm" {
		t.Fatalf("outer anchor should target the source parent: %s/%s", follow.Target, follow.Subtarget)
	}
	if len(tempObj.Pose[spaceBone.Name()].Constraints) != 0 {
		t.Fatalf("inner anchor should carry no constraints")
	}

	// 親階層なしのオイラーは破綻しやすいため四元数へ強制される。
	if tempObj.Pose[copyBone.Name()].RotationMode != model.RotationModeQuaternion {
		t.Fatalf("connected euler copy should switch to quaternion: %s", tempObj.Pose[copyBone.Name()].RotationMode)
	}

	// connectedの元ボーンへは回転拘束のみ戻す。
	handConstraints := obj.Pose["Hand"].Constraints
	if len(handConstraints) != 1 || handConstraints[0].Type != model.ConstraintCopyRotation {
		t.Fatalf("connected source should only get a rotation constraint: %+v", handConstraints)
	}

	// connectedのコピーには位置キーを打たない。
	for index := 0; index < 3; index++ {
		if _, ok := tempObj.Action.FindCurve("Hand_Copy", model.ChannelLocation, index); ok {
			t.Fatalf("connected copy must not receive location keys")
		}
	}
}

func TestSwitchToTargetSelfIsNoOp(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)
	selectBones(t, s, obj, "Arm")

	result, err := uc.SwitchToTarget(SwitchToTargetRequest{
		Range:  FrameRange{Start: 1, End: 10},
		Target: "Rig",
		Bone:   "Arm",
	})
	if err != nil {
		t.Fatalf("self target should be a silent no-op: %v", err)
	}
	if len(result.CopyBoneNames) != 0 {
		t.Fatalf("no copies expected: %v", result.CopyBoneNames)
	}
	if _, ok := s.ObjectByName("SpaceSwitching"); ok {
		t.Fatalf("no temporary object should be created")
	}
	arm, _ := obj.Bones.GetByName("Arm")
	if arm.Hide {
		t.Fatalf("source should stay visible")
	}
	if len(obj.Pose["Arm"].Constraints) != 0 {
		t.Fatalf("no constraints expected")
	}
}

func TestSwitchToTargetBuildsSpaceAnchor(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)
	selectBones(t, s, obj, "Arm")

	if _, err := uc.SwitchToTarget(SwitchToTargetRequest{
		Range:  FrameRange{Start: 1, End: 10},
		Target: "Rig",
		Bone:   "root",
	}); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	tempObj, ok := s.ObjectByName("SpaceSwitching")
	if !ok {
		t.Fatalf("temporary object should exist")
	}
	spaceBone, ok := tempObj.Bones.GetByName("root_Space")
	if !ok {
		t.Fatalf("space anchor should exist")
	}
	copyBone, ok := tempObj.Bones.GetByName("Arm_Copy")
	if !ok {
		t.Fatalf("copy bone should exist")
	}
	if parent := tempObj.Bones.Parent(copyBone); parent == nil || parent.Name() != spaceBone.Name() {
		t.Fatalf("copy should be parented to the space anchor")
	}

	// 切替先の空間へは位置と回転の両方で追従する。
	anchorConstraints := tempObj.Pose[spaceBone.Name()].Constraints
	if len(anchorConstraints) != 2 {
		t.Fatalf("space anchor should carry two constraints: %d", len(anchorConstraints))
	}
	if anchorConstraints[0].Type != model.ConstraintCopyLocation || anchorConstraints[1].Type != model.ConstraintCopyRotation {
		t.Fatalf("unexpected anchor constraint types: %s %s", anchorConstraints[0].Type, anchorConstraints[1].Type)
	}
	for _, constraint := range anchorConstraints {
		if constraint.Target != "Rig" || constraint.Subtarget != "root" {
			t.Fatalf("anchor should follow the destination: %s/%s", constraint.Target, constraint.Subtarget)
		}
	}
}

func TestSwitchToActiveExcludesActiveBone(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)
	selectBones(t, s, obj, "Arm", "root")
	if err := s.SetActivePoseBone(obj, "root"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	result, err := uc.SwitchToActive(SwitchToActiveRequest{Range: FrameRange{Start: 1, End: 10}})
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if len(result.CopyBoneNames) != 1 || result.CopyBoneNames[0] != "Arm_Copy" {
		t.Fatalf("active bone must be excluded from switching: %v", result.CopyBoneNames)
	}
	root, _ := obj.Bones.GetByName("root")
	if root.Hide {
		t.Fatalf("active bone should stay visible")
	}
}

func TestSwitchToActiveRequiresTwoSelections(t *testing.T) {
	s, obj, uc := newRigScene(t)
	selectBones(t, s, obj, "Arm")
	if err := s.SetActivePoseBone(obj, "Arm"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	_, err := uc.SwitchToActive(SwitchToActiveRequest{Range: FrameRange{Start: 1, End: 10}})
	if !errors.Is(err, merrors.ErrUserPrecondition) {
		t.Fatalf("single selection should fail the poll: %v", err)
	}
}

func TestSwitchRejectsConstrainedSelection(t *testing.T) {
	s, obj, uc := newRigScene(t)
	obj.Pose["Arm"].Constraints = append(obj.Pose["Arm"].Constraints, &model.Constraint{
		Type:      model.ConstraintCopyRotation,
		Target:    "Rig",
		Subtarget: "root",
	})
	selectBones(t, s, obj, "Arm")
	_, err := uc.SwitchToWorld(SwitchToWorldRequest{Range: FrameRange{Start: 1, End: 10}})
	if !errors.Is(err, merrors.ErrUserPrecondition) {
		t.Fatalf("constrained selection should fail the poll: %v", err)
	}
}

func TestSwitchApplyRoundTrip(t *testing.T) {
	s, obj, uc := newRigScene(t)
	animateArmRotation(t, obj)

	// 切替前のArmのワールドポーズを控えておく。
	want := map[int]mmath.Mat4{}
	for frame := 1; frame <= 10; frame++ {
		if err := s.SetFrame(frame); err != nil {
			t.Fatalf("set frame failed: %v", err)
		}
		ref, ok := s.PoseBone(obj, "Arm")
		if !ok {
			t.Fatalf("pose bone not found")
		}
		want[frame] = ref.Pose.PoseMatrix
	}

	selectBones(t, s, obj, "Arm")
	if _, err := uc.SwitchToWorld(SwitchToWorldRequest{Range: FrameRange{Start: 1, End: 10}}); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	// 切替直後はコピーが選択されているため、そのまま適用できる。
	if _, err := uc.ApplyBones(ApplyBonesRequest{Range: FrameRange{Start: 1, End: 10}}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, ok := s.ObjectByName("SpaceSwitching"); !ok {
		t.Fatalf("temporary object should remain for reuse")
	}
	tempObj, _ := s.ObjectByName("SpaceSwitching")
	if tempObj.Bones.Len() != 0 {
		t.Fatalf("temporary bones should be removed: %d", tempObj.Bones.Len())
	}

	// 切替と適用を往復してもワールドポーズは変わらない。
	for frame := 1; frame <= 10; frame++ {
		if err := s.SetFrame(frame); err != nil {
			t.Fatalf("set frame failed: %v", err)
		}
		ref, ok := s.PoseBone(obj, "Arm")
		if !ok {
			t.Fatalf("pose bone not found")
		}
		if !ref.Pose.PoseMatrix.NearEquals(want[frame], 1e-4) {
			t.Fatalf("world pose changed at frame %d", frame)
		}
	}
}
