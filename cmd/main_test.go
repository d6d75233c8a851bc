// 指示: miu200521358
package main

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_spaceswitch/pkg/adapter/io_scene"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{
		"-scene", "scene.json", "-out", "result.json", "-op", "target",
		"-target", "Rig", "-bone", "root", "-start", "5", "-end", "20",
	}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.scenePath != "scene.json" || opts.outputPath != "result.json" {
		t.Fatalf("path mismatch: %+v", opts)
	}
	if opts.op != "target" || opts.target != "Rig" || opts.bone != "root" {
		t.Fatalf("target options mismatch: %+v", opts)
	}
	if opts.start != 5 || opts.end != 20 {
		t.Fatalf("range mismatch: %+v", opts)
	}
}

func TestParseOptionsWithPositionalScene(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{"-op", "world", "scene.json"}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.scenePath != "scene.json" {
		t.Fatalf("positional scene path mismatch: %s", opts.scenePath)
	}
}

func TestParseOptionsRequiresScene(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	if _, err := parseOptions([]string{"-op", "world"}, errBuf); err == nil {
		t.Fatalf("missing scene should fail")
	}
}

func TestParseOptionsRequiresOp(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	if _, err := parseOptions([]string{"-scene", "scene.json"}, errBuf); err == nil {
		t.Fatalf("missing op should fail")
	}
}

func TestParseOptionsTargetNeedsDestination(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	if _, err := parseOptions([]string{"-scene", "scene.json", "-op", "target"}, errBuf); err == nil {
		t.Fatalf("target op without destination should fail")
	}
}

func TestParseChannels(t *testing.T) {
	channels, err := parseChannels("location, rotation")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !channels.Location || !channels.Rotation || channels.Scale {
		t.Fatalf("channel set mismatch: %+v", channels)
	}
	if _, err := parseChannels("location,unknown"); err == nil {
		t.Fatalf("unknown channel should fail")
	}
}

// writeTestScene はアニメーション付きのリグをシーンファイルへ書き出す。
func writeTestScene(t *testing.T, path string) {
	t.Helper()
	obj := model.NewArmatureObject("Rig", "RigArmature")
	root := model.NewBone("root", mmath.ZERO_VEC3, mmath.NewVec3(0, 1, 0))
	arm := model.NewBone("Arm", mmath.NewVec3(0, 1, 0), mmath.NewVec3(0, 2, 0))
	for _, bone := range []*model.Bone{root, arm} {
		if _, err := obj.Bones.Append(bone); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	arm.ParentIndex = root.Index()
	arm.Select = true
	obj.SyncPose()
	obj.Pose["Arm"].RotationMode = model.RotationModeXYZ
	curve := obj.EnsureAction().EnsureCurve("Arm", model.ChannelRotationEuler, 2, "Arm")
	curve.Insert(1, 0)
	curve.Insert(10, math.Pi/2)

	data := &io_scene.SceneData{
		Frame:        1,
		ActiveObject: "Rig",
		Objects:      []*model.ArmatureObject{obj},
	}
	if err := io_scene.NewSceneRepository().Save(path, data); err != nil {
		t.Fatalf("scene save failed: %v", err)
	}
}

func TestRunWorldSwitchEndToEnd(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.json")
	outputPath := filepath.Join(dir, "result.json")
	writeTestScene(t, scenePath)

	out := bytes.NewBuffer(nil)
	errOut := bytes.NewBuffer(nil)
	err := run([]string{
		"-scene", scenePath, "-out", outputPath,
		"-op", "world", "-start", "1", "-end", "10",
	}, out, errOut)
	if err != nil {
		t.Fatalf("run failed: %v\nstderr: %s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "Arm_Copy") {
		t.Fatalf("summary should name the copy bone:\n%s", out.String())
	}

	result, err := io_scene.NewSceneRepository().Load(outputPath)
	if err != nil {
		t.Fatalf("result load failed: %v", err)
	}
	var tempObj *model.ArmatureObject
	var rig *model.ArmatureObject
	for _, obj := range result.Objects {
		switch obj.Name() {
		case "SpaceSwitching":
			tempObj = obj
		case "Rig":
			rig = obj
		}
	}
	if tempObj == nil || rig == nil {
		t.Fatalf("both objects should survive the round trip")
	}
	copyBone, ok := tempObj.Bones.GetByName("Arm_Copy")
	if !ok {
		t.Fatalf("copy bone should exist in the saved scene")
	}
	if copyBone.Tag != model.TagCopy {
		t.Fatalf("copy tag should survive: %q", copyBone.Tag)
	}
	if len(rig.Pose["Arm"].Constraints) != 2 {
		t.Fatalf("reverse constraints should survive: %d", len(rig.Pose["Arm"].Constraints))
	}
	if tempObj.Action == nil {
		t.Fatalf("baked motion should survive")
	}
	if _, ok := tempObj.Action.FindCurve("Arm_Copy", model.ChannelRotationEuler, 2); !ok {
		t.Fatalf("baked rotation curve should survive")
	}
}

func TestRunUnknownOpFails(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.json")
	writeTestScene(t, scenePath)

	err := run([]string{"-scene", scenePath, "-op", "explode"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil || !strings.Contains(err.Error(), "explode") {
		t.Fatalf("unknown op should fail with its name: %v", err)
	}
}
