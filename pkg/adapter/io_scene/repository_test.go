// 指示: miu200521358
package io_scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

// buildSceneData は親子・拘束・モーションを一通り含むシーンを構築する。
func buildSceneData(t *testing.T) *SceneData {
	t.Helper()
	obj := model.NewArmatureObject("Rig", "RigArmature")
	obj.ShowInFront = true

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
	hand.Tag = model.TagCopy
	hand.Select = true
	obj.SyncPose()

	obj.Pose["Arm"].RotationMode = model.RotationModeXYZ
	obj.Pose["Arm"].RotationEuler = mmath.NewVec3(0, 0, math.Pi/4)
	obj.Pose["Arm"].Location = mmath.NewVec3(0.5, 0, 0)
	obj.Pose["Hand"].Constraints = append(obj.Pose["Hand"].Constraints, &model.Constraint{
		Type:          model.ConstraintIK,
		Target:        "Rig",
		Subtarget:     "root",
		PoleTarget:    "Rig",
		PoleSubtarget: "Arm",
		ChainCount:    2,
		PoleAngle:     0.5,
	})

	curve := obj.EnsureAction().EnsureCurve("Arm", model.ChannelRotationEuler, 2, "Arm")
	curve.Insert(1, 0)
	curve.Insert(10, math.Pi/2)

	return &SceneData{
		Frame:        5,
		Cursor:       mmath.NewVec3(1, 2, 3),
		ActiveObject: "Rig",
		Objects:      []*model.ArmatureObject{obj},
	}
}

func TestCanLoad(t *testing.T) {
	r := NewSceneRepository()
	if !r.CanLoad("scene.json") || !r.CanLoad("SCENE.JSON") {
		t.Fatalf("json extension should be loadable")
	}
	if r.CanLoad("scene.toml") || r.CanLoad("scene") {
		t.Fatalf("other extensions should be rejected")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	r := NewSceneRepository()
	original := buildSceneData(t)

	if err := r.Save(path, original); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := r.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Frame != 5 || loaded.ActiveObject != "Rig" {
		t.Fatalf("scene state mismatch: frame=%d active=%s", loaded.Frame, loaded.ActiveObject)
	}
	if !loaded.Cursor.NearEquals(mmath.NewVec3(1, 2, 3), 1e-12) {
		t.Fatalf("cursor mismatch: %v", loaded.Cursor)
	}
	if len(loaded.Objects) != 1 {
		t.Fatalf("object count mismatch: %d", len(loaded.Objects))
	}

	// ファイル表現同士で比較する。復元が完全ならエンコード結果も一致する。
	if diff := cmp.Diff(encodeObject(original.Objects[0]), encodeObject(loaded.Objects[0])); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	// 親子関係はindexではなく名前で往復する。
	hand, _ := loaded.Objects[0].Bones.GetByName("Hand")
	if parent := loaded.Objects[0].Bones.Parent(hand); parent == nil || parent.Name() != "Arm" {
		t.Fatalf("parent should resolve by name")
	}
	if !hand.Connected {
		t.Fatalf("connected flag should survive")
	}
}

func TestLoadRejectsUnknownParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	payload := `{
  "frame": 1,
  "objects": [
    {
      "name": "Rig",
      "armature_name": "RigArmature",
      "bones": [
        {"name": "Arm", "head": [0, 1, 0], "tail": [0, 2, 0], "parent": "missing", "use_deform": true}
      ]
    }
  ]
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, err := NewSceneRepository().Load(path)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("unknown parent should fail: %v", err)
	}
}

func TestLoadRejectsWrongExtension(t *testing.T) {
	if _, err := NewSceneRepository().Load("scene.toml"); err == nil {
		t.Fatalf("wrong extension should fail")
	}
}
