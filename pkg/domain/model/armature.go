// 指示: miu200521358
package model

import (
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
)

// ArmatureObject はアーマチュアデータを持つオブジェクトを表す。
type ArmatureObject struct {
	name         string
	armatureName string
	Bones        *BoneCollection
	// Pose はボーン名をキーとするポーズ状態。Bonesと同期して管理する。
	Pose map[string]*PoseBone
	// Action はこのオブジェクトのモーションカーブ集合。キー未挿入時はnil。
	Action *Action

	HideViewport bool
	ShowInFront  bool
	// Linked はライブラリリンク由来(直接編集不可)かを表す。
	Linked bool
}

// NewArmatureObject はボーンを持たないオブジェクトを生成する。
func NewArmatureObject(name, armatureName string) *ArmatureObject {
	return &ArmatureObject{
		name:         name,
		armatureName: armatureName,
		Bones:        NewBoneCollection(),
		Pose:         map[string]*PoseBone{},
	}
}

// Name はオブジェクト名を返す。
func (o *ArmatureObject) Name() string {
	return o.name
}

// ArmatureName はアーマチュアデータ名を返す。
func (o *ArmatureObject) ArmatureName() string {
	return o.armatureName
}

// Rename はオブジェクト名を変更する。
func (o *ArmatureObject) Rename(name string) {
	o.name = name
}

// EnsureAction はアクションを取得し、無ければ生成する。
func (o *ArmatureObject) EnsureAction() *Action {
	if o.Action == nil {
		o.Action = NewAction()
	}
	return o.Action
}

// SyncPose はボーン一覧とポーズ状態を同期する。
// 追加ボーンには初期ポーズを割り当て、削除済みボーンのポーズは破棄する。
func (o *ArmatureObject) SyncPose() {
	alive := map[string]bool{}
	for _, bone := range o.Bones.Values() {
		alive[bone.Name()] = true
		if _, ok := o.Pose[bone.Name()]; !ok {
			o.Pose[bone.Name()] = NewPoseBone()
		}
	}
	for name := range o.Pose {
		if !alive[name] {
			delete(o.Pose, name)
		}
	}
}

// PoseBoneByName はボーンとポーズ状態の組を返す。
func (o *ArmatureObject) PoseBoneByName(name string) (*Bone, *PoseBone, bool) {
	bone, ok := o.Bones.GetByName(name)
	if !ok {
		return nil, nil, false
	}
	pose, ok := o.Pose[name]
	if !ok {
		return nil, nil, false
	}
	return bone, pose, true
}

// RestRelativeMatrix は親ボーンから見たレスト相対行列を返す。
// レスト姿勢は回転を持たないため平行移動のみになる。
func RestRelativeMatrix(parent, child *Bone) mmath.Mat4 {
	if parent == nil {
		return mmath.NewMat4FromTranslation(child.Head)
	}
	return mmath.NewMat4FromTranslation(child.Head.Subed(parent.Head))
}
