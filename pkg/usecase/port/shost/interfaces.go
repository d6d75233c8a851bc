// 指示: miu200521358
package shost

import (
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

// Mode はホストの編集モードを表す。
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModePose   Mode = "POSE"
	ModeEdit   Mode = "EDIT"
)

// PoseBoneRef は所属オブジェクトを含むポーズボーン参照を表す。
type PoseBoneRef struct {
	Object *model.ArmatureObject
	Bone   *model.Bone
	Pose   *model.PoseBone
}

// IEditSession はアーマチュアの構造編集(編集モード相当)の契約を表す。
// End が呼ばれるまでポーズ状態の同期は保証されない。
type IEditSession interface {
	// NewBone はボーンを追加し、衝突回避後の確定名を返す。
	NewBone(name string, head, tail mmath.Vec3) (string, error)
	// SetParent は親子関係を設定する。connected は親テイルへの接続を表す。
	SetParent(childName, parentName string, connected bool) error
	// RemoveBone はボーンを削除する。子は親側へ付け替えられる。
	RemoveBone(name string) error
	// End は編集を確定し、ポーズ状態を再同期する。
	End() error
}

// IPoseHost はシーンホスト(オブジェクト・ポーズ・アニメーション操作)の契約を表す。
type IPoseHost interface {
	// Mode は現在の編集モードを返す。
	Mode() Mode
	// SetMode は編集モードを切り替える。
	SetMode(mode Mode) error

	// CurrentFrame は現在フレームを返す。
	CurrentFrame() int
	// SetFrame はフレームを移動し、シーンを再評価する。
	SetFrame(frame int) error
	// Reevaluate は現在フレームのままシーンを再評価する。
	Reevaluate() error

	// CursorLocation は3Dカーソル位置を返す。
	CursorLocation() mmath.Vec3

	// Objects は全アーマチュアオブジェクトを返す。
	Objects() []*model.ArmatureObject
	// ObjectByName は名前でオブジェクトを検索する。
	ObjectByName(name string) (*model.ArmatureObject, bool)
	// TemporaryObject は一時オブジェクトを検索または生成する。
	TemporaryObject(objectName, armatureName string) (*model.ArmatureObject, error)

	// ActiveObject はアクティブオブジェクトを返す。無ければnil。
	ActiveObject() *model.ArmatureObject
	// SetActiveObject はアクティブオブジェクトを切り替える。
	SetActiveObject(obj *model.ArmatureObject) error
	// DuplicateObject はオブジェクトを複製し、複製を返す。
	DuplicateObject(obj *model.ArmatureObject, name string) (*model.ArmatureObject, error)
	// DeleteObject はオブジェクトをシーンから削除する。
	DeleteObject(obj *model.ArmatureObject) error

	// SelectedPoseBones は選択中ポーズボーンを返す。アクティブボーンを含む。
	SelectedPoseBones() []PoseBoneRef
	// ActivePoseBone はアクティブポーズボーンを返す。無ければfalse。
	ActivePoseBone() (PoseBoneRef, bool)
	// SetActivePoseBone はアクティブボーンを切り替える。選択状態も付与する。
	SetActivePoseBone(obj *model.ArmatureObject, boneName string) error
	// ClearActiveBone はアクティブボーンを解除する。
	ClearActiveBone()
	// PoseBone はオブジェクトとボーン名から参照を引く。
	PoseBone(obj *model.ArmatureObject, boneName string) (PoseBoneRef, bool)

	// BeginStructuralEdit はボーン構造の編集セッションを開始する。
	BeginStructuralEdit(obj *model.ArmatureObject) (IEditSession, error)

	// ConvertPoseToLocal は評価済みアーマチュア空間姿勢をローカルチャンネルへ逆変換する。
	ConvertPoseToLocal(ref PoseBoneRef, pose mmath.Mat4) error

	// KeyframeInsert は現在のチャンネル値をキーフレームとして挿入する。
	KeyframeInsert(obj *model.ArmatureObject, boneName, channel string, arrayIndex, frame int, group string) error
	// RemoveBoneCurves はボーンのFカーブを全削除する。
	RemoveBoneCurves(obj *model.ArmatureObject, boneName string)
}
