// 指示: miu200521358
// Package scene はアーマチュアシーンのインメモリ実装を提供する。
// オブジェクト管理・フレーム評価・構造編集をホスト契約(shost)として公開する。
package scene

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// Scene はアーマチュアオブジェクト群と評価状態を保持するシーンを表す。
type Scene struct {
	logger *zap.Logger

	mode   shost.Mode
	frame  int
	cursor mmath.Vec3

	objects []*model.ArmatureObject
	active  *model.ArmatureObject

	activeBoneObject *model.ArmatureObject
	activeBoneName   string
}

var _ shost.IPoseHost = (*Scene)(nil)

// NewScene は空のシーンを生成する。loggerがnilの場合は破棄ロガーを使う。
func NewScene(logger *zap.Logger) *Scene {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scene{
		logger: logger,
		mode:   shost.ModeObject,
		frame:  1,
	}
}

// Mode は現在の編集モードを返す。
func (s *Scene) Mode() shost.Mode {
	return s.mode
}

// SetMode は編集モードを切り替える。
func (s *Scene) SetMode(mode shost.Mode) error {
	switch mode {
	case shost.ModeObject, shost.ModePose, shost.ModeEdit:
		s.mode = mode
		return nil
	default:
		return fmt.Errorf("未対応のモードです(%s): %w", mode, merrors.ErrInvalidArgument)
	}
}

// CurrentFrame は現在フレームを返す。
func (s *Scene) CurrentFrame() int {
	return s.frame
}

// SetFrame はフレームを移動し、シーンを再評価する。
func (s *Scene) SetFrame(frame int) error {
	s.frame = frame
	return s.Reevaluate()
}

// Reevaluate は現在フレームのままシーンを再評価する。
func (s *Scene) Reevaluate() error {
	return s.evaluate()
}

// CursorLocation は3Dカーソル位置を返す。
func (s *Scene) CursorLocation() mmath.Vec3 {
	return s.cursor
}

// SetCursorLocation は3Dカーソル位置を設定する。
func (s *Scene) SetCursorLocation(v mmath.Vec3) {
	s.cursor = v
}

// Objects は全アーマチュアオブジェクトを返す。
func (s *Scene) Objects() []*model.ArmatureObject {
	return s.objects
}

// ObjectByName は名前でオブジェクトを検索する。
func (s *Scene) ObjectByName(name string) (*model.ArmatureObject, bool) {
	for _, obj := range s.objects {
		if obj.Name() == name {
			return obj, true
		}
	}
	return nil, false
}

// AddObject はオブジェクトをシーンへ追加する。同名オブジェクトは追加できない。
func (s *Scene) AddObject(obj *model.ArmatureObject) error {
	if _, exists := s.ObjectByName(obj.Name()); exists {
		return fmt.Errorf("同名オブジェクトが既に存在します(%s): %w", obj.Name(), merrors.ErrInvalidArgument)
	}
	obj.SyncPose()
	s.objects = append(s.objects, obj)
	return nil
}

// TemporaryObject は一時オブジェクトを検索し、無ければ生成して追加する。
func (s *Scene) TemporaryObject(objectName, armatureName string) (*model.ArmatureObject, error) {
	if obj, ok := s.ObjectByName(objectName); ok {
		return obj, nil
	}
	obj := model.NewArmatureObject(objectName, armatureName)
	if err := s.AddObject(obj); err != nil {
		return nil, err
	}
	s.logger.Debug("一時オブジェクトを生成", zap.String("object", objectName))
	return obj, nil
}

// ActiveObject はアクティブオブジェクトを返す。無ければnil。
func (s *Scene) ActiveObject() *model.ArmatureObject {
	return s.active
}

// SetActiveObject はアクティブオブジェクトを切り替える。
func (s *Scene) SetActiveObject(obj *model.ArmatureObject) error {
	if obj == nil {
		s.active = nil
		return nil
	}
	if !s.contains(obj) {
		return fmt.Errorf("シーン外のオブジェクトです(%s): %w", obj.Name(), merrors.ErrInvalidArgument)
	}
	s.active = obj
	return nil
}

// DuplicateObject はオブジェクトを複製し、複製を返す。
// ボーン構造・ポーズ・アクションをすべて引き継ぐ。
func (s *Scene) DuplicateObject(obj *model.ArmatureObject, name string) (*model.ArmatureObject, error) {
	if !s.contains(obj) {
		return nil, fmt.Errorf("シーン外のオブジェクトです(%s): %w", obj.Name(), merrors.ErrInvalidArgument)
	}
	duplicated := model.NewArmatureObject(s.uniqueObjectName(name), obj.ArmatureName())

	for _, bone := range obj.Bones.Values() {
		clone := model.NewBone(bone.Name(), bone.Head, bone.Tail)
		clone.ParentIndex = bone.ParentIndex
		clone.Connected = bone.Connected
		clone.UseDeform = bone.UseDeform
		clone.Hide = bone.Hide
		clone.Select = bone.Select
		clone.ShowWire = bone.ShowWire
		clone.Tag = bone.Tag
		if _, err := duplicated.Bones.Append(clone); err != nil {
			return nil, fmt.Errorf("複製ボーンの追加に失敗しました: %w", err)
		}
	}

	pose := map[string]*model.PoseBone{}
	if err := deepcopy.Copy(&pose, &obj.Pose); err != nil {
		return nil, fmt.Errorf("ポーズ状態の複製に失敗しました: %w", err)
	}
	duplicated.Pose = pose

	if obj.Action != nil {
		action := &model.Action{}
		if err := deepcopy.Copy(action, obj.Action); err != nil {
			return nil, fmt.Errorf("アクションの複製に失敗しました: %w", err)
		}
		duplicated.Action = action
	}

	duplicated.HideViewport = obj.HideViewport
	duplicated.ShowInFront = obj.ShowInFront

	s.objects = append(s.objects, duplicated)
	return duplicated, nil
}

// DeleteObject はオブジェクトをシーンから削除する。
func (s *Scene) DeleteObject(obj *model.ArmatureObject) error {
	for i, candidate := range s.objects {
		if candidate == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			if s.active == obj {
				s.active = nil
			}
			if s.activeBoneObject == obj {
				s.ClearActiveBone()
			}
			return nil
		}
	}
	return fmt.Errorf("削除対象オブジェクトが見つかりません(%s): %w", obj.Name(), merrors.ErrInvalidArgument)
}

// SelectedPoseBones は選択中ポーズボーンをオブジェクト・ボーン順で返す。
func (s *Scene) SelectedPoseBones() []shost.PoseBoneRef {
	var refs []shost.PoseBoneRef
	for _, obj := range s.objects {
		for _, bone := range obj.Bones.Values() {
			if !bone.Select || bone.Hide {
				continue
			}
			pose, ok := obj.Pose[bone.Name()]
			if !ok {
				continue
			}
			refs = append(refs, shost.PoseBoneRef{Object: obj, Bone: bone, Pose: pose})
		}
	}
	return refs
}

// ActivePoseBone はアクティブポーズボーンを返す。無ければfalse。
func (s *Scene) ActivePoseBone() (shost.PoseBoneRef, bool) {
	if s.activeBoneObject == nil || s.activeBoneName == "" {
		return shost.PoseBoneRef{}, false
	}
	return s.PoseBone(s.activeBoneObject, s.activeBoneName)
}

// SetActivePoseBone はアクティブボーンを切り替え、選択状態を付与する。
func (s *Scene) SetActivePoseBone(obj *model.ArmatureObject, boneName string) error {
	ref, ok := s.PoseBone(obj, boneName)
	if !ok {
		return fmt.Errorf("アクティブ化対象ボーンが見つかりません(%s): %w", boneName, merrors.ErrInvalidArgument)
	}
	ref.Bone.Select = true
	s.activeBoneObject = obj
	s.activeBoneName = boneName
	s.active = obj
	return nil
}

// ClearActiveBone はアクティブボーンを解除する。
func (s *Scene) ClearActiveBone() {
	s.activeBoneObject = nil
	s.activeBoneName = ""
}

// PoseBone はオブジェクトとボーン名から参照を引く。
func (s *Scene) PoseBone(obj *model.ArmatureObject, boneName string) (shost.PoseBoneRef, bool) {
	if obj == nil {
		return shost.PoseBoneRef{}, false
	}
	bone, pose, ok := obj.PoseBoneByName(boneName)
	if !ok {
		return shost.PoseBoneRef{}, false
	}
	return shost.PoseBoneRef{Object: obj, Bone: bone, Pose: pose}, true
}

func (s *Scene) contains(obj *model.ArmatureObject) bool {
	for _, candidate := range s.objects {
		if candidate == obj {
			return true
		}
	}
	return false
}

// uniqueObjectName は衝突しないオブジェクト名を返す。
func (s *Scene) uniqueObjectName(name string) string {
	if _, exists := s.ObjectByName(name); !exists {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, exists := s.ObjectByName(candidate); !exists {
			return candidate
		}
	}
}
