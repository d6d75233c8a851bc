// 指示: miu200521358
package scene

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/merrors"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// editSession は1オブジェクトの構造編集を表す。Endで確定する。
type editSession struct {
	scene    *Scene
	obj      *model.ArmatureObject
	prevMode shost.Mode
	done     bool
}

var _ shost.IEditSession = (*editSession)(nil)

// BeginStructuralEdit はボーン構造の編集セッションを開始する。
// リンクオブジェクトは構造を変更できない。
func (s *Scene) BeginStructuralEdit(obj *model.ArmatureObject) (shost.IEditSession, error) {
	if !s.contains(obj) {
		return nil, fmt.Errorf("シーン外のオブジェクトです(%s): %w", obj.Name(), merrors.ErrInvalidArgument)
	}
	if obj.Linked {
		return nil, fmt.Errorf("リンクオブジェクトは構造編集できません(%s): %w", obj.Name(), merrors.ErrUserPrecondition)
	}
	session := &editSession{scene: s, obj: obj, prevMode: s.mode}
	s.mode = shost.ModeEdit
	return session, nil
}

// NewBone はボーンを追加し、衝突回避後の確定名を返す。
func (e *editSession) NewBone(name string, head, tail mmath.Vec3) (string, error) {
	if e.done {
		return "", fmt.Errorf("編集セッションは終了しています: %w", merrors.ErrInternalInconsistency)
	}
	finalName := e.uniqueBoneName(name)
	bone := model.NewBone(finalName, head, tail)
	if _, err := e.obj.Bones.Append(bone); err != nil {
		return "", fmt.Errorf("ボーンの追加に失敗しました: %w", err)
	}
	return finalName, nil
}

// SetParent は親子関係を設定する。parentNameが空の場合は親を外す。
func (e *editSession) SetParent(childName, parentName string, connected bool) error {
	if e.done {
		return fmt.Errorf("編集セッションは終了しています: %w", merrors.ErrInternalInconsistency)
	}
	child, ok := e.obj.Bones.GetByName(childName)
	if !ok {
		return fmt.Errorf("子ボーンが見つかりません(%s): %w", childName, merrors.ErrInvalidArgument)
	}
	if parentName == "" {
		child.ParentIndex = -1
		child.Connected = false
		return nil
	}
	parent, ok := e.obj.Bones.GetByName(parentName)
	if !ok {
		return fmt.Errorf("親ボーンが見つかりません(%s): %w", parentName, merrors.ErrInvalidArgument)
	}
	if parent == child {
		return fmt.Errorf("自分自身を親にできません(%s): %w", childName, merrors.ErrInvalidArgument)
	}
	child.ParentIndex = parent.Index()
	child.Connected = connected
	return nil
}

// RemoveBone はボーンを削除する。子ボーンの親参照は付け替えられる。
func (e *editSession) RemoveBone(name string) error {
	if e.done {
		return fmt.Errorf("編集セッションは終了しています: %w", merrors.ErrInternalInconsistency)
	}
	return e.obj.Bones.RemoveByName(name)
}

// End は編集を確定し、ポーズ状態の再同期とシーン再評価を行う。
func (e *editSession) End() error {
	if e.done {
		return nil
	}
	e.done = true
	e.obj.SyncPose()
	e.scene.mode = e.prevMode
	return e.scene.Reevaluate()
}

// uniqueBoneName は衝突しないボーン名を返す。
func (e *editSession) uniqueBoneName(name string) string {
	if _, exists := e.obj.Bones.GetByName(name); !exists {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, exists := e.obj.Bones.GetByName(candidate); !exists {
			return candidate
		}
	}
}
