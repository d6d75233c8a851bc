// 指示: miu200521358
// Package io_scene はシーンファイル(JSON)の読み書きを提供する。
package io_scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
)

// SceneData はシーンファイルと1対1対応するシーン状態を表す。
type SceneData struct {
	Frame        int
	Cursor       mmath.Vec3
	ActiveObject string
	Objects      []*model.ArmatureObject
}

// sceneFile はシーンファイルのトップレベル構造。
type sceneFile struct {
	Frame        int          `json:"frame"`
	Cursor       [3]float64   `json:"cursor"`
	ActiveObject string       `json:"active_object,omitempty"`
	Objects      []objectFile `json:"objects"`
}

type objectFile struct {
	Name         string         `json:"name"`
	ArmatureName string         `json:"armature_name"`
	Linked       bool           `json:"linked,omitempty"`
	HideViewport bool           `json:"hide_viewport,omitempty"`
	ShowInFront  bool           `json:"show_in_front,omitempty"`
	Bones        []boneFile     `json:"bones"`
	PoseBones    []poseBoneFile `json:"pose_bones,omitempty"`
	Curves       []curveFile    `json:"curves,omitempty"`
}

type boneFile struct {
	Name      string     `json:"name"`
	Head      [3]float64 `json:"head"`
	Tail      [3]float64 `json:"tail"`
	Parent    string     `json:"parent,omitempty"`
	Connected bool       `json:"connected,omitempty"`
	UseDeform bool       `json:"use_deform"`
	Hide      bool       `json:"hide,omitempty"`
	Select    bool       `json:"select,omitempty"`
	ShowWire  bool       `json:"show_wire,omitempty"`
	Tag       string     `json:"tag,omitempty"`
}

type poseBoneFile struct {
	Bone              string           `json:"bone"`
	RotationMode      string           `json:"rotation_mode"`
	Location          [3]float64       `json:"location"`
	RotationQuat      [4]float64       `json:"rotation_quaternion"`
	RotationEuler     [3]float64       `json:"rotation_euler"`
	RotationAxisAngle [4]float64       `json:"rotation_axis_angle"`
	Scale             [3]float64       `json:"scale"`
	Constraints       []constraintFile `json:"constraints,omitempty"`
}

type constraintFile struct {
	Type          string  `json:"type"`
	Target        string  `json:"target,omitempty"`
	Subtarget     string  `json:"subtarget,omitempty"`
	HeadTail      float64 `json:"head_tail,omitempty"`
	PoleTarget    string  `json:"pole_target,omitempty"`
	PoleSubtarget string  `json:"pole_subtarget,omitempty"`
	ChainCount    int     `json:"chain_count,omitempty"`
	PoleAngle     float64 `json:"pole_angle,omitempty"`
}

type curveFile struct {
	Bone      string       `json:"bone"`
	Channel   string       `json:"channel"`
	Index     int          `json:"index"`
	Group     string       `json:"group,omitempty"`
	Keyframes [][2]float64 `json:"keyframes"`
}

// SceneRepository はシーンファイルの読み書き契約を表す。
type SceneRepository struct{}

// NewSceneRepository はSceneRepositoryを生成する。
func NewSceneRepository() *SceneRepository {
	return &SceneRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *SceneRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load はシーンファイルを読み込む。
func (r *SceneRepository) Load(path string) (*SceneData, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("シーンファイルの拡張子が未対応です: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("シーンファイルの読み取りに失敗しました: %w", err)
	}
	var file sceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("シーンファイルの解析に失敗しました: %w", err)
	}

	result := &SceneData{
		Frame:        file.Frame,
		Cursor:       mmath.NewVec3(file.Cursor[0], file.Cursor[1], file.Cursor[2]),
		ActiveObject: file.ActiveObject,
	}
	for _, objFile := range file.Objects {
		obj, err := decodeObject(objFile)
		if err != nil {
			return nil, fmt.Errorf("オブジェクト%sの復元に失敗しました: %w", objFile.Name, err)
		}
		result.Objects = append(result.Objects, obj)
	}
	return result, nil
}

// Save はシーン状態をJSONで書き出す。
func (r *SceneRepository) Save(path string, data *SceneData) error {
	file := sceneFile{
		Frame:        data.Frame,
		Cursor:       [3]float64{data.Cursor.X, data.Cursor.Y, data.Cursor.Z},
		ActiveObject: data.ActiveObject,
	}
	for _, obj := range data.Objects {
		file.Objects = append(file.Objects, encodeObject(obj))
	}
	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("シーンのエンコードに失敗しました: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("シーンファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// decodeObject はファイル表現からオブジェクトを復元する。
func decodeObject(file objectFile) (*model.ArmatureObject, error) {
	obj := model.NewArmatureObject(file.Name, file.ArmatureName)
	obj.Linked = file.Linked
	obj.HideViewport = file.HideViewport
	obj.ShowInFront = file.ShowInFront

	// 親は名前参照のため、全ボーン追加後に解決する。
	for _, boneFile := range file.Bones {
		bone := model.NewBone(boneFile.Name,
			mmath.NewVec3(boneFile.Head[0], boneFile.Head[1], boneFile.Head[2]),
			mmath.NewVec3(boneFile.Tail[0], boneFile.Tail[1], boneFile.Tail[2]))
		bone.Connected = boneFile.Connected
		bone.UseDeform = boneFile.UseDeform
		bone.Hide = boneFile.Hide
		bone.Select = boneFile.Select
		bone.ShowWire = boneFile.ShowWire
		bone.Tag = model.BoneTag(boneFile.Tag)
		if _, err := obj.Bones.Append(bone); err != nil {
			return nil, err
		}
	}
	for _, boneFile := range file.Bones {
		if boneFile.Parent == "" {
			continue
		}
		bone, _ := obj.Bones.GetByName(boneFile.Name)
		parent, ok := obj.Bones.GetByName(boneFile.Parent)
		if !ok {
			return nil, fmt.Errorf("親ボーンが見つかりません: %s -> %s", boneFile.Name, boneFile.Parent)
		}
		bone.ParentIndex = parent.Index()
	}
	obj.SyncPose()

	for _, poseFile := range file.PoseBones {
		pose, ok := obj.Pose[poseFile.Bone]
		if !ok {
			return nil, fmt.Errorf("ポーズ対象ボーンが見つかりません: %s", poseFile.Bone)
		}
		pose.RotationMode = model.RotationMode(poseFile.RotationMode)
		pose.Location = mmath.NewVec3(poseFile.Location[0], poseFile.Location[1], poseFile.Location[2])
		pose.RotationQuaternion = mmath.NewQuaternionByValues(
			poseFile.RotationQuat[0], poseFile.RotationQuat[1], poseFile.RotationQuat[2], poseFile.RotationQuat[3])
		pose.RotationEuler = mmath.NewVec3(poseFile.RotationEuler[0], poseFile.RotationEuler[1], poseFile.RotationEuler[2])
		pose.RotationAxisAngle = poseFile.RotationAxisAngle
		pose.Scale = mmath.NewVec3(poseFile.Scale[0], poseFile.Scale[1], poseFile.Scale[2])
		for _, constraintFile := range poseFile.Constraints {
			pose.Constraints = append(pose.Constraints, &model.Constraint{
				Type:          model.ConstraintType(constraintFile.Type),
				Target:        constraintFile.Target,
				Subtarget:     constraintFile.Subtarget,
				HeadTail:      constraintFile.HeadTail,
				PoleTarget:    constraintFile.PoleTarget,
				PoleSubtarget: constraintFile.PoleSubtarget,
				ChainCount:    constraintFile.ChainCount,
				PoleAngle:     constraintFile.PoleAngle,
			})
		}
	}

	if len(file.Curves) > 0 {
		action := obj.EnsureAction()
		for _, curveFileEntry := range file.Curves {
			curve := action.EnsureCurve(curveFileEntry.Bone, curveFileEntry.Channel, curveFileEntry.Index, curveFileEntry.Group)
			for _, key := range curveFileEntry.Keyframes {
				curve.Insert(key[0], key[1])
			}
		}
	}
	return obj, nil
}

// encodeObject はオブジェクトをファイル表現へ変換する。
func encodeObject(obj *model.ArmatureObject) objectFile {
	file := objectFile{
		Name:         obj.Name(),
		ArmatureName: obj.ArmatureName(),
		Linked:       obj.Linked,
		HideViewport: obj.HideViewport,
		ShowInFront:  obj.ShowInFront,
	}
	for _, bone := range obj.Bones.Values() {
		boneEntry := boneFile{
			Name:      bone.Name(),
			Head:      [3]float64{bone.Head.X, bone.Head.Y, bone.Head.Z},
			Tail:      [3]float64{bone.Tail.X, bone.Tail.Y, bone.Tail.Z},
			Connected: bone.Connected,
			UseDeform: bone.UseDeform,
			Hide:      bone.Hide,
			Select:    bone.Select,
			ShowWire:  bone.ShowWire,
			Tag:       string(bone.Tag),
		}
		if parent := obj.Bones.Parent(bone); parent != nil {
			boneEntry.Parent = parent.Name()
		}
		file.Bones = append(file.Bones, boneEntry)

		pose, ok := obj.Pose[bone.Name()]
		if !ok {
			continue
		}
		poseEntry := poseBoneFile{
			Bone:         bone.Name(),
			RotationMode: string(pose.RotationMode),
			Location:     [3]float64{pose.Location.X, pose.Location.Y, pose.Location.Z},
			RotationQuat: [4]float64{
				pose.RotationQuaternion.W,
				pose.RotationQuaternion.X(),
				pose.RotationQuaternion.Y(),
				pose.RotationQuaternion.Z(),
			},
			RotationEuler:     [3]float64{pose.RotationEuler.X, pose.RotationEuler.Y, pose.RotationEuler.Z},
			RotationAxisAngle: pose.RotationAxisAngle,
			Scale:             [3]float64{pose.Scale.X, pose.Scale.Y, pose.Scale.Z},
		}
		for _, constraint := range pose.Constraints {
			poseEntry.Constraints = append(poseEntry.Constraints, constraintFile{
				Type:          string(constraint.Type),
				Target:        constraint.Target,
				Subtarget:     constraint.Subtarget,
				HeadTail:      constraint.HeadTail,
				PoleTarget:    constraint.PoleTarget,
				PoleSubtarget: constraint.PoleSubtarget,
				ChainCount:    constraint.ChainCount,
				PoleAngle:     constraint.PoleAngle,
			})
		}
		file.PoseBones = append(file.PoseBones, poseEntry)
	}
	if obj.Action != nil {
		for _, curve := range obj.Action.FCurves {
			curveEntry := curveFile{
				Bone:    curve.BoneName,
				Channel: curve.Channel,
				Index:   curve.ArrayIndex,
				Group:   curve.Group,
			}
			for _, key := range curve.Keyframes {
				curveEntry.Keyframes = append(curveEntry.Keyframes, [2]float64{key.Frame, key.Value})
			}
			file.Curves = append(file.Curves, curveEntry)
		}
	}
	return file
}
