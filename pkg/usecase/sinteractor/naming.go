// 指示: miu200521358
package sinteractor

import (
	"strings"
)

// NamingTemplates は一時ボーン・複製オブジェクトの命名テンプレートを表す。
// 置換キーは {bone_name}/{armature_name}/{object_name}、複製のみ {object}/{armature}。
type NamingTemplates struct {
	ObjectName      string
	ArmatureName    string
	EmptyName       string
	CopyName        string
	ParentName      string
	SpaceName       string
	LocalObjectName string
}

// DefaultNamingTemplates は既定の命名テンプレートを返す。
func DefaultNamingTemplates() NamingTemplates {
	return NamingTemplates{
		ObjectName:      "SpaceSwitching",
		ArmatureName:    "SpaceSwitchingArmature",
		EmptyName:       "Empty",
		CopyName:        "{bone_name}_Copy",
		ParentName:      "{bone_name}_Parent",
		SpaceName:       "{bone_name}_Space",
		LocalObjectName: "{object}_Local",
	}
}

// expandBoneTemplate はボーン系テンプレートへ置換キーを適用する。
func expandBoneTemplate(template, boneName, armatureName, objectName string) string {
	return strings.NewReplacer(
		"{bone_name}", boneName,
		"{armature_name}", armatureName,
		"{object_name}", objectName,
	).Replace(template)
}

// ExpandCopy はコピー用ボーン名を生成する。
func (t NamingTemplates) ExpandCopy(boneName, armatureName, objectName string) string {
	return expandBoneTemplate(t.CopyName, boneName, armatureName, objectName)
}

// ExpandParent は親空間アンカー用ボーン名を生成する。
func (t NamingTemplates) ExpandParent(boneName, armatureName, objectName string) string {
	return expandBoneTemplate(t.ParentName, boneName, armatureName, objectName)
}

// ExpandSpace は対象空間アンカー用ボーン名を生成する。
func (t NamingTemplates) ExpandSpace(boneName, armatureName, objectName string) string {
	return expandBoneTemplate(t.SpaceName, boneName, armatureName, objectName)
}

// ExpandLocal はローカル複製オブジェクト名を生成する。
func (t NamingTemplates) ExpandLocal(objectName, armatureName string) string {
	return strings.NewReplacer(
		"{object}", objectName,
		"{armature}", armatureName,
	).Replace(t.LocalObjectName)
}
