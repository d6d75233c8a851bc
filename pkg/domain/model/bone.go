// 指示: miu200521358
// Package model は空間切替対象のアーマチュア・ボーン・コンストレイント・
// モーションカーブのデータモデルを提供する。
package model

import (
	"fmt"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
)

// BoneTag は一時ボーンの由来タグを表す。
type BoneTag string

// タグ一覧。一時アーマチュア内のボーンは必ずTagNone以外を持つ。
const (
	// TagNone は空間切替が生成していないボーンを表す。
	TagNone BoneTag = "NONE"
	// TagEmpty は無拘束の一時ボーン(エンプティ相当)を表す。
	TagEmpty BoneTag = "EMPTY"
	// TagSpace は対象空間の親として挿入された構造用ボーンを表す。
	TagSpace BoneTag = "SPACE"
	// TagCopy は元ボーンの一時コピーを表す。元ボーンは隠されコピーへ拘束される。
	TagCopy BoneTag = "COPY"
)

// Bone はアーマチュア内の1ボーン(レスト状態)を表す。
type Bone struct {
	name        string
	index       int
	ParentIndex int
	// Head/Tail はアーマチュア空間でのレスト位置。
	Head mmath.Vec3
	Tail mmath.Vec3
	// Connected はヘッドが親のテイルへ剛結合されているかを表す。
	Connected bool
	UseDeform bool
	Hide      bool
	Select    bool
	ShowWire  bool
	Tag       BoneTag
}

// NewBone はレスト位置からボーンを生成する。indexはコレクション追加時に確定する。
func NewBone(name string, head, tail mmath.Vec3) *Bone {
	return &Bone{
		name:        name,
		index:       -1,
		ParentIndex: -1,
		Head:        head,
		Tail:        tail,
		UseDeform:   true,
		Tag:         TagNone,
	}
}

// Name はボーン名を返す。
func (b *Bone) Name() string {
	return b.name
}

// Index はコレクション内indexを返す。未追加時は-1。
func (b *Bone) Index() int {
	return b.index
}

// Length はヘッドからテイルまでの長さを返す。
func (b *Bone) Length() float64 {
	return b.Tail.Subed(b.Head).Length()
}

// BoneCollection はボーン一覧を表す。indexは追加順に振られる。
type BoneCollection struct {
	bones  []*Bone
	byName map[string]*Bone
}

// NewBoneCollection は空のボーン一覧を生成する。
func NewBoneCollection() *BoneCollection {
	return &BoneCollection{byName: map[string]*Bone{}}
}

// Len はボーン数を返す。
func (c *BoneCollection) Len() int {
	return len(c.bones)
}

// Values はindex順のボーン一覧を返す。
func (c *BoneCollection) Values() []*Bone {
	return c.bones
}

// Get はindexでボーンを取得する。
func (c *BoneCollection) Get(index int) (*Bone, error) {
	if index < 0 || index >= len(c.bones) {
		return nil, fmt.Errorf("ボーンindexが範囲外です: %d", index)
	}
	return c.bones[index], nil
}

// GetByName は名前でボーンを取得する。
func (c *BoneCollection) GetByName(name string) (*Bone, bool) {
	bone, ok := c.byName[name]
	return bone, ok
}

// Append はボーンを追加し、確定したindexを返す。同名ボーンは追加できない。
func (c *BoneCollection) Append(bone *Bone) (int, error) {
	if _, exists := c.byName[bone.name]; exists {
		return -1, fmt.Errorf("同名ボーンが既に存在します: %s", bone.name)
	}
	bone.index = len(c.bones)
	c.bones = append(c.bones, bone)
	c.byName[bone.name] = bone
	return bone.index, nil
}

// RemoveByName はボーンを削除し、残りのindexと親参照を振り直す。
// 削除したボーンを親に持つボーンはルート扱いになる。
func (c *BoneCollection) RemoveByName(name string) error {
	removed, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("削除対象ボーンが見つかりません: %s", name)
	}

	indexMap := map[int]int{}
	remaining := make([]*Bone, 0, len(c.bones)-1)
	for _, bone := range c.bones {
		if bone == removed {
			continue
		}
		indexMap[bone.index] = len(remaining)
		remaining = append(remaining, bone)
	}
	for _, bone := range remaining {
		if bone.ParentIndex >= 0 {
			if newIndex, exists := indexMap[bone.ParentIndex]; exists {
				bone.ParentIndex = newIndex
			} else {
				bone.ParentIndex = -1
				bone.Connected = false
			}
		}
	}
	for newIndex, bone := range remaining {
		bone.index = newIndex
	}
	c.bones = remaining
	delete(c.byName, name)
	return nil
}

// Parent は親ボーンを返す。ルートはnil。
func (c *BoneCollection) Parent(bone *Bone) *Bone {
	if bone == nil || bone.ParentIndex < 0 || bone.ParentIndex >= len(c.bones) {
		return nil
	}
	return c.bones[bone.ParentIndex]
}
