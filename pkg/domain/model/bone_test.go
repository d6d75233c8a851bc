// 指示: miu200521358
package model

import (
	"testing"

	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
)

func TestBoneCollectionAppendAssignsIndex(t *testing.T) {
	bones := NewBoneCollection()
	root := NewBone("root", mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3)
	child := NewBone("child", mmath.UNIT_Y_VEC3, mmath.NewVec3(0, 2, 0))

	rootIndex, err := bones.Append(root)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	childIndex, err := bones.Append(child)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if rootIndex != 0 || childIndex != 1 {
		t.Fatalf("index mismatch: %d %d", rootIndex, childIndex)
	}
	if root.Index() != 0 || child.Index() != 1 {
		t.Fatalf("bone index mismatch: %d %d", root.Index(), child.Index())
	}
}

func TestBoneCollectionRejectsDuplicateName(t *testing.T) {
	bones := NewBoneCollection()
	if _, err := bones.Append(NewBone("root", mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := bones.Append(NewBone("root", mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3)); err == nil {
		t.Fatalf("duplicate name should be rejected")
	}
}

func TestBoneCollectionRemoveRemapsParentIndexes(t *testing.T) {
	bones := NewBoneCollection()
	root := NewBone("root", mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3)
	middle := NewBone("middle", mmath.UNIT_Y_VEC3, mmath.NewVec3(0, 2, 0))
	leaf := NewBone("leaf", mmath.NewVec3(0, 2, 0), mmath.NewVec3(0, 3, 0))
	bones.Append(root)
	bones.Append(middle)
	bones.Append(leaf)
	middle.ParentIndex = root.Index()
	leaf.ParentIndex = middle.Index()

	if err := bones.RemoveByName("root"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if bones.Len() != 2 {
		t.Fatalf("len mismatch: %d", bones.Len())
	}
	if middle.ParentIndex != -1 {
		t.Fatalf("middle should become root: %d", middle.ParentIndex)
	}
	if leaf.ParentIndex != middle.Index() {
		t.Fatalf("leaf parent should follow middle: %d vs %d", leaf.ParentIndex, middle.Index())
	}
	if _, ok := bones.GetByName("root"); ok {
		t.Fatalf("removed bone should not be found")
	}
}

func TestBoneCollectionRemoveClearsConnectedOnOrphan(t *testing.T) {
	bones := NewBoneCollection()
	root := NewBone("root", mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3)
	child := NewBone("child", mmath.UNIT_Y_VEC3, mmath.NewVec3(0, 2, 0))
	bones.Append(root)
	bones.Append(child)
	child.ParentIndex = root.Index()
	child.Connected = true

	if err := bones.RemoveByName("root"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if child.Connected {
		t.Fatalf("orphaned bone should lose connected flag")
	}
}

func TestBoneLength(t *testing.T) {
	bone := NewBone("arm", mmath.NewVec3(1, 1, 0), mmath.NewVec3(1, 4, 0))
	if bone.Length() != 3 {
		t.Fatalf("length mismatch: %f", bone.Length())
	}
}
