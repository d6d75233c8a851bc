// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は4x4同次変換行列を表す。
type Mat4 struct {
	mgl64.Mat4
}

// NewMat4 は単位行列を生成する。
func NewMat4() Mat4 {
	return Mat4{mgl64.Ident4()}
}

// NewMat4FromTranslation は平行移動行列を生成する。
func NewMat4FromTranslation(v Vec3) Mat4 {
	return Mat4{mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// NewMat4FromTRS は移動・回転・拡縮から変換行列を合成する。
func NewMat4FromTRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	t := mgl64.Translate3D(translation.X, translation.Y, translation.Z)
	r := rotation.Quat.Mat4()
	s := mgl64.Scale3D(scale.X, scale.Y, scale.Z)
	return Mat4{t.Mul4(r).Mul4(s)}
}

// Muled は行列積(this*other)を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4{m.Mat4.Mul4(other.Mat4)}
}

// Inverted は逆行列を返す。特異行列は零行列になる。
func (m Mat4) Inverted() Mat4 {
	return Mat4{m.Mat4.Inv()}
}

// MulVec3 は点ベクトルを変換した結果を返す。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	transformed := m.Mat4.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1.0})
	return NewVec3(transformed[0], transformed[1], transformed[2])
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3(m.At(0, 3), m.At(1, 3), m.At(2, 3))
}

// SetTranslation は平行移動成分を置き換えた行列を返す。
func (m Mat4) SetTranslation(v Vec3) Mat4 {
	result := m
	result.Set(0, 3, v.X)
	result.Set(1, 3, v.Y)
	result.Set(2, 3, v.Z)
	return result
}

// Scale は各軸の拡縮成分(列ベクトル長)を返す。
func (m Mat4) Scale() Vec3 {
	sx := NewVec3(m.At(0, 0), m.At(1, 0), m.At(2, 0)).Length()
	sy := NewVec3(m.At(0, 1), m.At(1, 1), m.At(2, 1)).Length()
	sz := NewVec3(m.At(0, 2), m.At(1, 2), m.At(2, 2)).Length()
	return NewVec3(sx, sy, sz)
}

// Quaternion は回転成分を四元数として抽出する。
func (m Mat4) Quaternion() Quaternion {
	scale := m.Scale()
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return NewQuaternion()
	}

	// 拡縮を除いた正規化回転行列成分。
	m00 := m.At(0, 0) / scale.X
	m10 := m.At(1, 0) / scale.X
	m20 := m.At(2, 0) / scale.X
	m01 := m.At(0, 1) / scale.Y
	m11 := m.At(1, 1) / scale.Y
	m21 := m.At(2, 1) / scale.Y
	m02 := m.At(0, 2) / scale.Z
	m12 := m.At(1, 2) / scale.Z
	m22 := m.At(2, 2) / scale.Z

	var w, x, y, z float64
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1.0) * 2.0
		w = s / 4.0
		x = (m21 - m12) / s
		y = (m02 - m20) / s
		z = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1.0+m00-m11-m22) * 2.0
		w = (m21 - m12) / s
		x = s / 4.0
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := math.Sqrt(1.0+m11-m00-m22) * 2.0
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = s / 4.0
		z = (m12 + m21) / s
	default:
		s := math.Sqrt(1.0+m22-m00-m11) * 2.0
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = s / 4.0
	}
	return NewQuaternionByValues(w, x, y, z).Normalized()
}

// Decompose は移動・回転・拡縮へ分解する。
func (m Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	return m.Translation(), m.Quaternion(), m.Scale()
}

// NearEquals は全要素が許容誤差内で一致するか判定する。
func (m Mat4) NearEquals(other Mat4, epsilon float64) bool {
	for i := 0; i < 16; i++ {
		if !nearEquals(m.Mat4[i], other.Mat4[i], epsilon) {
			return false
		}
	}
	return true
}
