// 指示: miu200521358
// Package mmath は空間切替処理に使うベクトル・回転・行列計算を提供する。
package mmath

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

// よく使う定数ベクトル。
var (
	ZERO_VEC3   = NewVec3(0, 0, 0)
	ONE_VEC3    = NewVec3(1, 1, 1)
	UNIT_X_VEC3 = NewVec3(1, 0, 0)
	UNIT_Y_VEC3 = NewVec3(0, 1, 0)
	UNIT_Z_VEC3 = NewVec3(0, 0, 1)
)

// NewVec3 は成分からベクトルを生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍した結果を返す。
func (v Vec3) MuledScalar(scale float64) Vec3 {
	return Vec3{r3.Scale(scale, v.Vec)}
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{r3.Cross(v.Vec, other.Vec)}
}

// Length はベクトル長を返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Normalized は正規化結果を返す。零ベクトルはそのまま返す。
func (v Vec3) Normalized() Vec3 {
	if v.Length() == 0 {
		return v
	}
	return Vec3{r3.Unit(v.Vec)}
}

// Lerp は線形補間結果を返す。
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}

// NearEquals は各成分が許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return nearEquals(v.X, other.X, epsilon) &&
		nearEquals(v.Y, other.Y, epsilon) &&
		nearEquals(v.Z, other.Z, epsilon)
}

// Component は軸index(0=X,1=Y,2=Z)の成分を返す。
func (v Vec3) Component(index int) float64 {
	switch index {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// SetComponent は軸indexの成分を設定した結果を返す。
func (v Vec3) SetComponent(index int, value float64) Vec3 {
	switch index {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// nearEquals はスカラー同士の近似比較を行う。
func nearEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= epsilon
}
