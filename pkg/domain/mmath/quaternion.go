// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表す四元数。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位四元数を生成する。
func NewQuaternion() Quaternion {
	return Quaternion{mgl64.QuatIdent()}
}

// NewQuaternionByValues は成分(w,x,y,z)から四元数を生成する。
func NewQuaternionByValues(w, x, y, z float64) Quaternion {
	return Quaternion{mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}
}

// NewQuaternionFromDegrees はXYZ順のオイラー角(度)から四元数を生成する。
func NewQuaternionFromDegrees(xDegree, yDegree, zDegree float64) Quaternion {
	return QuatFromEuler(
		NewVec3(DegToRad(xDegree), DegToRad(yDegree), DegToRad(zDegree)),
		EulerOrderXYZ,
	)
}

// NewQuaternionFromAxisAngle は回転軸と回転角(ラジアン)から四元数を生成する。
func NewQuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	normalized := axis.Normalized()
	if normalized.Length() == 0 {
		return NewQuaternion()
	}
	return Quaternion{mgl64.QuatRotate(angle, mgl64.Vec3{normalized.X, normalized.Y, normalized.Z})}
}

// Muled は四元数の積(this*other)を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{q.Quat.Mul(other.Quat)}
}

// MulVec3 はベクトルを回転した結果を返す。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	rotated := q.Quat.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return NewVec3(rotated[0], rotated[1], rotated[2])
}

// Dot は4次元内積を返す。
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.Quat.Dot(other.Quat)
}

// Normalized は正規化した四元数を返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{q.Quat.Normalize()}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{q.Quat.Inverse()}
}

// Negated は全成分の符号を反転した四元数を返す。回転としては等価。
func (q Quaternion) Negated() Quaternion {
	return NewQuaternionByValues(-q.W, -q.X(), -q.Y(), -q.Z())
}

// MakeCompatible は直前の四元数との4次元距離が最小になる符号を選んだ結果を返す。
func (q Quaternion) MakeCompatible(previous Quaternion) Quaternion {
	if q.Dot(previous) < 0 {
		return q.Negated()
	}
	return q
}

// ToMat4 は回転行列へ変換する。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4{q.Quat.Mat4()}
}

// ToAxisAngle は回転軸と回転角(ラジアン)へ変換する。無回転時はY軸を返す。
func (q Quaternion) ToAxisAngle() (Vec3, float64) {
	normalized := q.Normalized()
	w := clamp(normalized.W, -1.0, 1.0)
	angle := 2.0 * math.Acos(w)
	sin := math.Sqrt(1.0 - w*w)
	if sin < 1e-8 {
		return UNIT_Y_VEC3, 0.0
	}
	axis := NewVec3(normalized.X()/sin, normalized.Y()/sin, normalized.Z()/sin)
	return axis, angle
}

// NearEquals は符号の同値性を含めて許容誤差内で一致するか判定する。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	aligned := other.MakeCompatible(q)
	return nearEquals(q.W, aligned.W, epsilon) &&
		nearEquals(q.X(), aligned.X(), epsilon) &&
		nearEquals(q.Y(), aligned.Y(), epsilon) &&
		nearEquals(q.Z(), aligned.Z(), epsilon)
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radian float64) float64 {
	return radian * 180.0 / math.Pi
}

// clamp はmin-maxで値をクランプする。
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
