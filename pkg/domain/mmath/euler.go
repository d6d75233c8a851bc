// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerOrder はオイラー角の適用順序を表す。
type EulerOrder int

// 対応するオイラー角順序一覧。名前は回転を適用する軸の順。
const (
	EulerOrderXYZ EulerOrder = iota
	EulerOrderXZY
	EulerOrderYXZ
	EulerOrderYZX
	EulerOrderZXY
	EulerOrderZYX
)

// eulerOrderInfo は適用順の軸index(0=X,1=Y,2=Z)と置換の奇偶を表す。
type eulerOrderInfo struct {
	i      int
	j      int
	k      int
	parity bool // trueなら奇置換
}

// eulerOrders は順序ごとの軸情報。
var eulerOrders = map[EulerOrder]eulerOrderInfo{
	EulerOrderXYZ: {i: 0, j: 1, k: 2, parity: false},
	EulerOrderXZY: {i: 0, j: 2, k: 1, parity: true},
	EulerOrderYXZ: {i: 1, j: 0, k: 2, parity: true},
	EulerOrderYZX: {i: 1, j: 2, k: 0, parity: false},
	EulerOrderZXY: {i: 2, j: 0, k: 1, parity: false},
	EulerOrderZYX: {i: 2, j: 1, k: 0, parity: true},
}

// eulerAxes は軸indexに対応する単位軸。
var eulerAxes = [3]mgl64.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// QuatFromEuler は軸別角度(ラジアン)と適用順序から四元数を合成する。
// 最初に適用する軸の回転が右端に来る。
func QuatFromEuler(euler Vec3, order EulerOrder) Quaternion {
	info := eulerOrders[order]
	qi := mgl64.QuatRotate(euler.Component(info.i), eulerAxes[info.i])
	qj := mgl64.QuatRotate(euler.Component(info.j), eulerAxes[info.j])
	qk := mgl64.QuatRotate(euler.Component(info.k), eulerAxes[info.k])
	return Quaternion{qk.Mul(qj).Mul(qi)}
}

// EulerFromQuat は四元数を指定順序の軸別角度(ラジアン)へ変換する。
func EulerFromQuat(q Quaternion, order EulerOrder) Vec3 {
	info := eulerOrders[order]
	m := q.Normalized().ToMat4()

	var result Vec3
	cy := math.Hypot(m.At(info.i, info.i), m.At(info.j, info.i))
	if cy > 1e-8 {
		result = result.SetComponent(info.i, math.Atan2(m.At(info.k, info.j), m.At(info.k, info.k)))
		result = result.SetComponent(info.j, math.Atan2(-m.At(info.k, info.i), cy))
		result = result.SetComponent(info.k, math.Atan2(m.At(info.j, info.i), m.At(info.i, info.i)))
	} else {
		// ジンバル状態では第3軸の角度を0へ畳む。
		result = result.SetComponent(info.i, math.Atan2(-m.At(info.j, info.k), m.At(info.j, info.j)))
		result = result.SetComponent(info.j, math.Atan2(-m.At(info.k, info.i), cy))
		result = result.SetComponent(info.k, 0.0)
	}
	if info.parity {
		result = NewVec3(-result.X, -result.Y, -result.Z)
	}
	return result
}

// EulerCompatible は各成分へ全周の整数倍を加え、直前角度との差を最小化した結果を返す。
func EulerCompatible(euler Vec3, previous Vec3) Vec3 {
	result := euler
	for axis := 0; axis < 3; axis++ {
		current := result.Component(axis)
		diff := current - previous.Component(axis)
		current -= 2.0 * math.Pi * math.Round(diff/(2.0*math.Pi))
		result = result.SetComponent(axis, current)
	}
	return result
}
