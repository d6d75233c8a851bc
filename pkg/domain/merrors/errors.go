// 指示: miu200521358
// Package merrors は空間切替処理のエラー分類を提供する。
package merrors

import "errors"

var (
	// ErrInvalidArgument は呼び出し引数の不備を表す。
	ErrInvalidArgument = errors.New("引数が不正です")

	// ErrInternalInconsistency は一時階層構築中の件数不一致など、
	// 実装バグを示す致命的な不整合を表す。
	ErrInternalInconsistency = errors.New("内部整合性エラー")

	// ErrUserPrecondition は選択状態などユーザー操作の前提条件不足を表す。
	// 致命的エラーではなく、ユーザーへの報告として扱う。
	ErrUserPrecondition = errors.New("操作の前提条件を満たしていません")
)
