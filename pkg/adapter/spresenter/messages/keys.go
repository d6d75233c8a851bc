// 指示: miu200521358
// Package messages はCLI表示に使うメッセージ文字列を提供する。
package messages

// メッセージ一覧。
const (
	HelpUsage = "使い方: mu_spaceswitch -scene <シーンファイル> -op <操作> [オプション]"

	LabelOpBake   = "ポーズベイク"
	LabelOpEmpty  = "エンプティボーン追加"
	LabelOpDelete = "一時ボーン削除"
	LabelOpApply  = "一時ボーン適用"
	LabelOpWorld  = "ワールド空間切替"
	LabelOpActive = "アクティブボーン空間切替"
	LabelOpTarget = "指定対象空間切替"
	LabelOpIK     = "2ボーンIK構築"
	LabelOpLocal  = "ローカル複製"

	MessageSceneRequired  = "シーンファイルを指定してください (-scene)"
	MessageOpRequired     = "操作を指定してください (-op)"
	MessageOpUnknown      = "未対応の操作です: %s"
	MessageTargetRequired = "切替先を指定してください (-target, -bone)"
	MessageLoadFailed     = "シーン読み込み失敗"
	MessageSaveFailed     = "シーン保存失敗"

	LogLoadSuccess    = "シーン読み込み成功: %s"
	LogOperationStart = "%s 開始"
	LogOperationDone  = "%s 完了"
	LogSaveSuccess    = "シーン保存成功: %s"
)
