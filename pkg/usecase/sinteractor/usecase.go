// 指示: miu200521358
// Package sinteractor は空間切替ユースケース(ベイク・一時階層構築・撤去)を提供する。
package sinteractor

import (
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
)

// SpaceSwitchUsecaseDeps はユースケース生成時の依存を表す。
type SpaceSwitchUsecaseDeps struct {
	Host             shost.IPoseHost
	Templates        NamingTemplates
	ProgressReporter ISwitchProgressReporter
}

// SpaceSwitchUsecase は空間切替ユースケースを表す。
type SpaceSwitchUsecase struct {
	host      shost.IPoseHost
	templates NamingTemplates
	progress  ISwitchProgressReporter
}

// NewSpaceSwitchUsecase は空間切替ユースケースを生成する。
// テンプレートが空の場合は既定値を使う。
func NewSpaceSwitchUsecase(deps SpaceSwitchUsecaseDeps) *SpaceSwitchUsecase {
	templates := deps.Templates
	if templates == (NamingTemplates{}) {
		templates = DefaultNamingTemplates()
	}
	return &SpaceSwitchUsecase{
		host:      deps.Host,
		templates: templates,
		progress:  deps.ProgressReporter,
	}
}

// report は進捗を通知する。通知先未設定時は何もしない。
func (uc *SpaceSwitchUsecase) report(event SwitchProgressEvent) {
	if uc.progress == nil {
		return
	}
	uc.progress.ReportSwitchProgress(event)
}
