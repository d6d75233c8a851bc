// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/miu200521358/mu_spaceswitch/pkg/adapter/io_scene"
	"github.com/miu200521358/mu_spaceswitch/pkg/adapter/spresenter/messages"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/config"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/logging"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/scene"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/port/shost"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/sinteractor"
)

// options はCLI引数を保持する。
type options struct {
	scenePath  string
	outputPath string
	configPath string
	op         string
	start      int
	end        int
	channels   string
	target     string
	bone       string
	length     float64
	poleAngle  float64
	verbose    bool
}

// main はシーンファイルへ空間切替操作を適用する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	templates := config.Default().Templates()
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		templates = cfg.Templates()
	}

	repository := io_scene.NewSceneRepository()
	data, err := repository.Load(opts.scenePath)
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
	}
	logger.Info(fmt.Sprintf(messages.LogLoadSuccess, opts.scenePath))

	host, err := buildHost(logger, data, opts.op)
	if err != nil {
		return err
	}

	uc := sinteractor.NewSpaceSwitchUsecase(sinteractor.SpaceSwitchUsecaseDeps{
		Host:             host,
		Templates:        templates,
		ProgressReporter: &progressLogger{logger: logger},
	})

	label := operationLabel(opts.op)
	fmt.Fprintf(out, "[mu_spaceswitch] "+messages.LogOperationStart+"\n", label)
	summary, err := dispatch(uc, opts)
	if err != nil {
		return fmt.Errorf("%sに失敗しました: %w", label, err)
	}
	fmt.Fprintf(out, "[mu_spaceswitch] %s\n", summary)
	fmt.Fprintf(out, "[mu_spaceswitch] "+messages.LogOperationDone+"\n", label)

	outputPath := opts.outputPath
	if strings.TrimSpace(outputPath) == "" {
		outputPath = opts.scenePath
	}
	if err := repository.Save(outputPath, snapshot(host)); err != nil {
		return fmt.Errorf("%s: %w", messages.MessageSaveFailed, err)
	}
	logger.Info(fmt.Sprintf(messages.LogSaveSuccess, outputPath))
	return nil
}

// buildHost はシーンデータからインメモリホストを組み立てる。
func buildHost(logger *zap.Logger, data *io_scene.SceneData, op string) (*scene.Scene, error) {
	host := scene.NewScene(logger)
	for _, obj := range data.Objects {
		if err := host.AddObject(obj); err != nil {
			return nil, err
		}
	}
	host.SetCursorLocation(data.Cursor)
	if data.Frame > 0 {
		if err := host.SetFrame(data.Frame); err != nil {
			return nil, err
		}
	}
	// ローカル複製だけオブジェクトモードで実行する。
	if op != "local" {
		if err := host.SetMode(shost.ModePose); err != nil {
			return nil, err
		}
	}
	if data.ActiveObject != "" {
		obj, ok := host.ObjectByName(data.ActiveObject)
		if !ok {
			return nil, fmt.Errorf("アクティブオブジェクトが見つかりません: %s", data.ActiveObject)
		}
		if err := host.SetActiveObject(obj); err != nil {
			return nil, err
		}
	}
	return host, nil
}

// dispatch は操作を実行し、結果の要約を返す。
func dispatch(uc *sinteractor.SpaceSwitchUsecase, opts options) (string, error) {
	frameRange := sinteractor.FrameRange{Start: opts.start, End: opts.end}
	switch opts.op {
	case "bake":
		channels, err := parseChannels(opts.channels)
		if err != nil {
			return "", err
		}
		result, err := uc.BakePose(sinteractor.BakePoseRequest{Range: frameRange, Channels: channels})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ベイク対象 %dボーン %dフレーム", result.BakedBoneCount, result.FrameCount), nil
	case "empty":
		result, err := uc.AddEmpty(sinteractor.AddEmptyRequest{Length: opts.length})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("追加ボーン %s", result.BoneName), nil
	case "delete":
		result, err := uc.DeleteBones()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("削除ボーン %s", strings.Join(result.RemovedBoneNames, ", ")), nil
	case "apply":
		result, err := uc.ApplyBones(sinteractor.ApplyBonesRequest{Range: frameRange})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ベイク %dボーン / 削除ボーン %s",
			result.BakedBoneCount, strings.Join(result.RemovedBoneNames, ", ")), nil
	case "world":
		result, err := uc.SwitchToWorld(sinteractor.SwitchToWorldRequest{Range: frameRange})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("コピーボーン %s", strings.Join(result.CopyBoneNames, ", ")), nil
	case "active":
		result, err := uc.SwitchToActive(sinteractor.SwitchToActiveRequest{Range: frameRange})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("コピーボーン %s", strings.Join(result.CopyBoneNames, ", ")), nil
	case "target":
		result, err := uc.SwitchToTarget(sinteractor.SwitchToTargetRequest{
			Range:  frameRange,
			Target: opts.target,
			Bone:   opts.bone,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("コピーボーン %s", strings.Join(result.CopyBoneNames, ", ")), nil
	case "ik":
		result, err := uc.BuildTwoBoneIK(sinteractor.BuildTwoBoneIKRequest{
			Length:    opts.length,
			PoleAngle: opts.poleAngle,
			Range:     frameRange,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("IKターゲット %s / ポール %s", result.TargetBoneName, result.PoleTargetBoneName), nil
	case "local":
		result, err := uc.MakeLocalArmature(sinteractor.MakeLocalArmatureRequest{Range: frameRange})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ローカル複製 %s", result.DuplicateName), nil
	default:
		return "", fmt.Errorf(messages.MessageOpUnknown, opts.op)
	}
}

// snapshot はホストの現在状態をシーンデータへ写す。
func snapshot(host *scene.Scene) *io_scene.SceneData {
	activeName := ""
	if active := host.ActiveObject(); active != nil {
		activeName = active.Name()
	}
	return &io_scene.SceneData{
		Frame:        host.CurrentFrame(),
		Cursor:       host.CursorLocation(),
		ActiveObject: activeName,
		Objects:      host.Objects(),
	}
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_spaceswitch", flag.ContinueOnError)
	fs.SetOutput(errOut)

	scenePath := fs.String("scene", "", "シーンファイルパス(JSON)")
	outputPath := fs.String("out", "", "出力シーンファイルパス(省略時は上書き)")
	configPath := fs.String("config", "", "命名設定TOMLパス")
	op := fs.String("op", "", "操作 (bake|empty|delete|apply|world|active|target|ik|local)")
	start := fs.Int("start", 1, "開始フレーム")
	end := fs.Int("end", 250, "終了フレーム")
	channels := fs.String("channels", "location,rotation,scale", "ベイク対象チャンネル(カンマ区切り)")
	target := fs.String("target", "", "切替先オブジェクト名")
	bone := fs.String("bone", "", "切替先ボーン名")
	length := fs.Float64("length", 0.25, "作成ボーン長")
	poleAngle := fs.Float64("pole-angle", 0, "IKポール角(ラジアン)")
	verbose := fs.Bool("verbose", false, "デバッグログを出力する")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *scenePath == "" && fs.NArg() > 0 {
		*scenePath = fs.Arg(0)
	}
	if *scenePath == "" {
		return options{}, fmt.Errorf("%s\n%s", messages.MessageSceneRequired, messages.HelpUsage)
	}
	if *op == "" {
		return options{}, fmt.Errorf("%s\n%s", messages.MessageOpRequired, messages.HelpUsage)
	}
	if *op == "target" && (*target == "" || *bone == "") {
		return options{}, fmt.Errorf("%s", messages.MessageTargetRequired)
	}

	return options{
		scenePath:  *scenePath,
		outputPath: *outputPath,
		configPath: *configPath,
		op:         *op,
		start:      *start,
		end:        *end,
		channels:   *channels,
		target:     *target,
		bone:       *bone,
		length:     *length,
		poleAngle:  *poleAngle,
		verbose:    *verbose,
	}, nil
}

// parseChannels はカンマ区切りのチャンネル指定を解析する。
func parseChannels(spec string) (sinteractor.Channels, error) {
	var channels sinteractor.Channels
	for _, name := range strings.Split(spec, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "":
		case "location", "loc":
			channels.Location = true
		case "rotation", "rot":
			channels.Rotation = true
		case "scale":
			channels.Scale = true
		default:
			return sinteractor.Channels{}, fmt.Errorf("未対応のチャンネルです: %s", name)
		}
	}
	return channels, nil
}

// operationLabel は操作名の表示ラベルを返す。
func operationLabel(op string) string {
	switch op {
	case "bake":
		return messages.LabelOpBake
	case "empty":
		return messages.LabelOpEmpty
	case "delete":
		return messages.LabelOpDelete
	case "apply":
		return messages.LabelOpApply
	case "world":
		return messages.LabelOpWorld
	case "active":
		return messages.LabelOpActive
	case "target":
		return messages.LabelOpTarget
	case "ik":
		return messages.LabelOpIK
	case "local":
		return messages.LabelOpLocal
	default:
		return op
	}
}

// progressLogger は進捗イベントをデバッグログへ流す。
type progressLogger struct {
	logger *zap.Logger
}

// ReportSwitchProgress は進捗イベントを受け取る。
func (p *progressLogger) ReportSwitchProgress(event sinteractor.SwitchProgressEvent) {
	p.logger.Debug("progress",
		zap.String("type", string(event.Type)),
		zap.Int("frames", event.FrameCount),
		zap.Int("bones", event.BoneCount))
}
