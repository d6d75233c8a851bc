// 指示: miu200521358
// 手元確認用のバッチランナー。デモ用リグを組み立てて主要操作を順に流し、
// 途中経過のシーンをJSONで書き出す。
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/miu200521358/mu_spaceswitch/pkg/adapter/io_scene"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/mmath"
	"github.com/miu200521358/mu_spaceswitch/pkg/domain/model"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/logging"
	"github.com/miu200521358/mu_spaceswitch/pkg/infra/scene"
	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/sinteractor"
)

const batchOutputDirMode = 0o755

func main() {
	outputDir := flag.String("out", "integration_out", "シーン書き出し先ディレクトリ")
	verbose := flag.Bool("verbose", true, "デバッグログを出力する")
	flag.Parse()

	if err := runBatch(*outputDir, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runBatch はデモリグへ切替→適用→IK構築を順に実行する。
func runBatch(outputDir string, verbose bool) error {
	logger, err := logging.NewLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(outputDir, batchOutputDirMode); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}

	host := scene.NewScene(logger)
	obj, err := buildDemoRig(host)
	if err != nil {
		return err
	}
	uc := sinteractor.NewSpaceSwitchUsecase(sinteractor.SpaceSwitchUsecaseDeps{Host: host})
	repository := io_scene.NewSceneRepository()
	frameRange := sinteractor.FrameRange{Start: 1, End: 30}

	start := time.Now()

	switchResult, err := uc.SwitchToWorld(sinteractor.SwitchToWorldRequest{Range: frameRange})
	if err != nil {
		return fmt.Errorf("ワールド空間切替に失敗しました: %w", err)
	}
	fmt.Printf("切替完了: %v\n", switchResult.CopyBoneNames)
	if err := saveSnapshot(repository, host, filepath.Join(outputDir, "01_switched.json")); err != nil {
		return err
	}

	applyResult, err := uc.ApplyBones(sinteractor.ApplyBonesRequest{Range: frameRange})
	if err != nil {
		return fmt.Errorf("一時ボーン適用に失敗しました: %w", err)
	}
	fmt.Printf("適用完了: ベイク%dボーン 削除%v\n", applyResult.BakedBoneCount, applyResult.RemovedBoneNames)
	if err := saveSnapshot(repository, host, filepath.Join(outputDir, "02_applied.json")); err != nil {
		return err
	}

	// 適用で外れた選択をIK構築用に戻す。
	arm, _ := obj.Bones.GetByName("Arm")
	arm.Select = true
	ikResult, err := uc.BuildTwoBoneIK(sinteractor.BuildTwoBoneIKRequest{
		Length: 0.25,
		Range:  frameRange,
	})
	if err != nil {
		return fmt.Errorf("2ボーンIK構築に失敗しました: %w", err)
	}
	fmt.Printf("IK構築完了: %s / %s\n", ikResult.TargetBoneName, ikResult.PoleTargetBoneName)
	if err := saveSnapshot(repository, host, filepath.Join(outputDir, "03_ik.json")); err != nil {
		return err
	}

	fmt.Printf("バッチ完了: %s\n", time.Since(start))
	return nil
}

// buildDemoRig は3ボーンチェーンとZ回転アニメーションを組み立てる。
func buildDemoRig(host *scene.Scene) (*model.ArmatureObject, error) {
	obj := model.NewArmatureObject("Rig", "RigArmature")
	root := model.NewBone("root", mmath.ZERO_VEC3, mmath.NewVec3(0, 1, 0))
	arm := model.NewBone("Arm", mmath.NewVec3(0, 1, 0), mmath.NewVec3(0, 2, 0))
	hand := model.NewBone("Hand", mmath.NewVec3(0, 2, 0), mmath.NewVec3(0, 3, 0))
	for _, bone := range []*model.Bone{root, arm, hand} {
		if _, err := obj.Bones.Append(bone); err != nil {
			return nil, err
		}
	}
	arm.ParentIndex = root.Index()
	hand.ParentIndex = arm.Index()
	hand.Connected = true
	arm.Select = true
	obj.SyncPose()
	obj.Pose["Arm"].RotationMode = model.RotationModeXYZ

	curve := obj.EnsureAction().EnsureCurve("Arm", model.ChannelRotationEuler, 2, "Arm")
	curve.Insert(1, 0)
	curve.Insert(30, math.Pi/2)

	if err := host.AddObject(obj); err != nil {
		return nil, err
	}
	if err := host.SetMode("POSE"); err != nil {
		return nil, err
	}
	if err := host.SetActiveObject(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// saveSnapshot は現在のシーン状態を書き出す。
func saveSnapshot(repository *io_scene.SceneRepository, host *scene.Scene, path string) error {
	activeName := ""
	if active := host.ActiveObject(); active != nil {
		activeName = active.Name()
	}
	data := &io_scene.SceneData{
		Frame:        host.CurrentFrame(),
		Cursor:       host.CursorLocation(),
		ActiveObject: activeName,
		Objects:      host.Objects(),
	}
	if err := repository.Save(path, data); err != nil {
		return fmt.Errorf("シーン書き出しに失敗しました(%s): %w", path, err)
	}
	return nil
}
