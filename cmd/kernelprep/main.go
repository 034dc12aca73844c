package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cubiaa/kernel-dataset/dataset"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kernelprep",
		Short:         "玉米籽粒分割数据集整理工具",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "kernelprep.yaml", "配置文件路径")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(
		newInitConfigCommand(),
		newStatsCommand(),
		newVisualizeCommand(),
		newConvertCommand(),
		newSplitCommand(),
		newManifestCommand(),
		newRunCommand(),
	)
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// loadManager 读取配置文件；文件不存在时使用默认配置
func loadManager() (*dataset.ConfigManager, error) {
	cm := dataset.NewConfigManager(configPath)
	err := cm.LoadConfig()
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("⚠️  配置文件 %s 不存在，使用默认配置\n", configPath)
		return cm, nil
	}
	return cm, err
}

func newPreparer() (*dataset.Preparer, error) {
	cm, err := loadManager()
	if err != nil {
		return nil, err
	}
	return dataset.NewPreparerFromConfig(cm, newLogger())
}

func newInitConfigCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "生成默认配置文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("配置文件已存在: %s（使用 --force 覆盖）", configPath)
			}
			if err := dataset.NewConfigManager(configPath).CreateDefaultConfig(); err != nil {
				return err
			}
			fmt.Printf("✅ 已生成配置文件: %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "覆盖已存在的配置文件")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "统计标注中的籽粒数量",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPreparer()
			if err != nil {
				return err
			}
			annotations, err := p.ParseAnnotations(p.Config().AnnotationsPath)
			if err != nil {
				return err
			}
			fmt.Println(dataset.Summarize(annotations))
			return nil
		},
	}
}

func newVisualizeCommand() *cobra.Command {
	var (
		color   string
		indices bool
		maxSide int
	)
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "在图片上描出籽粒轮廓",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadManager()
			if err != nil {
				return err
			}
			p, err := dataset.NewPreparerFromConfig(cm, newLogger())
			if err != nil {
				return err
			}

			options := cm.GetVisualizeOptions()
			if cmd.Flags().Changed("color") {
				options.WithLineColor(color)
			}
			if cmd.Flags().Changed("indices") {
				options.WithDrawIndices(indices)
			}
			if cmd.Flags().Changed("max-side") {
				options.WithMaxSide(maxSide)
			}
			p.SetVisualizeOptions(options)

			annotations, err := p.ParseAnnotations(p.Config().AnnotationsPath)
			if err != nil {
				return err
			}
			n, err := p.Visualize(annotations)
			if err != nil {
				return err
			}
			fmt.Printf("✅ 已输出 %d 张可视化图片到 %s\n", n, p.Config().VisualizedDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", "green", "轮廓颜色")
	cmd.Flags().BoolVar(&indices, "indices", false, "绘制多边形序号")
	cmd.Flags().IntVar(&maxSide, "max-side", 0, "输出图片最长边（0为原尺寸）")
	return cmd
}

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "把多边形标注转换为YOLO分割标签",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPreparer()
			if err != nil {
				return err
			}
			annotations, err := p.ParseAnnotations(p.Config().AnnotationsPath)
			if err != nil {
				return err
			}
			written, err := p.ConvertLabels(annotations)
			if err != nil {
				return err
			}
			fmt.Printf("✅ 已生成 %d 个标签文件\n", len(written))
			return nil
		},
	}
}

func newSplitCommand() *cobra.Command {
	var (
		trainRatio float64
		valRatio   float64
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "按固定种子划分 train/val/test",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadManager()
			if err != nil {
				return err
			}
			config := cm.GetConfig()
			if cmd.Flags().Changed("train") || cmd.Flags().Changed("val") {
				train, val := config.TrainRatio, config.ValRatio
				if cmd.Flags().Changed("train") {
					train = trainRatio
				}
				if cmd.Flags().Changed("val") {
					val = valRatio
				}
				config.WithRatios(train, val)
			}
			if cmd.Flags().Changed("seed") {
				config.WithSeed(seed)
			}

			p, err := dataset.NewPreparer(config, newLogger())
			if err != nil {
				return err
			}
			result, err := p.Split()
			if err != nil {
				return err
			}
			fmt.Printf("✅ 划分完成: train %d, val %d, test %d\n",
				result.Count(dataset.SplitTrain), result.Count(dataset.SplitVal), result.Count(dataset.SplitTest))
			return nil
		},
	}
	cmd.Flags().Float64Var(&trainRatio, "train", 0.8, "训练集比例")
	cmd.Flags().Float64Var(&valRatio, "val", 0.1, "验证集比例")
	cmd.Flags().Int64Var(&seed, "seed", 42, "随机种子")
	return cmd
}

func newManifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "生成训练用的数据描述文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadManager()
			if err != nil {
				return err
			}
			p, err := dataset.NewPreparerFromConfig(cm, newLogger())
			if err != nil {
				return err
			}
			path := cm.GetTrainConfig().Manifest
			if err := dataset.WriteManifest(p.Manifest(), path); err != nil {
				return err
			}
			fmt.Printf("✅ 已生成 %s\n", path)
			fmt.Printf("💡 训练命令: %s\n", p.TrainCommand())
			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	var visualize bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "执行完整流程：解析、可视化、转换、划分、manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadManager()
			if err != nil {
				return err
			}
			p, err := dataset.NewPreparerFromConfig(cm, newLogger())
			if err != nil {
				return err
			}
			if !visualize {
				p.SetVisualizeOptions(nil)
			}

			report, err := p.Run()
			if err != nil {
				return err
			}

			fmt.Println("📊", report.Summary)
			if visualize {
				fmt.Printf("🖼️  可视化图片: %d\n", report.Visualized)
			}
			fmt.Printf("📝 标签文件: %d\n", len(report.LabelFiles))
			fmt.Printf("📂 划分: train %d, val %d, test %d\n",
				report.Split.Count(dataset.SplitTrain),
				report.Split.Count(dataset.SplitVal),
				report.Split.Count(dataset.SplitTest))
			fmt.Printf("✅ manifest: %s\n", report.ManifestPath)
			fmt.Printf("💡 训练命令: %s\n", p.TrainCommand())
			return nil
		},
	}
	cmd.Flags().BoolVar(&visualize, "visualize", false, "同时输出可视化图片")
	return cmd
}
