// Package dataset 把CVAT风格的多边形标注整理成YOLO分割训练数据：
// 解析XML、可视化检查、转换归一化标签、按固定种子划分train/val/test。
package dataset

import (
	"fmt"
	"log/slog"
)

// Preparer 数据集整理器
type Preparer struct {
	config *Config
	logger *slog.Logger
	// 运行时配置
	visualize *VisualizeOptions
	train     *TrainConfig
}

// Report 一次完整运行的统计
type Report struct {
	Summary      Summary
	Visualized   int
	LabelFiles   []string
	Split        *SplitResult
	ManifestPath string
}

// NewPreparer 创建整理器，config为nil时使用默认配置，logger为nil时使用slog.Default()
func NewPreparer(config *Config, logger *slog.Logger) (*Preparer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Preparer{
		config: config,
		logger: logger,
		train:  DefaultTrainConfig(),
	}, nil
}

// NewPreparerFromConfig 从配置管理器创建整理器
func NewPreparerFromConfig(cm *ConfigManager, logger *slog.Logger) (*Preparer, error) {
	p, err := NewPreparer(cm.GetConfig(), logger)
	if err != nil {
		return nil, err
	}
	p.SetVisualizeOptions(cm.GetVisualizeOptions())
	p.SetTrainConfig(cm.GetTrainConfig())
	return p, nil
}

// Config 当前配置
func (p *Preparer) Config() *Config {
	return p.config
}

// SetVisualizeOptions 设置可视化选项；设置后Run会输出可视化图片
func (p *Preparer) SetVisualizeOptions(options *VisualizeOptions) {
	p.visualize = options
}

// SetTrainConfig 设置训练参数
func (p *Preparer) SetTrainConfig(train *TrainConfig) {
	if train == nil {
		train = DefaultTrainConfig()
	}
	p.train = train
}

// Run 依次执行 解析 -> 可视化(可选) -> 转换 -> 划分 -> manifest
func (p *Preparer) Run() (*Report, error) {
	annotations, err := p.ParseAnnotations(p.config.AnnotationsPath)
	if err != nil {
		return nil, err
	}

	report := &Report{Summary: Summarize(annotations)}
	p.logger.Info("解析完成",
		slog.Int("images", report.Summary.Images),
		slog.Int("kernels", report.Summary.Kernels))

	if p.visualize != nil {
		report.Visualized, err = p.Visualize(annotations)
		if err != nil {
			return nil, err
		}
	}

	report.LabelFiles, err = p.ConvertLabels(annotations)
	if err != nil {
		return nil, err
	}

	report.Split, err = p.Split()
	if err != nil {
		return nil, err
	}

	report.ManifestPath = p.train.Manifest
	if err := WriteManifest(p.Manifest(), report.ManifestPath); err != nil {
		return nil, fmt.Errorf("写入manifest失败: %w", err)
	}
	p.logger.Info("manifest已生成", slog.String("path", report.ManifestPath))

	return report, nil
}
