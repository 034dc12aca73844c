package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("配置无效")

// Config 数据集配置（流水线级别 - 创建时设置）
type Config struct {
	AnnotationsPath string  `yaml:"annotations"`    // 标注XML文件路径
	ImageDir        string  `yaml:"image_dir"`      // 原始图片目录
	LabelDir        string  `yaml:"label_dir"`      // 标签txt输出目录
	VisualizedDir   string  `yaml:"visualized_dir"` // 可视化图片输出目录
	OutputDir       string  `yaml:"output_dir"`     // 划分后数据集根目录
	KernelLabel     string  `yaml:"kernel_label"`   // 唯一识别的标注标签
	ClassIndex      int     `yaml:"class_index"`    // 标签文件中的类别编号
	ImageExt        string  `yaml:"image_ext"`      // 图片扩展名
	LabelExt        string  `yaml:"label_ext"`      // 标签扩展名
	TrainRatio      float64 `yaml:"train_ratio"`    // 训练集比例
	ValRatio        float64 `yaml:"val_ratio"`      // 验证集比例（测试集为剩余部分）
	Seed            int64   `yaml:"seed"`           // 打乱用的固定随机种子
}

// VisualizeOptions 可视化选项
type VisualizeOptions struct {
	LineColor   string  `yaml:"line_color"`   // 轮廓颜色
	LineWidth   float64 `yaml:"line_width"`   // 线条宽度
	Prefix      string  `yaml:"prefix"`       // 输出文件名前缀
	DrawIndices bool    `yaml:"draw_indices"` // 是否在轮廓旁绘制序号
	MaxSide     int     `yaml:"max_side"`     // 输出最长边，0表示保持原尺寸
	JPEGQuality int     `yaml:"jpeg_quality"` // JPEG质量
}

// TrainConfig 外部训练入口的参数，只用于生成manifest和命令提示
type TrainConfig struct {
	Model    string `yaml:"model"`
	Epochs   int    `yaml:"epochs"`
	ImgSize  int    `yaml:"imgsz"`
	Batch    int    `yaml:"batch"`
	Name     string `yaml:"name"`
	Manifest string `yaml:"manifest"`
}

// DefaultConfig 返回默认数据集配置
func DefaultConfig() *Config {
	return &Config{
		AnnotationsPath: "annotations.xml",
		ImageDir:        "dataset/images",
		LabelDir:        "dataset/label",
		VisualizedDir:   "dataset/visualized_images",
		OutputDir:       "dataset/split",
		KernelLabel:     "kernel",
		ClassIndex:      0,
		ImageExt:        ".jpg",
		LabelExt:        ".txt",
		TrainRatio:      0.8,
		ValRatio:        0.1,
		Seed:            42,
	}
}

// WithAnnotations 设置标注XML路径
func (c *Config) WithAnnotations(path string) *Config {
	c.AnnotationsPath = path
	return c
}

// WithImageDir 设置图片目录
func (c *Config) WithImageDir(dir string) *Config {
	c.ImageDir = dir
	return c
}

// WithLabelDir 设置标签目录
func (c *Config) WithLabelDir(dir string) *Config {
	c.LabelDir = dir
	return c
}

// WithVisualizedDir 设置可视化输出目录
func (c *Config) WithVisualizedDir(dir string) *Config {
	c.VisualizedDir = dir
	return c
}

// WithOutputDir 设置划分输出根目录
func (c *Config) WithOutputDir(dir string) *Config {
	c.OutputDir = dir
	return c
}

// WithKernelLabel 设置识别的标注标签
func (c *Config) WithKernelLabel(label string) *Config {
	c.KernelLabel = label
	return c
}

// WithRatios 设置训练集和验证集比例
func (c *Config) WithRatios(train, val float64) *Config {
	c.TrainRatio = train
	c.ValRatio = val
	return c
}

// WithSeed 设置随机种子
func (c *Config) WithSeed(seed int64) *Config {
	c.Seed = seed
	return c
}

// WithExtensions 设置图片和标签扩展名
func (c *Config) WithExtensions(imageExt, labelExt string) *Config {
	c.ImageExt = imageExt
	c.LabelExt = labelExt
	return c
}

// Validate 校验配置
func (c *Config) Validate() error {
	paths := []struct {
		name  string
		value string
	}{
		{"annotations", c.AnnotationsPath},
		{"image_dir", c.ImageDir},
		{"label_dir", c.LabelDir},
		{"visualized_dir", c.VisualizedDir},
		{"output_dir", c.OutputDir},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%w: %s 不能为空", ErrInvalidConfig, p.name)
		}
	}

	if c.KernelLabel == "" {
		return fmt.Errorf("%w: kernel_label 不能为空", ErrInvalidConfig)
	}
	if c.ClassIndex < 0 {
		return fmt.Errorf("%w: class_index 不能为负数: %d", ErrInvalidConfig, c.ClassIndex)
	}
	if !strings.HasPrefix(c.ImageExt, ".") || !strings.HasPrefix(c.LabelExt, ".") {
		return fmt.Errorf("%w: 扩展名必须以'.'开头: %q, %q", ErrInvalidConfig, c.ImageExt, c.LabelExt)
	}
	if c.TrainRatio < 0 || c.ValRatio < 0 {
		return fmt.Errorf("%w: 比例不能为负数: train=%.2f val=%.2f", ErrInvalidConfig, c.TrainRatio, c.ValRatio)
	}
	if c.TrainRatio+c.ValRatio > 1 {
		return fmt.Errorf("%w: train+val 超过1: %.2f", ErrInvalidConfig, c.TrainRatio+c.ValRatio)
	}

	return nil
}

// TestRatio 测试集比例
func (c *Config) TestRatio() float64 {
	return 1 - c.TrainRatio - c.ValRatio
}

// DefaultVisualizeOptions 默认可视化选项
func DefaultVisualizeOptions() *VisualizeOptions {
	return &VisualizeOptions{
		LineColor:   "green",
		LineWidth:   2,
		Prefix:      "vis_",
		DrawIndices: false,
		MaxSide:     0,
		JPEGQuality: 95,
	}
}

// WithLineColor 设置轮廓颜色
func (o *VisualizeOptions) WithLineColor(color string) *VisualizeOptions {
	o.LineColor = color
	return o
}

// WithLineWidth 设置线条宽度
func (o *VisualizeOptions) WithLineWidth(width float64) *VisualizeOptions {
	o.LineWidth = width
	return o
}

// WithDrawIndices 设置是否绘制序号
func (o *VisualizeOptions) WithDrawIndices(draw bool) *VisualizeOptions {
	o.DrawIndices = draw
	return o
}

// WithMaxSide 设置输出最长边
func (o *VisualizeOptions) WithMaxSide(side int) *VisualizeOptions {
	o.MaxSide = side
	return o
}

// DefaultTrainConfig 默认训练参数
func DefaultTrainConfig() *TrainConfig {
	return &TrainConfig{
		Model:    "yolov8n-seg.pt",
		Epochs:   100,
		ImgSize:  320,
		Batch:    2,
		Name:     "corn-seg",
		Manifest: "corn.yaml",
	}
}
