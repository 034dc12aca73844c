package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest 外部训练入口读取的数据描述文件（Ultralytics data yaml）
type Manifest struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	Test  string   `yaml:"test"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// Manifest 根据当前配置生成manifest，类别编号之前的位置用占位名称填充
func (p *Preparer) Manifest() *Manifest {
	root := p.config.OutputDir
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	names := make([]string, p.config.ClassIndex+1)
	for i := range names {
		names[i] = fmt.Sprintf("class%d", i)
	}
	names[p.config.ClassIndex] = p.config.KernelLabel

	return &Manifest{
		Path:  root,
		Train: filepath.ToSlash(filepath.Join("images", string(SplitTrain))),
		Val:   filepath.ToSlash(filepath.Join("images", string(SplitVal))),
		Test:  filepath.ToSlash(filepath.Join("images", string(SplitTest))),
		NC:    len(names),
		Names: names,
	}
}

// WriteManifest 写入manifest
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("序列化manifest失败: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("保存manifest失败: %w", err)
	}
	return nil
}

// LoadManifest 读取manifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取manifest失败: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("解析manifest失败: %w", err)
	}
	if m.NC != len(m.Names) {
		return nil, fmt.Errorf("manifest类别数量不一致: nc=%d, names=%d", m.NC, len(m.Names))
	}
	return m, nil
}

// Command 提供外部训练的命令建议（不会执行）
func (t *TrainConfig) Command() string {
	args := []string{
		"yolo", "segment", "train",
		"data=" + t.Manifest,
		"model=" + t.Model,
		fmt.Sprintf("epochs=%d", t.Epochs),
		fmt.Sprintf("imgsz=%d", t.ImgSize),
		fmt.Sprintf("batch=%d", t.Batch),
		"name=" + t.Name,
	}
	return strings.Join(args, " ")
}

// TrainCommand 当前训练参数对应的命令建议
func (p *Preparer) TrainCommand() string {
	return p.train.Command()
}
