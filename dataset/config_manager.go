package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig 配置文件结构
type AppConfig struct {
	Dataset   Config           `yaml:"dataset"`
	Visualize VisualizeOptions `yaml:"visualize"`
	Train     TrainConfig      `yaml:"train"`
}

// ConfigManager 配置管理器
type ConfigManager struct {
	config *AppConfig
	path   string
}

// NewConfigManager 创建配置管理器
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		path: configPath,
	}
}

// Path 配置文件路径
func (cm *ConfigManager) Path() string {
	return cm.path
}

// LoadConfig 加载配置文件，文件中缺失的字段保留默认值
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.path)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := defaultAppConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return err
	}

	cm.config = cfg
	return nil
}

// SaveConfig 保存配置文件
func (cm *ConfigManager) SaveConfig() error {
	if cm.config == nil {
		cm.config = defaultAppConfig()
	}

	data, err := yaml.Marshal(cm.config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(cm.path, data, 0644); err != nil {
		return fmt.Errorf("保存配置文件失败: %w", err)
	}

	return nil
}

// GetConfig 获取数据集配置
func (cm *ConfigManager) GetConfig() *Config {
	if cm.config == nil {
		return DefaultConfig()
	}
	return &cm.config.Dataset
}

// GetVisualizeOptions 获取可视化选项
func (cm *ConfigManager) GetVisualizeOptions() *VisualizeOptions {
	if cm.config == nil {
		return DefaultVisualizeOptions()
	}
	return &cm.config.Visualize
}

// GetTrainConfig 获取训练参数
func (cm *ConfigManager) GetTrainConfig() *TrainConfig {
	if cm.config == nil {
		return DefaultTrainConfig()
	}
	return &cm.config.Train
}

// CreateDefaultConfig 创建默认配置文件
func (cm *ConfigManager) CreateDefaultConfig() error {
	cm.config = defaultAppConfig()
	return cm.SaveConfig()
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Dataset:   *DefaultConfig(),
		Visualize: *DefaultVisualizeOptions(),
		Train:     *DefaultTrainConfig(),
	}
}
