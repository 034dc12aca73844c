package dataset

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Split 数据集子集名称，同时也是输出目录名
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
	SplitTest  Split = "test"
)

// Splits 固定的输出顺序
var Splits = []Split{SplitTrain, SplitVal, SplitTest}

// SplitResult 划分结果
type SplitResult struct {
	Images map[Split][]string // 每个子集的图片文件名
	Labels map[Split]int      // 每个子集复制的标签数量
}

// Count 子集中的图片数量
func (r *SplitResult) Count(s Split) int {
	return len(r.Images[s])
}

// Total 图片总数
func (r *SplitResult) Total() int {
	total := 0
	for _, s := range Splits {
		total += r.Count(s)
	}
	return total
}

// PartitionCounts 计算各子集数量：train=floor(n*trainRatio)，val=floor(n*valRatio)，test为剩余
func PartitionCounts(n int, trainRatio, valRatio float64) (train, val, test int) {
	train = int(float64(n) * trainRatio)
	val = int(float64(n) * valRatio)
	if train > n {
		train = n
	}
	if train+val > n {
		val = n - train
	}
	test = n - train - val
	return train, val, test
}

// Partition 按文件名排序后用固定种子打乱，再按连续区间切分。
// 相同的文件列表、比例和种子总是得到相同的划分；不修改传入的切片。
func Partition(names []string, trainRatio, valRatio float64, seed int64) map[Split][]string {
	shuffled := slices.Clone(names)
	slices.Sort(shuffled)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	trainCount, valCount, _ := PartitionCounts(len(shuffled), trainRatio, valRatio)
	return map[Split][]string{
		SplitTrain: shuffled[:trainCount],
		SplitVal:   shuffled[trainCount : trainCount+valCount],
		SplitTest:  shuffled[trainCount+valCount:],
	}
}

// Split 把图片和对应标签复制到 images/{train,val,test} 与 labels/{train,val,test}。
// 图片总是复制，标签只在存在时复制；原文件不会被移动或删除。
func (p *Preparer) Split() (*SplitResult, error) {
	names, err := p.listImages()
	if err != nil {
		return nil, err
	}

	if err := p.ensureSplitDirs(); err != nil {
		return nil, err
	}

	result := &SplitResult{
		Images: Partition(names, p.config.TrainRatio, p.config.ValRatio, p.config.Seed),
		Labels: make(map[Split]int, len(Splits)),
	}

	for _, split := range Splits {
		imageDst := filepath.Join(p.config.OutputDir, "images", string(split))
		labelDst := filepath.Join(p.config.OutputDir, "labels", string(split))

		for _, name := range result.Images[split] {
			if _, err := copyFile(filepath.Join(p.config.ImageDir, name), filepath.Join(imageDst, name)); err != nil {
				return nil, fmt.Errorf("复制图片失败 %s: %w", name, err)
			}

			labelName := LabelFileName(name, p.config.LabelExt)
			labelSrc := filepath.Join(p.config.LabelDir, labelName)
			exists, err := fileExists(labelSrc)
			if err != nil {
				return nil, fmt.Errorf("检查标签文件失败 %s: %w", labelSrc, err)
			}
			if !exists {
				continue
			}
			if _, err := copyFile(labelSrc, filepath.Join(labelDst, labelName)); err != nil {
				return nil, fmt.Errorf("复制标签失败 %s: %w", labelName, err)
			}
			result.Labels[split]++
		}

		p.logger.Info("子集复制完成",
			slog.String("split", string(split)),
			slog.Int("count", result.Count(split)),
			slog.Int("labels", result.Labels[split]))
	}

	return result, nil
}

// listImages 列出图片目录下扩展名匹配的文件（不区分大小写，不递归）
func (p *Preparer) listImages() ([]string, error) {
	entries, err := os.ReadDir(p.config.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("读取图片目录失败: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), p.config.ImageExt) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (p *Preparer) ensureSplitDirs() error {
	for _, kind := range []string{"images", "labels"} {
		for _, split := range Splits {
			dir := filepath.Join(p.config.OutputDir, kind, string(split))
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("创建目录失败 %s: %w", dir, err)
			}
		}
	}
	return nil
}
