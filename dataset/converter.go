package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Normalize 将像素坐标归一化到[0,1]
func Normalize(pt Point, width, height int) Point {
	return Point{X: pt.X / float64(width), Y: pt.Y / float64(height)}
}

// Denormalize 将归一化坐标还原为像素坐标
func Denormalize(pt Point, width, height int) Point {
	return Point{X: pt.X * float64(width), Y: pt.Y * float64(height)}
}

// LabelFileName 把图片扩展名替换为标签扩展名
func LabelFileName(imageName, labelExt string) string {
	return strings.TrimSuffix(imageName, filepath.Ext(imageName)) + labelExt
}

// FormatLabelLine 生成一行YOLO分割标签: "<class> x1 y1 x2 y2 ..."
func FormatLabelLine(classIndex int, polygon Polygon, width, height int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(classIndex))
	for _, pt := range polygon {
		n := Normalize(pt, width, height)
		b.WriteByte(' ')
		b.WriteString(formatCoord(n.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(n.Y))
	}
	return b.String()
}

// 最短可还原的十进制表示，不使用指数形式
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ConvertLabels 为每张含籽粒的图片写一个标签文件，返回写入的文件路径。
// 没有籽粒的图片不生成文件；已存在的文件会被覆盖。
func (p *Preparer) ConvertLabels(annotations []ImageAnnotation) ([]string, error) {
	if err := os.MkdirAll(p.config.LabelDir, 0755); err != nil {
		return nil, fmt.Errorf("创建标签目录失败: %w", err)
	}

	var written []string
	for _, ann := range annotations {
		if len(ann.Polygons) == 0 {
			continue
		}

		var b strings.Builder
		for _, polygon := range ann.Polygons {
			b.WriteString(FormatLabelLine(p.config.ClassIndex, polygon, ann.Width, ann.Height))
			b.WriteByte('\n')
		}

		labelPath := filepath.Join(p.config.LabelDir, LabelFileName(ann.Name, p.config.LabelExt))
		if err := os.MkdirAll(filepath.Dir(labelPath), 0755); err != nil {
			return nil, fmt.Errorf("创建标签目录失败: %w", err)
		}
		if err := os.WriteFile(labelPath, []byte(b.String()), 0644); err != nil {
			return nil, fmt.Errorf("写入标签文件失败 %s: %w", labelPath, err)
		}

		p.logger.Info("创建标签文件",
			slog.String("path", labelPath),
			slog.Int("count", len(ann.Polygons)))
		written = append(written, labelPath)
	}

	return written, nil
}
