package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary 标注统计
type Summary struct {
	Images           int     // 图片数量
	ImagesWithKernel int     // 至少有一个籽粒的图片数量
	Kernels          int     // 籽粒总数
	MeanPerImage     float64 // 每张图片平均籽粒数
	StdDevPerImage   float64 // 每张图片籽粒数标准差（样本）
	MinPerImage      int
	MaxPerImage      int
	MeanPoints       float64 // 每个多边形平均顶点数
}

// Summarize 统计每张图片的籽粒数量
func Summarize(annotations []ImageAnnotation) Summary {
	s := Summary{Images: len(annotations)}
	if len(annotations) == 0 {
		return s
	}

	counts := make([]float64, len(annotations))
	var points []float64
	for i, ann := range annotations {
		counts[i] = float64(ann.Kernels())
		if ann.Kernels() > 0 {
			s.ImagesWithKernel++
		}
		for _, polygon := range ann.Polygons {
			points = append(points, float64(len(polygon)))
		}
	}

	s.Kernels = int(floats.Sum(counts))
	s.MinPerImage = int(floats.Min(counts))
	s.MaxPerImage = int(floats.Max(counts))
	if len(counts) > 1 {
		s.MeanPerImage, s.StdDevPerImage = stat.MeanStdDev(counts, nil)
	} else {
		s.MeanPerImage = counts[0]
	}
	if len(points) > 0 {
		s.MeanPoints = stat.Mean(points, nil)
	}

	return s
}

// String 单行摘要
func (s Summary) String() string {
	return fmt.Sprintf("图片: %d (含籽粒 %d), 籽粒: %d, 每张平均: %.2f±%.2f [%d, %d], 平均顶点数: %.1f",
		s.Images, s.ImagesWithKernel, s.Kernels,
		s.MeanPerImage, s.StdDevPerImage, s.MinPerImage, s.MaxPerImage, s.MeanPoints)
}
