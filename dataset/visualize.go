package dataset

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Visualize 在原图上描出籽粒轮廓，写到可视化目录，返回写出的图片数量。
// 读不到的图片记录警告后跳过。
func (p *Preparer) Visualize(annotations []ImageAnnotation) (int, error) {
	options := p.visualize
	if options == nil {
		options = DefaultVisualizeOptions()
	}

	if err := os.MkdirAll(p.config.VisualizedDir, 0755); err != nil {
		return 0, fmt.Errorf("创建可视化目录失败: %w", err)
	}

	lineColor, ok := ParseColor(options.LineColor)
	if !ok {
		lineColor = color.RGBA{0, 255, 0, 255} // 默认绿色
	}

	written := 0
	for _, ann := range annotations {
		imgPath := filepath.Join(p.config.ImageDir, ann.Name)
		img, err := imaging.Open(imgPath)
		if err != nil {
			p.logger.Warn("无法加载图片，跳过",
				slog.String("image", ann.Name),
				slog.String("error", err.Error()))
			continue
		}

		out := DrawPolygons(img, ann.Polygons, lineColor, options)
		if options.MaxSide > 0 {
			out = imaging.Fit(out, options.MaxSide, options.MaxSide, imaging.Lanczos)
		}

		outPath := filepath.Join(p.config.VisualizedDir, options.Prefix+filepath.Base(ann.Name))
		if err := imaging.Save(out, outPath, imaging.JPEGQuality(jpegQuality(options))); err != nil {
			return written, fmt.Errorf("保存可视化图片失败 %s: %w", outPath, err)
		}
		written++
	}

	p.logger.Info("可视化完成", slog.Int("count", written), slog.String("path", p.config.VisualizedDir))
	return written, nil
}

// DrawPolygons 返回绘制了闭合轮廓的图片副本
func DrawPolygons(img image.Image, polygons []Polygon, lineColor color.Color, options *VisualizeOptions) image.Image {
	// draw2dimg只支持*image.RGBA
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	lineWidth := 2.0
	if options != nil && options.LineWidth > 0 {
		lineWidth = options.LineWidth
	}

	gc := draw2dimg.NewGraphicContext(canvas)
	gc.SetStrokeColor(lineColor)
	gc.SetLineWidth(lineWidth)

	for i, polygon := range polygons {
		if len(polygon) < 2 {
			continue
		}
		gc.BeginPath()
		gc.MoveTo(polygon[0].X, polygon[0].Y)
		for _, pt := range polygon[1:] {
			gc.LineTo(pt.X, pt.Y)
		}
		gc.Close()
		gc.Stroke()

		if options != nil && options.DrawIndices {
			drawIndex(canvas, strconv.Itoa(i+1), polygon[0], lineColor)
		}
	}

	return canvas
}

// drawIndex 在多边形第一个顶点旁写序号
func drawIndex(img *image.RGBA, label string, at Point, textColor color.Color) {
	bounds := img.Bounds()
	face := basicfont.Face7x13
	textWidth := len(label) * 7
	textHeight := 13

	x := int(at.X) + 2
	y := int(at.Y) - 2

	// 确保文字在图像范围内
	if x+textWidth > bounds.Max.X {
		x = bounds.Max.X - textWidth
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y < bounds.Min.Y+textHeight {
		y = bounds.Min.Y + textHeight
	}
	if y > bounds.Max.Y {
		y = bounds.Max.Y
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func jpegQuality(options *VisualizeOptions) int {
	if options.JPEGQuality <= 0 || options.JPEGQuality > 100 {
		return 95
	}
	return options.JPEGQuality
}

// ParseColor 解析颜色名称
func ParseColor(colorStr string) (color.RGBA, bool) {
	switch strings.ToLower(colorStr) {
	case "red":
		return color.RGBA{255, 0, 0, 255}, true
	case "green":
		return color.RGBA{0, 255, 0, 255}, true
	case "blue":
		return color.RGBA{0, 0, 255, 255}, true
	case "yellow":
		return color.RGBA{255, 255, 0, 255}, true
	case "cyan":
		return color.RGBA{0, 255, 255, 255}, true
	case "magenta":
		return color.RGBA{255, 0, 255, 255}, true
	case "white":
		return color.RGBA{255, 255, 255, 255}, true
	case "black":
		return color.RGBA{0, 0, 0, 255}, true
	case "orange":
		return color.RGBA{255, 165, 0, 255}, true
	case "purple":
		return color.RGBA{128, 0, 128, 255}, true
	default:
		return color.RGBA{}, false
	}
}
