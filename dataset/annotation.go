package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Point 像素坐标点
type Point struct {
	X float64
	Y float64
}

// Polygon 一个籽粒的轮廓，顶点顺序与XML一致
type Polygon []Point

// ImageAnnotation 单张图片的标注，创建后不再修改
type ImageAnnotation struct {
	Name     string    // 图片文件名（含扩展名）
	Width    int       // XML中声明的宽度
	Height   int       // XML中声明的高度
	Polygons []Polygon // 只包含籽粒多边形
}

// Kernels 籽粒数量
func (a *ImageAnnotation) Kernels() int {
	return len(a.Polygons)
}

// ParseAnnotations 解析标注XML文件
func (p *Preparer) ParseAnnotations(path string) ([]ImageAnnotation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("读取标注文件失败 %s: %w", path, err)
	}
	return p.parseDocument(doc)
}

// ParseAnnotationsFrom 从reader解析标注XML
func (p *Preparer) ParseAnnotationsFrom(r io.Reader) ([]ImageAnnotation, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("读取标注失败: %w", err)
	}
	return p.parseDocument(doc)
}

func (p *Preparer) parseDocument(doc *etree.Document) ([]ImageAnnotation, error) {
	if doc.Root() == nil {
		return nil, fmt.Errorf("标注文件没有根元素")
	}

	var images []ImageAnnotation
	for _, el := range doc.FindElements(".//image") {
		name := el.SelectAttrValue("name", "")
		if name == "" {
			p.logger.Warn("image元素没有name属性，跳过", slog.Int("index", el.Index()))
			continue
		}

		width, err := parseDimension(el, "width")
		if err != nil {
			return nil, fmt.Errorf("图片 %s: %w", name, err)
		}
		height, err := parseDimension(el, "height")
		if err != nil {
			return nil, fmt.Errorf("图片 %s: %w", name, err)
		}

		annotation := ImageAnnotation{
			Name:     name,
			Width:    width,
			Height:   height,
			Polygons: []Polygon{},
		}

		for _, poly := range el.SelectElements("polygon") {
			label := poly.SelectAttrValue("label", "")
			if label != p.config.KernelLabel {
				p.logger.Warn("不是籽粒，跳过多边形",
					slog.String("image", name),
					slog.String("label", label))
				continue
			}

			points, err := ParsePoints(poly.SelectAttrValue("points", ""))
			if err != nil {
				return nil, fmt.Errorf("图片 %s: %w", name, err)
			}
			annotation.Polygons = append(annotation.Polygons, points)
		}

		images = append(images, annotation)
	}

	return images, nil
}

func parseDimension(el *etree.Element, attr string) (int, error) {
	raw := el.SelectAttrValue(attr, "")
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("无法解析%s %q: %w", attr, raw, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s必须为正数: %d", attr, value)
	}
	return value, nil
}

// ParsePoints 解析 "x1,y1;x2,y2;..." 格式的坐标串
func ParsePoints(s string) (Polygon, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("坐标串为空")
	}

	pairs := strings.Split(s, ";")
	polygon := make(Polygon, 0, len(pairs))
	for _, pair := range pairs {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("坐标格式错误 %q", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("无法解析坐标 %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("无法解析坐标 %q: %w", pair, err)
		}
		polygon = append(polygon, Point{X: x, Y: y})
	}

	return polygon, nil
}
