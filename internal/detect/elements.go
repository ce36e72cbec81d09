package detect

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // 截图固定保存为 PNG
	"os"

	"go.uber.org/zap"

	"xiadan-agent/internal/vision"
)

// Kind 是界面元素类别。
type Kind int

const (
	KindButton Kind = iota
	KindInputBox
)

func (k Kind) String() string {
	if k == KindInputBox {
		return "输入框"
	}
	return "按钮"
}

// Element 是定位到的一个界面元素，坐标相对截图左上角。
type Element struct {
	Name   string
	Kind   Kind
	Bounds image.Rectangle
	Center image.Point
}

// Recognizer 提供带位置的文字识别，用来给元素命名。
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]vision.TextRegion, error)
}

// Detector 扫描截图定位可交互元素。
type Detector struct {
	ocr    Recognizer
	logger *zap.Logger
}

// NewDetector 创建元素检测器。ocr 可为 nil，此时元素只有序号名。
func NewDetector(ocr Recognizer, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{ocr: ocr, logger: logger}
}

// Analyze 在截图中定位按钮与输入框。命名优先取 OCR 文字：
// 按钮取内部文字，输入框取左侧或上方最近的标签；没有可用文字
// 时落到“按钮_N”“输入框_N”的序号名。
func (d *Detector) Analyze(ctx context.Context, imagePath string) ([]Element, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("打开截图失败: %w", err)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码截图失败: %w", err)
	}

	gray := grayscale(img)
	bin := binarize(gray, otsuThreshold(gray))
	comps := connectedComponents(bin)

	var regions []vision.TextRegion
	if d.ocr != nil {
		regions, err = d.ocr.Recognize(ctx, imagePath)
		if err != nil {
			d.logger.Warn("文字识别失败，元素将使用序号命名", zap.Error(err))
			regions = nil
		}
	}

	imgW := img.Bounds().Dx()
	imgH := img.Bounds().Dy()

	var elements []Element
	buttonSeq, inputSeq := 0, 0
	for _, c := range comps {
		w := c.bounds.Dx()
		h := c.bounds.Dy()
		aspect := float64(w) / float64(h)

		switch {
		case isInputBox(w, h, aspect, c.area, imgW, imgH):
			inputSeq++
			name := labelForInput(c.bounds, regions)
			if name == "" {
				name = fmt.Sprintf("输入框_%d", inputSeq)
			}
			elements = append(elements, newElement(name, KindInputBox, c.bounds))
		case isButton(w, h, aspect, c.area, imgW, imgH):
			buttonSeq++
			name := labelInside(c.bounds, regions)
			if name == "" {
				name = fmt.Sprintf("按钮_%d", buttonSeq)
			}
			elements = append(elements, newElement(name, KindButton, c.bounds))
		}
	}

	d.logger.Info("界面元素检测完成",
		zap.Int("elements", len(elements)),
		zap.Int("components", len(comps)),
	)
	return elements, nil
}

// Find 按名称查找元素。
func Find(elements []Element, name string) (Element, bool) {
	for _, e := range elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

func newElement(name string, kind Kind, bounds image.Rectangle) Element {
	return Element{
		Name:   name,
		Kind:   kind,
		Bounds: bounds,
		Center: image.Pt(bounds.Min.X+bounds.Dx()/2, bounds.Min.Y+bounds.Dy()/2),
	}
}

// 几何过滤阈值来自对终端界面的实际标定。
func isButton(w, h int, aspect float64, area, imgW, imgH int) bool {
	minArea := imgW * imgH / 1000
	if minArea < 100 {
		minArea = 100
	}
	return w > 20 && h > 15 && aspect > 0.3 && aspect < 5 && area >= minArea
}

func isInputBox(w, h int, aspect float64, area, imgW, imgH int) bool {
	minArea := imgW * imgH / 2000
	if minArea < 50 {
		minArea = 50
	}
	return w > 30 && h > 10 && h < 60 && aspect > 1.5 && area >= minArea
}

// labelInside 返回中心落在矩形内的首段文字。
func labelInside(rect image.Rectangle, regions []vision.TextRegion) string {
	for _, r := range regions {
		cx := r.Left + r.Width/2
		cy := r.Top + r.Height/2
		if image.Pt(cx, cy).In(rect) {
			return r.Text
		}
	}
	return ""
}

// labelForInput 给输入框找标签：框内文字视为占位符直接用；
// 否则取左侧或上方 80 像素内最近的文字。
func labelForInput(rect image.Rectangle, regions []vision.TextRegion) string {
	if label := labelInside(rect, regions); label != "" {
		return label
	}

	const maxGap = 80
	best := ""
	bestDist := maxGap + 1
	for _, r := range regions {
		cx := r.Left + r.Width/2
		cy := r.Top + r.Height/2

		// 左侧：垂直方向与框重叠，水平方向在框之前。
		if cy >= rect.Min.Y && cy <= rect.Max.Y && cx < rect.Min.X {
			if dist := rect.Min.X - (r.Left + r.Width); dist >= 0 && dist < bestDist {
				best, bestDist = r.Text, dist
			}
		}
		// 上方：水平方向与框重叠，垂直方向在框之上。
		if cx >= rect.Min.X && cx <= rect.Max.X && cy < rect.Min.Y {
			if dist := rect.Min.Y - (r.Top + r.Height); dist >= 0 && dist < bestDist {
				best, bestDist = r.Text, dist
			}
		}
	}
	return best
}
