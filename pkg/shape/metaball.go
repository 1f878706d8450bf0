package shape

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	defaultMetaballBlur     = 12.0
	defaultMetaballContrast = 60.0
)

// Disk はメタボール場を構成する重み付きの円です。
type Disk struct {
	Center Point
	Radius float64
	Weight float64 // [0,1] 中心の強度
}

// MetaballParams はメタボール場の生成パラメータです。
type MetaballParams struct {
	Width, Height int
	Disks         []Disk
	Color         color.NRGBA
	Blur          float64 // ガウスぼかしのσ
	Contrast      float64 // imaging.AdjustContrast に渡す割合 [-100,100]
}

// Metaballs は各円の放射状グラデーションを濃淡マスクに蓄積し、強いぼかしとコントラスト強調で
// 重なりを融合させたうえで、その濃淡を不透明度とする単色の画像を返します。
// 画素ごとのしきい値評価ではなく、ぼかしによる近似です。
func Metaballs(p MetaballParams) *image.NRGBA {
	w, h := max(p.Width, 1), max(p.Height, 1)

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()
	for _, d := range p.Disks {
		if d.Radius <= 0 || d.Weight <= 0 {
			continue
		}
		g := gg.NewRadialGradient(d.Center.X, d.Center.Y, 0, d.Center.X, d.Center.Y, d.Radius)
		g.AddColorStop(0, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(min(d.Weight, 1) * 255)})
		g.AddColorStop(1, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
		dc.SetFillStyle(g)
		dc.DrawCircle(d.Center.X, d.Center.Y, d.Radius)
		dc.Fill()
	}

	blur := p.Blur
	if blur <= 0 {
		blur = defaultMetaballBlur
	}
	contrast := p.Contrast
	if contrast == 0 {
		contrast = defaultMetaballContrast
	}
	mask := imaging.AdjustContrast(imaging.Blur(dc.Image(), blur), contrast)

	out := image.NewNRGBA(mask.Rect)
	for i := 0; i < len(mask.Pix); i += 4 {
		// R チャンネルを濃淡として扱う
		a := uint32(mask.Pix[i]) * uint32(p.Color.A) / 255
		out.Pix[i] = p.Color.R
		out.Pix[i+1] = p.Color.G
		out.Pix[i+2] = p.Color.B
		out.Pix[i+3] = uint8(a)
	}
	return out
}
