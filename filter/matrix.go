package filter

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ColorMatrix is a 3x3 linear transform plus a per-channel offset, operating
// on RGB in [0,1]. it is the raster-side equivalent of a filter term list:
// every Op lowers to one of these, and a whole Filter composes into a single
// matrix applied once per pixel.
type ColorMatrix struct {
	M [3][3]float64
	O [3]float64
}

func identityMatrix() ColorMatrix {
	return ColorMatrix{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// after returns the matrix equivalent to applying prev first, then cm
func (cm ColorMatrix) after(prev ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			for k := 0; k < 3; k++ {
				out.M[r][c] += cm.M[r][k] * prev.M[k][c]
			}
		}
		out.O[r] = cm.O[r]
		for k := 0; k < 3; k++ {
			out.O[r] += cm.M[r][k] * prev.O[k]
		}
	}
	return out
}

// rec601 luma weights, as used by the CSS/SVG filter effects primitives
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

func scaleMatrix(v float64) ColorMatrix {
	return ColorMatrix{M: [3][3]float64{{v, 0, 0}, {0, v, 0}, {0, 0, v}}}
}

func contrastMatrix(v float64) ColorMatrix {
	cm := scaleMatrix(v)
	off := 0.5 - 0.5*v
	cm.O = [3]float64{off, off, off}
	return cm
}

func saturateMatrix(s float64) ColorMatrix {
	return ColorMatrix{M: [3][3]float64{
		{lumR + (1-lumR)*s, lumG - lumG*s, lumB - lumB*s},
		{lumR - lumR*s, lumG + (1-lumG)*s, lumB - lumB*s},
		{lumR - lumR*s, lumG - lumG*s, lumB + (1-lumB)*s},
	}}
}

// sepiaFull is the fully-applied sepia matrix; sepia(v) interpolates between
// identity and this by v
var sepiaFull = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

func sepiaMatrix(v float64) ColorMatrix {
	id := identityMatrix()
	var cm ColorMatrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cm.M[r][c] = id.M[r][c]*(1-v) + sepiaFull[r][c]*v
		}
	}
	return cm
}

func hueRotateMatrix(degrees float64) ColorMatrix {
	rad := degrees * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return ColorMatrix{M: [3][3]float64{
		{
			lumR + cos*(1-lumR) - sin*lumR,
			lumG - cos*lumG - sin*lumG,
			lumB - cos*lumB + sin*(1-lumB),
		},
		{
			lumR - cos*lumR + sin*0.143,
			lumG + cos*(1-lumG) + sin*0.140,
			lumB - cos*lumB - sin*0.283,
		},
		{
			lumR - cos*lumR - sin*(1-lumR),
			lumG - cos*lumG + sin*lumG,
			lumB + cos*(1-lumB) + sin*lumB,
		},
	}}
}

func termMatrix(t Term) ColorMatrix {
	switch t.Op {
	case OpBrightness:
		return scaleMatrix(t.Value)
	case OpContrast:
		return contrastMatrix(t.Value)
	case OpSaturate:
		return saturateMatrix(t.Value)
	case OpSepia:
		return sepiaMatrix(t.Value)
	case OpGrayscale:
		return saturateMatrix(1 - t.Value)
	case OpHueRotate:
		return hueRotateMatrix(t.Value)
	}
	return identityMatrix()
}

// Matrix lowers the whole composite into one ColorMatrix
func (f Filter) Matrix() ColorMatrix {
	cm := identityMatrix()
	for _, t := range f {
		cm = termMatrix(t).after(cm)
	}
	return cm
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Apply rasterizes the composite onto an image. alpha passes through
// untouched; the returned image is always a fresh NRGBA copy, so callers can
// apply the same Filter to the same source repeatedly and get identical
// results.
func (f Filter) Apply(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	if len(f) == 0 {
		return out
	}
	cm := f.Matrix()

	for i := 0; i < len(out.Pix); i += 4 {
		r := float64(out.Pix[i])
		g := float64(out.Pix[i+1])
		b := float64(out.Pix[i+2])

		out.Pix[i] = clampChannel(cm.M[0][0]*r + cm.M[0][1]*g + cm.M[0][2]*b + cm.O[0]*255)
		out.Pix[i+1] = clampChannel(cm.M[1][0]*r + cm.M[1][1]*g + cm.M[1][2]*b + cm.O[1]*255)
		out.Pix[i+2] = clampChannel(cm.M[2][0]*r + cm.M[2][1]*g + cm.M[2][2]*b + cm.O[2]*255)
	}
	return out
}
