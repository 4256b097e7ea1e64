package utils

import (
	"bytes"
	"image/color"
	"math/rand"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Captcha is a one-shot verification challenge. The code is compared
// case-insensitively against the user's modal input.
type Captcha struct {
	Code  string
	Image []byte
}

const (
	captchaWidth  = 300
	captchaHeight = 120
	captchaLength = 6
)

var captchaRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateCaptcha renders a distorted 6-character code as a PNG.
// Charset excludes ambiguous characters (I, O, 0, 1).
func GenerateCaptcha() (*Captcha, error) {
	dc := gg.NewContext(captchaWidth, captchaHeight)

	// Background gradient
	grad := gg.NewLinearGradient(0, 0, captchaWidth, captchaHeight)
	grad.AddColorStop(0, color.RGBA{240, 240, 240, 255})
	grad.AddColorStop(0.5, color.White)
	grad.AddColorStop(1, color.RGBA{232, 232, 232, 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, captchaWidth, captchaHeight)
	dc.Fill()

	// Noise dots
	for i := 0; i < 100; i++ {
		dc.SetColor(randomColor(100, 200))
		dc.DrawRectangle(captchaRand.Float64()*captchaWidth, captchaRand.Float64()*captchaHeight, 2, 2)
		dc.Fill()
	}

	// Distortion curves
	for i := 0; i < 5; i++ {
		dc.SetColor(randomColor(150, 220))
		dc.SetLineWidth(captchaRand.Float64()*2 + 1)
		dc.MoveTo(captchaRand.Float64()*captchaWidth, captchaRand.Float64()*captchaHeight)
		dc.CubicTo(
			captchaRand.Float64()*captchaWidth, captchaRand.Float64()*captchaHeight,
			captchaRand.Float64()*captchaWidth, captchaRand.Float64()*captchaHeight,
			captchaRand.Float64()*captchaWidth, captchaRand.Float64()*captchaHeight,
		)
		dc.Stroke()
	}

	code := generateCode(captchaLength)

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(font, &truetype.Options{Size: 48})
	dc.SetFontFace(face)

	charSpacing := float64(captchaWidth) / float64(len(code)+1)
	for i, char := range code {
		x := charSpacing * float64(i+1)
		y := float64(captchaHeight) / 2

		dc.Push()
		dc.RotateAbout(gg.Radians((captchaRand.Float64()-0.5)*20), x, y)

		// Shadow
		dc.SetColor(color.RGBA{0, 0, 0, 50})
		dc.DrawStringAnchored(string(char), x+2, y+2, 0.5, 0.5)

		dc.SetColor(randomColor(0, 100))
		dc.DrawStringAnchored(string(char), x, y, 0.5, 0.5)

		dc.Pop()
	}

	buf := new(bytes.Buffer)
	if err := dc.EncodePNG(buf); err != nil {
		return nil, err
	}

	return &Captcha{Code: code, Image: buf.Bytes()}, nil
}

func generateCode(length int) string {
	chars := "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = chars[captchaRand.Intn(len(chars))]
	}
	return string(b)
}

func randomColor(min, max int) color.Color {
	r := captchaRand.Intn(max-min) + min
	g := captchaRand.Intn(max-min) + min
	b := captchaRand.Intn(max-min) + min
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}
