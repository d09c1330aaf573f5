package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"rsc.io/qr"
)

const dataURLPrefix = "data:image/png;base64,"

// Encoder renders QR codes as black-on-white PNG data URLs.
type Encoder struct {
	Size   int // output width and height in pixels
	Margin int // quiet zone in modules
	Level  qr.Level
}

func NewEncoder() *Encoder { return &Encoder{Size: 200, Margin: 2, Level: qr.M} }

func (e *Encoder) Encode(text string) (string, error) {
	b, err := e.PNG(text)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(b), nil
}

func (e *Encoder) PNG(text string) ([]byte, error) {
	code, err := qr.Encode(text, e.Level)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	modules := code.Size + 2*e.Margin
	scale := e.Size / modules
	if scale < 1 {
		scale = 1
	}
	side := e.Size
	if modules*scale > side {
		side = modules * scale
	}
	offset := (side-modules*scale)/2 + e.Margin*scale

	img := image.NewGray(image.Rect(0, 0, side, side))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if !code.Black(x, y) {
				continue
			}
			x0, y0 := offset+x*scale, offset+y*scale
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray(x0+dx, y0+dy, color.Gray{Y: 0})
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDataURL returns the PNG bytes behind a data URL produced by Encode.
func DecodeDataURL(s string) ([]byte, error) {
	if len(s) < len(dataURLPrefix) || s[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, fmt.Errorf("not a png data url")
	}
	return base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
}
