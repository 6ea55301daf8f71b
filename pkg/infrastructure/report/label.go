package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const (
	labelQRSize     = 256
	labelPadding    = 16
	labelLineHeight = 22
)

// Label identifies one material item on the shop floor
type Label struct {
	OPNumber      string
	ItemID        string
	Name          string
	DrawingNumber string
}

// Payload is the text encoded in the QR code
func (l Label) Payload() string {
	return fmt.Sprintf("OP:%s|ITEM:%s|NOME:%s|DES:%s", l.OPNumber, l.ItemID, l.Name, l.DrawingNumber)
}

// WriteLabelPNG renders a QR code with the label text printed below it
func WriteLabelPNG(w io.Writer, l Label) error {
	qr, err := qrcode.New(l.Payload(), qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	qrImg := qr.Image(labelQRSize)

	lines := [][2]string{
		{"OP:", l.OPNumber},
		{"Item:", l.ItemID},
		{"Nome:", l.Name},
		{"Desenho:", l.DrawingNumber},
	}
	height := labelQRSize + labelPadding + len(lines)*labelLineHeight + labelPadding
	img := image.NewRGBA(image.Rect(0, 0, labelQRSize, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, labelQRSize, labelQRSize), qrImg, image.Point{}, draw.Src)

	for x := 0; x < labelQRSize; x++ {
		img.Set(x, labelQRSize+labelPadding/2, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	}

	y := labelQRSize + labelPadding + labelLineHeight - 6
	for _, line := range lines {
		drawText(img, 10, y, line[0], inconsolata.Bold8x16)
		drawText(img, 90, y, clip(line[1], 20), inconsolata.Regular8x16)
		y += labelLineHeight
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode label: %w", err)
	}
	return nil
}

func drawText(img *image.RGBA, x, y int, text string, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
