package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const imagenLadoMaximo = 800

// procesarImagen decodes any supported format, fits it into an
// imagenLadoMaximo square keeping the aspect ratio and re-encodes it as JPEG.
func procesarImagen(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("formato de imagen no soportado: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > imagenLadoMaximo || b.Dy() > imagenLadoMaximo {
		img = imaging.Fit(img, imagenLadoMaximo, imagenLadoMaximo, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("codificar imagen: %w", err)
	}
	return &buf, nil
}
