package policy

import (
	"regexp"
	"strings"

	"github.com/1gnale/car-chain-api/internal/domain"
)

// DocumentacionInput las seis imágenes requeridas para emitir la póliza,
// codificadas en base64, con o sin encabezado data-URI.
type DocumentacionInput struct {
	FotoFrontal          string `json:"fotoFrontal"`
	FotoTrasera          string `json:"fotoTrasera"`
	FotoLateralIzquierda string `json:"fotoLateralIzquierda"`
	FotoLateralDerecha   string `json:"fotoLateralDerecha"`
	FotoTecho            string `json:"fotoTecho"`
	CedulaVerde          string `json:"cedulaVerde"`
}

var (
	prefijoDataURI = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
	cuerpoBase64   = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

// ValidarDocumentacion exige las seis imágenes y que cada una sea base64
// válido una vez removido el encabezado data-URI si lo trae.
func ValidarDocumentacion(in DocumentacionInput) error {
	campos := []struct {
		nombre string
		valor  string
	}{
		{"fotoFrontal", in.FotoFrontal},
		{"fotoTrasera", in.FotoTrasera},
		{"fotoLateralIzquierda", in.FotoLateralIzquierda},
		{"fotoLateralDerecha", in.FotoLateralDerecha},
		{"fotoTecho", in.FotoTecho},
		{"cedulaVerde", in.CedulaVerde},
	}

	verr := &domain.ValidationError{}
	for _, c := range campos {
		if c.valor == "" {
			verr.Agregar(c.nombre, "es requerida")
			continue
		}
		if !esImagenBase64(c.valor) {
			verr.Agregar(c.nombre, "no es una imagen base64 válida")
		}
	}
	if verr.TieneCampos() {
		return verr
	}
	return nil
}

// SinPrefijo devuelve el contenido base64 sin el encabezado data-URI.
func SinPrefijo(imagen string) string {
	return prefijoDataURI.ReplaceAllString(strings.TrimSpace(imagen), "")
}

func esImagenBase64(s string) bool {
	cuerpo := SinPrefijo(s)
	if cuerpo == "" || len(cuerpo)%4 != 0 {
		return false
	}
	return cuerpoBase64.MatchString(cuerpo)
}
