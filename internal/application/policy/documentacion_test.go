package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/domain"
)

// imagenValida es un PNG-minúsculo codificado; cualquier base64 bien formado
// sirve para la validación.
const imagenValida = "iVBORw0KGgoAAAANSUhEUg=="

func documentacionCompleta() policy.DocumentacionInput {
	return policy.DocumentacionInput{
		FotoFrontal:          imagenValida,
		FotoTrasera:          imagenValida,
		FotoLateralIzquierda: imagenValida,
		FotoLateralDerecha:   imagenValida,
		FotoTecho:            imagenValida,
		CedulaVerde:          imagenValida,
	}
}

func TestValidarDocumentacion_Completa(t *testing.T) {
	assert.NoError(t, policy.ValidarDocumentacion(documentacionCompleta()))
}

func TestValidarDocumentacion_AceptaDataURI(t *testing.T) {
	in := documentacionCompleta()
	in.FotoFrontal = "data:image/png;base64," + imagenValida
	in.CedulaVerde = "data:image/jpeg;base64," + imagenValida
	assert.NoError(t, policy.ValidarDocumentacion(in))
}

func TestValidarDocumentacion_FaltanImagenes(t *testing.T) {
	in := documentacionCompleta()
	in.FotoTecho = ""
	in.CedulaVerde = ""

	err := policy.ValidarDocumentacion(in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	campos := make([]string, 0, len(verr.Campos))
	for _, c := range verr.Campos {
		campos = append(campos, c.Campo)
	}
	assert.ElementsMatch(t, []string{"fotoTecho", "cedulaVerde"}, campos)
}

func TestValidarDocumentacion_Base64Invalido(t *testing.T) {
	casos := []struct {
		nombre string
		valor  string
	}{
		{"caracteres fuera del alfabeto", "no-es-base-64!!"},
		{"largo no múltiplo de cuatro", "abcde"},
		{"solo encabezado", "data:image/png;base64,"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := documentacionCompleta()
			in.FotoFrontal = c.valor
			err := policy.ValidarDocumentacion(in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "fotoFrontal", verr.Campos[0].Campo)
		})
	}
}

func TestSinPrefijo(t *testing.T) {
	assert.Equal(t, imagenValida, policy.SinPrefijo("data:image/png;base64,"+imagenValida))
	assert.Equal(t, imagenValida, policy.SinPrefijo(imagenValida))
	assert.Equal(t, imagenValida, policy.SinPrefijo("  "+imagenValida+"  "))
}
