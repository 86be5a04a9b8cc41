package entity

import "time"

// Documentacion agrupa las imágenes (base64) requeridas para emitir la
// póliza: las cinco fotos del vehículo y la cédula verde del titular.
type Documentacion struct {
	ID                   string
	FotoFrontal          string
	FotoTrasera          string
	FotoLateralIzquierda string
	FotoLateralDerecha   string
	FotoTecho            string
	CedulaVerde          string
	CreatedAt            time.Time
}
