// Package memoria implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en los tests de aplicación y como backend de desarrollo
// cuando no hay PostgreSQL disponible.
package memoria

import (
	"sync"
	"time"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

// Almacen contiene todas las colecciones. Los repos por entidad comparten el
// mismo Almacen y su mutex.
type Almacen struct {
	mu sync.Mutex

	polizas         map[string]*entity.Poliza
	pagos           map[string]*entity.Pago
	configs         map[string]*entity.ConfigTarifa
	cotizaciones    map[string]*entity.Cotizacion
	lineas          map[string]*entity.LineaCotizacion
	vehiculos       map[string]*entity.Vehiculo
	documentaciones map[string]*entity.Documentacion
	siniestros      map[string]*entity.Siniestro
	revisiones      map[string]*entity.Revision
	eventos         map[string]*entity.EventoNotarizacion

	// Catálogos (solo lectura desde los puertos; se cargan con los setters).
	versiones  map[string]*entity.Version
	personas   map[string]*entity.Persona
	coberturas map[string]*entity.Cobertura
	tipos      map[string]*entity.TipoContratacion
	periodos   map[string]*entity.PeriodoPago

	ordenEventos []string // orden de inserción para ListPendientes
}

// NewAlmacen construye un almacén vacío.
func NewAlmacen() *Almacen {
	return &Almacen{
		polizas:         map[string]*entity.Poliza{},
		pagos:           map[string]*entity.Pago{},
		configs:         map[string]*entity.ConfigTarifa{},
		cotizaciones:    map[string]*entity.Cotizacion{},
		lineas:          map[string]*entity.LineaCotizacion{},
		vehiculos:       map[string]*entity.Vehiculo{},
		documentaciones: map[string]*entity.Documentacion{},
		siniestros:      map[string]*entity.Siniestro{},
		revisiones:      map[string]*entity.Revision{},
		eventos:         map[string]*entity.EventoNotarizacion{},
		versiones:       map[string]*entity.Version{},
		personas:        map[string]*entity.Persona{},
		coberturas:      map[string]*entity.Cobertura{},
		tipos:           map[string]*entity.TipoContratacion{},
		periodos:        map[string]*entity.PeriodoPago{},
	}
}

// ── Carga de catálogos ────────────────────────────────────────────────────────

func (a *Almacen) GuardarVersion(v entity.Version) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.versiones[v.ID] = &v
}

func (a *Almacen) GuardarPersona(p entity.Persona) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.personas[p.ID] = &p
}

func (a *Almacen) GuardarCobertura(c entity.Cobertura) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.coberturas[c.ID] = &c
}

func (a *Almacen) GuardarTipoContratacion(t entity.TipoContratacion) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tipos[t.ID] = &t
}

func (a *Almacen) GuardarPeriodoPago(p entity.PeriodoPago) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.periodos[p.ID] = &p
}

// ── Conteos (asserts de atomicidad en tests) ─────────────────────────────────

// Conteos devuelve la cantidad de filas por colección transaccional.
func (a *Almacen) Conteos() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return map[string]int{
		"polizas":         len(a.polizas),
		"pagos":           len(a.pagos),
		"cotizaciones":    len(a.cotizaciones),
		"lineas":          len(a.lineas),
		"vehiculos":       len(a.vehiculos),
		"documentaciones": len(a.documentaciones),
		"eventos":         len(a.eventos),
	}
}

// snapshot copia el estado mutable completo (para el rollback del TxRunner).
func (a *Almacen) snapshot() *Almacen {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := NewAlmacen()
	for k, v := range a.polizas {
		c := *v
		s.polizas[k] = &c
	}
	for k, v := range a.pagos {
		c := *v
		s.pagos[k] = &c
	}
	for k, v := range a.configs {
		c := *v
		s.configs[k] = &c
	}
	for k, v := range a.cotizaciones {
		c := *v
		s.cotizaciones[k] = &c
	}
	for k, v := range a.lineas {
		c := *v
		s.lineas[k] = &c
	}
	for k, v := range a.vehiculos {
		c := *v
		s.vehiculos[k] = &c
	}
	for k, v := range a.documentaciones {
		c := *v
		s.documentaciones[k] = &c
	}
	for k, v := range a.siniestros {
		c := *v
		s.siniestros[k] = &c
	}
	for k, v := range a.revisiones {
		c := *v
		s.revisiones[k] = &c
	}
	for k, v := range a.eventos {
		c := *v
		s.eventos[k] = &c
	}
	s.ordenEventos = append([]string(nil), a.ordenEventos...)
	return s
}

// restaurar vuelca el snapshot sobre el almacén.
func (a *Almacen) restaurar(s *Almacen) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.polizas = s.polizas
	a.pagos = s.pagos
	a.configs = s.configs
	a.cotizaciones = s.cotizaciones
	a.lineas = s.lineas
	a.vehiculos = s.vehiculos
	a.documentaciones = s.documentaciones
	a.siniestros = s.siniestros
	a.revisiones = s.revisiones
	a.eventos = s.eventos
	a.ordenEventos = s.ordenEventos
}

// ── PolizaRepo ───────────────────────────────────────────────────────────────

type PolizaRepo struct{ a *Almacen }

func (a *Almacen) Polizas() *PolizaRepo { return &PolizaRepo{a: a} }

func (r *PolizaRepo) Create(p *entity.Poliza) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.polizas[p.NumeroPoliza]; ok {
		return domain.ErrDuplicate
	}
	c := *p
	r.a.polizas[p.NumeroPoliza] = &c
	return nil
}

func (r *PolizaRepo) GetByNumero(numero string) (*entity.Poliza, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if p, ok := r.a.polizas[numero]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *PolizaRepo) Update(p *entity.Poliza) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.polizas[p.NumeroPoliza]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.a.polizas[p.NumeroPoliza] = &c
	return nil
}

func (r *PolizaRepo) UpdateEstadoCondicional(numero string, desde []entity.EstadoPoliza, hacia entity.EstadoPoliza) (bool, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	p, ok := r.a.polizas[numero]
	if !ok {
		return false, nil
	}
	for _, d := range desde {
		if p.Estado == d {
			p.Estado = hacia
			p.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *PolizaRepo) MarcarImpagas(ahora time.Time) (int64, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var n int64
	for _, p := range r.a.polizas {
		if p.Estado == entity.PolizaVigente && p.FechaDePago != nil && p.FechaDePago.Before(ahora) {
			p.Estado = entity.PolizaImpaga
			p.UpdatedAt = ahora
			n++
		}
	}
	return n, nil
}

func (r *PolizaRepo) SetHashNotarizacion(numero, hash string) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	p, ok := r.a.polizas[numero]
	if !ok {
		return domain.ErrNotFound
	}
	p.HashNotarizacion = hash
	return nil
}

// ── PagoRepo ─────────────────────────────────────────────────────────────────

type PagoRepo struct{ a *Almacen }

func (a *Almacen) Pagos() *PagoRepo { return &PagoRepo{a: a} }

func (r *PagoRepo) Create(p *entity.Pago) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	c := *p
	r.a.pagos[p.ID] = &c
	return nil
}

func (r *PagoRepo) GetByID(id string) (*entity.Pago, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if p, ok := r.a.pagos[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *PagoRepo) Update(p *entity.Pago) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.pagos[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.a.pagos[p.ID] = &c
	return nil
}

func (r *PagoRepo) Delete(id string) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.pagos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.a.pagos, id)
	return nil
}

// ── ConfigTarifaRepo ─────────────────────────────────────────────────────────

type ConfigTarifaRepo struct{ a *Almacen }

func (a *Almacen) Configs() *ConfigTarifaRepo { return &ConfigTarifaRepo{a: a} }

func (r *ConfigTarifaRepo) Create(c *entity.ConfigTarifa) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *c
	r.a.configs[c.ID] = &cp
	return nil
}

func (r *ConfigTarifaRepo) GetByID(id string) (*entity.ConfigTarifa, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if c, ok := r.a.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ConfigTarifaRepo) Update(c *entity.ConfigTarifa) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.configs[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.a.configs[c.ID] = &cp
	return nil
}

func (r *ConfigTarifaRepo) ListActivas(tipo entity.TipoConfig) ([]*entity.ConfigTarifa, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var res []*entity.ConfigTarifa
	for _, c := range r.a.configs {
		if c.Tipo == tipo && c.Activo {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *ConfigTarifaRepo) GetActivaPorValor(tipo entity.TipoConfig, valor int) (*entity.ConfigTarifa, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, c := range r.a.configs {
		if c.Tipo == tipo && c.Activo && c.Contiene(valor) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ConfigTarifaRepo) GetActivaPorLocalidad(localidadID string) (*entity.ConfigTarifa, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, c := range r.a.configs {
		if c.Tipo == entity.ConfigLocalidad && c.Activo && c.LocalidadID != nil && *c.LocalidadID == localidadID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ConfigTarifaRepo) BloquearTipo(entity.TipoConfig) error { return nil }

// ── CotizacionRepo ───────────────────────────────────────────────────────────

type CotizacionRepo struct{ a *Almacen }

func (a *Almacen) Cotizaciones() *CotizacionRepo { return &CotizacionRepo{a: a} }

func (r *CotizacionRepo) Create(c *entity.Cotizacion) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *c
	r.a.cotizaciones[c.ID] = &cp
	return nil
}

func (r *CotizacionRepo) GetByID(id string) (*entity.Cotizacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if c, ok := r.a.cotizaciones[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CotizacionRepo) CreateLinea(l *entity.LineaCotizacion) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *l
	r.a.lineas[l.ID] = &cp
	return nil
}

func (r *CotizacionRepo) GetLineaByID(id string) (*entity.LineaCotizacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if l, ok := r.a.lineas[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *CotizacionRepo) GetLineasByCotizacion(cotizacionID string) ([]*entity.LineaCotizacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var res []*entity.LineaCotizacion
	for _, l := range r.a.lineas {
		if l.CotizacionID == cotizacionID {
			cp := *l
			res = append(res, &cp)
		}
	}
	return res, nil
}

// ── VehiculoRepo ─────────────────────────────────────────────────────────────

type VehiculoRepo struct{ a *Almacen }

func (a *Almacen) Vehiculos() *VehiculoRepo { return &VehiculoRepo{a: a} }

func (r *VehiculoRepo) Create(v *entity.Vehiculo) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *v
	r.a.vehiculos[v.ID] = &cp
	return nil
}

func (r *VehiculoRepo) GetByID(id string) (*entity.Vehiculo, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if v, ok := r.a.vehiculos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

// ── DocumentacionRepo ────────────────────────────────────────────────────────

type DocumentacionRepo struct{ a *Almacen }

func (a *Almacen) Documentaciones() *DocumentacionRepo { return &DocumentacionRepo{a: a} }

func (r *DocumentacionRepo) Create(d *entity.Documentacion) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *d
	r.a.documentaciones[d.ID] = &cp
	return nil
}

func (r *DocumentacionRepo) GetByID(id string) (*entity.Documentacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if d, ok := r.a.documentaciones[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

// ── SiniestroRepo / RevisionRepo ─────────────────────────────────────────────

type SiniestroRepo struct{ a *Almacen }

func (a *Almacen) Siniestros() *SiniestroRepo { return &SiniestroRepo{a: a} }

func (r *SiniestroRepo) Create(s *entity.Siniestro) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *s
	r.a.siniestros[s.ID] = &cp
	return nil
}

func (r *SiniestroRepo) GetByID(id string) (*entity.Siniestro, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if s, ok := r.a.siniestros[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SiniestroRepo) Update(s *entity.Siniestro) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.siniestros[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.a.siniestros[s.ID] = &cp
	return nil
}

type RevisionRepo struct{ a *Almacen }

func (a *Almacen) Revisiones() *RevisionRepo { return &RevisionRepo{a: a} }

func (r *RevisionRepo) Create(rev *entity.Revision) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *rev
	r.a.revisiones[rev.ID] = &cp
	return nil
}

func (r *RevisionRepo) GetByID(id string) (*entity.Revision, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if rev, ok := r.a.revisiones[id]; ok {
		cp := *rev
		return &cp, nil
	}
	return nil, nil
}

func (r *RevisionRepo) Update(rev *entity.Revision) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if _, ok := r.a.revisiones[rev.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rev
	r.a.revisiones[rev.ID] = &cp
	return nil
}

// ── NotarizacionRepo ─────────────────────────────────────────────────────────

type NotarizacionRepo struct{ a *Almacen }

func (a *Almacen) Notarizaciones() *NotarizacionRepo { return &NotarizacionRepo{a: a} }

func (r *NotarizacionRepo) Create(e *entity.EventoNotarizacion) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	cp := *e
	r.a.eventos[e.ID] = &cp
	r.a.ordenEventos = append(r.a.ordenEventos, e.ID)
	return nil
}

func (r *NotarizacionRepo) ListPendientes(limit int) ([]*entity.EventoNotarizacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var res []*entity.EventoNotarizacion
	for _, id := range r.a.ordenEventos {
		e, ok := r.a.eventos[id]
		if !ok || e.Estado != entity.EventoPendiente {
			continue
		}
		cp := *e
		res = append(res, &cp)
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

func (r *NotarizacionRepo) MarcarEnviado(id, hash string) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	e, ok := r.a.eventos[id]
	if !ok {
		return domain.ErrNotFound
	}
	ahora := time.Now()
	e.Estado = entity.EventoEnviado
	e.HashTransaccion = hash
	e.EnviadoAt = &ahora
	return nil
}

func (r *NotarizacionRepo) MarcarFallo(id, ultimoError string, maxIntentos int) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	e, ok := r.a.eventos[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Intentos++
	e.UltimoError = ultimoError
	if e.Intentos >= maxIntentos {
		e.Estado = entity.EventoError
	}
	return nil
}

// ── CatalogoRepo ─────────────────────────────────────────────────────────────

type CatalogoRepo struct{ a *Almacen }

func (a *Almacen) Catalogos() *CatalogoRepo { return &CatalogoRepo{a: a} }

func (r *CatalogoRepo) GetVersion(id string) (*entity.Version, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if v, ok := r.a.versiones[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogoRepo) GetPersona(id string) (*entity.Persona, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if p, ok := r.a.personas[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogoRepo) GetCobertura(id string) (*entity.Cobertura, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if c, ok := r.a.coberturas[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogoRepo) ListCoberturasActivas() ([]*entity.Cobertura, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var res []*entity.Cobertura
	for _, c := range r.a.coberturas {
		if c.Activo {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *CatalogoRepo) GetTipoContratacion(id string) (*entity.TipoContratacion, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if t, ok := r.a.tipos[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogoRepo) GetPeriodoPago(id string) (*entity.PeriodoPago, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if p, ok := r.a.periodos[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
