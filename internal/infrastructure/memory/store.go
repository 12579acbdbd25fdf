// Package memory implementa los repositorios en memoria (desarrollo, demo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todo el estado bajo un único RWMutex. Run toma el lock de escritura durante toda la
// transacción, por lo que las transacciones quedan serializadas; si fn falla se restaura la
// instantánea tomada al inicio.
type Store struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	locations    map[string]entity.Location
	samples      map[string]entity.Sample
	documents    map[string]entity.Document
	transactions []entity.Transaction
	sequences    map[string]int
	auditLogs    []entity.AuditLog
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: &state{
		locations: make(map[string]entity.Location),
		samples:   make(map[string]entity.Sample),
		documents: make(map[string]entity.Document),
		sequences: make(map[string]int),
	}}
}

// Run ejecuta fn con repos atados a la transacción. Error en fn descarta todos sus cambios.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(s.repos(true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// Repos repositorios de inventario fuera de transacción (lecturas).
func (s *Store) Repos() inventory.Repos {
	return s.repos(false)
}

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo {
	return &LocationRepo{conn{s: s}}
}

// AuditLogs repositorio de bitácora.
func (s *Store) AuditLogs() *AuditLogRepo {
	return &AuditLogRepo{conn{s: s}}
}

func (s *Store) repos(inTx bool) inventory.Repos {
	c := conn{s: s, inTx: inTx}
	return inventory.Repos{
		Documents:    &DocumentRepo{c},
		Transactions: &TransactionRepo{c},
		Samples:      &SampleRepo{c},
		Sequences:    &SequenceRepo{c},
	}
}

// conn acceso al estado: dentro de Run el lock ya está tomado.
type conn struct {
	s    *Store
	inTx bool
}

func (c conn) read(fn func(st *state)) {
	if !c.inTx {
		c.s.mu.RLock()
		defer c.s.mu.RUnlock()
	}
	fn(c.s.state)
}

func (c conn) write(fn func(st *state) error) error {
	if !c.inTx {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
	}
	return fn(c.s.state)
}

// clone copia superficial de colecciones: los valores guardados nunca se mutan en sitio.
func (st *state) clone() *state {
	out := &state{
		locations:    make(map[string]entity.Location, len(st.locations)),
		samples:      make(map[string]entity.Sample, len(st.samples)),
		documents:    make(map[string]entity.Document, len(st.documents)),
		transactions: append([]entity.Transaction(nil), st.transactions...),
		sequences:    make(map[string]int, len(st.sequences)),
		auditLogs:    append([]entity.AuditLog(nil), st.auditLogs...),
	}
	for k, v := range st.locations {
		out.locations[k] = v
	}
	for k, v := range st.samples {
		out.samples[k] = v
	}
	for k, v := range st.documents {
		out.documents[k] = v
	}
	for k, v := range st.sequences {
		out.sequences[k] = v
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
