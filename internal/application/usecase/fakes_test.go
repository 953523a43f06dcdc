package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/events"
	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOwner     = "00000000-0000-0000-0000-000000000001"
	testCommandID = "00000000-0000-0000-0000-00000000cafe"
)

func catKey(ownerID, categoryID string) string { return ownerID + "/" + categoryID }

// fakeCategoryRepo reproduce en memoria la semántica del repositorio real:
// fila vigente con guarda de versión y historial independiente.
type fakeCategoryRepo struct {
	current  map[string]*entity.Category
	versions map[string]*entity.Category

	// failVersion fuerza el fallo de la escritura de historial para
	// ejercitar el hueco entre las dos fases.
	failVersion bool

	// stealVersion se ejecuta entre el pre-chequeo y el upsert vigente,
	// simulando a un escritor concurrente que gana la carrera.
	stealVersion func()
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		current:  make(map[string]*entity.Category),
		versions: make(map[string]*entity.Category),
	}
}

func (r *fakeCategoryRepo) GetCurrent(_ context.Context, ownerID, categoryID string) (*entity.Category, error) {
	c, ok := r.current[catKey(ownerID, categoryID)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) UpsertCurrent(_ context.Context, cat *entity.Category) (bool, error) {
	if r.stealVersion != nil {
		steal := r.stealVersion
		r.stealVersion = nil
		steal()
	}
	key := catKey(cat.OwnerID, cat.CategoryID)
	if prev, ok := r.current[key]; ok && prev.Version >= cat.Version {
		return false, nil
	}
	cp := *cat
	cp.ModifiedAt = time.Now()
	r.current[key] = &cp
	return true, nil
}

func (r *fakeCategoryRepo) UpsertVersion(_ context.Context, cat *entity.Category) error {
	if r.failVersion {
		return fmt.Errorf("historial no disponible")
	}
	cp := *cat
	r.versions[fmt.Sprintf("%s/%s/%d", cat.OwnerID, cat.CategoryID, cat.Version)] = &cp
	return nil
}

func (r *fakeCategoryRepo) ListByOwner(_ context.Context, ownerID string, limit, skip int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.current {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return page(out, limit, skip), nil
}

// fakeGroupRepo almacén de grupos en memoria con la misma taxonomía de
// errores que el repositorio Postgres.
type fakeGroupRepo struct {
	rows map[string]*entity.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{rows: make(map[string]*entity.Group)}
}

func (r *fakeGroupRepo) GetByID(_ context.Context, ownerID, groupID string) (*entity.Group, error) {
	g, ok := r.rows[catKey(ownerID, groupID)]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGroupRepo) Upsert(_ context.Context, g *entity.Group) (*entity.Group, error) {
	key := catKey(g.OwnerID, g.GroupID)
	cp := *g
	now := time.Now()
	if prev, ok := r.rows[key]; ok {
		cp.CategoryID = prev.CategoryID
		cp.CreatedAt = prev.CreatedAt
		cp.Deleted = prev.Deleted
		cp.DeletedAt = prev.DeletedAt
	} else {
		cp.CreatedAt = now
	}
	cp.ModifiedAt = now
	r.rows[key] = &cp
	out := cp
	return &out, nil
}

func (r *fakeGroupRepo) SetDeleted(_ context.Context, ownerID, groupID string, deleted bool) (*entity.Group, error) {
	g, ok := r.rows[catKey(ownerID, groupID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if g.Deleted == deleted {
		return nil, domain.ErrAlreadyInState
	}
	now := time.Now()
	g.Deleted = deleted
	g.ModifiedAt = now
	if deleted {
		g.DeletedAt = &now
	} else {
		g.DeletedAt = nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGroupRepo) ListByOwner(_ context.Context, ownerID string, limit, skip int) ([]*entity.Group, error) {
	var out []*entity.Group
	for _, g := range r.rows {
		if g.OwnerID == ownerID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return page(out, limit, skip), nil
}

func (r *fakeGroupRepo) ResolveKeyIDs(_ context.Context, ownerID string, keyIDs []string) ([]string, error) {
	wanted := make(map[string]bool, len(keyIDs))
	for _, id := range keyIDs {
		wanted[id] = true
	}
	var out []string
	for _, g := range r.rows {
		if g.OwnerID != ownerID {
			continue
		}
		if wanted[g.Key.KeyID] || (g.Key.LegacyKeyRef != "" && wanted[g.Key.LegacyKeyRef]) {
			id, _ := g.Key.Active()
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeDocumentRepo almacén de documentos en memoria. Los listados devuelven
// los documentos en el orden en que fueron insertados, como el ORDER BY del
// repositorio real.
type fakeDocumentRepo struct {
	rows  map[string]*entity.Document
	order []string
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{rows: make(map[string]*entity.Document)}
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, ownerID, docID string) (*entity.Document, error) {
	d, ok := r.rows[catKey(ownerID, docID)]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Upsert(_ context.Context, d *entity.Document) (*entity.Document, error) {
	key := catKey(d.OwnerID, d.DocID)
	cp := *d
	now := time.Now()
	if prev, ok := r.rows[key]; ok {
		cp.GroupID = prev.GroupID
		cp.CreatedAt = prev.CreatedAt
		cp.Deleted = prev.Deleted
		cp.DeletedAt = prev.DeletedAt
	} else {
		cp.CreatedAt = now
		r.order = append(r.order, key)
	}
	cp.ModifiedAt = now
	r.rows[key] = &cp
	out := cp
	return &out, nil
}

func (r *fakeDocumentRepo) SetDeleted(_ context.Context, ownerID, docID string, deleted bool) (*entity.Document, error) {
	d, ok := r.rows[catKey(ownerID, docID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if d.Deleted == deleted {
		return nil, domain.ErrAlreadyInState
	}
	now := time.Now()
	d.Deleted = deleted
	d.ModifiedAt = now
	if deleted {
		d.DeletedAt = &now
	} else {
		d.DeletedAt = nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) ListByGroup(_ context.Context, ownerID, groupID string, since *time.Time, limit, skip int) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, key := range r.order {
		d := r.rows[key]
		if d.OwnerID != ownerID || d.GroupID != groupID {
			continue
		}
		if since != nil && !d.ModifiedAt.After(*since) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return page(out, limit, skip), nil
}

func page[T any](list []T, limit, skip int) []T {
	if skip >= len(list) {
		return nil
	}
	list = list[skip:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// fakeNotifier registra los eventos publicados.
type fakeNotifier struct {
	published []events.Event
	err       error
}

func (n *fakeNotifier) Publish(_ context.Context, ev events.Event) error {
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, ev)
	return nil
}

// fakeCustodian custodio programable: attachErr simula los tres fallos del
// protocolo, rekeyResult la respuesta de recifrado.
type fakeCustodian struct {
	attachErr    error
	attached     [][]byte
	correlations []string

	rekeyResult *keys.RekeyResult
	rekeyErr    error
	rekeyReqs   []keys.RekeyRequest
}

func (c *fakeCustodian) AttachKey(_ context.Context, signedKey []byte, correlationID string) error {
	if c.attachErr != nil {
		return c.attachErr
	}
	c.attached = append(c.attached, signedKey)
	c.correlations = append(c.correlations, correlationID)
	return nil
}

func (c *fakeCustodian) RequestRekey(_ context.Context, req keys.RekeyRequest) (*keys.RekeyResult, error) {
	c.rekeyReqs = append(c.rekeyReqs, req)
	if c.rekeyErr != nil {
		return nil, c.rekeyErr
	}
	return c.rekeyResult, nil
}

// recordSink colector de frames para los tests de streaming.
type recordSink struct {
	frames []dto.StreamFrame
	err    error
}

func (s *recordSink) Send(_ context.Context, frame dto.StreamFrame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}
