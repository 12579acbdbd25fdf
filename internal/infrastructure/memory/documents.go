package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*DocumentRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// DocumentRepo documentos en memoria. Guarda y devuelve copias profundas.
type DocumentRepo struct{ c conn }

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.documents {
			if other.DocNo == doc.DocNo {
				return domain.ErrDuplicate
			}
		}
		if err := checkRefs(st, doc.ReturnFromDocID, doc.Lines); err != nil {
			return err
		}
		st.documents[doc.ID] = cloneDocument(*doc)
		return nil
	})
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	r.c.read(func(st *state) {
		if d, ok := st.documents[id]; ok {
			d = cloneDocument(d)
			out = &d
		}
	})
	return out, nil
}

func (r *DocumentRepo) GetByDocNo(_ context.Context, docNo string) (*entity.Document, error) {
	var out *entity.Document
	r.c.read(func(st *state) {
		for _, d := range st.documents {
			if d.DocNo == docNo {
				d = cloneDocument(d)
				out = &d
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate igual que GetByID; el lock lo da Run.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) List(_ context.Context, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, int, error) {
	var list []*entity.Document
	r.c.read(func(st *state) {
		for _, d := range st.documents {
			if filter.Type != "" && d.Type != filter.Type {
				continue
			}
			if filter.Status != "" && d.Status != filter.Status {
				continue
			}
			d = cloneDocument(d)
			list = append(list, &d)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].DocNo > list[j].DocNo
	})
	return page(list, limit, offset), len(list), nil
}

func (r *DocumentRepo) UpdateHeader(_ context.Context, doc *entity.Document) error {
	return r.c.write(func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkRefs(st, doc.ReturnFromDocID, nil); err != nil {
			return err
		}
		cur.Description = doc.Description
		cur.Dispose = nil
		if doc.Dispose != nil {
			info := *doc.Dispose
			cur.Dispose = &info
		}
		cur.ReturnFromDocID = doc.ReturnFromDocID
		cur.UpdatedAt = doc.UpdatedAt
		st.documents[doc.ID] = cur
		return nil
	})
}

func (r *DocumentRepo) ReplaceLines(_ context.Context, documentID string, lines []entity.DocumentLine) error {
	return r.c.write(func(st *state) error {
		cur, ok := st.documents[documentID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkRefs(st, "", lines); err != nil {
			return err
		}
		cur.Lines = append([]entity.DocumentLine(nil), lines...)
		st.documents[documentID] = cur
		return nil
	})
}

func (r *DocumentRepo) UpdateStatus(_ context.Context, doc *entity.Document) error {
	return r.c.write(func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = doc.Status
		cur.ApproverID = doc.ApproverID
		cur.ApprovedAt = nil
		if doc.ApprovedAt != nil {
			at := *doc.ApprovedAt
			cur.ApprovedAt = &at
		}
		cur.UpdatedAt = doc.UpdatedAt
		st.documents[doc.ID] = cur
		return nil
	})
}

// checkRefs equivalente a las foreign keys del esquema SQL.
func checkRefs(st *state, returnFromDocID string, lines []entity.DocumentLine) error {
	if returnFromDocID != "" {
		if _, ok := st.documents[returnFromDocID]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, l := range lines {
		if _, ok := st.samples[l.SampleID]; !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func cloneDocument(d entity.Document) entity.Document {
	d.Lines = append([]entity.DocumentLine(nil), d.Lines...)
	if d.Dispose != nil {
		info := *d.Dispose
		d.Dispose = &info
	}
	if d.ApprovedAt != nil {
		at := *d.ApprovedAt
		d.ApprovedAt = &at
	}
	return d
}

// SequenceRepo contadores de numeración por (prefijo, día).
type SequenceRepo struct{ c conn }

func (r *SequenceRepo) Next(_ context.Context, prefix, day string) (int, error) {
	var next int
	err := r.c.write(func(st *state) error {
		key := fmt.Sprintf("%s|%s", prefix, day)
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	return next, err
}
