package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Muestras-api/internal/domain"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
)

var (
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.SampleRepository   = (*SampleRepo)(nil)
)

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ c conn }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.locations[l.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.locations {
			if other.Code == l.Code {
				return domain.ErrDuplicate
			}
		}
		if l.ParentID != "" {
			if _, ok := st.locations[l.ParentID]; !ok {
				return domain.ErrNotFound
			}
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	r.c.read(func(st *state) {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
	})
	return out, nil
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.c.write(func(st *state) error {
		cur, ok := st.locations[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if l.ParentID != "" {
			if _, ok := st.locations[l.ParentID]; !ok {
				return domain.ErrNotFound
			}
		}
		cur.Name = l.Name
		cur.ParentID = l.ParentID
		cur.Description = l.Description
		cur.UpdatedAt = l.UpdatedAt
		st.locations[l.ID] = cur
		return nil
	})
}

// Delete equivale a las FK de samples.location_id y locations.parent_id.
func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return domain.ErrNotFound
		}
		for _, l := range st.locations {
			if l.ParentID == id {
				return domain.ErrInUse
			}
		}
		for _, s := range st.samples {
			if s.LocationID == id {
				return domain.ErrInUse
			}
		}
		delete(st.locations, id)
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var list []*entity.Location
	r.c.read(func(st *state) {
		for _, l := range st.locations {
			l := l
			list = append(list, &l)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

// SampleRepo maestro de muestras en memoria.
type SampleRepo struct{ c conn }

func (r *SampleRepo) Create(_ context.Context, s *entity.Sample) error {
	return r.c.write(func(st *state) error {
		if _, ok := st.samples[s.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.samples {
			if other.SampleCode == s.SampleCode {
				return domain.ErrDuplicate
			}
		}
		if s.LocationID != "" {
			if _, ok := st.locations[s.LocationID]; !ok {
				return domain.ErrNotFound
			}
		}
		st.samples[s.ID] = *s
		return nil
	})
}

func (r *SampleRepo) Update(_ context.Context, s *entity.Sample) error {
	return r.c.write(func(st *state) error {
		cur, ok := st.samples[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if s.LocationID != "" {
			if _, ok := st.locations[s.LocationID]; !ok {
				return domain.ErrNotFound
			}
		}
		next := *s
		next.SampleCode = cur.SampleCode
		next.CreatedAt = cur.CreatedAt
		st.samples[s.ID] = next
		return nil
	})
}

func (r *SampleRepo) GetByID(_ context.Context, id string) (*entity.Sample, error) {
	var out *entity.Sample
	r.c.read(func(st *state) {
		if s, ok := st.samples[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *SampleRepo) GetByCode(_ context.Context, sampleCode string) (*entity.Sample, error) {
	var out *entity.Sample
	r.c.read(func(st *state) {
		for _, s := range st.samples {
			if s.SampleCode == sampleCode {
				s := s
				out = &s
				return
			}
		}
	})
	return out, nil
}

func (r *SampleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sample, int, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return page(all, limit, offset), len(all), nil
}

func (r *SampleRepo) ListAll(_ context.Context) ([]*entity.Sample, error) {
	var list []*entity.Sample
	r.c.read(func(st *state) {
		for _, s := range st.samples {
			s := s
			list = append(list, &s)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SampleCode < list[j].SampleCode })
	return list, nil
}

// LockForUpdate solo comprueba existencia: el lock global de Run ya serializa las transacciones.
func (r *SampleRepo) LockForUpdate(_ context.Context, ids []string) error {
	var err error
	r.c.read(func(st *state) {
		for _, id := range ids {
			if _, ok := st.samples[id]; !ok {
				err = domain.ErrNotFound
				return
			}
		}
	})
	return err
}
