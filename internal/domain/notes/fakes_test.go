package notes_test

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
	"epistock/internal/core/id"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/domain/notes"
)

// memNoteRepo is an in-memory notes.Repository.
type memNoteRepo struct {
	notes map[id.ID]*notes.Note
	items map[id.ID][]notes.NoteItem
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{
		notes: make(map[id.ID]*notes.Note),
		items: make(map[id.ID][]notes.NoteItem),
	}
}

func (r *memNoteRepo) Create(ctx context.Context, n *notes.Note) error {
	copied := *n
	copied.Items = nil
	r.notes[n.ID] = &copied
	return nil
}

func (r *memNoteRepo) GetByID(ctx context.Context, noteID id.ID) (*notes.Note, error) {
	n, ok := r.notes[noteID]
	if !ok {
		return nil, apperror.NewNotFound("note", noteID)
	}
	copied := *n
	return &copied, nil
}

func (r *memNoteRepo) GetForUpdate(ctx context.Context, noteID id.ID) (*notes.Note, error) {
	return r.GetByID(ctx, noteID)
}

func (r *memNoteRepo) Update(ctx context.Context, n *notes.Note) error {
	if _, ok := r.notes[n.ID]; !ok {
		return apperror.NewNotFound("note", n.ID)
	}
	copied := *n
	copied.Items = nil
	r.notes[n.ID] = &copied
	return nil
}

func (r *memNoteRepo) GetItems(ctx context.Context, noteID id.ID) ([]notes.NoteItem, error) {
	items := r.items[noteID]
	out := make([]notes.NoteItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memNoteRepo) CreateItem(ctx context.Context, item *notes.NoteItem) error {
	r.items[item.NoteID] = append(r.items[item.NoteID], *item)
	return nil
}

func (r *memNoteRepo) DeleteItem(ctx context.Context, noteID, itemID id.ID) error {
	items := r.items[noteID]
	for i := range items {
		if items[i].ID == itemID {
			r.items[noteID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("note item", itemID)
}

func (r *memNoteRepo) List(ctx context.Context, filter notes.ListFilter) ([]notes.Note, error) {
	out := make([]notes.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if filter.Type != nil && n.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *memNoteRepo) Snapshot() func() {
	ns := make(map[id.ID]*notes.Note, len(r.notes))
	for k, v := range r.notes {
		copied := *v
		ns[k] = &copied
	}
	items := make(map[id.ID][]notes.NoteItem, len(r.items))
	for k, v := range r.items {
		list := make([]notes.NoteItem, len(v))
		copy(list, v)
		items[k] = list
	}
	return func() {
		r.notes = ns
		r.items = items
	}
}

// memWarehouseRepo is an in-memory warehouse.Repository.
type memWarehouseRepo struct {
	byID map[id.ID]*warehouse.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{byID: make(map[id.ID]*warehouse.Warehouse)}
}

func (r *memWarehouseRepo) add(active bool) id.ID {
	w := &warehouse.Warehouse{
		Catalog: entity.NewCatalog(fmt.Sprintf("WH-%d", len(r.byID)+1), "warehouse"),
	}
	w.Active = active
	r.byID[w.ID] = w
	return w.ID
}

func (r *memWarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	r.byID[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	w, ok := r.byID[warehouseID]
	if !ok {
		return nil, apperror.NewNotFound("warehouse", warehouseID)
	}
	return w, nil
}

func (r *memWarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	for _, w := range r.byID {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

func (r *memWarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	r.byID[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) List(ctx context.Context, includeInactive bool) ([]warehouse.Warehouse, error) {
	out := make([]warehouse.Warehouse, 0, len(r.byID))
	for _, w := range r.byID {
		if !includeInactive && !w.Active {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

// memEquipmentRepo is an in-memory equipment.Repository.
type memEquipmentRepo struct {
	byID map[id.ID]*equipment.EquipmentType
}

func newMemEquipmentRepo() *memEquipmentRepo {
	return &memEquipmentRepo{byID: make(map[id.ID]*equipment.EquipmentType)}
}

func (r *memEquipmentRepo) add(usefulLifeDays int, active bool) id.ID {
	e := &equipment.EquipmentType{
		Catalog:        entity.NewCatalog(fmt.Sprintf("EPI-%d", len(r.byID)+1), "equipment"),
		UsefulLifeDays: usefulLifeDays,
	}
	e.Active = active
	r.byID[e.ID] = e
	return e.ID
}

func (r *memEquipmentRepo) Create(ctx context.Context, e *equipment.EquipmentType) error {
	r.byID[e.ID] = e
	return nil
}

func (r *memEquipmentRepo) GetByID(ctx context.Context, equipmentTypeID id.ID) (*equipment.EquipmentType, error) {
	e, ok := r.byID[equipmentTypeID]
	if !ok {
		return nil, apperror.NewNotFound("equipment type", equipmentTypeID)
	}
	return e, nil
}

func (r *memEquipmentRepo) GetByCode(ctx context.Context, code string) (*equipment.EquipmentType, error) {
	for _, e := range r.byID {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("equipment type", code)
}

func (r *memEquipmentRepo) Update(ctx context.Context, e *equipment.EquipmentType) error {
	r.byID[e.ID] = e
	return nil
}

func (r *memEquipmentRepo) List(ctx context.Context, includeInactive bool) ([]equipment.EquipmentType, error) {
	out := make([]equipment.EquipmentType, 0, len(r.byID))
	for _, e := range r.byID {
		if !includeInactive && !e.Active {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

// seqNumbers is a numerator.Generator counting locally.
type seqNumbers struct {
	next int
}

func (g *seqNumbers) GetNextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d-%05d", prefix, at.Year(), g.next), nil
}
