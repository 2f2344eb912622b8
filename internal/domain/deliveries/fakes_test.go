package deliveries_test

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
	"epistock/internal/core/id"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/deliveries"
	"epistock/internal/domain/fichas"
)

// memDeliveryRepo is an in-memory deliveries.Repository.
type memDeliveryRepo struct {
	deliveries map[id.ID]*deliveries.Delivery
	items      map[id.ID][]deliveries.DeliveryItem
}

func newMemDeliveryRepo() *memDeliveryRepo {
	return &memDeliveryRepo{
		deliveries: make(map[id.ID]*deliveries.Delivery),
		items:      make(map[id.ID][]deliveries.DeliveryItem),
	}
}

func (r *memDeliveryRepo) Create(ctx context.Context, d *deliveries.Delivery) error {
	copied := *d
	copied.Items = nil
	r.deliveries[d.ID] = &copied
	return nil
}

func (r *memDeliveryRepo) GetByID(ctx context.Context, deliveryID id.ID) (*deliveries.Delivery, error) {
	d, ok := r.deliveries[deliveryID]
	if !ok {
		return nil, apperror.NewNotFound("delivery", deliveryID)
	}
	copied := *d
	return &copied, nil
}

func (r *memDeliveryRepo) GetForUpdate(ctx context.Context, deliveryID id.ID) (*deliveries.Delivery, error) {
	return r.GetByID(ctx, deliveryID)
}

func (r *memDeliveryRepo) Update(ctx context.Context, d *deliveries.Delivery) error {
	if _, ok := r.deliveries[d.ID]; !ok {
		return apperror.NewNotFound("delivery", d.ID)
	}
	copied := *d
	copied.Items = nil
	r.deliveries[d.ID] = &copied
	return nil
}

func (r *memDeliveryRepo) GetItems(ctx context.Context, deliveryID id.ID) ([]deliveries.DeliveryItem, error) {
	items := r.items[deliveryID]
	out := make([]deliveries.DeliveryItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memDeliveryRepo) CreateItem(ctx context.Context, item *deliveries.DeliveryItem) error {
	r.items[item.DeliveryID] = append(r.items[item.DeliveryID], *item)
	return nil
}

func (r *memDeliveryRepo) UpdateItem(ctx context.Context, item *deliveries.DeliveryItem) error {
	items := r.items[item.DeliveryID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			return nil
		}
	}
	return apperror.NewNotFound("delivery item", item.ID)
}

func (r *memDeliveryRepo) ListByFicha(ctx context.Context, fichaID id.ID) ([]deliveries.Delivery, error) {
	var out []deliveries.Delivery
	for _, d := range r.deliveries {
		if d.FichaID == fichaID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) HasOverdueItems(ctx context.Context, fichaID id.ID, asOf time.Time) (bool, error) {
	for _, d := range r.deliveries {
		if d.FichaID != fichaID || d.Status == deliveries.StatusCancelada {
			continue
		}
		for _, item := range r.items[d.ID] {
			if item.Overdue(asOf) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *memDeliveryRepo) Snapshot() func() {
	ds := make(map[id.ID]*deliveries.Delivery, len(r.deliveries))
	for k, v := range r.deliveries {
		copied := *v
		ds[k] = &copied
	}
	items := make(map[id.ID][]deliveries.DeliveryItem, len(r.items))
	for k, v := range r.items {
		list := make([]deliveries.DeliveryItem, len(v))
		copy(list, v)
		items[k] = list
	}
	return func() {
		r.deliveries = ds
		r.items = items
	}
}

// memFichaRepo is an in-memory fichas.Repository.
type memFichaRepo struct {
	byID map[id.ID]*fichas.Ficha
}

func newMemFichaRepo() *memFichaRepo {
	return &memFichaRepo{byID: make(map[id.ID]*fichas.Ficha)}
}

func (r *memFichaRepo) add(active bool) id.ID {
	f := fichas.New(id.New())
	f.Active = active
	r.byID[f.ID] = f
	return f.ID
}

func (r *memFichaRepo) Create(ctx context.Context, f *fichas.Ficha) error {
	r.byID[f.ID] = f
	return nil
}

func (r *memFichaRepo) GetByID(ctx context.Context, fichaID id.ID) (*fichas.Ficha, error) {
	f, ok := r.byID[fichaID]
	if !ok {
		return nil, apperror.NewNotFound("ficha", fichaID)
	}
	return f, nil
}

func (r *memFichaRepo) GetActiveByColaborador(ctx context.Context, colaboradorID id.ID) (*fichas.Ficha, error) {
	for _, f := range r.byID {
		if f.ColaboradorID == colaboradorID && f.Active {
			return f, nil
		}
	}
	return nil, apperror.NewNotFound("ficha", colaboradorID)
}

func (r *memFichaRepo) Update(ctx context.Context, f *fichas.Ficha) error {
	r.byID[f.ID] = f
	return nil
}

func (r *memFichaRepo) List(ctx context.Context, includeInactive bool) ([]fichas.Ficha, error) {
	out := make([]fichas.Ficha, 0, len(r.byID))
	for _, f := range r.byID {
		if !includeInactive && !f.Active {
			continue
		}
		out = append(out, *f)
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
