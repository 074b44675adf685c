package catalog

import (
	"smashcost-backend/internal/models"
)

// Supply edits only touch the supply catalog. Products pick up new costs on
// the next computation since nothing derived is stored.

func (s State) AddSupply(item models.SupplyItem) State {
	s.Supplies = s.Supplies.Add(item)
	return s
}

func (s State) UpdateSupply(item models.SupplyItem) (State, error) {
	if _, ok := s.Supplies.Find(item.ID); !ok {
		return s, ErrSupplyNotFound
	}
	s.Supplies = s.Supplies.Update(item)
	return s, nil
}

// RemoveSupply drops the item. Ingredients linked to it keep the link and cost 0.
func (s State) RemoveSupply(id string) (State, error) {
	if _, ok := s.Supplies.Find(id); !ok {
		return s, ErrSupplyNotFound
	}
	s.Supplies = s.Supplies.Remove(id)
	return s, nil
}
