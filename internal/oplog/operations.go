// Package oplog records element-layer changes as self-invertible operations
// and keeps the linear undo/redo history. Consecutive changes of one gesture
// are coalesced through batches and per-kind merge rules.
package oplog

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/errs"
)

// Kind tags an operation.
type Kind string

const (
	KindAdd    Kind = "add"
	KindDelete Kind = "delete"
	KindLock   Kind = "lock"
	KindUnlock Kind = "unlock"
	KindMutate Kind = "mutate"
	KindOrder  Kind = "order"
	KindBatch  Kind = "batch"
)

// Operation is a tagged variant. Only the fields of its Kind are set:
//   - Add, Delete: ElementID, Element (snapshot) and Index (z-index)
//   - Lock, Unlock: ElementID
//   - Mutate: ElementID, Before, After
//   - Order: OrderBefore, OrderAfter
//   - Batch: Name, Entries
type Operation struct {
	Kind      Kind            `json:"kind"`
	ElementID string          `json:"elementId,omitempty"`
	Element   element.Element `json:"element,omitzero"`
	Index     int             `json:"index,omitempty"`

	Before element.Patch `json:"before,omitzero"`
	After  element.Patch `json:"after,omitzero"`

	OrderBefore []string `json:"orderBefore,omitempty"`
	OrderAfter  []string `json:"orderAfter,omitempty"`

	Name    string      `json:"name,omitempty"`
	Entries []Operation `json:"entries,omitempty"`
}

// Scene is the mutable target operations are applied to.
type Scene interface {
	Insert(el element.Element, index int)
	Delete(id string) (element.Element, int, error)
	Mutate(id string, patch element.Patch) (element.Patch, error)
	SetOrder(ids []string) error
}

func Add(el element.Element, index int) Operation {
	return Operation{Kind: KindAdd, ElementID: el.ID, Element: el.Clone(), Index: index}
}

func Delete(el element.Element, index int) Operation {
	return Operation{Kind: KindDelete, ElementID: el.ID, Element: el.Clone(), Index: index}
}

func Lock(id string) Operation {
	return Operation{Kind: KindLock, ElementID: id}
}

func Unlock(id string) Operation {
	return Operation{Kind: KindUnlock, ElementID: id}
}

func Mutate(id string, before, after element.Patch) Operation {
	return Operation{Kind: KindMutate, ElementID: id, Before: before, After: after}
}

func Order(before, after []string) Operation {
	return Operation{Kind: KindOrder, OrderBefore: slices.Clone(before), OrderAfter: slices.Clone(after)}
}

func Batch(name string) Operation {
	return Operation{Kind: KindBatch, Name: name}
}

// Perform applies op to s.
func Perform(op Operation, s Scene) error {
	switch op.Kind {
	case KindAdd:
		s.Insert(op.Element, op.Index)
		return nil
	case KindDelete:
		_, _, err := s.Delete(op.ElementID)
		return err
	case KindLock:
		return setLocked(s, op.ElementID, true)
	case KindUnlock:
		return setLocked(s, op.ElementID, false)
	case KindMutate:
		_, err := s.Mutate(op.ElementID, op.After)
		return err
	case KindOrder:
		return s.SetOrder(op.OrderAfter)
	case KindBatch:
		for _, entry := range op.Entries {
			if err := Perform(entry, s); err != nil {
				return fmt.Errorf("perform %s: %w", op.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("perform %q: %w", op.Kind, errs.ErrImpossibleState)
	}
}

// Revert undoes op on s. Revert(Perform(s)) restores s exactly.
func Revert(op Operation, s Scene) error {
	switch op.Kind {
	case KindAdd:
		_, _, err := s.Delete(op.ElementID)
		return err
	case KindDelete:
		s.Insert(op.Element, op.Index)
		return nil
	case KindLock:
		return setLocked(s, op.ElementID, false)
	case KindUnlock:
		return setLocked(s, op.ElementID, true)
	case KindMutate:
		_, err := s.Mutate(op.ElementID, op.Before)
		return err
	case KindOrder:
		return s.SetOrder(op.OrderBefore)
	case KindBatch:
		for i := len(op.Entries) - 1; i >= 0; i-- {
			if err := Revert(op.Entries[i], s); err != nil {
				return fmt.Errorf("revert %s: %w", op.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("revert %q: %w", op.Kind, errs.ErrImpossibleState)
	}
}

func setLocked(s Scene, id string, locked bool) error {
	_, err := s.Mutate(id, element.Patch{Locked: lo.ToPtr(locked)})
	return err
}

// Merge folds next into op and reports whether it did. When it returns
// false op is unchanged and next must be recorded separately.
func Merge(op *Operation, next Operation) bool {
	switch op.Kind {
	case KindMutate:
		if next.Kind != KindMutate || next.ElementID != op.ElementID {
			return false
		}
		op.After = op.After.Merge(next.After)
		op.Before = op.Before.FillMissing(next.Before)
		return true

	case KindAdd:
		if next.Kind != KindMutate || next.ElementID != op.ElementID {
			return false
		}
		el := op.Element.Clone()
		next.After.ApplyTo(&el)
		op.Element = el
		return true

	case KindOrder:
		if next.Kind != KindOrder {
			return false
		}
		op.OrderAfter = slices.Clone(next.OrderAfter)
		return true

	case KindBatch:
		if n := len(op.Entries); n > 0 && Merge(&op.Entries[n-1], next) {
			return true
		}
		op.Entries = append(op.Entries, next)
		return true

	default:
		// Lock, Unlock and Delete are binary state changes; each stays its
		// own undo step.
		return false
	}
}

// Normalize collapses a batch: nil when empty, its only entry when it has
// one, otherwise the batch itself. Non-batch operations pass through.
func Normalize(op Operation) *Operation {
	if op.Kind != KindBatch {
		return &op
	}
	switch len(op.Entries) {
	case 0:
		return nil
	case 1:
		return Normalize(op.Entries[0])
	default:
		return &op
	}
}
