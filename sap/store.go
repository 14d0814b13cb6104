package sap

import "fmt"

// Entry is a document together with the scenario it belongs to.
type Entry[T any] struct {
	Scenario string
	Doc      T
}

// Store indexes scenarios by their document ids. It is immutable after
// construction and safe for concurrent use.
type Store struct {
	scenarios []Scenario
	byID      map[string]int

	purchaseOrders map[string]Entry[*PurchaseOrder]
	salesOrders    map[string]Entry[*SalesOrder]
	deliveries     map[string]Entry[*Delivery]
	invoices       map[string]Entry[*Invoice]
	credits        map[string]Entry[*ZBANKF]
}

// NewStore indexes scenarios. Duplicate scenario or document ids are an
// error.
func NewStore(scenarios []Scenario) (*Store, error) {
	s := &Store{
		scenarios:      scenarios,
		byID:           make(map[string]int, len(scenarios)),
		purchaseOrders: make(map[string]Entry[*PurchaseOrder]),
		salesOrders:    make(map[string]Entry[*SalesOrder]),
		deliveries:     make(map[string]Entry[*Delivery]),
		invoices:       make(map[string]Entry[*Invoice]),
		credits:        make(map[string]Entry[*ZBANKF]),
	}

	for i, sc := range scenarios {
		if _, dup := s.byID[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario %s", sc.ID)
		}
		s.byID[sc.ID] = i

		if sc.PurchaseOrder != nil {
			if err := index(s.purchaseOrders, sc.ID, sc.PurchaseOrder.Header.Number, sc.PurchaseOrder); err != nil {
				return nil, err
			}
		}
		if sc.SalesOrder != nil {
			if err := index(s.salesOrders, sc.ID, sc.SalesOrder.Header.Number, sc.SalesOrder); err != nil {
				return nil, err
			}
		}
		if sc.Delivery != nil {
			if err := index(s.deliveries, sc.ID, sc.Delivery.Header.Number, sc.Delivery); err != nil {
				return nil, err
			}
		}
		if sc.Invoice != nil {
			if err := index(s.invoices, sc.ID, sc.Invoice.Header.Number, sc.Invoice); err != nil {
				return nil, err
			}
		}
		if sc.DocumentaryCredit != nil {
			if err := index(s.credits, sc.ID, sc.DocumentaryCredit.Number, sc.DocumentaryCredit); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func index[T any](m map[string]Entry[T], scenario, id string, doc T) error {
	if prev, dup := m[id]; dup {
		return fmt.Errorf("document %s appears in scenarios %s and %s", id, prev.Scenario, scenario)
	}
	m[id] = Entry[T]{Scenario: scenario, Doc: doc}
	return nil
}

func lookup[T any](m map[string]Entry[T], kind, id string) (Entry[T], error) {
	e, ok := m[id]
	if !ok {
		return Entry[T]{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return e, nil
}

// Scenarios returns all scenarios in construction order.
func (s *Store) Scenarios() []Scenario {
	return s.scenarios
}

// Scenario returns the scenario with the given id.
func (s *Store) Scenario(id string) (Scenario, error) {
	i, ok := s.byID[id]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	return s.scenarios[i], nil
}

// PurchaseOrder returns the purchase order with the given EBELN.
func (s *Store) PurchaseOrder(id string) (Entry[*PurchaseOrder], error) {
	return lookup(s.purchaseOrders, "purchase order", id)
}

// SalesOrder returns the sales order with the given VBELN.
func (s *Store) SalesOrder(id string) (Entry[*SalesOrder], error) {
	return lookup(s.salesOrders, "sales order", id)
}

// Delivery returns the delivery with the given VBELN.
func (s *Store) Delivery(id string) (Entry[*Delivery], error) {
	return lookup(s.deliveries, "delivery", id)
}

// Invoice returns the invoice with the given VBELN.
func (s *Store) Invoice(id string) (Entry[*Invoice], error) {
	return lookup(s.invoices, "invoice", id)
}

// DocumentaryCredit returns the documentary credit with the given LCNUM.
func (s *Store) DocumentaryCredit(id string) (Entry[*ZBANKF], error) {
	return lookup(s.credits, "documentary credit", id)
}

// PurchaseOrders lists purchase orders in scenario order.
func (s *Store) PurchaseOrders() []Entry[*PurchaseOrder] {
	var out []Entry[*PurchaseOrder]
	for _, sc := range s.scenarios {
		if sc.PurchaseOrder != nil {
			out = append(out, Entry[*PurchaseOrder]{Scenario: sc.ID, Doc: sc.PurchaseOrder})
		}
	}
	return out
}

// SalesOrders lists sales orders in scenario order.
func (s *Store) SalesOrders() []Entry[*SalesOrder] {
	var out []Entry[*SalesOrder]
	for _, sc := range s.scenarios {
		if sc.SalesOrder != nil {
			out = append(out, Entry[*SalesOrder]{Scenario: sc.ID, Doc: sc.SalesOrder})
		}
	}
	return out
}

// Deliveries lists deliveries in scenario order.
func (s *Store) Deliveries() []Entry[*Delivery] {
	var out []Entry[*Delivery]
	for _, sc := range s.scenarios {
		if sc.Delivery != nil {
			out = append(out, Entry[*Delivery]{Scenario: sc.ID, Doc: sc.Delivery})
		}
	}
	return out
}

// Invoices lists invoices in scenario order.
func (s *Store) Invoices() []Entry[*Invoice] {
	var out []Entry[*Invoice]
	for _, sc := range s.scenarios {
		if sc.Invoice != nil {
			out = append(out, Entry[*Invoice]{Scenario: sc.ID, Doc: sc.Invoice})
		}
	}
	return out
}

// DocumentaryCredits lists documentary credits in scenario order.
func (s *Store) DocumentaryCredits() []Entry[*ZBANKF] {
	var out []Entry[*ZBANKF]
	for _, sc := range s.scenarios {
		if sc.DocumentaryCredit != nil {
			out = append(out, Entry[*ZBANKF]{Scenario: sc.ID, Doc: sc.DocumentaryCredit})
		}
	}
	return out
}
