// Package inventory is the caller side of the product store: it validates
// raw form input, converts it to typed values, trims text fields and only
// then hands the product to the store.
package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/internal/logging"
	"github.com/mesh-intelligence/storekeeper/internal/validate"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Form holds the raw values a user typed for a product.
type Form struct {
	Name        string
	Quantity    string
	Price       string
	Description string
	ImageURI    *string
}

// FormFor fills a Form from a stored product, for editing.
func FormFor(p *types.Product) Form {
	return Form{
		Name:        p.Name,
		Quantity:    strconv.FormatInt(p.Quantity, 10),
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: types.StringValue(p.Description),
		ImageURI:    p.ImageURI,
	}
}

// ValidationError carries the field errors that blocked a save or import.
type ValidationError struct {
	Errors validate.Errors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		msgs = append(msgs, e.Errors[f])
	}
	return strings.Join(msgs, "; ")
}

// Service runs product operations against a store.
type Service struct {
	store types.ProductStore
	log   logrus.FieldLogger
}

// NewService returns a Service over store. A nil logger discards output.
func NewService(store types.ProductStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{store: store, log: log}
}

// Save validates f and, when it is clean, creates a product (id nil) or
// updates the product with the given id. On validation failure it returns
// the field errors and writes nothing. Saving to an id that does not exist
// returns types.ErrNotFound.
func (s *Service) Save(id *int64, f Form) (int64, validate.Errors, error) {
	if errs := validate.ValidateProduct(f.Name, f.Quantity, f.Price); validate.HasErrors(errs) {
		s.log.WithField("fields", errs.Fields()).Debug("product form rejected")
		return 0, errs, nil
	}

	in, err := toInput(f)
	if err != nil {
		return 0, nil, err
	}

	if id == nil {
		newID, err := s.store.Create(in)
		if err != nil {
			return 0, nil, fmt.Errorf("save product: %w", err)
		}
		return newID, nil, nil
	}

	n, err := s.store.Update(*id, in)
	if err != nil {
		return 0, nil, fmt.Errorf("save product %d: %w", *id, err)
	}
	if n == 0 {
		return 0, nil, fmt.Errorf("save product %d: %w", *id, types.ErrNotFound)
	}
	return *id, nil, nil
}

// toInput converts a validated form into store input. Name and description
// are trimmed; an empty description is stored as NULL.
func toInput(f Form) (types.ProductInput, error) {
	quantity, err := validate.ParseQuantity(f.Quantity)
	if err != nil {
		return types.ProductInput{}, err
	}
	price, err := validate.ParsePrice(f.Price)
	if err != nil {
		return types.ProductInput{}, err
	}
	return types.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Quantity:    quantity,
		Price:       price,
		Description: types.StringPtr(strings.TrimSpace(f.Description)),
		ImageURI:    f.ImageURI,
	}, nil
}

// List returns every product, newest first.
func (s *Service) List() ([]types.Product, error) {
	return s.store.ListAll()
}

// Get returns the product with the given id, or types.ErrNotFound.
func (s *Service) Get(id int64) (*types.Product, error) {
	p, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, types.ErrNotFound)
	}
	return p, nil
}

// Delete removes the product with the given id. It reports whether a row
// was removed; an unknown id is not an error.
func (s *Service) Delete(id int64) (bool, error) {
	n, err := s.store.Delete(id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Reset removes every product and returns how many were removed.
func (s *Service) Reset() (int64, error) {
	return s.store.DeleteAll()
}

// Export writes every product to path as JSONL.
func (s *Service) Export(path string) (int, error) {
	return s.store.Export(path)
}

// Import loads products from a JSONL file. Each record passes the same
// validation and trimming as Save; one invalid record aborts the import.
func (s *Service) Import(path string) (int, error) {
	return s.store.Import(path, func(in *types.ProductInput) error {
		if errs := validate.ValidateProduct(in.Name, in.Quantity, in.Price); validate.HasErrors(errs) {
			return &ValidationError{Errors: errs}
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Description != nil {
			in.Description = types.StringPtr(strings.TrimSpace(*in.Description))
		}
		return nil
	})
}
