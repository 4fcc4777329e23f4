// Package storetest provides an in-memory store.Gateway for tests.
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/store"
)

// Fake is an in-memory Gateway. Rows are held as column maps per
// collection; expansion joins in display fields by foreign key lookup.
// Errors can be forced per collection to exercise RemoteError paths.
type Fake struct {
	mu   sync.Mutex
	data map[string][]store.Row

	// FailOn forces an error for every call touching the collection.
	FailOn map[string]error
}

func New() *Fake {
	return &Fake{
		data:   make(map[string][]store.Row),
		FailOn: make(map[string]error),
	}
}

// Seed adds a row with the given id to a collection.
func (f *Fake) Seed(collection string, id uuid.UUID, row store.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := store.Row{"id": id}
	for k, v := range row {
		r[k] = v
	}
	f.data[collection] = append(f.data[collection], r)
}

// Rows returns a copy of all rows in a collection.
func (f *Fake) Rows(collection string) []store.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Row, len(f.data[collection]))
	copy(out, f.data[collection])
	return out
}

// Row returns the row with the given id, or nil.
func (f *Fake) Row(collection string, id uuid.UUID) store.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(collection, id)
}

func (f *Fake) find(collection string, id uuid.UUID) store.Row {
	for _, r := range f.data[collection] {
		if rid, ok := r["id"].(uuid.UUID); ok && rid == id {
			return r
		}
	}
	return nil
}

func (f *Fake) Select(ctx context.Context, collection string, dest interface{}, opts store.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return err
	}

	rows := f.query(collection, opts)
	return scanSlice(rows, dest)
}

func (f *Fake) Get(ctx context.Context, collection string, id uuid.UUID, dest interface{}, opts store.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return err
	}

	opts.Filters = append(opts.Filters, store.Eq("id", id))
	rows := f.query(collection, opts)
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return scanStruct(rows[0], dest)
}

func (f *Fake) Insert(ctx context.Context, collection string, row store.Row) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	r := store.Row{"id": id}
	for k, v := range row {
		r[k] = v
	}
	f.data[collection] = append(f.data[collection], r)
	return id, nil
}

func (f *Fake) Update(ctx context.Context, collection string, id uuid.UUID, patch store.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return err
	}

	r := f.find(collection, id)
	if r == nil {
		return nil
	}
	for k, v := range patch {
		r[k] = v
	}
	return nil
}

func (f *Fake) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return err
	}

	rows := f.data[collection]
	for i, r := range rows {
		if rid, ok := r["id"].(uuid.UUID); ok && rid == id {
			f.data[collection] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *Fake) Count(ctx context.Context, collection string, filters ...store.Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailOn[collection]; err != nil {
		return 0, err
	}
	return len(f.query(collection, store.Options{Filters: filters})), nil
}

func (f *Fake) query(collection string, opts store.Options) []store.Row {
	var out []store.Row
	for _, r := range f.data[collection] {
		if !matches(r, opts.Filters) {
			continue
		}
		row := store.Row{}
		for k, v := range r {
			row[k] = v
		}
		for _, exp := range opts.Expands {
			fk, ok := row[exp.LocalField].(uuid.UUID)
			if !ok {
				continue
			}
			if rel := f.find(exp.Collection, fk); rel != nil {
				for _, field := range exp.Fields {
					row[exp.Prefix+"_"+field] = rel[field]
				}
			}
		}
		out = append(out, row)
	}

	if opts.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a := fmt.Sprint(out[i][opts.OrderBy])
			b := fmt.Sprint(out[j][opts.OrderBy])
			if opts.Desc {
				return a > b
			}
			return a < b
		})
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func matches(row store.Row, filters []store.Filter) bool {
	for _, f := range filters {
		have := fmt.Sprint(row[f.Field])
		want := fmt.Sprint(f.Value)
		switch f.Op {
		case store.OpEq:
			if have != want {
				return false
			}
		case store.OpGte:
			if have < want {
				return false
			}
		case store.OpLte:
			if have > want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// scanSlice copies fake rows into *[]T or *[]*T, matching columns to db
// tags the way sqlx does.
func scanSlice(rows []store.Row, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice")
	}

	slice := v.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}

	out := reflect.MakeSlice(slice.Type(), 0, len(rows))
	for _, row := range rows {
		elem := reflect.New(elemType)
		if err := scanStruct(row, elem.Interface()); err != nil {
			return err
		}
		if isPtr {
			out = reflect.Append(out, elem)
		} else {
			out = reflect.Append(out, elem.Elem())
		}
	}
	slice.Set(out)
	return nil
}

func scanStruct(row store.Row, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to a struct")
	}
	fillStruct(row, v.Elem())
	return nil
}

func fillStruct(row store.Row, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			fillStruct(row, v.Field(i))
			continue
		}
		col := field.Tag.Get("db")
		if col == "" || col == "-" {
			continue
		}
		raw, ok := row[col]
		if !ok || raw == nil {
			continue
		}
		assign(v.Field(i), reflect.ValueOf(raw))
	}
}

func assign(dst, src reflect.Value) {
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case dst.Kind() == reflect.Ptr && src.Type().AssignableTo(dst.Type().Elem()):
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(src)
		dst.Set(p)
	case src.Kind() == reflect.Ptr && !src.IsNil() && src.Type().Elem().AssignableTo(dst.Type()):
		dst.Set(src.Elem())
	case src.Type().ConvertibleTo(dst.Type()):
		dst.Set(src.Convert(dst.Type()))
	}
}
