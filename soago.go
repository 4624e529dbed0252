package soago

import (
	"context"

	"github.com/hupe1980/soago/codec"
	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// Store bundles a field registry with a codec and logger so callers hold
// one explicit context object instead of threading the registry through
// every call. The registry is shared by reference; Bulk snapshots produced
// by the store remain copy-on-write values.
type Store struct {
	registry *schema.Registry
	codec    codec.Codec
	logger   *Logger
}

// New creates a Store with an empty registry.
func New(optFns ...Option) *Store {
	o := applyOptions(optFns)
	return &Store{
		registry: schema.NewRegistry(),
		codec:    o.codec,
		logger:   o.logger,
	}
}

// Registry returns the store's field registry.
func (s *Store) Registry() *schema.Registry { return s.registry }

// RegisterField registers a stored data field with its validator.
func (s *Store) RegisterField(ctx context.Context, name string, v schema.Validator) error {
	err := translateError(s.registry.Register(name, v))
	s.logger.LogRegister(ctx, name, false, err)
	return err
}

// RegisterDerivedField registers a derived field computed by rule from
// deps. Every dependency must already be registered.
func (s *Store) RegisterDerivedField(ctx context.Context, name string, v schema.Validator, deps []string, rule schema.Rule) error {
	err := translateError(s.registry.RegisterDerived(name, v, deps, rule))
	s.logger.LogRegister(ctx, name, true, err)
	return err
}

// Init creates an empty Bulk of count rows with sequential ids.
func (s *Store) Init(count int) (*Bulk, error) {
	return NewBulk(count)
}

// Set writes a full column of count scalars to field and returns the new
// snapshot. The input Bulk is unchanged.
func (s *Store) Set(ctx context.Context, b *Bulk, field string, values []value.Value) (*Bulk, error) {
	nb, err := b.Set(s.registry, field, values)
	s.logger.LogSet(ctx, field, len(values), err)
	return nb, err
}

// Get resolves field on b, computing and caching it when derived.
func (s *Store) Get(ctx context.Context, b *Bulk, field string) (value.Value, error) {
	v, err := b.Get(s.registry, field)
	s.logger.LogGet(ctx, field, err)
	return v, err
}

// Apply rewrites every data field of b through fn on the rows selected by
// mask and returns the new snapshot. Unlike Bulk.Apply, the store variant
// knows the registry and invalidates only the derived fields that depend
// on rewritten data.
func (s *Store) Apply(ctx context.Context, b *Bulk, mask []bool, fn ApplyFunc) (*Bulk, error) {
	nb, err := b.applyFields(s.registry, mask, fn)
	s.logger.LogApply(ctx, len(b.DataFields()), b.Count(), err)
	return nb, err
}

// PartitionBy splits b into one View per distinct value of field.
func (s *Store) PartitionBy(ctx context.Context, b *Bulk, field string) ([]*View, error) {
	views, err := b.PartitionBy(s.registry, field)
	s.logger.LogPartition(ctx, field, len(views), err)
	return views, err
}

// Marshal encodes b with the store's codec.
func (s *Store) Marshal(b *Bulk) ([]byte, error) {
	return MarshalBulk(s.codec, b)
}

// Unmarshal decodes a Bulk previously produced by Marshal.
func (s *Store) Unmarshal(data []byte) (*Bulk, error) {
	return UnmarshalBulk(s.codec, data)
}

// MarshalRecords encodes b in array-of-records form with the store's codec.
func (s *Store) MarshalRecords(b *Bulk) ([]byte, error) {
	return MarshalRecords(s.codec, b)
}

// UnmarshalRecords decodes array-of-records data against the store's
// registry.
func (s *Store) UnmarshalRecords(data []byte) (*Bulk, error) {
	return UnmarshalRecords(s.codec, data, s.registry)
}
