package service

import (
	"fmt"

	"github.com/forgeo/crm-audit-server/internal/audit"
)

const (
	// DefaultListLimit is the number of runs listed when no limit is given
	DefaultListLimit = 20
	// MaxListLimit is the largest accepted list limit
	MaxListLimit = 100
)

// Option is a function that sets an option for ListOptions or DetailOptions
type Option[T ListOptions | DetailOptions] func(*T) error

// ListOptions is the options for run listings
type ListOptions struct {
	Limit int
}

// DetailOptions is the options for issue detail pages
type DetailOptions struct {
	Page  int
	Limit int
}

// WithListLimit sets the number of runs to return
func WithListLimit(limit int) Option[ListOptions] {
	return func(o *ListOptions) error {
		if limit < 1 || limit > MaxListLimit {
			return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidOption, MaxListLimit)
		}
		o.Limit = limit
		return nil
	}
}

// WithPage sets the 1-based page of issue details
func WithPage(page int) Option[DetailOptions] {
	return func(o *DetailOptions) error {
		if page < 1 {
			return fmt.Errorf("%w: page must be at least 1", ErrInvalidOption)
		}
		o.Page = page
		return nil
	}
}

// WithDetailLimit sets the page size of issue details. Values above the maximum are clamped.
func WithDetailLimit(limit int) Option[DetailOptions] {
	return func(o *DetailOptions) error {
		if limit < 1 {
			return fmt.Errorf("%w: limit must be at least 1", ErrInvalidOption)
		}
		o.Limit = limit
		return nil
	}
}

func applyOptions[T ListOptions | DetailOptions](opts []Option[T]) (*T, error) {
	o := new(T)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func listOptions(opts []Option[ListOptions]) (*ListOptions, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.Limit == 0 {
		o.Limit = DefaultListLimit
	}
	return o, nil
}

func detailOptions(opts []Option[DetailOptions]) (*DetailOptions, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	o.Page, o.Limit = audit.NormalizePaging(o.Page, o.Limit)
	return o, nil
}
