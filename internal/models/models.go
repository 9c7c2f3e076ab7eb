package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product qualities
const (
	QualityNew  = "new"
	QualityUsed = "used"
)

// Product represents a sellable catalog entry
type Product struct {
	ID          string          `db:"id" json:"id"`
	ShortName   string          `db:"short_name" json:"short_name"`
	LongName    string          `db:"long_name" json:"long_name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Images      pq.StringArray  `db:"images" json:"images"`
	Quality     string          `db:"quality" json:"quality"`
	Description string          `db:"description" json:"description"`
	Stock       bool            `db:"stock" json:"stock"`
	Overrides   *Overrides      `db:"overrides" json:"overrides,omitempty"`
}

// Overrides is the optional per-product variant catalog
type Overrides struct {
	Color   []ColorOverride   `json:"color"`
	Storage []StorageOverride `json:"storage"`
}

// ColorOverride is a purchasable color variant
type ColorOverride struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Readable string `json:"readable"`
}

// StorageOverride is a purchasable storage variant
type StorageOverride struct {
	Size      int              `json:"size"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	ColorComp []string         `json:"colorcomp,omitempty"`
}

// Value serializes overrides into a JSONB column
func (o *Overrides) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan deserializes overrides from a JSONB column
func (o *Overrides) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unexpected overrides column type %T", src)
	}
	return json.Unmarshal(b, o)
}

// ColorByName returns the color override with the given machine key
func (o *Overrides) ColorByName(name string) (*ColorOverride, bool) {
	for i := range o.Color {
		if o.Color[i].Name == name {
			return &o.Color[i], true
		}
	}
	return nil, false
}

// StorageBySize returns the storage override with the given size
func (o *Overrides) StorageBySize(size int) (*StorageOverride, bool) {
	for i := range o.Storage {
		if o.Storage[i].Size == size {
			return &o.Storage[i], true
		}
	}
	return nil, false
}

// Compatible reports whether the color key is allowed for this storage entry.
// An absent colorcomp list means every color is allowed.
func (s *StorageOverride) Compatible(color string) bool {
	if len(s.ColorComp) == 0 {
		return true
	}
	for _, c := range s.ColorComp {
		if c == color {
			return true
		}
	}
	return false
}

// LineItem is a priced, described unit of purchase sent to the payment
// provider. Derived during resolution, never persisted.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Images      []string        `json:"images,omitempty"`
	ColorKey    string          `json:"color_key,omitempty"`
	StorageSize int             `json:"storage_size,omitempty"`
}

// Total returns unit price times quantity
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

var (
	reColorName     = regexp.MustCompile(`^[a-z]+$`)
	reColorHex      = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	reColorReadable = regexp.MustCompile(`^[A-Za-z]+$`)
)

// ValidateProducts checks the catalog write invariants for a full replacement
// list. Enforced at admin-write time only; reads trust the stored data.
func ValidateProducts(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			return fmt.Errorf("product %d: empty id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %s: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.ShortName == "" || p.LongName == "" {
			return fmt.Errorf("product %s: missing name", p.ID)
		}
		if !p.Price.IsPositive() {
			return fmt.Errorf("product %s: price must be positive", p.ID)
		}
		if p.Quality != QualityNew && p.Quality != QualityUsed {
			return fmt.Errorf("product %s: quality must be %q or %q", p.ID, QualityNew, QualityUsed)
		}
		if p.Overrides != nil {
			if err := validateOverrides(p.Overrides); err != nil {
				return fmt.Errorf("product %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

func validateOverrides(o *Overrides) error {
	if len(o.Color) == 0 || len(o.Storage) == 0 {
		return fmt.Errorf("overrides need at least one color and one storage entry")
	}

	colors := make(map[string]struct{}, len(o.Color))
	for _, c := range o.Color {
		if !reColorName.MatchString(c.Name) {
			return fmt.Errorf("color name %q: lowercase letters only", c.Name)
		}
		if !reColorHex.MatchString(c.Color) {
			return fmt.Errorf("color %q: invalid hex code %q", c.Name, c.Color)
		}
		if !reColorReadable.MatchString(c.Readable) {
			return fmt.Errorf("color %q: readable name %q must be letters only", c.Name, c.Readable)
		}
		if _, dup := colors[c.Name]; dup {
			return fmt.Errorf("color %q: duplicate key", c.Name)
		}
		colors[c.Name] = struct{}{}
	}

	sizes := make(map[int]struct{}, len(o.Storage))
	for _, s := range o.Storage {
		if s.Size <= 0 {
			return fmt.Errorf("storage %q: size must be positive", s.Name)
		}
		if s.Name == "" {
			return fmt.Errorf("storage size %d: missing name", s.Size)
		}
		if s.Price != nil && !s.Price.IsPositive() {
			return fmt.Errorf("storage %q: override price must be positive", s.Name)
		}
		if _, dup := sizes[s.Size]; dup {
			return fmt.Errorf("storage %q: duplicate size %d", s.Name, s.Size)
		}
		sizes[s.Size] = struct{}{}
		for _, c := range s.ColorComp {
			if _, ok := colors[c]; !ok {
				return fmt.Errorf("storage %q: colorcomp references unknown color %q", s.Name, c)
			}
		}
	}
	return nil
}
