package impact

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the semver constraint reference documents must satisfy.
const SupportedSchema = "^1.0.0"

//go:embed reference.yaml
var embeddedReference []byte

// referenceDocument is the on-disk YAML layout of the reference tables.
type referenceDocument struct {
	SchemaVersion       string             `yaml:"schema_version"`
	DefaultCategory     string             `yaml:"default_category"`
	DefaultAveragePrice float64            `yaml:"default_average_price"`
	Categories          []CategoryFactor   `yaml:"categories"`
	Materials           []MaterialFactor   `yaml:"materials"`
	AveragePrices       map[string]float64 `yaml:"average_prices"`
}

// Reference holds the immutable lookup tables used by the estimator.
// A Reference is safe for concurrent use once constructed.
type Reference struct {
	schemaVersion       *semver.Version
	defaultCategory     string
	defaultAveragePrice float64

	categories    map[string]CategoryFactor
	materials     map[string]MaterialFactor
	averagePrices map[string]float64

	categoryOrder []string
	materialOrder []string
}

//nolint:gochecknoglobals // Embedded reference is parsed once and shared read-only.
var (
	defaultOnce sync.Once
	defaultRef  *Reference
	defaultErr  error
)

// Default returns the embedded reference tables.
// It panics if the embedded document is invalid, which is a build defect.
func Default() *Reference {
	defaultOnce.Do(func() {
		defaultRef, defaultErr = ParseReference(embeddedReference)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded reference.yaml: %v", defaultErr))
	}
	return defaultRef
}

// LoadReference reads and validates a reference document from path.
func LoadReference(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference file %s: %w", path, err)
	}
	ref, err := ParseReference(data)
	if err != nil {
		return nil, fmt.Errorf("loading reference file %s: %w", path, err)
	}
	return ref, nil
}

// LoadReferenceOrDefault loads path, or returns Default when path is empty.
func LoadReferenceOrDefault(path string) (*Reference, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadReference(path)
}

// ParseReference decodes and validates a YAML reference document.
func ParseReference(data []byte) (*Reference, error) {
	var doc referenceDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	return newReference(doc)
}

func newReference(doc referenceDocument) (*Reference, error) {
	version, err := checkSchemaVersion(doc.SchemaVersion)
	if err != nil {
		return nil, err
	}

	ref := &Reference{
		schemaVersion:       version,
		defaultCategory:     doc.DefaultCategory,
		defaultAveragePrice: doc.DefaultAveragePrice,
		categories:          make(map[string]CategoryFactor, len(doc.Categories)),
		materials:           make(map[string]MaterialFactor, len(doc.Materials)),
		averagePrices:       make(map[string]float64, len(doc.AveragePrices)),
	}

	var errs []error
	for _, c := range doc.Categories {
		if err := validateCategory(c); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := ref.categories[c.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate category %q", c.Name))
			continue
		}
		ref.categories[c.Name] = c
		ref.categoryOrder = append(ref.categoryOrder, c.Name)
	}

	for _, m := range doc.Materials {
		if err := validateMaterial(m); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := ref.materials[m.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate material %q", m.Name))
			continue
		}
		ref.materials[m.Name] = m
		ref.materialOrder = append(ref.materialOrder, m.Name)
	}

	for name, price := range doc.AveragePrices {
		if !finite(price) || price < 0 {
			errs = append(errs, fmt.Errorf("average price for %q must be a non-negative number", name))
			continue
		}
		ref.averagePrices[name] = price
	}

	if _, ok := ref.categories[doc.DefaultCategory]; !ok {
		errs = append(errs, fmt.Errorf("default category %q is not in the category table", doc.DefaultCategory))
	}
	if !positive(doc.DefaultAveragePrice) {
		errs = append(errs, errors.New("default_average_price must be positive"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReference, errors.Join(errs...))
	}
	return ref, nil
}

func checkSchemaVersion(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: schema_version is required", ErrInvalidReference)
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: schema_version %q: %w", ErrInvalidReference, raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return nil, err
	}
	if !constraint.Check(version) {
		return nil, fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleSchema, version, SupportedSchema)
	}
	return version, nil
}

func validateCategory(c CategoryFactor) error {
	switch {
	case c.Name == "":
		return errors.New("category with empty name")
	case !finite(c.BaseFootprint) || c.BaseFootprint < 0:
		return fmt.Errorf("category %q: base_footprint must be non-negative", c.Name)
	case !finite(c.Complexity) || c.Complexity < 0:
		return fmt.Errorf("category %q: complexity must be non-negative", c.Name)
	case !finite(c.TransportMultiplier) || c.TransportMultiplier < 0:
		return fmt.Errorf("category %q: transport_multiplier must be non-negative", c.Name)
	}
	return nil
}

func validateMaterial(m MaterialFactor) error {
	switch {
	case m.Name == "":
		return errors.New("material with empty name")
	case !finite(m.CO2Factor) || m.CO2Factor < 0:
		return fmt.Errorf("material %q: co2_factor must be non-negative", m.Name)
	case !finite(m.EcoBonus) || m.EcoBonus < 0 || m.EcoBonus > 1:
		return fmt.Errorf("material %q: eco_bonus must be within [0,1]", m.Name)
	}
	return nil
}

// SchemaVersion returns the schema version of the loaded document.
func (r *Reference) SchemaVersion() string {
	return r.schemaVersion.String()
}

// DefaultCategory returns the category used when a draft's category is unknown.
func (r *Reference) DefaultCategory() string {
	return r.defaultCategory
}

// Category looks up a category factor by exact name.
func (r *Reference) Category(name string) (CategoryFactor, bool) {
	c, ok := r.categories[name]
	return c, ok
}

// Material looks up a material factor by exact name.
func (r *Reference) Material(name string) (MaterialFactor, bool) {
	m, ok := r.materials[name]
	return m, ok
}

// AveragePrice returns the representative price for a category, or the
// document default when the category has none.
func (r *Reference) AveragePrice(category string) float64 {
	if p, ok := r.averagePrices[category]; ok {
		return p
	}
	return r.defaultAveragePrice
}

// Categories returns the category table in document order.
func (r *Reference) Categories() []CategoryFactor {
	out := make([]CategoryFactor, 0, len(r.categoryOrder))
	for _, name := range r.categoryOrder {
		out = append(out, r.categories[name])
	}
	return out
}

// Materials returns the material table in document order.
func (r *Reference) Materials() []MaterialFactor {
	out := make([]MaterialFactor, 0, len(r.materialOrder))
	for _, name := range r.materialOrder {
		out = append(out, r.materials[name])
	}
	return out
}

// resolveCategory returns the factor for name, falling back to the default category.
func (r *Reference) resolveCategory(name string) (CategoryFactor, bool) {
	if c, ok := r.categories[name]; ok {
		return c, false
	}
	return r.categories[r.defaultCategory], true
}
