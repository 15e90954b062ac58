package draft

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// Submission defaults for derived fields typed by hand.
const (
	DefaultEcoScore = 3.0
	DefaultWeightKg = 1.0
)

// Mode distinguishes adding a product from editing one.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// Session is an open product draft. A Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ref       *impact.Reference
	mode      Mode
	sellerID  string
	productID string
	form      Form
	auto      bool
	errs      FieldErrors
	closed    bool
}

// NewAddSession opens an empty draft for sellerID with automatic calculation on.
func NewAddSession(ref *impact.Reference, sellerID string) *Session {
	return &Session{
		ref:      referenceOrDefault(ref),
		mode:     ModeAdd,
		sellerID: sellerID,
		form:     EmptyForm(),
		auto:     true,
	}
}

// NewEditSession opens a draft pre-populated from p with automatic
// calculation off, so stored impact values are kept until the seller opts in.
func NewEditSession(ref *impact.Reference, p *catalog.Product) *Session {
	return &Session{
		ref:       referenceOrDefault(ref),
		mode:      ModeEdit,
		sellerID:  p.SellerID,
		productID: p.ID,
		form:      FormFromProduct(p),
	}
}

func referenceOrDefault(ref *impact.Reference) *impact.Reference {
	if ref == nil {
		return impact.Default()
	}
	return ref
}

// Mode reports whether the session adds or edits a product.
func (s *Session) Mode() Mode { return s.mode }

// Form returns a copy of the current form.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.clone()
}

// AutoCalculate reports whether derived fields are recomputed on change.
func (s *Session) AutoCalculate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// Errors returns the messages from the last validation, minus fields edited since.
func (s *Session) Errors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(FieldErrors, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Set assigns a scalar field.
func (s *Session) Set(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	dst, ok := s.form.field(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*dst = Text(value)
	delete(s.errs, field)
	s.changed()
	return nil
}

// SetDimension assigns one dimension.
func (s *Session) SetDimension(axis Axis, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	dst, ok := s.form.axis(axis)
	if !ok {
		return fmt.Errorf("%w: dimension %q", ErrUnknownField, axis)
	}
	*dst = Text(value)
	s.changed()
	return nil
}

// ToggleMaterial adds name if absent and removes every occurrence otherwise.
func (s *Session) ToggleMaterial(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if slices.Contains(s.form.Materials, name) {
		s.form.Materials = slices.DeleteFunc(s.form.Materials, func(m string) bool { return m == name })
	} else {
		s.form.Materials = append(s.form.Materials, name)
	}
	s.changed()
	return nil
}

// Load replaces the whole form.
func (s *Session) Load(f Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.form = f.clone()
	if s.form.Status == "" {
		s.form.Status = catalog.StatusActive
	}
	s.errs = nil
	s.changed()
	return nil
}

// SetAutoCalculate switches automatic calculation. Turning it on recalculates immediately.
func (s *Session) SetAutoCalculate(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.auto = on
	delete(s.errs, FieldWeight)
	if on {
		s.recalculate()
	}
	return nil
}

// Recalculate runs the estimator now, regardless of which fields are set,
// and writes the derived fields. It reports ErrClosed on a closed session.
func (s *Session) Recalculate() (impact.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return impact.Result{}, ErrClosed
	}
	return s.recalculate(), nil
}

// changed recomputes derived fields after an edit when automatic calculation
// is on and an estimator input is present.
func (s *Session) changed() {
	if s.auto && s.form.triggersCalculation() {
		s.recalculate()
	}
}

func (s *Session) recalculate() impact.Result {
	r := s.ref.Estimate(s.form.Raw().Draft())
	s.form.MaterialCO2 = oneDecimal(r.MaterialCO2)
	s.form.ShippingCO2 = oneDecimal(r.ShippingCO2)
	s.form.Footprint = oneDecimal(r.Footprint)
	s.form.EcoScore = oneDecimal(r.EcoScore)
	return r
}

func oneDecimal(v float64) Text {
	return Text(strconv.FormatFloat(v, 'f', 1, 64))
}

// Validate checks the form and records the result for Errors. It returns
// nil or a FieldErrors value.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.validate()
}

func (s *Session) validate() error {
	f := &s.form
	errs := FieldErrors{}

	if f.Name.trimmed() == "" {
		errs[FieldName] = MsgNameRequired
	}
	if f.Category.trimmed() == "" {
		errs[FieldCategory] = MsgCategoryRequired
	}
	if price, err := decimal.NewFromString(f.Price.trimmed()); err != nil || !price.IsPositive() {
		errs[FieldPrice] = MsgPriceInvalid
	}
	if stock, err := strconv.Atoi(f.StockQuantity.trimmed()); err != nil || stock < 0 {
		errs[FieldStockQuantity] = MsgStockInvalid
	}
	if f.Image.trimmed() == "" {
		errs[FieldImage] = MsgImageRequired
	}
	if f.Description.trimmed() == "" {
		errs[FieldDescription] = MsgDescriptionRequired
	}
	switch f.Status.trimmed() {
	case "", catalog.StatusActive, catalog.StatusInactive:
	default:
		errs[FieldStatus] = MsgStatusInvalid
	}
	if s.auto {
		switch {
		case f.Weight.trimmed() == "":
			errs[FieldWeight] = MsgWeightRequired
		case s.ref.Estimate(f.Raw().Draft()).Validate() != nil:
			errs[FieldWeight] = MsgImpactOutOfRange
		}
	}

	s.errs = errs
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Product converts the form into a catalog product without persisting it.
// Hand-typed derived fields that are empty or zero fall back to an eco score
// of 3.0 and zero emissions; with automatic calculation on they are replaced
// by a fresh estimate.
func (s *Session) Product() (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s.product()
}

func (s *Session) product() (*catalog.Product, error) {
	f := &s.form

	price, err := decimal.NewFromString(f.Price.trimmed())
	if err != nil {
		return nil, fmt.Errorf("parsing price: %w", err)
	}
	stock, err := strconv.Atoi(f.StockQuantity.trimmed())
	if err != nil {
		return nil, fmt.Errorf("parsing stock quantity: %w", err)
	}

	status := f.Status.trimmed()
	if status == "" {
		status = catalog.StatusActive
	}

	p := &catalog.Product{
		ID:            s.productID,
		SellerID:      s.sellerID,
		Name:          f.Name.trimmed(),
		Category:      string(f.Category),
		Price:         price,
		StockQuantity: stock,
		Image:         f.Image.trimmed(),
		Description:   f.Description.trimmed(),
		Status:        status,
		WeightKg:      orDefault(f.Weight, DefaultWeightKg),
		Dimensions: impact.Dimensions{
			Length: orDefault(f.Dimensions.Length, 0),
			Width:  orDefault(f.Dimensions.Width, 0),
			Height: orDefault(f.Dimensions.Height, 0),
		},
		Materials: append(catalog.Materials{}, f.Materials...),
		Result: impact.Result{
			MaterialCO2: orDefault(f.MaterialCO2, 0),
			ShippingCO2: orDefault(f.ShippingCO2, 0),
			Footprint:   orDefault(f.Footprint, 0),
			EcoScore:    orDefault(f.EcoScore, DefaultEcoScore),
		},
	}
	if p.WeightKg < 0 {
		p.WeightKg = DefaultWeightKg
	}

	if s.auto {
		p.Result = s.ref.Estimate(p.Draft())
	}
	return p, nil
}

// orDefault parses t. Empty, malformed and zero input yield def.
func orDefault(t Text, def float64) float64 {
	v := impact.ParseNumber(string(t))
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

// Submit validates the draft, applies the estimator when automatic
// calculation is on and persists the product: Create for an add session,
// Update for an edit session. A successful submit closes the session.
func (s *Session) Submit(ctx context.Context, store catalog.Store) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	p, err := s.product()
	if err != nil {
		return nil, err
	}

	switch s.mode {
	case ModeEdit:
		err = store.Update(ctx, p)
	default:
		err = store.Create(ctx, p)
	}
	if err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	s.closed = true
	return p, nil
}

// Cancel discards the draft. Further operations return ErrClosed.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.form = Form{}
	s.errs = nil
}

// Closed reports whether the session was submitted or cancelled.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
