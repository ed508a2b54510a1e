package mapping

import "fmt"

// Mapper applies a validated Spec to source rows. It holds no mutable state
// and is safe to reuse across files.
type Mapper struct {
	spec  *Spec
	slots map[string]int
}

// NewMapper validates spec and prepares the target column positions.
func NewMapper(spec *Spec) (*Mapper, error) {
	if spec == nil {
		return nil, fmt.Errorf("NewMapper: nil spec")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("NewMapper: %w", err)
	}

	slots := make(map[string]int, len(spec.Header))
	for i, name := range spec.Header {
		slots[name] = i
	}
	return &Mapper{spec: spec, slots: slots}, nil
}

// Header returns the target header.
func (m *Mapper) Header() []string {
	out := make([]string, len(m.spec.Header))
	copy(out, m.spec.Header)
	return out
}

// MissingColumns returns the referenced source columns a file header lacks.
func (m *Mapper) MissingColumns(header *Header) []string {
	return m.spec.MissingColumns(header)
}

// Map converts one source row. The first absent source column fails the row
// with a *MissingColumnError and no partial output.
func (m *Mapper) Map(row SourceRow) (TargetRow, error) {
	values := make([]string, len(m.spec.Header))

	for _, c := range m.spec.Columns {
		v, ok := row.Get(c.Source)
		if !ok {
			return TargetRow{}, &MissingColumnError{Column: c.Source}
		}
		values[m.slots[c.Target]] = v
	}

	if memo := m.spec.Memo; memo != nil {
		fields := make([]string, 0, 4)
		for _, src := range memo.sources() {
			v, ok := row.Get(src)
			if !ok {
				return TargetRow{}, &MissingColumnError{Column: src}
			}
			fields = append(fields, v)
		}
		values[m.slots[memo.Target]] = ComposeMemo(fields[0], fields[1], fields[2], fields[3])
	}

	return TargetRow{header: m.spec.Header, values: values}, nil
}

// ComposeMemo builds "reference: <ref>" and, when currency is non-empty,
// appends the original amount, currency and exchange rate.
func ComposeMemo(reference, paidAmount, paidCurrency, exchangeRate string) string {
	memo := "reference: " + reference
	if paidCurrency != "" {
		memo += fmt.Sprintf(", paid_amount: %s %s", paidAmount, paidCurrency)
		memo += fmt.Sprintf(", exchange_rate: %s", exchangeRate)
	}
	return memo
}
