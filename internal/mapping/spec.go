package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Target columns of the YNAB CSV import format.
const (
	ColumnDate   = "Date"
	ColumnPayee  = "Payee"
	ColumnMemo   = "Memo"
	ColumnAmount = "Amount"
)

// Source columns of the Rabobank creditcard export.
const (
	SourceCounterParty = "Tegenrekening IBAN"
	SourceCurrency     = "Munt"
	SourceCardNumber   = "Creditcard Nummer"
	SourceProductName  = "Productnaam"
	SourceLineOne      = "Creditcard Regel1"
	SourceLineTwo      = "Creditcard Regel2"
	SourceReference    = "Transactiereferentie"
	SourceDate         = "Datum"
	SourceAmount       = "Bedrag"
	SourceDescription  = "Omschrijving"
	SourcePaidAmount   = "Oorspr bedrag"
	SourcePaidCurrency = "Oorspr munt"
	SourceExchangeRate = "Koers"
)

// SpecVersion is the only mapping file version understood.
const SpecVersion = "1"

// YNABHeader returns the fixed output header.
func YNABHeader() []string {
	return []string{ColumnDate, ColumnPayee, ColumnMemo, ColumnAmount}
}

// Column keeps one source column under a new name.
type Column struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// MemoSpec composes a target column from a reference plus an optional
// foreign-currency suffix. The suffix is added only when PaidCurrency holds a
// non-empty value, and then always in full.
type MemoSpec struct {
	Target       string `yaml:"target"`
	Reference    string `yaml:"reference"`
	PaidAmount   string `yaml:"paid_amount"`
	PaidCurrency string `yaml:"paid_currency"`
	ExchangeRate string `yaml:"exchange_rate"`
}

// sources lists the referenced columns in lookup order.
func (m *MemoSpec) sources() []string {
	return []string{m.Reference, m.PaidAmount, m.PaidCurrency, m.ExchangeRate}
}

// Spec is a declarative mapping from a source schema to the target header.
type Spec struct {
	Version string    `yaml:"version"`
	Header  []string  `yaml:"header"`
	Columns []Column  `yaml:"columns"`
	Memo    *MemoSpec `yaml:"memo,omitempty"`
}

// RabocardSpec maps the creditcard export and derives Memo from the
// transaction reference and the original amount, currency and rate.
func RabocardSpec() *Spec {
	return &Spec{
		Version: SpecVersion,
		Header:  YNABHeader(),
		Columns: []Column{
			{Source: SourceDate, Target: ColumnDate},
			{Source: SourceDescription, Target: ColumnPayee},
			{Source: SourceAmount, Target: ColumnAmount},
		},
		Memo: &MemoSpec{
			Target:       ColumnMemo,
			Reference:    SourceReference,
			PaidAmount:   SourcePaidAmount,
			PaidCurrency: SourcePaidCurrency,
			ExchangeRate: SourceExchangeRate,
		},
	}
}

// PlainSpec is the straight rename: the transaction reference becomes Memo.
func PlainSpec() *Spec {
	return &Spec{
		Version: SpecVersion,
		Header:  YNABHeader(),
		Columns: []Column{
			{Source: SourceDate, Target: ColumnDate},
			{Source: SourceDescription, Target: ColumnPayee},
			{Source: SourceReference, Target: ColumnMemo},
			{Source: SourceAmount, Target: ColumnAmount},
		},
	}
}

// Validate checks that every header column is produced exactly once.
func (s *Spec) Validate() error {
	var errs []error

	if s.Version != SpecVersion {
		errs = append(errs, fmt.Errorf("unsupported version %q", s.Version))
	}
	if len(s.Header) == 0 {
		errs = append(errs, errors.New("header is empty"))
	}

	inHeader := make(map[string]bool, len(s.Header))
	for _, name := range s.Header {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("header has an empty column name"))
			continue
		}
		if inHeader[name] {
			errs = append(errs, fmt.Errorf("header repeats column %q", name))
		}
		inHeader[name] = true
	}

	produced := make(map[string]bool, len(s.Header))
	claim := func(target string) {
		switch {
		case strings.TrimSpace(target) == "":
			errs = append(errs, errors.New("mapping has an empty target"))
		case !inHeader[target]:
			errs = append(errs, fmt.Errorf("target %q is not in the header", target))
		case produced[target]:
			errs = append(errs, fmt.Errorf("target %q is mapped more than once", target))
		}
		produced[target] = true
	}

	for i, c := range s.Columns {
		if strings.TrimSpace(c.Source) == "" {
			errs = append(errs, fmt.Errorf("column %d has an empty source", i))
		}
		claim(c.Target)
	}

	if s.Memo != nil {
		claim(s.Memo.Target)
		for _, src := range s.Memo.sources() {
			if strings.TrimSpace(src) == "" {
				errs = append(errs, fmt.Errorf("memo rule for %q names an empty source", s.Memo.Target))
				break
			}
		}
	}

	for _, name := range s.Header {
		if name != "" && !produced[name] {
			errs = append(errs, fmt.Errorf("header column %q has no source", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid mapping: %w", errors.Join(errs...))
	}
	return nil
}

// SourceColumns lists every source column the spec reads, in lookup order,
// without duplicates.
func (s *Spec) SourceColumns() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, c := range s.Columns {
		add(c.Source)
	}
	if s.Memo != nil {
		for _, src := range s.Memo.sources() {
			add(src)
		}
	}
	return out
}

// MissingColumns returns the referenced source columns the header lacks.
func (s *Spec) MissingColumns(header *Header) []string {
	var missing []string
	for _, name := range s.SourceColumns() {
		if !header.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
