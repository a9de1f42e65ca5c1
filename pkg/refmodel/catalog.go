package refmodel

import (
	"errors"
	"fmt"
)

// Catalog is the process-lifetime, read-only collection of Entry values
// produced by a loader. It is safe to share across goroutines once built:
// nothing in this package mutates a Catalog after Validate succeeds
// (spec.md section 3.4/section 5).
type Catalog struct {
	Entries []*Entry
}

// NewCatalog wraps a flat entry list produced by a loader.
func NewCatalog(entries []*Entry) *Catalog {
	return &Catalog{Entries: entries}
}

// Validate checks every structural invariant of spec.md section 3.3
// across the whole catalog and returns a joined error naming every
// violation found, rather than stopping at the first one — loading a
// reference file is a one-shot startup operation, so surfacing every
// defect in a single run saves a re-run per fix.
func (c *Catalog) Validate() error {
	var errs []error
	for i, e := range c.Entries {
		if len(e.Bytes) == 0 {
			errs = append(errs, fmt.Errorf("%w: entry %d has empty bytes", ErrInvariant, i))
		}
		if e.HasProcessorStart && e.HasProcessorEnd && e.ProcessorStart > e.ProcessorEnd {
			errs = append(errs, fmt.Errorf("%w: entry %d (%s) has processor_start > processor_end",
				ErrInvariant, i, entryLabel(e)))
		}
		if e.HasZOperand() && len(e.Bytes) > 0 {
			last := e.Bytes[len(e.Bytes)-1]
			if last&0x07 != 0 {
				errs = append(errs, fmt.Errorf("%w: entry %d (%s) has a Z operand but low 3 bits of last byte are set (0x%02X)",
					ErrInvariant, i, entryLabel(e), last))
			}
		}
		for j, syn := range e.Syntaxes {
			if syn.Entry != e {
				errs = append(errs, fmt.Errorf("%w: entry %d syntax %d has a mismatched Entry back-reference",
					ErrInvariant, i, j))
			}
			for k, op := range syn.Operands() {
				if op.Syntax != syn {
					errs = append(errs, fmt.Errorf("%w: entry %d syntax %d operand %d has a mismatched Syntax back-reference",
						ErrInvariant, i, j, k))
				}
				if op.HasRegisterNumber && op.RegisterNumber.IsZero() {
					errs = append(errs, fmt.Errorf("%w: entry %d syntax %d operand %d claims a register number but carries none",
						ErrInvariant, i, j, k))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func entryLabel(e *Entry) string {
	if syn := e.CanonicalSyntax(); syn != nil {
		return syn.Mnemonic
	}
	return "?"
}

// EntriesByGroup returns every entry carrying a group tag with the given
// name, at any tier.
func (c *Catalog) EntriesByGroup(name string) []*Entry {
	var out []*Entry
	for _, e := range c.Entries {
		for _, g := range e.Groups {
			if g.Name == name {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// EntriesByExtension returns every entry requiring the given instruction
// extension.
func (c *Catalog) EntriesByExtension(ext Extension) []*Entry {
	var out []*Entry
	for _, e := range c.Entries {
		if e.InstructionExtension == ext {
			out = append(out, e)
		}
	}
	return out
}

// FilterByExtensions returns a Catalog holding only the entries whose
// InstructionExtension is a member of enabled, plus every entry that
// requires no extension at all (ExtNone). A nil or empty enabled set is
// treated as "every extension allowed" and returns c unchanged, matching
// the manifest default of enabled_extensions being unset (spec.md
// section 2's config manifest, Default() in internal/config).
func (c *Catalog) FilterByExtensions(enabled Set[Extension]) *Catalog {
	if enabled.Len() == 0 {
		return c
	}
	out := make([]*Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.InstructionExtension == ExtNone || enabled.Contains(e.InstructionExtension) {
			out = append(out, e)
		}
	}
	return NewCatalog(out)
}

// GroupHistogram counts entries per group name, for summary reporting
// (used by cmd/x86ref's catalog command).
func (c *Catalog) GroupHistogram() map[string]int {
	hist := make(map[string]int)
	for _, e := range c.Entries {
		for _, g := range e.Groups {
			hist[g.Name]++
		}
	}
	return hist
}

// ExtensionHistogram counts entries per instruction extension.
func (c *Catalog) ExtensionHistogram() map[Extension]int {
	hist := make(map[Extension]int)
	for _, e := range c.Entries {
		hist[e.InstructionExtension]++
	}
	return hist
}
