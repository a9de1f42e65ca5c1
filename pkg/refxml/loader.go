package refxml

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

// Load reads an x86reference-style XML document and returns the flat,
// ordered entry list it describes (spec.md section 4.1). It does not call
// Catalog.Validate; callers decide when to run the invariant pass.
//
// A malformed entry does not abort the whole load: Load keeps parsing the
// rest of the document and returns every failure it hit, joined into one
// error, so a caller fixing a reference file sees all of its problems in
// one run instead of one per invocation.
func Load(r io.Reader) (*refmodel.Catalog, error) {
	root, err := parseDOM(r)
	if err != nil {
		return nil, fmt.Errorf("refxml: decode xml: %w", err)
	}

	var entries []*refmodel.Entry
	var errs []error
	for _, set := range root.Children {
		var prefix []byte
		switch set.Tag {
		case "one-byte":
			prefix = nil
		case "two-byte":
			prefix = []byte{0x0F}
		default:
			errs = append(errs, &FormatError{Kind: ErrUnknownOpcodeSet, Detail: "root child <" + set.Tag + ">"})
			continue
		}
		got, setErrs := parseOpcodeSet(set, prefix)
		entries = append(entries, got...)
		errs = append(errs, setErrs...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return refmodel.NewCatalog(entries), nil
}

func parseOpcodeSet(set *node, prefix []byte) ([]*refmodel.Entry, []error) {
	var entries []*refmodel.Entry
	var errs []error
	for _, po := range set.childrenTagged("pri_opcd") {
		val, ok := po.attr("value")
		if !ok {
			errs = append(errs, &FormatError{Kind: ErrUnknownOpcodeSet, Detail: "pri_opcd without value attribute"})
			continue
		}
		b, err := hexByte(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("refxml: pri_opcd value %q: %w", val, err))
			continue
		}
		bytes := make([]byte, 0, len(prefix)+1)
		bytes = append(bytes, prefix...)
		bytes = append(bytes, b)

		for _, en := range po.childrenTagged("entry") {
			e, err := parseEntry(en, bytes)
			if err != nil {
				errs = append(errs, fmt.Errorf("refxml: opcode %x: %w", bytes, err))
				continue
			}
			entries = append(entries, e)
		}
	}
	return entries, errs
}

func parseEntry(n *node, bytes []byte) (*refmodel.Entry, error) {
	e := refmodel.NewEntry()
	e.Bytes = bytes

	if pref := n.child("pref"); pref != nil {
		txt, err := pref.directText()
		if err != nil {
			return nil, err
		}
		b, err := hexByte(txt)
		if err != nil {
			return nil, fmt.Errorf("pref: %w", err)
		}
		e.HasPrefixByte, e.PrefixByte = true, b
	}

	if sec := n.child("sec_opcd"); sec != nil {
		txt, err := sec.directText()
		if err != nil {
			return nil, err
		}
		b, err := hexByte(txt)
		if err != nil {
			return nil, fmt.Errorf("sec_opcd: %w", err)
		}
		e.HasSecondaryByte, e.SecondaryByte = true, b
	}

	for tier, tag := range []string{"grp1", "grp2", "grp3"} {
		for _, g := range n.childrenTagged(tag) {
			txt, err := g.directText()
			if err != nil {
				return nil, err
			}
			group, err := refmodel.ParseGroup(txt, tier)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			}
			e.Groups = append(e.Groups, group)
		}
	}

	if ps := n.child("proc_start"); ps != nil {
		txt, err := ps.directText()
		if err != nil {
			return nil, err
		}
		code, err := refmodel.ParseProcessorCode(txt)
		if err != nil {
			return nil, fmt.Errorf("proc_start: %w", err)
		}
		e.HasProcessorStart, e.ProcessorStart = true, code
	}
	if pe := n.child("proc_end"); pe != nil {
		txt, err := pe.directText()
		if err != nil {
			return nil, err
		}
		code, err := refmodel.ParseProcessorCode(txt)
		if err != nil {
			return nil, fmt.Errorf("proc_end: %w", err)
		}
		e.HasProcessorEnd, e.ProcessorEnd = true, code
	}

	if ie := n.child("instr_ext"); ie != nil {
		txt, err := ie.directText()
		if err != nil {
			return nil, err
		}
		ext, err := refmodel.ParseExtension(txt)
		if err != nil {
			return nil, fmt.Errorf("instr_ext: %w", err)
		}
		e.InstructionExtension = ext
	}

	if alias, ok := n.attr("alias"); ok {
		ab, err := parseAliasBytes(alias)
		if err != nil {
			return nil, fmt.Errorf("alias: %w", err)
		}
		// spec.md section 9: the source never distinguishes a full alias
		// from a partial one — both fields are populated identically.
		e.AliasBytes = ab
		e.PartialAliasBytes = ab
	}

	if _, ok := n.attr("lock"); ok {
		e.IsValidWithLockPrefix = true
	}
	if _, ok := n.attr("is_undoc"); ok {
		e.IsUndocumented = true
	}
	if _, ok := n.attr("is_particular"); ok {
		e.IsParticular = true
	}
	if _, ok := n.attr("r"); ok {
		e.IsModRMRegister = true
	}
	if _, ok := n.attr("direction"); ok {
		e.BitFields.Add(refmodel.BitFieldDirection)
	}
	if _, ok := n.attr("sign-ext"); ok {
		e.BitFields.Add(refmodel.BitFieldSignExtend)
	}
	if _, ok := n.attr("op_size"); ok {
		e.BitFields.Add(refmodel.BitFieldOperandSize)
	}
	if _, ok := n.attr("tttn"); ok {
		e.BitFields.Add(refmodel.BitFieldCondition)
	}
	if _, ok := n.attr("mem_format"); ok {
		e.BitFields.Add(refmodel.BitFieldMemoryFormat)
	}

	if oe, ok := n.attr("opcd_ext"); ok {
		v, err := strconv.Atoi(oe)
		if err != nil {
			return nil, fmt.Errorf("opcd_ext attribute %q: %w", oe, err)
		}
		e.OpcodeExtension = int8(v)
	} else if child := n.child("opcd_ext"); child != nil {
		txt, err := child.directText()
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(txt)
		if err != nil {
			return nil, fmt.Errorf("opcd_ext element %q: %w", txt, err)
		}
		e.OpcodeExtension = int8(v)
	}

	if v, ok := n.attr("fpush"); ok {
		push, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("fpush: %w", err)
		}
		e.FPush = push
	}
	if v, ok := n.attr("fpop"); ok {
		pop, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("fpop: %w", err)
		}
		e.FPop = pop
	}

	if v, ok := n.attr("mod"); ok {
		mod, err := refmodel.ParseModConstraint(v)
		if err != nil {
			return nil, fmt.Errorf("mod: %w", err)
		}
		e.Mod = mod
	}
	if v, ok := n.attr("attr"); ok {
		attr, err := refmodel.ParseAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attr: %w", err)
		}
		e.Attr = attr
	}
	if v, ok := n.attr("ring"); ok {
		ring, err := refmodel.ParseRing(v)
		if err != nil {
			return nil, fmt.Errorf("ring: %w", err)
		}
		e.Ring = ring
	}
	if v, ok := n.attr("mode"); ok {
		mode, err := refmodel.ParseMode(v)
		if err != nil {
			return nil, fmt.Errorf("mode: %w", err)
		}
		e.Mode = mode
	}
	if v, ok := n.attr("documentation"); ok {
		doc, err := refmodel.ParseDocumentation(v)
		if err != nil {
			return nil, fmt.Errorf("documentation: %w", err)
		}
		e.Documentation = doc
	}

	if note := n.child("note"); note != nil {
		nt := &refmodel.Note{}
		if brief := note.child("brief"); brief != nil {
			txt, err := brief.directText()
			if err != nil {
				return nil, err
			}
			nt.Brief = txt
		}
		if det := note.child("det"); det != nil {
			txt, err := det.directText()
			if err != nil {
				return nil, err
			}
			nt.Detailed = txt
		}
		e.Note = nt
	}

	if err := applyFlagElement(n, "test_f", &e.Flags.Tested); err != nil {
		return nil, err
	}
	if err := applyFlagElement(n, "modif_f", &e.Flags.Modified); err != nil {
		return nil, err
	}
	if err := applyFlagElement(n, "def_f", &e.Flags.Defined); err != nil {
		return nil, err
	}
	if err := applyFlagElement(n, "undef_f", &e.Flags.Undefined); err != nil {
		return nil, err
	}
	if fv := n.child("f_vals"); fv != nil {
		txt, err := fv.directText()
		if err != nil {
			return nil, err
		}
		if err := applyFValsFlags(txt, &e.Flags); err != nil {
			return nil, fmt.Errorf("f_vals: %w", err)
		}
		e.ConditionallyModifiesFlags = txt != ""
	}

	if err := applyFpuFlagElement(n, "test_f_fpu", &e.FpuFlags.Tested); err != nil {
		return nil, err
	}
	if err := applyFpuFlagElement(n, "modif_f_fpu", &e.FpuFlags.Modified); err != nil {
		return nil, err
	}
	if err := applyFpuFlagElement(n, "def_f_fpu", &e.FpuFlags.Defined); err != nil {
		return nil, err
	}
	if err := applyFpuFlagElement(n, "undef_f_fpu", &e.FpuFlags.Undefined); err != nil {
		return nil, err
	}
	if fv := n.child("f_vals_fpu"); fv != nil {
		txt, err := fv.directText()
		if err != nil {
			return nil, err
		}
		if err := applyFValsFpuFlags(txt, &e.FpuFlags); err != nil {
			return nil, fmt.Errorf("f_vals_fpu: %w", err)
		}
	}

	for _, sn := range n.childrenTagged("syntax") {
		syn, err := parseSyntax(sn)
		if err != nil {
			return nil, fmt.Errorf("syntax: %w", err)
		}
		if err := syn.BindEntry(e); err != nil {
			return nil, fmt.Errorf("syntax %q: %w", syn.Mnemonic, err)
		}
		e.Syntaxes = append(e.Syntaxes, syn)
	}

	return e, nil
}

func parseSyntax(n *node) (*refmodel.Syntax, error) {
	mn := n.child("mnem")
	if mn == nil {
		return nil, ErrMissingMnemonic
	}
	mnemonic, err := mn.directText()
	if err != nil {
		return nil, err
	}
	if mnemonic == "" {
		return nil, ErrMissingMnemonic
	}

	syn := &refmodel.Syntax{Mnemonic: mnemonic}
	if v, ok := n.attr("mod"); ok {
		mod, err := refmodel.ParseModConstraint(v)
		if err != nil {
			return nil, fmt.Errorf("mod: %w", err)
		}
		syn.Mod = mod
	}

	for _, on := range n.childrenTagged("src") {
		op, err := parseOperand(on)
		if err != nil {
			return nil, fmt.Errorf("src: %w", err)
		}
		if err := op.BindSyntax(syn); err != nil {
			return nil, err
		}
		syn.SrcOperands = append(syn.SrcOperands, op)
	}
	for _, on := range n.childrenTagged("dst") {
		op, err := parseOperand(on)
		if err != nil {
			return nil, fmt.Errorf("dst: %w", err)
		}
		if err := op.BindSyntax(syn); err != nil {
			return nil, err
		}
		syn.DstOperands = append(syn.DstOperands, op)
	}
	return syn, nil
}

func parseOperand(n *node) (*refmodel.Operand, error) {
	op := &refmodel.Operand{}

	text, err := n.directText()
	if err != nil {
		return nil, err
	}
	op.Text = text

	if rn, ok := n.attr("registerNumber"); ok {
		num, err := refmodel.ParseRegisterNumber(rn)
		if err != nil {
			return nil, fmt.Errorf("registerNumber: %w", err)
		}
		op.HasRegisterNumber, op.RegisterNumber = true, num
	}
	if g, ok := n.attr("group"); ok {
		group, err := refmodel.ParseOperandGroup(g)
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		op.Group = group
	}
	if v, ok := n.attr("depend"); ok && v == "no" {
		op.NoDepend = true
	}
	if v, ok := n.attr("displayed"); ok && v == "no" {
		op.NoDisplayed = true
	}

	typeAttr, typeAttrOK := n.attr("type")
	typeChild := n.child("t")
	if typeAttrOK && typeChild != nil {
		return nil, ErrAmbiguousTypeAddress
	}
	switch {
	case typeAttrOK:
		t, err := refmodel.ParseType(typeAttr)
		if err != nil {
			return nil, fmt.Errorf("type: %w", err)
		}
		op.HasType, op.Type = true, t
	case typeChild != nil:
		txt, err := typeChild.directText()
		if err != nil {
			return nil, err
		}
		t, err := refmodel.ParseType(txt)
		if err != nil {
			return nil, fmt.Errorf("t: %w", err)
		}
		op.HasType, op.Type = true, t
	}

	addrAttr, addrAttrOK := n.attr("address")
	addrChild := n.child("a")
	if addrAttrOK && addrChild != nil {
		return nil, ErrAmbiguousTypeAddress
	}
	switch {
	case addrAttrOK:
		a, err := refmodel.ParseAddress(addrAttr)
		if err != nil {
			return nil, fmt.Errorf("address: %w", err)
		}
		op.HasAddress, op.Address = true, a
	case addrChild != nil:
		txt, err := addrChild.directText()
		if err != nil {
			return nil, err
		}
		a, err := refmodel.ParseAddress(txt)
		if err != nil {
			return nil, fmt.Errorf("a: %w", err)
		}
		op.HasAddress, op.Address = true, a
	}

	return op, nil
}

func hexByte(s string) (byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseAliasBytes(s string) ([]byte, error) {
	parts := strings.Split(s, "_")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		b, err := hexByte(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// applyFlagElement parses a test_f/modif_f/def_f/undef_f element's text as
// a run of flag letters (no case convention — spec.md section 4.1) into
// the given membership set.
func applyFlagElement(n *node, tag string, into *refmodel.Set[refmodel.Flag]) error {
	el := n.child(tag)
	if el == nil {
		return nil
	}
	txt, err := el.directText()
	if err != nil {
		return err
	}
	if into.Len() == 0 {
		*into = refmodel.NewSet[refmodel.Flag]()
	}
	for _, r := range txt {
		f, err := refmodel.ParseFlagLetter(r)
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		into.Add(f)
	}
	return nil
}

// applyFValsFlags parses f_vals text where letter case distinguishes a
// flag forced to 1 (uppercase) from one forced to 0 (lowercase).
func applyFValsFlags(txt string, fs *refmodel.FlagSet[refmodel.Flag]) error {
	for _, r := range txt {
		f, err := refmodel.ParseFlagLetter(r)
		if err != nil {
			return err
		}
		if r >= 'a' && r <= 'z' {
			fs.Unset.Add(f)
		} else {
			fs.Set.Add(f)
		}
	}
	return nil
}

func applyFpuFlagElement(n *node, tag string, into *refmodel.Set[refmodel.FpuFlag]) error {
	el := n.child(tag)
	if el == nil {
		return nil
	}
	txt, err := el.directText()
	if err != nil {
		return err
	}
	if into.Len() == 0 {
		*into = refmodel.NewSet[refmodel.FpuFlag]()
	}
	tokens, err := splitFpuTokens(txt)
	if err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	for _, tok := range tokens {
		f, err := parseFpuFlagToken(tok)
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		into.Add(f)
	}
	return nil
}

func applyFValsFpuFlags(txt string, fs *refmodel.FlagSet[refmodel.FpuFlag]) error {
	tokens, err := splitFpuTokens(txt)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		f, err := parseFpuFlagToken(tok)
		if err != nil {
			return err
		}
		if tok[0] >= 'a' && tok[0] <= 'z' {
			fs.Unset.Add(f)
		} else {
			fs.Set.Add(f)
		}
	}
	return nil
}

// splitFpuTokens splits a concatenated run like "C0C1C2C3" into its
// two-character tokens.
func splitFpuTokens(txt string) ([]string, error) {
	if len(txt)%2 != 0 {
		return nil, fmt.Errorf("odd-length FPU flag run %q", txt)
	}
	var out []string
	for i := 0; i < len(txt); i += 2 {
		out = append(out, txt[i:i+2])
	}
	return out, nil
}

func parseFpuFlagToken(tok string) (refmodel.FpuFlag, error) {
	return refmodel.ParseFpuFlag(strings.ToUpper(tok))
}
