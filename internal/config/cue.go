package config

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

// LoadCUE loads rule entries from a CUE document of the same shape as the
// YAML form. Labels containing "-" or "." must be quoted in CUE.
func LoadCUE(source string, data []byte) (*Result, []error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(source))
	if err := v.Err(); err != nil {
		return nil, []error{cueLoadError(err)}
	}

	result := &Result{Source: source}
	recipes := v.LookupPath(cue.ParsePath("recipes"))
	if !recipes.Exists() {
		return result, nil
	}

	iter, err := recipes.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeParse, Pos: cuePos(recipes.Pos()), Message: fmt.Sprintf("\"recipes\" must be a struct: %v", err)}}
	}

	var errs []error
	for iter.Next() {
		id := norm.NFC.String(label(iter.Selector()))
		entry, err := cueRule(id, iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Rules = append(result.Rules, entry)
	}
	return result, errs
}

func cueRule(id string, v cue.Value) (RuleEntry, error) {
	pos := cuePos(v.Pos())
	entry := RuleEntry{ID: id, Pos: pos}

	iter, err := v.Fields()
	if err != nil {
		return entry, ruleError(id, pos, "rule must be a struct")
	}

	hasDo := false
	for iter.Next() {
		key, value := label(iter.Selector()), iter.Value()
		keyPos := cuePos(value.Pos())

		switch key {
		case KeyWhen:
			block, err := cueBlock(value)
			if err != nil {
				return entry, ruleError(id, keyPos, "when: %v", err)
			}
			entry.When = block
		case KeyExpr:
			s, err := value.String()
			if err != nil {
				return entry, ruleError(id, keyPos, "expr must be a string")
			}
			entry.Expr = norm.NFC.String(s)
		case KeyIgnoreRemoved:
			b, err := value.Bool()
			if err != nil {
				return entry, ruleError(id, keyPos, "ignore-removed must be a boolean")
			}
			entry.IgnoreRemoved = b
		case KeyDo:
			block, err := cueBlock(value)
			if err != nil {
				return entry, ruleError(id, keyPos, "do: %v", err)
			}
			entry.Do = block
			hasDo = true
		default:
			return entry, ruleError(id, keyPos, "unknown key %q", key)
		}
	}
	if !hasDo {
		return entry, ruleError(id, pos, "rule requires a \"do\" block")
	}
	return entry, nil
}

func cueBlock(v cue.Value) (Block, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("%s: expected a struct", cuePos(v.Pos()))
	}
	block := Block{}
	for iter.Next() {
		value := iter.Value()
		entry := Entry{Key: norm.NFC.String(label(iter.Selector())), Pos: cuePos(value.Pos())}

		switch value.Kind() {
		case cue.StructKind:
			nested, err := cueBlock(value)
			if err != nil {
				return nil, err
			}
			entry.Nested = nested
		case cue.StringKind:
			s, _ := value.String()
			entry.Text = norm.NFC.String(s)
		case cue.IntKind:
			n, err := value.Int64()
			if err != nil {
				return nil, fmt.Errorf("%s: %v", entry.Pos, err)
			}
			entry.Text = strconv.FormatInt(n, 10)
		case cue.BoolKind:
			b, _ := value.Bool()
			entry.Text = strconv.FormatBool(b)
		case cue.NullKind:
			entry.Null = true
		default:
			return nil, fmt.Errorf("%s: value of %q must be a string, integer, boolean, null or struct", entry.Pos, entry.Key)
		}
		block = append(block, entry)
	}
	return block, nil
}

// label returns a selector's field name without CUE quoting.
func label(sel cue.Selector) string {
	return strings.Trim(sel.String(), `"`)
}

func cuePos(pos token.Pos) string {
	if !pos.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
}

// cueLoadError converts a CUE build error into a LoadError carrying the first
// error's position.
func cueLoadError(err error) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: err.Error()}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		le.Pos = cuePos(positions[0])
	}
	return le
}
