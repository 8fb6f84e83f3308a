package bridge

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/go-corset/pkg/util/source"
	"github.com/consensys/go-corset/pkg/util/source/sexp"
)

var errValue = errors.New("unsupported value")

// ParseOutput reads solver output: the last verdict token wins, define-fun
// forms (possibly spanning lines, possibly wrapped in a model list) and
// "name = value" assignments populate the model. Output without a verdict
// fails with ErrSolverFailed, as does an SMT-LIB (error ...) form or a
// malformed model value unless it follows an unsat or unknown verdict. An
// assignment whose value is a bare non-numeric token is not a model entry.
// The model is nil unless the verdict is Sat.
func ParseOutput(r io.Reader) (Verdict, Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Unknown, nil, fmt.Errorf("%w: %w", ErrSolverFailed, err)
	}
	text, restore := maskStrings(string(raw))
	forms, _, serr := sexp.ParseAll(source.NewSourceFile("solver output", []byte(text)))
	if serr != nil {
		return Unknown, nil, fmt.Errorf("%w: %s", ErrSolverFailed, serr.Message())
	}

	var (
		verdict Verdict
		found   bool
	)
	model := make(Model)
	// get-model after unsat or unknown answers with an error form
	tolerated := func() bool { return found && verdict != Sat }
	for i := 0; i < len(forms); i++ {
		// 1. Lists: define-fun and error forms
		if l := forms[i].AsList(); l != nil {
			if err = collect(l, model, restore); err != nil && !tolerated() {
				return Unknown, nil, fmt.Errorf("%w: %w", ErrSolverFailed, err)
			}
			continue
		}
		sym := forms[i].AsSymbol()
		if sym == nil {
			continue
		}

		// 2. Verdict
		if v, ok := ParseVerdict(sym.Value); ok {
			verdict, found = v, true
			continue
		}

		// 3. name = value
		name, value, n := assignment(forms, i)
		if n == 0 || !isIdent(name) {
			continue
		}
		i += n - 1
		x, err := eval(value, restore)
		switch {
		case err == nil:
			model[name] = x
		case value.AsList() != nil && !tolerated():
			return Unknown, nil, fmt.Errorf("%w: %s: %w", ErrSolverFailed, name, err)
		}
	}
	if !found {
		return Unknown, nil, fmt.Errorf("%w: no verdict in output", ErrSolverFailed)
	}
	if verdict != Sat {
		return verdict, nil, nil
	}

	return verdict, model, nil
}

// maskStrings swaps SMT-LIB string literals for placeholder symbols so their
// contents never reach the s-expression reader. The replacer puts them back
// when a form is rendered into a message.
func maskStrings(text string) (string, *strings.Replacer) {
	var (
		b     strings.Builder
		pairs []string
	)
	for i := 0; i < len(text); {
		if text[i] != '"' {
			b.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) {
			if text[j] == '"' {
				if j+1 < len(text) && text[j+1] == '"' {
					j += 2
					continue
				}
				break
			}
			j++
		}
		end := min(j+1, len(text))
		ph := fmt.Sprintf("$str%d$", len(pairs)/2)
		pairs = append(pairs, ph, text[i:end])
		b.WriteString(ph)
		i = end
	}

	return b.String(), strings.NewReplacer(pairs...)
}

// assignment matches "name = value" spread over one to three forms
// (x=1, x= 1, x =1, x = 1) and reports how many forms it consumed.
func assignment(forms []sexp.SExp, i int) (string, sexp.SExp, int) {
	name, rest, ok := strings.Cut(forms[i].AsSymbol().Value, "=")
	switch {
	case ok && rest != "":
		return name, sexp.NewSymbol(rest), 1
	case ok && i+1 < len(forms):
		return name, forms[i+1], 2
	case ok || i+1 >= len(forms):
		return "", nil, 0
	}
	next := forms[i+1].AsSymbol()
	switch {
	case next == nil || !strings.HasPrefix(next.Value, "="):
		return "", nil, 0
	case next.Value != "=":
		return name, sexp.NewSymbol(next.Value[1:]), 2
	case i+2 < len(forms):
		return name, forms[i+2], 3
	}

	return "", nil, 0
}

func render(f sexp.SExp, restore *strings.Replacer) string {
	return restore.Replace(f.String(false))
}

func head(l *sexp.List) string {
	if len(l.Elements) == 0 {
		return ""
	}
	if sym := l.Elements[0].AsSymbol(); sym != nil {
		return sym.Value
	}

	return ""
}

// collect walks l for define-fun forms.
func collect(l *sexp.List, model Model, restore *strings.Replacer) error {
	switch head(l) {
	case "define-fun":
		// (define-fun name () Sort value)
		if len(l.Elements) != 5 || l.Elements[1].AsSymbol() == nil {
			return fmt.Errorf("malformed %s", render(l, restore))
		}
		name := l.Elements[1].AsSymbol().Value
		x, err := eval(l.Elements[4], restore)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		model[name] = x

		return nil
	case "error":
		return fmt.Errorf("solver reported %s", render(l, restore))
	}
	for _, c := range l.Elements {
		if sub := c.AsList(); sub != nil {
			if err := collect(sub, model, restore); err != nil {
				return err
			}
		}
	}

	return nil
}

// eval computes a rational from a numeral, a decimal, a fraction or an
// arithmetic form over them.
func eval(f sexp.SExp, restore *strings.Replacer) (*big.Rat, error) {
	if sym := f.AsSymbol(); sym != nil {
		x, ok := new(big.Rat).SetString(sym.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errValue, restore.Replace(sym.Value))
		}

		return x, nil
	}
	l := f.AsList()
	if l == nil || len(l.Elements) < 2 {
		return nil, fmt.Errorf("%w: %s", errValue, render(f, restore))
	}
	args := make([]*big.Rat, 0, len(l.Elements)-1)
	for _, c := range l.Elements[1:] {
		x, err := eval(c, restore)
		if err != nil {
			return nil, err
		}
		args = append(args, x)
	}
	acc := new(big.Rat).Set(args[0])
	switch head(l) {
	case "to_real":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s", errValue, render(f, restore))
		}
	case "-":
		if len(args) == 1 {
			return acc.Neg(acc), nil
		}
		for _, x := range args[1:] {
			acc.Sub(acc, x)
		}
	case "+":
		for _, x := range args[1:] {
			acc.Add(acc, x)
		}
	case "*":
		for _, x := range args[1:] {
			acc.Mul(acc, x)
		}
	case "/":
		for _, x := range args[1:] {
			if x.Sign() == 0 {
				return nil, fmt.Errorf("%w: division by zero in %s", errValue, render(f, restore))
			}
			acc.Quo(acc, x)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errValue, render(f, restore))
	}

	return acc, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
