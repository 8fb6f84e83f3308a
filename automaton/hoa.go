package automaton

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var infPattern = regexp.MustCompile(`^\(*\s*Inf\(\s*(\d+)\s*\)\s*\)*$`)

// hoaReader accumulates a Record line by line.
type hoaReader struct {
	rec     Record
	line    int
	inBody  bool
	done    bool
	current *RecordState
	sawHOA  bool
	sawAP   bool
	apCount int
}

// ReadHOA reads the HOA v1 subset emitted by the LTL translator: one header
// item per line, explicit bracketed labels, and an acceptance condition that
// is "t" or a conjunction of Inf(i).
func ReadHOA(r io.Reader) (Record, error) {
	h := &hoaReader{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		h.line++
		text := strings.TrimSpace(stripComment(sc.Text()))
		if text == "" || h.done {
			continue
		}
		var err error
		if h.inBody {
			err = h.bodyLine(text)
		} else {
			err = h.headerLine(text)
		}
		if err != nil {
			return Record{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if !h.done {
		return Record{}, h.errf("missing --END--")
	}
	h.flush()

	return h.rec, nil
}

// stripComment drops /* ... */ comments confined to one line.
func stripComment(s string) string {
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			return s
		}
		j := strings.Index(s[i:], "*/")
		if j < 0 {
			return s[:i]
		}
		s = s[:i] + s[i+j+2:]
	}
}

func (h *hoaReader) errf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedRecord, h.line, fmt.Sprintf(format, args...))
}

func (h *hoaReader) headerLine(text string) error {
	if text == "--BODY--" {
		if !h.sawHOA {
			return h.errf("missing HOA: header")
		}
		if h.sawAP && len(h.rec.Header.Propositions) != h.apCount {
			return h.errf("AP declares %d propositions, lists %d", h.apCount, len(h.rec.Header.Propositions))
		}
		h.inBody = true

		return nil
	}
	key, rest, ok := strings.Cut(text, ":")
	if !ok {
		return h.errf("expected header item, got %q", text)
	}
	rest = strings.TrimSpace(rest)
	hd := &h.rec.Header

	switch key {
	case "HOA":
		if rest != "v1" {
			return fmt.Errorf("%w: line %d: version %q", ErrUnsupported, h.line, rest)
		}
		h.sawHOA = true
	case "name":
		names, err := h.quoted(rest)
		if err != nil {
			return err
		}
		hd.Name = strings.Join(names, " ")
	case "tool":
		tools, err := h.quoted(rest)
		if err != nil {
			return err
		}
		hd.Tool = strings.Join(tools, " ")
	case "Start":
		if strings.Contains(rest, "&") {
			return fmt.Errorf("%w: line %d: alternating start %q", ErrUnsupported, h.line, rest)
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return h.errf("start state %q", rest)
		}
		hd.Start = n
	case "AP":
		count, names, _ := strings.Cut(rest, " ")
		n, err := strconv.Atoi(count)
		if err != nil {
			return h.errf("AP count %q", count)
		}
		props, err := h.quoted(names)
		if err != nil {
			return err
		}
		h.sawAP, h.apCount = true, n
		hd.Propositions = props
	case "acc-name":
		hd.AccName = rest
	case "Acceptance":
		sets, err := h.acceptance(rest)
		if err != nil {
			return err
		}
		hd.AcceptanceSets = sets
	case "properties", "Properties":
		hd.Properties = append(hd.Properties, strings.Fields(rest)...)
	default:
		// States:, owlArgs:, controllable-AP: and other items carry nothing Build needs
	}

	return nil
}

// acceptance parses "n cond" where cond is t or Inf(i)&Inf(j)&...
func (h *hoaReader) acceptance(rest string) ([]int, error) {
	count, cond, _ := strings.Cut(rest, " ")
	n, err := strconv.Atoi(count)
	if err != nil {
		return nil, h.errf("acceptance count %q", count)
	}
	cond = strings.TrimSpace(cond)
	if cond == "t" || cond == "" {
		return nil, nil
	}
	if strings.ContainsAny(cond, "|!") || strings.Contains(cond, "Fin") {
		return nil, fmt.Errorf("%w: line %d: acceptance %q", ErrUnsupported, h.line, cond)
	}
	var sets []int
	for _, part := range strings.Split(cond, "&") {
		m := infPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, h.errf("acceptance term %q", part)
		}
		i, _ := strconv.Atoi(m[1])
		if i >= n {
			return nil, h.errf("acceptance set %d out of %d", i, n)
		}
		sets = append(sets, i)
	}

	return sortedSet(sets), nil
}

// quoted splits a run of double-quoted strings.
func (h *hoaReader) quoted(s string) ([]string, error) {
	var out []string
	s = strings.TrimSpace(s)
	for s != "" {
		if s[0] != '"' {
			return nil, h.errf("expected quoted string at %q", s)
		}
		end := 1
		for end < len(s) && s[end] != '"' {
			if s[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(s) {
			return nil, h.errf("unterminated string %q", s)
		}
		v, err := strconv.Unquote(s[:end+1])
		if err != nil {
			return nil, h.errf("bad string %q", s[:end+1])
		}
		out = append(out, v)
		s = strings.TrimSpace(s[end+1:])
	}

	return out, nil
}

func (h *hoaReader) flush() {
	if h.current != nil {
		h.rec.States = append(h.rec.States, *h.current)
		h.current = nil
	}
}

func (h *hoaReader) bodyLine(text string) error {
	switch {
	case text == "--END--":
		h.done = true
		return nil
	case text == "--ABORT--":
		return h.errf("translator aborted")
	case strings.HasPrefix(text, "State:"):
		h.flush()
		return h.stateLine(strings.TrimSpace(strings.TrimPrefix(text, "State:")))
	case strings.HasPrefix(text, "["):
		if h.current == nil {
			return h.errf("transition before first State:")
		}
		return h.edgeLine(text)
	}

	return fmt.Errorf("%w: line %d: implicit or unknown body item %q", ErrUnsupported, h.line, text)
}

// stateLine parses `id ["name"] [{sig}]`.
func (h *hoaReader) stateLine(rest string) error {
	if strings.HasPrefix(rest, "[") {
		return fmt.Errorf("%w: line %d: state labels", ErrUnsupported, h.line)
	}
	rest, sig, err := h.trailingSig(rest)
	if err != nil {
		return err
	}
	idText, _, _ := strings.Cut(rest, " ")
	id, err := strconv.Atoi(idText)
	if err != nil {
		return h.errf("state id %q", idText)
	}
	h.current = &RecordState{ID: id, Signature: sig}

	return nil
}

// edgeLine parses `[label] dest [{sig}]`.
func (h *hoaReader) edgeLine(text string) error {
	closing := strings.IndexByte(text, ']')
	if closing < 0 {
		return h.errf("unterminated label %q", text)
	}
	label := strings.TrimSpace(text[1:closing])
	rest, sig, err := h.trailingSig(strings.TrimSpace(text[closing+1:]))
	if err != nil {
		return err
	}
	dest, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return fmt.Errorf("%w: line %d: destination %q (conjunctive destinations are not supported)", ErrUnsupported, h.line, rest)
	}
	h.current.Transitions = append(h.current.Transitions, RecordTransition{
		Label:       label,
		Destination: dest,
		Signature:   sig,
	})

	return nil
}

// trailingSig splits off a trailing "{i j ...}" acceptance signature.
func (h *hoaReader) trailingSig(s string) (string, []int, error) {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return s, nil, nil
	}
	closing := strings.IndexByte(s, '}')
	if closing < open {
		return "", nil, h.errf("unterminated signature %q", s)
	}
	var sig []int
	for _, f := range strings.Fields(s[open+1 : closing]) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return "", nil, h.errf("signature member %q", f)
		}
		sig = append(sig, n)
	}

	return strings.TrimSpace(s[:open]), sig, nil
}
