package main

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/aperture/internal/event"
)

// pickerState backs the fuzzy filter picker modal. Candidates are the six
// event domains plus the traces seen so far; typing re-ranks them by edit
// distance. Selecting a domain toggles it, selecting a trace jumps the
// trace filter there.
type pickerState struct {
	traces []string
	query  string
	cursor int
}

func newPickerState(traces []string) pickerState {
	return pickerState{traces: traces}
}

type pickerCandidate struct {
	label   string
	domain  event.Domain
	trace   string
	isTrace bool
	score   int
}

func scoreLabel(query, label string) int {
	if query == "" {
		return 0
	}
	switch {
	case strings.HasPrefix(label, query):
		return 0
	case strings.Contains(label, query):
		return 1
	}
	return 2 + levenshtein.ComputeDistance(query, label)
}

// rankTargets orders all picker candidates for the given query. An empty
// query keeps domains in canonical order followed by traces in first-seen
// order. Otherwise prefix matches come first, then substring matches, then
// everything else by Levenshtein distance.
func rankTargets(query string, traces []string) []pickerCandidate {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]pickerCandidate, 0, len(event.Domains())+len(traces))
	for _, d := range event.Domains() {
		out = append(out, pickerCandidate{
			label:  string(d),
			domain: d,
			score:  scoreLabel(q, string(d)),
		})
	}
	for _, tr := range traces {
		out = append(out, pickerCandidate{
			label:   tr,
			trace:   tr,
			isTrace: true,
			score:   scoreLabel(q, strings.ToLower(tr)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score < out[j].score
	})
	return out
}

func (p *pickerState) candidates() []pickerCandidate {
	return rankTargets(p.query, p.traces)
}

func (p *pickerState) moveCursor(delta int) {
	n := len(event.Domains()) + len(p.traces)
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= n {
		p.cursor = n - 1
	}
}

func (p *pickerState) selected() (pickerCandidate, bool) {
	cands := p.candidates()
	if p.cursor < 0 || p.cursor >= len(cands) {
		return pickerCandidate{}, false
	}
	return cands[p.cursor], true
}

func (p *pickerState) backspace() {
	if p.query != "" {
		p.query = p.query[:len(p.query)-1]
		p.cursor = 0
	}
}

// typeRune appends printable single-rune input to the query. Bubbletea
// delivers named keys ("tab", "left") as multi-char strings, which we
// ignore here.
func (p *pickerState) typeRune(s string) {
	if len([]rune(s)) != 1 {
		return
	}
	r := []rune(s)[0]
	if r < ' ' || r > '~' {
		return
	}
	p.query += s
	p.cursor = 0
}
