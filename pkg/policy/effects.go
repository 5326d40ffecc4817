package policy

import "sort"

// Effect is a semantic side-effect category assigned to a tool. Policies
// allow or deny effects rather than individual tool names.
type Effect string

const (
	// EffectFS covers filesystem reads and writes.
	EffectFS Effect = "FS"
	// EffectIO covers generic input/output such as logging.
	EffectIO Effect = "IO"
	// EffectNet covers network access.
	EffectNet Effect = "NET"
	// EffectProc covers process spawning.
	EffectProc Effect = "PROC"
	// EffectTime covers clock access.
	EffectTime Effect = "TIME"
	// EffectRand covers randomness.
	EffectRand Effect = "RAND"
	// EffectPure marks a tool as explicitly side-effect free.
	EffectPure Effect = "PURE"
)

// ValidEffects is the closed vocabulary of effect labels. Any label outside
// this set is rejected at policy load time and never retained by the tool
// gate.
var ValidEffects = map[Effect]bool{
	EffectFS:   true,
	EffectIO:   true,
	EffectNet:  true,
	EffectProc: true,
	EffectTime: true,
	EffectRand: true,
	EffectPure: true,
}

// EffectSet is a set of effect labels.
type EffectSet map[Effect]bool

// NewEffectSet builds a set from the given labels.
func NewEffectSet(effects ...Effect) EffectSet {
	set := make(EffectSet, len(effects))
	for _, e := range effects {
		set[e] = true
	}
	return set
}

// Contains reports whether the set contains the given effect.
func (s EffectSet) Contains(e Effect) bool {
	return s[e]
}

// Sorted returns the labels of the set in lexical order.
func (s EffectSet) Sorted() []Effect {
	effects := make([]Effect, 0, len(s))
	for e := range s {
		effects = append(effects, e)
	}
	sort.Slice(effects, func(i, j int) bool { return effects[i] < effects[j] })
	return effects
}

// AllEffects returns the full vocabulary in lexical order.
func AllEffects() []Effect {
	all := make([]Effect, 0, len(ValidEffects))
	for e := range ValidEffects {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}
