// Package advice evaluates ordered (predicate, message) tables. Coaching text
// in the analytics and risk packages is expressed as tables of Rules so that
// the order of evaluation is explicit and each row can be tested on its own.
package advice

// Rule pairs a predicate over some input with the message it produces.
type Rule[T any] struct {
	Code    string
	When    func(T) bool
	Message func(T) string
}

// Table is an ordered list of rules.
type Table[T any] []Rule[T]

// First returns the message of the first rule whose predicate holds.
// ok is false when no rule matches.
func (t Table[T]) First(in T) (msg string, ok bool) {
	for _, r := range t {
		if r.When == nil || r.When(in) {
			return r.Message(in), true
		}
	}
	return "", false
}

// All returns the messages of every rule whose predicate holds, in table order.
// The result is never nil.
func (t Table[T]) All(in T) []string {
	out := []string{}
	for _, r := range t {
		if r.When == nil || r.When(in) {
			out = append(out, r.Message(in))
		}
	}
	return out
}

// Codes returns the codes of every matching rule, in table order.
func (t Table[T]) Codes(in T) []string {
	out := []string{}
	for _, r := range t {
		if r.When == nil || r.When(in) {
			out = append(out, r.Code)
		}
	}
	return out
}

// Otherwise is a catch-all predicate, useful as the final row of a table.
func Otherwise[T any](T) bool { return true }
