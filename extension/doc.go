// Package extension builds the name to function table consulted when a
// WHERE clause calls a function, e.g. toDate('01/03/2011') or is_bob().
//
// Host code contributes functions through Sources. A function may declare
// one more parameter than the call site supplies; the current row is then
// passed as the trailing argument:
//
//	isBob := extension.Func1("is_bob", func(p *Person) bool {
//	    return p.Name == "Bob"
//	})
//
//	table, err := extension.NewTable(extension.Funcs{isBob}, extension.StandardDate)
//
// NewTable rejects duplicate names across sources and always provides a
// NOT(bool) fallback unless a source supplies its own.
package extension
