package symint

import "fmt"

// Source mints fresh symbols with a shared prefix and a monotonic counter:
// coord0, coord1, coord2, ... Two sources never hand out the same name as
// long as their prefixes differ.
type Source struct {
	prefix string
	count  int
}

// NewSource creates a symbol source with the given prefix.
func NewSource(prefix string) *Source {
	return &Source{prefix: prefix}
}

// Fresh returns the next symbol from this source.
func (s *Source) Fresh() SymInt {
	sym := Symbol(fmt.Sprintf("%s%d", s.prefix, s.count))
	s.count++
	return sym
}

// Count returns how many symbols have been minted so far.
func (s *Source) Count() int { return s.count }
