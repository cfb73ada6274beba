package token

import "sort"

// Table is a lexical table: the configurable mapping from source spellings
// onto token kinds that both dialects (scripts and configurations) share the
// machinery of but populate independently. A driver builds one Table per
// dialect at construction time.
//
// Invariant: a keyword and an identifier of the same spelling never both
// match — the keyword always wins, because identifiers are only recognized
// once the keyword set has been consulted and missed (see
// [Table.ClassifyWord]).
type Table struct {
	keywords   map[string]struct{}
	separators map[rune]struct{}
	// booleans maps dialect-specific boolean spellings ("true"/"false" for
	// scripts, "yes"/"no" for configurations) onto their value.
	booleans map[string]bool
	// operators, longest spelling first, so matching is greedy/longest-match.
	operators []string
}

// NewTable constructs an empty lexical table.
func NewTable() *Table {
	return &Table{
		keywords:   make(map[string]struct{}),
		separators: make(map[rune]struct{}),
		booleans:   make(map[string]bool),
	}
}

// AddBoolean registers a spelling as a boolean literal with the given value.
func (t *Table) AddBoolean(spelling string, value bool) *Table {
	t.booleans[spelling] = value
	return t
}

// BoolValue reports whether a word is a registered boolean literal and, if
// so, its value.
func (t *Table) BoolValue(word string) (bool, bool) {
	v, ok := t.booleans[word]
	return v, ok
}

// AddKeyword registers a keyword spelling.  Keywords always take priority
// over the generic identifier classification.
func (t *Table) AddKeyword(spelling string) *Table {
	t.keywords[spelling] = struct{}{}
	return t
}

// AddKeywords registers several keyword spellings at once.
func (t *Table) AddKeywords(spellings ...string) *Table {
	for _, s := range spellings {
		t.AddKeyword(s)
	}
	//
	return t
}

// AddSeparator registers a single-character separator.
func (t *Table) AddSeparator(ch rune) *Table {
	t.separators[ch] = struct{}{}
	return t
}

// AddSeparators registers several single-character separators at once.
func (t *Table) AddSeparators(chars string) *Table {
	for _, ch := range chars {
		t.AddSeparator(ch)
	}
	//
	return t
}

// AddOperator registers a (possibly multi-character) operator spelling.
// Matching always prefers the longest registered operator that matches at
// the current position, so "==" is tried before "=" regardless of
// registration order.
func (t *Table) AddOperator(spelling string) *Table {
	t.operators = append(t.operators, spelling)
	sort.Slice(t.operators, func(i, j int) bool {
		return len(t.operators[i]) > len(t.operators[j])
	})
	//
	return t
}

// AddOperators registers several operator spellings at once.
func (t *Table) AddOperators(spellings ...string) *Table {
	for _, s := range spellings {
		t.AddOperator(s)
	}
	//
	return t
}

// IsKeyword reports whether a word is a registered keyword.
func (t *Table) IsKeyword(word string) bool {
	_, ok := t.keywords[word]
	return ok
}

// IsSeparator reports whether a character is a registered separator.
func (t *Table) IsSeparator(ch rune) bool {
	_, ok := t.separators[ch]
	return ok
}

// ClassifyWord classifies an already-scanned identifier-shaped word: it
// returns Keyword if the spelling is a registered keyword, or Ident
// otherwise. This is where the keyword-wins-over-identifier invariant is
// enforced.
func (t *Table) ClassifyWord(word string) Kind {
	if t.IsKeyword(word) {
		return Keyword
	}
	//
	return Ident
}

// MatchOperator finds the longest registered operator which is a prefix of
// the given rune slice, returning its length or zero if none matches.
func (t *Table) MatchOperator(runes []rune) (string, uint) {
	for _, op := range t.operators {
		n := len(op)
		if n <= len(runes) && string(runes[:n]) == op {
			return op, uint(n)
		}
	}
	//
	return "", 0
}
