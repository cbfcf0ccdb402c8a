// Package stylesheet merges block stylesheets into one page stylesheet,
// dropping rules that repeat across blocks.
package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Sheet accumulates top-level CSS units in first-seen order. A unit is a
// ruleset, a whole at-rule block or a statement at-rule, canonicalised so
// formatting differences do not defeat deduplication. The zero value is
// ready to use; a Sheet is not safe for concurrent use.
type Sheet struct {
	units      []string
	seen       map[string]struct{}
	duplicates int
	warnings   []string
}

// New returns an empty sheet.
func New() *Sheet {
	return &Sheet{}
}

// Add parses source and appends its units that were not seen before. label
// identifies the source in warnings.
func (s *Sheet) Add(label, source string) {
	if strings.TrimSpace(source) == "" {
		return
	}
	units, err := Units(source)
	if err != nil {
		s.warnings = append(s.warnings, fmt.Sprintf("%s: css parse error, kept verbatim: %v", label, err))
		units = []string{collapse(source)}
	}
	for _, unit := range units {
		s.insert(unit)
	}
}

func (s *Sheet) insert(unit string) {
	if unit == "" {
		return
	}
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[unit]; ok {
		s.duplicates++
		return
	}
	s.seen[unit] = struct{}{}
	s.units = append(s.units, unit)
}

// String renders the sheet, one unit per line.
func (s *Sheet) String() string {
	if len(s.units) == 0 {
		return ""
	}
	return strings.Join(s.units, "\n") + "\n"
}

// Len reports the number of unique units.
func (s *Sheet) Len() int { return len(s.units) }

// Duplicates reports how many units were dropped.
func (s *Sheet) Duplicates() int { return s.duplicates }

// Warnings returns parse warnings collected by Add.
func (s *Sheet) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Dedupe merges sources into a single stylesheet. Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(sources ...string) (string, []string) {
	sheet := New()
	for i, source := range sources {
		sheet.Add(fmt.Sprintf("source %d", i), source)
	}
	return sheet.String(), sheet.Warnings()
}

// Units splits source into canonical top-level units. Comments are dropped.
func Units(source string) ([]string, error) {
	p := css.NewParser(parse.NewInputString(source), false)

	var (
		units    []string
		current  strings.Builder
		depth    int
		selector []string
		inDecls  bool
	)
	flush := func() {
		if current.Len() > 0 {
			units = append(units, current.String())
		}
		current.Reset()
	}

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			if depth > 0 {
				// unterminated block at end of input
				for ; depth > 0; depth-- {
					current.WriteByte('}')
				}
			}
			flush()
			return units, nil

		case css.CommentGrammar:
			continue

		case css.AtRuleGrammar:
			stmt := strings.ToLower(string(data))
			if prelude := joinTokens(p.Values()); prelude != "" {
				stmt += " " + prelude
			}
			separate(&current, &inDecls)
			current.WriteString(stmt + ";")
			if depth == 0 {
				flush()
			}

		case css.BeginAtRuleGrammar:
			inDecls = false
			head := strings.ToLower(string(data))
			if prelude := joinTokens(p.Values()); prelude != "" {
				head += " " + prelude
			}
			current.WriteString(head + "{")
			depth++

		case css.EndAtRuleGrammar:
			inDecls = false
			current.WriteByte('}')
			depth--
			if depth <= 0 {
				depth = 0
				flush()
			}

		case css.QualifiedRuleGrammar:
			selector = append(selector, joinTokens(p.Values()))

		case css.BeginRulesetGrammar:
			inDecls = false
			selector = append(selector, joinTokens(p.Values()))
			current.WriteString(strings.Join(selector, ",") + "{")
			selector = selector[:0]
			depth++

		case css.EndRulesetGrammar:
			inDecls = false
			current.WriteByte('}')
			depth--
			if depth <= 0 {
				depth = 0
				flush()
			}

		case css.DeclarationGrammar:
			separate(&current, &inDecls)
			current.WriteString(strings.ToLower(string(data)) + ":" + joinTokens(p.Values()))

		case css.CustomPropertyGrammar:
			separate(&current, &inDecls)
			current.WriteString(string(data) + ":" + joinTokens(p.Values()))

		case css.TokenGrammar:
			// stray tokens outside any rule carry no styling
			if depth > 0 {
				current.WriteString(strings.TrimSpace(string(data)))
			}
		}
	}
}

// separate writes ';' between consecutive declarations in the same block.
func separate(b *strings.Builder, pending *bool) {
	if *pending {
		b.WriteByte(';')
	}
	*pending = true
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	space := false
	for _, tok := range tokens {
		if tok.TokenType == css.WhitespaceToken {
			space = true
			continue
		}
		if tok.TokenType == css.CommentToken {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteString(strings.TrimSpace(string(tok.Data)))
	}
	return b.String()
}

func collapse(source string) string {
	return strings.Join(strings.Fields(source), " ")
}
