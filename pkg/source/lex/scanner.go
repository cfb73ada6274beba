// Package lex provides small scanner combinators used to recognize runs of
// characters (numeric literals, identifiers, operators, ...) without hand
// writing a state machine for each one.
package lex

import "cmp"

// Scanner accepts a prefix of item, returning the number of items consumed if
// it matches or zero if it does not.
type Scanner[T any] func(items []T) uint

// And combines scanners such that the result succeeds only if every scanner
// matches at the start of items; it returns the longest of those matches.
// Evaluation is left to right.
func And[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items)
			if m == 0 {
				return 0
			}

			n = max(n, m)
		}

		return n
	}
}

// Or combines scanners such that the result succeeds if any scanner matches;
// the first match wins.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}

		return 0
	}
}

// Unit matches a fixed sequence of items, one after another.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(chars) {
			return 0
		}

		for i := 0; i < len(chars); i++ {
			if items[i] != chars[i] {
				return 0
			}
		}

		return uint(len(chars))
	}
}

// String matches a literal string against a rune stream.
func String(s string) Scanner[rune] {
	runes := []rune(s)
	return func(items []rune) uint {
		if len(items) < len(runes) {
			return 0
		}

		for i := range runes {
			if items[i] != runes[i] {
				return 0
			}
		}

		return uint(len(runes))
	}
}

// Within matches any single item within an inclusive range.
func Within[T cmp.Ordered](lowest, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}

		return 0
	}
}

// Many matches zero or more repetitions of the given scanner.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			if n := acceptor(items[index:]); n != 0 {
				index += n
				continue
			}

			break
		}

		return index
	}
}

// Until matches everything up to (but not including) the first occurrence of
// item.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			if items[index] == item {
				break
			}

			index++
		}

		return index
	}
}

// Sequence matches each scanner in turn, each consuming from right where the
// previous one finished.
func Sequence[T comparable](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			if n == uint(len(items)) {
				return 0
			}

			m := scanner(items[n:])
			if m == 0 {
				return 0
			}

			n += m
		}

		return n
	}
}

// Optional matches the scanner if possible, and otherwise matches zero items.
func Optional[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		return acceptor(items)
	}
}
