package rename

import "strings"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CodeAt returns the code of a 0-based rank: A..Z, a..z, then AA..zz,
// AAA..zzz and so on, one more repetition per block of 52.
func CodeAt(rank int) string {
	n := len(codeAlphabet)
	return strings.Repeat(string(codeAlphabet[rank%n]), rank/n+1)
}

// Allocator hands out codes in rank order. It is created fresh for every run.
type Allocator struct {
	next     int
	reserved func(string) bool
}

// NewAllocator returns an allocator that skips any code for which reserved
// returns true. reserved may be nil.
func NewAllocator(reserved func(string) bool) *Allocator {
	return &Allocator{reserved: reserved}
}

// Next returns the next unused code.
func (a *Allocator) Next() string {
	for {
		code := CodeAt(a.next)
		a.next++
		if a.reserved == nil || !a.reserved(code) {
			return code
		}
	}
}
