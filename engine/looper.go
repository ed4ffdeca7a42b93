package engine

import (
	"math"
	"time"
)

// Looper scrolls a position through [Start, End) at Speed units per second
// and wraps seamlessly, carrying the overflow past End.
type Looper struct {
	Start float64
	End   float64
	Speed float64

	pos float64
}

func NewLooper(start, end, speed float64) *Looper {
	l := &Looper{Start: start, End: end, Speed: speed}
	l.Reset()
	return l
}

func (l *Looper) Reset() {
	l.pos = l.Start
}

func (l *Looper) Pos() float64 { return l.pos }

// SetPos places the looper at p projected into range without a jump.
func (l *Looper) SetPos(p float64) {
	r := l.span()
	offset := math.Mod(math.Mod(p-l.Start, r)+r, r)
	l.pos = l.Start + offset
}

func (l *Looper) Update(dt time.Duration) {
	if l.Speed <= 0 {
		return
	}
	l.SetPos(l.pos + l.Speed*dt.Seconds())
}

// span is the loop length; a misconfigured range collapses to one unit.
func (l *Looper) span() float64 {
	r := l.End - l.Start
	if r <= 0 {
		l.End = l.Start + 1
		return 1
	}
	return r
}
