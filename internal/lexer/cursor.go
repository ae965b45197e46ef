package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// eofRune возвращается Peek/First при достижении конца входа.
const eofRune rune = -1

// Cursor - позиция внутри исходного буфера; читает по рунам.
type Cursor struct {
	src []byte
	Off uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a new cursor over src.
func NewCursor(src []byte) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{src: src, Limit: limit}
}

// EOF проверяет, достигнут ли конец входа
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущую руну, не сдвигая курсор; eofRune в конце.
func (c *Cursor) Peek() rune {
	r, _ := c.decode(c.Off)
	return r
}

// Peek2 читает руну, следующую за текущей.
func (c *Cursor) Peek2() rune {
	_, size := c.decode(c.Off)
	if size == 0 {
		return eofRune
	}
	r, _ := c.decode(c.Off + size)
	return r
}

// Bump перемещает курсор на одну руну вперед и возвращает её
func (c *Cursor) Bump() rune {
	r, size := c.decode(c.Off)
	c.Off += size
	return r
}

// EatWhile consumes runes while pred holds.
func (c *Cursor) EatWhile(pred func(rune) bool) {
	for !c.EOF() && pred(c.Peek()) {
		c.Bump()
	}
}

// Eat consumes the next rune if it matches r.
func (c *Cursor) Eat(r rune) bool {
	if c.Peek() == r {
		c.Bump()
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать длину читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Since returns the number of bytes consumed after m.
func (c *Cursor) Since(m Mark) uint32 {
	return c.Off - uint32(m)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// decode returns the rune at off and its byte size. Invalid UTF-8 decodes
// as utf8.RuneError of size 1 so the cursor always advances.
func (c *Cursor) decode(off uint32) (rune, uint32) {
	if off >= c.Limit {
		return eofRune, 0
	}
	b := c.src[off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, size := utf8.DecodeRune(c.src[off:c.Limit])
	return r, uint32(size) // #nosec G115 -- size is at most utf8.UTFMax
}
