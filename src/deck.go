package main

// Deck holds the loaded cards, the cursor and whether the current card's
// meaning is revealed. The zero value is an empty deck.
type Deck struct {
	cards    []Record
	cursor   int
	revealed bool
}

// Load replaces the deck. An empty slice leaves the deck empty.
func (d *Deck) Load(cards []Record) {
	d.cards = cards
	d.cursor = 0
	d.revealed = false
}

func (d *Deck) Clear() {
	d.Load(nil)
}

// Next moves to the following card and reports whether the cursor moved.
func (d *Deck) Next() bool {
	if d.cursor >= len(d.cards)-1 {
		return false
	}
	d.cursor++
	d.revealed = false
	return true
}

// Previous moves to the preceding card and reports whether the cursor moved.
func (d *Deck) Previous() bool {
	if d.cursor <= 0 {
		return false
	}
	d.cursor--
	d.revealed = false
	return true
}

func (d *Deck) Toggle() { d.revealed = !d.revealed }

func (d *Deck) Hide() { d.revealed = false }

func (d *Deck) Empty() bool { return len(d.cards) == 0 }

func (d *Deck) Len() int { return len(d.cards) }

func (d *Deck) Cursor() int { return d.cursor }

func (d *Deck) Revealed() bool { return d.revealed }

func (d *Deck) AtStart() bool { return d.cursor == 0 }

func (d *Deck) AtEnd() bool { return d.cursor >= len(d.cards)-1 }

// Current returns the card under the cursor.
func (d *Deck) Current() (Record, bool) {
	if d.Empty() {
		return Record{}, false
	}
	return d.cards[d.cursor], true
}

// Cards returns the deck's records in order.
func (d *Deck) Cards() []Record { return d.cards }
