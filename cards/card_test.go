package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardIdentity(t *testing.T) {
	t.Parallel()

	c := NewCard(Ten, Hearts)
	assert.Equal(t, "hearts-10", c.ID())
	assert.Equal(t, "10♥", c.String())
	assert.Equal(t, 10, c.Value())
	assert.True(t, c.Suit.IsRed())

	tagged := c
	tagged.Group = 3
	assert.True(t, Same(c, tagged), "group tag must not affect identity")
	assert.Equal(t, c.ID(), tagged.ID())
	assert.Equal(t, c, tagged.Untagged())
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{"10h", NewCard(Ten, Hearts), false},
		{"Th", NewCard(Ten, Hearts), false},
		{"qs", NewCard(Queen, Spades), false},
		{"A♠", NewCard(Ace, Spades), false},
		{"2c", NewCard(Two, Clubs), false},
		{"diamonds-K", NewCard(King, Diamonds), false},
		{"hearts-10", NewCard(Ten, Hearts), false},
		{"", Card{}, true},
		{"1x", Card{}, true},
		{"11h", Card{}, true},
		{"stars-3", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardsRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := ParseCards([]string{"3h", "hearts-3"})
	assert.ErrorContains(t, err, "duplicate card hearts-3")

	cs, err := ParseCards([]string{"3h", "3d", "3c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hearts-3", "diamonds-3", "clubs-3"}, IDs(cs))
}

func TestCardSet(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	set := NewCardSet(deck)
	assert.Equal(t, FullDeck, set)
	assert.Equal(t, 52, set.Len())
	assert.Equal(t, deck, set.Cards())

	var s CardSet
	kh := NewCard(King, Hearts)
	s.Add(kh)
	s.Add(kh)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(kh))
	s.Remove(kh)
	assert.False(t, s.Contains(kh))
	assert.Zero(t, s.Len())
}
