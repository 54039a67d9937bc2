package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPhrasesCoverEscalationCategories(t *testing.T) {
	require.Len(t, SeedPhrases, 4)
	for category, phrases := range SeedPhrases {
		assert.True(t, category.IsEscalation(), "category %s", category)
		assert.GreaterOrEqual(t, len(phrases), 5, "category %s needs seed phrases", category)
	}
	assert.False(t, CategoryGeneral.IsEscalation())
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryDebitCard, ParseCategory("debit_card"))
	assert.Equal(t, CategoryGeneral, ParseCategory("general"))
	assert.Equal(t, CategoryGeneral, ParseCategory("something_else"))
	assert.Equal(t, CategoryGeneral, ParseCategory(""))
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, TicketPriorityHigh, PriorityFor(CategoryKYC))
	assert.Equal(t, TicketPriorityHigh, PriorityFor(CategoryBankAccount))
	assert.Equal(t, TicketPriorityMedium, PriorityFor(CategoryDebitCard))
	assert.Equal(t, TicketPriorityMedium, PriorityFor(CategoryCrossBorder))
}

func TestStatusLifecycle(t *testing.T) {
	assert.False(t, TicketStatusOpen.IsTerminal())
	assert.False(t, TicketStatusInProgress.IsTerminal())
	assert.True(t, TicketStatusResolved.IsTerminal())
	assert.True(t, TicketStatusClosed.IsTerminal())

	assert.True(t, ValidStatus(TicketStatusInProgress))
	assert.False(t, ValidStatus(TicketStatus("cancelled")))
}
