package domain

// Category identifies a support topic used for classification and ticket tagging.
type Category string

const (
	CategoryBankAccount Category = "bank_account"
	CategoryDebitCard   Category = "debit_card"
	CategoryCrossBorder Category = "cross_border"
	CategoryKYC         Category = "kyc"
	CategoryGeneral     Category = "general"
)

// SeedPhrases maps each escalation category to its representative phrases.
// Seed data for the semantic index; never mutated at runtime.
var SeedPhrases = map[Category][]string{
	CategoryBankAccount: {
		"account balance",
		"account statement",
		"account verification",
		"account closure",
		"account details",
		"account settings",
	},
	CategoryDebitCard: {
		"card blocked",
		"card replacement",
		"card declined",
		"card limit",
		"card activation",
		"card fraud",
		"card pin",
	},
	CategoryCrossBorder: {
		"international transfer",
		"cross-border payment",
		"forex",
		"wire transfer",
		"international wire",
		"currency exchange",
		"SWIFT",
	},
	CategoryKYC: {
		"kyc verification",
		"identity verification",
		"document verification",
		"kyc status",
		"kyc failed",
		"kyc update",
		"aml check",
	},
}

// ParseCategory normalizes a raw category string, defaulting to general.
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryBankAccount, CategoryDebitCard, CategoryCrossBorder, CategoryKYC, CategoryGeneral:
		return Category(raw)
	default:
		return CategoryGeneral
	}
}

// IsEscalation reports whether the category routes to the support team.
func (c Category) IsEscalation() bool {
	_, ok := SeedPhrases[c]
	return ok
}

// PriorityFor maps an escalated category to its ticket priority.
func PriorityFor(c Category) TicketPriority {
	switch c {
	case CategoryKYC, CategoryBankAccount:
		return TicketPriorityHigh
	default:
		return TicketPriorityMedium
	}
}
