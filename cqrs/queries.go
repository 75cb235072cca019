package cqrs

import "github.com/dikshitechnologies/LoyaltyPoints-sub000/models"

type GetRatesQuery struct {
	GroupCode string
}

type ResolveCustomerQuery struct {
	LoyaltyNumber string
	GroupCode     string
}

type SearchEntriesQuery struct {
	Kind      models.EntryKind
	GroupCode string
	Term      string
	Page      int
	PageSize  int
}
