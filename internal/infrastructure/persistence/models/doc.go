// Package models contains the GORM persistence models.
//
// Persistence models are kept separate from domain entities so that
// database concerns (column types, indexes, JSON columns) never leak
// into the domain layer. Each model provides ToDomain/FromDomain
// conversions used by the repositories.
package models
