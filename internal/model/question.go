package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// BankVersion identifies which edition of the civics question set a
// question belongs to. Two editions are supported.
type BankVersion string

const (
	BankVersion2008 BankVersion = "2008"
	BankVersion2025 BankVersion = "2025"
)

// Question is a row of the questions table. Immutable once fetched for a
// practice session.
type Question struct {
	ID                 uuid.UUID       `json:"id"`
	Domain             string          `json:"domain"`
	Prompt             string          `json:"prompt"`
	Choices            json.RawMessage `json:"choices"` // JSONB: array of strings or keyed object
	CorrectAnswer      string          `json:"correct_answer"`
	Difficulty         int             `json:"difficulty"`
	Category           *string         `json:"category,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	BankVersion        BankVersion     `json:"bank_version"`
	Active             bool            `json:"active"`
	IsDynamic          bool            `json:"is_dynamic"`
	PoolFlashcardsOnly bool            `json:"pool_flashcards_only"`
}

// PracticeQuestion is a self-contained question prepared for one practice
// fetch: options are in presentation order and CorrectIndex points into them.
// The shuffle is computed per fetch and is not reproducible.
type PracticeQuestion struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correct_index"`
}

// SeedQuestion is the JSON shape accepted by cmd/seed-questions.
type SeedQuestion struct {
	Domain             string   `json:"domain"`
	Prompt             string   `json:"prompt"`
	Choices            []string `json:"choices"`
	CorrectAnswer      string   `json:"correct_answer"`
	Difficulty         int      `json:"difficulty"`
	Category           *string  `json:"category,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	BankVersion        string   `json:"bank_version"`
	IsDynamic          bool     `json:"is_dynamic"`
	PoolFlashcardsOnly bool     `json:"pool_flashcards_only"`
}
