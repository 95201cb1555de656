// Package prompts stores prompt templates and folders and renders templates.
//
// A prompt body is free text with {{name}} placeholders. Variables are never
// persisted; they are derived from the body with ExtractVariables whenever a
// prompt is read, and filled in with Render.
//
// Prompts optionally belong to a folder. Deleting a folder detaches its
// prompts rather than deleting them.
package prompts

import (
	"context"
	"strings"
	"time"
)

// Folder is a named grouping of prompts.
type Folder struct {
	ID        uint      `gorm:"primaryKey" json:"id" yaml:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// PromptCount is derived by ListFolders.
	PromptCount int64 `gorm:"->;-:migration" json:"prompt_count" yaml:"prompt_count"`
}

// Prompt is a stored template plus its usage counters.
type Prompt struct {
	ID          uint      `gorm:"primaryKey" json:"id" yaml:"id"`
	Title       string    `gorm:"not null" json:"title" yaml:"title"`
	Description *string   `json:"description" yaml:"description"`
	Body        string    `gorm:"not null" json:"body" yaml:"body"`
	Tags        *string   `json:"tags" yaml:"tags"`
	FolderID    *uint     `gorm:"index" json:"folder_id" yaml:"folder_id"`
	Folder      *Folder   `gorm:"constraint:OnDelete:SET NULL" json:"-" yaml:"-"`
	CopyCount   int64     `gorm:"not null;default:0" json:"copy_count" yaml:"copy_count"`
	UpVotes     int64     `gorm:"not null;default:0" json:"up_votes" yaml:"up_votes"`
	DownVotes   int64     `gorm:"not null;default:0" json:"down_votes" yaml:"down_votes"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`

	FolderName *string  `gorm:"->;-:migration" json:"folder_name" yaml:"folder_name"`
	Variables  []string `gorm:"-" json:"variables" yaml:"variables"`
}

// withVariables fills the derived Variables field.
func (p *Prompt) withVariables() *Prompt {
	p.Variables = ExtractVariables(p.Body)
	return p
}

// PromptInput holds the editable fields of a prompt.
type PromptInput struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Body        string  `json:"body" validate:"required"`
	Tags        *string `json:"tags,omitempty"`
	FolderID    *uint   `json:"folder_id,omitempty"`
}

// normalize trims string fields, turns blank optionals into nil and a zero
// folder id into no folder.
func (in PromptInput) normalize() PromptInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Description = trimOptional(in.Description)
	in.Tags = trimOptional(in.Tags)
	if in.FolderID != nil && *in.FolderID == 0 {
		in.FolderID = nil
	}
	return in
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ListFilter narrows ListPrompts. A prompt matches Tags if any entry is a
// substring of its stored tags.
type ListFilter struct {
	FolderID *uint
	Tags     []string
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Valid reports whether v is up or down.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Repository is the storage surface the HTTP layer depends on.
type Repository interface {
	ListPrompts(ctx context.Context, filter ListFilter) ([]Prompt, error)
	GetPrompt(ctx context.Context, id uint) (*Prompt, error)
	CreatePrompt(ctx context.Context, in PromptInput) (*Prompt, error)
	UpdatePrompt(ctx context.Context, id uint, in PromptInput) (*Prompt, error)
	DeletePrompt(ctx context.Context, id uint) (bool, error)
	IncrementCopyCount(ctx context.Context, id uint) (bool, error)
	Vote(ctx context.Context, id uint, vote VoteType) (bool, error)

	ListFolders(ctx context.Context) ([]Folder, error)
	CreateFolder(ctx context.Context, name string) (*Folder, error)
	DeleteFolder(ctx context.Context, id uint) (bool, error)

	Ping(ctx context.Context) error
}
