package prompts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), OpenConfig{
		Path:   MemoryPath,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func mustFolder(t *testing.T, s *Store, name string) *Folder {
	t.Helper()
	f, err := s.CreateFolder(context.Background(), name)
	require.NoError(t, err)
	return f
}

func mustPrompt(t *testing.T, s *Store, in PromptInput) *Prompt {
	t.Helper()
	p, err := s.CreatePrompt(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestStore_CreatePrompt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	folder := mustFolder(t, s, "Work")

	t.Run("trims and derives variables", func(t *testing.T) {
		p, err := s.CreatePrompt(ctx, PromptInput{
			Title:       "  Greeting  ",
			Description: strPtr("  "),
			Body:        "  Hello {{name}} from {{ place }} ",
			Tags:        strPtr(" a,b "),
			FolderID:    &folder.ID,
		})
		require.NoError(t, err)

		assert.NotZero(t, p.ID)
		assert.Equal(t, "Greeting", p.Title)
		assert.Nil(t, p.Description)
		assert.Equal(t, "Hello {{name}} from {{ place }}", p.Body)
		require.NotNil(t, p.Tags)
		assert.Equal(t, "a,b", *p.Tags)
		require.NotNil(t, p.FolderName)
		assert.Equal(t, "Work", *p.FolderName)
		assert.Equal(t, []string{"name", "place"}, p.Variables)
		assert.Zero(t, p.CopyCount)
		assert.Zero(t, p.UpVotes)
		assert.Zero(t, p.DownVotes)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("requires title and body", func(t *testing.T) {
		for _, in := range []PromptInput{
			{Title: "", Body: "x"},
			{Title: "x", Body: "   "},
		} {
			_, err := s.CreatePrompt(ctx, in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, "Title and body are required", err.Error())
		}
	})

	t.Run("zero folder id means no folder", func(t *testing.T) {
		p := mustPrompt(t, s, PromptInput{Title: "t", Body: "b", FolderID: uintPtr(0)})
		assert.Nil(t, p.FolderID)
		assert.Nil(t, p.FolderName)
	})

	t.Run("unknown folder is rejected", func(t *testing.T) {
		_, err := s.CreatePrompt(ctx, PromptInput{Title: "t", Body: "b", FolderID: uintPtr(9999)})
		require.ErrorIs(t, err, ErrInvalidFolder)
		assert.Equal(t, "Invalid folder_id", Message(err, ""))
	})
}

func TestStore_GetPrompt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := mustPrompt(t, s, PromptInput{Title: "t", Body: "{{x}}"})

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, []string{"x"}, got.Variables)

	_, err = s.GetPrompt(ctx, p.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdatePrompt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	folder := mustFolder(t, s, "Work")

	p := mustPrompt(t, s, PromptInput{Title: "old", Body: "old", Tags: strPtr("x"), FolderID: &folder.ID})
	_, err := s.IncrementCopyCount(ctx, p.ID)
	require.NoError(t, err)

	updated, err := s.UpdatePrompt(ctx, p.ID, PromptInput{Title: " new ", Body: "new {{v}}"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new {{v}}", updated.Body)
	assert.Nil(t, updated.Tags)
	assert.Nil(t, updated.FolderID)
	assert.Equal(t, []string{"v"}, updated.Variables)
	assert.Equal(t, int64(1), updated.CopyCount, "counters survive updates")
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt), "created_at is immutable")

	_, err = s.UpdatePrompt(ctx, 12345, PromptInput{Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdatePrompt(ctx, p.ID, PromptInput{Title: "t"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdatePrompt(ctx, p.ID, PromptInput{Title: "t", Body: "b", FolderID: uintPtr(777)})
	assert.ErrorIs(t, err, ErrInvalidFolder)
}

func TestStore_DeletePrompt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustPrompt(t, s, PromptInput{Title: "t", Body: "b"})

	deleted, err := s.DeletePrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeletePrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_Counters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustPrompt(t, s, PromptInput{Title: "t", Body: "b"})

	for i := 0; i < 3; i++ {
		ok, err := s.IncrementCopyCount(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	for i := 0; i < 2; i++ {
		ok, err := s.Vote(ctx, p.ID, VoteUp)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CopyCount)
	assert.Equal(t, int64(2), got.UpVotes)
	assert.Equal(t, int64(0), got.DownVotes)

	ok, err := s.Vote(ctx, p.ID, VoteDown)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Vote(ctx, p.ID, VoteType("sideways"))
	assert.ErrorIs(t, err, ErrInvalidVote)

	ok, err = s.Vote(ctx, p.ID+1, VoteUp)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IncrementCopyCount(ctx, p.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.DownVotes)
	assert.Equal(t, int64(2), got.UpVotes)
}

func TestStore_ListPrompts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	work := mustFolder(t, s, "Work")
	home := mustFolder(t, s, "Home")

	blog := mustPrompt(t, s, PromptInput{Title: "blog", Body: "b", Tags: strPtr("blog,writing"), FolderID: &work.ID})
	code := mustPrompt(t, s, PromptInput{Title: "code", Body: "b", Tags: strPtr("dev,review"), FolderID: &home.ID})
	bare := mustPrompt(t, s, PromptInput{Title: "bare", Body: "b"})

	ids := func(ps []Prompt) []uint {
		out := make([]uint, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("all newest first", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uint{bare.ID, code.ID, blog.ID}, ids(got))
	})

	t.Run("by folder", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{FolderID: &work.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, blog.ID, got[0].ID)
		require.NotNil(t, got[0].FolderName)
		assert.Equal(t, "Work", *got[0].FolderName)
	})

	t.Run("tag substring", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{Tags: []string{"blog"}})
		require.NoError(t, err)
		assert.Equal(t, []uint{blog.ID}, ids(got))

		got, err = s.ListPrompts(ctx, ListFilter{Tags: []string{"rev"}})
		require.NoError(t, err)
		assert.Equal(t, []uint{code.ID}, ids(got))
	})

	t.Run("tags are ORed", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{Tags: []string{"writing", "dev"}})
		require.NoError(t, err)
		assert.Equal(t, []uint{code.ID, blog.ID}, ids(got))
	})

	t.Run("tags are case sensitive", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{Tags: []string{"BLOG"}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("folder and tags combine", func(t *testing.T) {
		got, err := s.ListPrompts(ctx, ListFilter{FolderID: &home.ID, Tags: []string{"blog"}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStore_Folders(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("create trims and counts zero", func(t *testing.T) {
		f, err := s.CreateFolder(ctx, "  Work ")
		require.NoError(t, err)
		assert.Equal(t, "Work", f.Name)
		assert.Zero(t, f.PromptCount)
	})

	t.Run("duplicates ignore case", func(t *testing.T) {
		_, err := s.CreateFolder(ctx, "work")
		require.ErrorIs(t, err, ErrDuplicateFolder)
		assert.Equal(t, "Folder name already exists", err.Error())
	})

	t.Run("name required", func(t *testing.T) {
		_, err := s.CreateFolder(ctx, "   ")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Folder name is required", err.Error())
	})

	t.Run("list counts prompts and sorts by name", func(t *testing.T) {
		archive := mustFolder(t, s, "Archive")
		mustPrompt(t, s, PromptInput{Title: "a", Body: "b", FolderID: &archive.ID})
		mustPrompt(t, s, PromptInput{Title: "c", Body: "d", FolderID: &archive.ID})

		folders, err := s.ListFolders(ctx)
		require.NoError(t, err)
		require.Len(t, folders, 2)
		assert.Equal(t, "Archive", folders[0].Name)
		assert.Equal(t, int64(2), folders[0].PromptCount)
		assert.Equal(t, "Work", folders[1].Name)
		assert.Equal(t, int64(0), folders[1].PromptCount)
	})
}

func TestStore_DeleteFolderDetachesPrompts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := mustFolder(t, s, "Temp")
	p1 := mustPrompt(t, s, PromptInput{Title: "a", Body: "b", FolderID: &f.ID})
	p2 := mustPrompt(t, s, PromptInput{Title: "c", Body: "d", FolderID: &f.ID})

	deleted, err := s.DeleteFolder(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for _, id := range []uint{p1.ID, p2.ID} {
		p, err := s.GetPrompt(ctx, id)
		require.NoError(t, err, "prompt %d must survive folder deletion", id)
		assert.Nil(t, p.FolderID)
		assert.Nil(t, p.FolderName)
	}

	deleted, err = s.DeleteFolder(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOpen_FileAndSeed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "promptbox.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(ctx, OpenConfig{Path: path, Seed: true, Logger: logger})
	require.NoError(t, err)

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 3)
	for _, f := range folders {
		assert.Equal(t, int64(1), f.PromptCount, "folder %s", f.Name)
	}

	all, err := s.ListPrompts(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	blog, err := s.ListPrompts(ctx, ListFilter{Tags: []string{"blog"}})
	require.NoError(t, err)
	require.Len(t, blog, 1)
	assert.Equal(t, "Blog Post Outline", blog[0].Title)
	assert.Equal(t, []string{"topic", "audience", "tone"}, blog[0].Variables)
	require.NoError(t, s.Close())

	// Reopening a populated database does not seed again.
	s, err = Open(ctx, OpenConfig{Path: path, Seed: true, Logger: logger})
	require.NoError(t, err)
	defer s.Close()

	all, err = s.ListPrompts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NoError(t, s.Ping(ctx))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), OpenConfig{})
	require.Error(t, err)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid folder_id", Message(errInvalidFolder, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
}
