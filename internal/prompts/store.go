package prompts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-playground/validator/v10"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var validate = validator.New()

// OpenConfig configures Open.
type OpenConfig struct {
	// Path is the SQLite file, or MemoryPath.
	Path string
	// Seed inserts sample folders and prompts into an empty database.
	Seed bool
	// Attempts bounds open retries while the file is busy. Defaults to 5.
	Attempts uint
	Logger   *slog.Logger
}

// Store provides access to prompts and folders in SQLite.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ Repository = (*Store)(nil)

// Open opens (creating if needed) the database at cfg.Path, migrates the
// schema and optionally seeds it.
func Open(ctx context.Context, cfg OpenConfig) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}
	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 5
	}

	var db *gorm.DB
	err := retry.Do(
		func() error {
			d, err := openDB(ctx, cfg.Path, logger)
			if err != nil {
				return err
			}
			db = d
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database open failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Path, err)
	}

	s := NewStore(db, logger)
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if cfg.Seed {
		if err := s.seed(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	logger.Info("database ready", "path", cfg.Path, "seed", cfg.Seed)
	return s, nil
}

func openDB(ctx context.Context, path string, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         newGormLogger(logger),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive for the life of the store.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func dsn(path string) string {
	if path == MemoryPath {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// NewStore wraps an open gorm handle. The schema is not migrated.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Folder{}, &Prompt{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// promptQuery selects prompts joined with their folder name.
func (s *Store) promptQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&Prompt{}).
		Select("prompts.*, folders.name AS folder_name").
		Joins("LEFT JOIN folders ON folders.id = prompts.folder_id")
}

// ListPrompts returns prompts newest first.
func (s *Store) ListPrompts(ctx context.Context, filter ListFilter) ([]Prompt, error) {
	q := s.promptQuery(ctx)
	if filter.FolderID != nil {
		q = q.Where("prompts.folder_id = ?", *filter.FolderID)
	}
	if len(filter.Tags) > 0 {
		cond := s.db.Where("instr(prompts.tags, ?) > 0", filter.Tags[0])
		for _, tag := range filter.Tags[1:] {
			cond = cond.Or("instr(prompts.tags, ?) > 0", tag)
		}
		q = q.Where(cond)
	}

	var out []Prompt
	if err := q.Order("prompts.created_at DESC").Order("prompts.id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	for i := range out {
		out[i].withVariables()
	}
	return out, nil
}

// GetPrompt returns the prompt with id, or ErrNotFound.
func (s *Store) GetPrompt(ctx context.Context, id uint) (*Prompt, error) {
	var p Prompt
	err := s.promptQuery(ctx).Where("prompts.id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("prompt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt %d: %w", id, err)
	}
	return p.withVariables(), nil
}

// CreatePrompt inserts a prompt. Counters start at zero.
func (s *Store) CreatePrompt(ctx context.Context, in PromptInput) (*Prompt, error) {
	in = in.normalize()
	if err := validate.Struct(in); err != nil {
		return nil, errPromptRequired
	}

	p := Prompt{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		Tags:        in.Tags,
		FolderID:    in.FolderID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkFolder(tx, in.FolderID); err != nil {
			return err
		}
		return tx.Omit("Folder").Create(&p).Error
	})
	if err != nil {
		return nil, s.writeError("create prompt", err)
	}

	s.logger.Debug("prompt created", "id", p.ID, "title", p.Title)
	return s.GetPrompt(ctx, p.ID)
}

// UpdatePrompt replaces the editable fields of a prompt. created_at and the
// counters are left as they are.
func (s *Store) UpdatePrompt(ctx context.Context, id uint, in PromptInput) (*Prompt, error) {
	in = in.normalize()
	if err := validate.Struct(in); err != nil {
		return nil, errPromptRequired
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkFolder(tx, in.FolderID); err != nil {
			return err
		}
		res := tx.Model(&Prompt{}).Where("id = ?", id).Updates(map[string]any{
			"title":       in.Title,
			"description": in.Description,
			"body":        in.Body,
			"tags":        in.Tags,
			"folder_id":   in.FolderID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("prompt %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError("update prompt", err)
	}

	s.logger.Debug("prompt updated", "id", id)
	return s.GetPrompt(ctx, id)
}

// DeletePrompt removes a prompt and reports whether it existed.
func (s *Store) DeletePrompt(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Prompt{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete prompt %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IncrementCopyCount adds one to copy_count and reports whether the prompt
// existed.
func (s *Store) IncrementCopyCount(ctx context.Context, id uint) (bool, error) {
	return s.increment(ctx, id, "copy_count")
}

// Vote adds one to up_votes or down_votes. Any other vote type is rejected
// with ErrInvalidVote without touching the database.
func (s *Store) Vote(ctx context.Context, id uint, vote VoteType) (bool, error) {
	if !vote.Valid() {
		return false, errInvalidVote
	}
	column := "up_votes"
	if vote == VoteDown {
		column = "down_votes"
	}
	return s.increment(ctx, id, column)
}

func (s *Store) increment(ctx context.Context, id uint, column string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&Prompt{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment %s for prompt %d: %w", column, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListFolders returns folders by name with their prompt counts.
func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	var out []Folder
	err := s.db.WithContext(ctx).
		Model(&Folder{}).
		Select("folders.id, folders.name, folders.created_at, COUNT(prompts.id) AS prompt_count").
		Joins("LEFT JOIN prompts ON prompts.folder_id = folders.id").
		Group("folders.id").
		Order("folders.name").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return out, nil
}

// CreateFolder inserts a folder. Names are unique ignoring case.
func (s *Store) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	f := Folder{Name: strings.TrimSpace(name)}
	if f.Name == "" {
		return nil, errFolderRequired
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Folder{}).Where("LOWER(name) = LOWER(?)", f.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errDuplicateName
		}
		return tx.Create(&f).Error
	})
	if err != nil {
		return nil, s.writeError("create folder", err)
	}

	s.logger.Debug("folder created", "id", f.ID, "name", f.Name)
	return &f, nil
}

// DeleteFolder detaches the folder's prompts, removes the folder and reports
// whether it existed.
func (s *Store) DeleteFolder(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Prompt{}).Where("folder_id = ?", id).Update("folder_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&Folder{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete folder %d: %w", id, err)
	}
	return deleted, nil
}

// checkFolder rejects a folder id that does not reference an existing folder.
func checkFolder(tx *gorm.DB, folderID *uint) error {
	if folderID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&Folder{}).Where("id = ?", *folderID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errInvalidFolder
	}
	return nil
}

// writeError maps driver constraint errors onto store errors.
func (s *Store) writeError(op string, err error) error {
	var storeErr *Error
	switch {
	case errors.As(err, &storeErr), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errInvalidFolder
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errDuplicateName
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
