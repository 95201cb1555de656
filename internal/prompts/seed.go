package prompts

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type samplePrompt struct {
	folder      string
	title       string
	description string
	body        string
	tags        string
}

var sampleFolders = []string{"Content Creation", "Development", "Learning"}

var samplePrompts = []samplePrompt{
	{
		folder:      "Content Creation",
		title:       "Blog Post Outline",
		description: "Generate a structured outline for blog posts",
		body: "Create a detailed outline for a blog post about {{topic}}. Include:\n\n" +
			"1. Catchy headline\n2. Introduction hook\n3. 3-5 main points\n4. Conclusion with call-to-action\n\n" +
			"Target audience: {{audience}}\nTone: {{tone}}",
		tags: "blog,content,writing",
	},
	{
		folder:      "Development",
		title:       "Code Review Checklist",
		description: "Systematic code review prompt for any programming language",
		body: "Please review this {{language}} code for:\n\n" +
			"1. Code quality and readability\n2. Performance optimizations\n3. Security vulnerabilities\n" +
			"4. Best practices adherence\n5. Testing coverage\n\nCode:\n{{code}}\n\n" +
			"Provide specific suggestions for improvement.",
		tags: "development,review,quality",
	},
	{
		folder:      "Learning",
		title:       "Explain Like I'm 5",
		description: "Break down complex topics into simple explanations",
		body: "Explain {{concept}} as if you're talking to a 5-year-old. Use:\n\n" +
			"- Simple words and short sentences\n- Fun analogies and examples\n- Interactive questions\n" +
			"- Visual descriptions\n\nMake it engaging and easy to understand!",
		tags: "learning,education,simple",
	},
}

// seed inserts the sample folders and prompts when both tables are empty.
func (s *Store) seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folders, prompts int64
		if err := tx.Model(&Folder{}).Count(&folders).Error; err != nil {
			return fmt.Errorf("failed to count folders: %w", err)
		}
		if err := tx.Model(&Prompt{}).Count(&prompts).Error; err != nil {
			return fmt.Errorf("failed to count prompts: %w", err)
		}
		if folders > 0 || prompts > 0 {
			return nil
		}

		ids := make(map[string]uint, len(sampleFolders))
		for _, name := range sampleFolders {
			f := Folder{Name: name}
			if err := tx.Create(&f).Error; err != nil {
				return fmt.Errorf("failed to seed folder %q: %w", name, err)
			}
			ids[name] = f.ID
		}

		for _, sp := range samplePrompts {
			folderID := ids[sp.folder]
			p := Prompt{
				Title:       sp.title,
				Description: &sp.description,
				Body:        sp.body,
				Tags:        &sp.tags,
				FolderID:    &folderID,
			}
			if err := tx.Omit("Folder").Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed prompt %q: %w", sp.title, err)
			}
		}

		s.logger.Info("seeded sample data", "folders", len(sampleFolders), "prompts", len(samplePrompts))
		return nil
	})
}
