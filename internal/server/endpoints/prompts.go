package endpoints

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/prompts"
)

const (
	promptNotFound = "Prompt not found"
	folderNotFound = "Folder not found"
)

// promptFlags collects prompt fields for the create and update commands.
type promptFlags struct {
	title       string
	description string
	body        string
	tags        string
	folderID    uint
}

func (f *promptFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Prompt title")
	cmd.Flags().StringVar(&f.description, "description", "", "Prompt description")
	cmd.Flags().StringVar(&f.body, "body", "", "Prompt body ({{name}} marks a variable)")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().UintVar(&f.folderID, "folder", 0, "Folder ID (0 for none)")
}

// apply overlays the flags that were set on cmd onto in.
func (f *promptFlags) apply(cmd *cobra.Command, in prompts.PromptInput) prompts.PromptInput {
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = f.title
	}
	if flags.Changed("description") {
		in.Description = &f.description
	}
	if flags.Changed("body") {
		in.Body = f.body
	}
	if flags.Changed("tags") {
		in.Tags = &f.tags
	}
	if flags.Changed("folder") {
		in.FolderID = &f.folderID
	}
	return in
}

// inputFromPrompt returns the editable fields of p.
func inputFromPrompt(p *prompts.Prompt) prompts.PromptInput {
	return prompts.PromptInput{
		Title:       p.Title,
		Description: p.Description,
		Body:        p.Body,
		Tags:        p.Tags,
		FolderID:    p.FolderID,
	}
}

// splitTags splits comma-separated tag lists, dropping blanks.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
