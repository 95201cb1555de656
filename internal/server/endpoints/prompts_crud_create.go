package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
)

// CreatePromptEndpoint handles POST /api/prompts.
type CreatePromptEndpoint struct{}

func (e *CreatePromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/prompts", e.handler
}

func (e *CreatePromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a prompt
//	@Description	title and body are required. folder_id must reference an existing folder.
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		prompts.PromptInput	true	"Prompt fields"
//	@Success		201		{object}	prompts.Prompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prompts [post]
func (e *CreatePromptEndpoint) handler(c *gin.Context) {
	var in prompts.PromptInput
	if !bindBody(c, schema.Prompt, &in) {
		return
	}

	p, err := storeFrom(c).CreatePrompt(c.Request.Context(), in)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to create prompt")
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (e *CreatePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new prompt",
		Example: `  promptbox api prompts create --title "Greeting" --body "Hello {{name}}" --tags demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := flags.apply(cmd, prompts.PromptInput{})
			client := api.NewClient(getServerURL())
			var resp prompts.Prompt
			if err := client.Post(cmd.Context(), "/api/prompts", in, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	return cmd
}
