package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
)

// UpdatePromptEndpoint handles PUT /api/prompts/:id.
type UpdatePromptEndpoint struct{}

func (e *UpdatePromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "PUT", "/api/prompts/:id", e.handler
}

func (e *UpdatePromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Update a prompt
//	@Description	Replaces every editable field. Counters and created_at are kept.
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Prompt ID"
//	@Param			request	body		prompts.PromptInput	true	"Prompt fields"
//	@Success		200		{object}	prompts.Prompt
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prompts/{id} [put]
func (e *UpdatePromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}
	var in prompts.PromptInput
	if !bindBody(c, schema.Prompt, &in) {
		return
	}

	p, err := storeFrom(c).UpdatePrompt(c.Request.Context(), id, in)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to update prompt")
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (e *UpdatePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a prompt",
		Long: `Update a prompt. Fields whose flags are not given keep their current values.
Pass --folder 0 to move the prompt out of its folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			path := "/api/prompts/" + args[0]

			var current prompts.Prompt
			if err := client.Get(ctx, path, &current); err != nil {
				return err
			}
			in := flags.apply(cmd, inputFromPrompt(&current))

			var resp prompts.Prompt
			if err := client.Put(ctx, path, in, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	return cmd
}
