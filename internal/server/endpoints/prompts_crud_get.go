package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
)

// GetPromptEndpoint handles GET /api/prompts/:id.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "GET", "/api/prompts/:id", e.handler
}

func (e *GetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get prompt by ID
//	@Tags		prompts
//	@Produce	json
//	@Param		id	path		int	true	"Prompt ID"
//	@Success	200	{object}	prompts.Prompt
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/prompts/{id} [get]
func (e *GetPromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}

	p, err := storeFrom(c).GetPrompt(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to fetch prompt")
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a prompt by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp prompts.Prompt
			if err := client.Get(cmd.Context(), "/api/prompts/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
