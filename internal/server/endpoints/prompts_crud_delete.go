package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
)

// DeletePromptEndpoint handles DELETE /api/prompts/:id.
type DeletePromptEndpoint struct{}

func (e *DeletePromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "DELETE", "/api/prompts/:id", e.handler
}

func (e *DeletePromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Delete a prompt
//	@Tags		prompts
//	@Produce	json
//	@Param		id	path		int	true	"Prompt ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/prompts/{id} [delete]
func (e *DeletePromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}

	deleted, err := storeFrom(c).DeletePrompt(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to delete prompt")
		return
	}
	if !deleted {
		writeError(c, http.StatusNotFound, promptNotFound)
		return
	}
	writeJSON(c, http.StatusOK, MessageResponse{Message: "Prompt deleted successfully"})
}

func (e *DeletePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MessageResponse
			if err := client.Delete(cmd.Context(), "/api/prompts/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
