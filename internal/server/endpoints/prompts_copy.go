package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
)

// CopyPromptEndpoint handles POST /api/prompts/:id/copy.
type CopyPromptEndpoint struct{}

func (e *CopyPromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/prompts/:id/copy", e.handler
}

func (e *CopyPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Record a copy of a prompt
//	@Tags		prompts
//	@Produce	json
//	@Param		id	path		int	true	"Prompt ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/prompts/{id}/copy [post]
func (e *CopyPromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}

	found, err := storeFrom(c).IncrementCopyCount(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to increment copy count")
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, promptNotFound)
		return
	}
	writeJSON(c, http.StatusOK, MessageResponse{Message: "Copy count incremented"})
}

func (e *CopyPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Increment a prompt's copy count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MessageResponse
			if err := client.Post(cmd.Context(), "/api/prompts/"+args[0]+"/copy", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
