package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
)

// VoteRequest is the request body for voting on a prompt.
type VoteRequest struct {
	VoteType prompts.VoteType `json:"vote_type" enums:"up,down"`
}

// VotePromptEndpoint handles POST /api/prompts/:id/vote.
type VotePromptEndpoint struct{}

func (e *VotePromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/prompts/:id/vote", e.handler
}

func (e *VotePromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Vote on a prompt
//	@Tags		prompts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"Prompt ID"
//	@Param		request	body		VoteRequest	true	"Vote direction"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/api/prompts/{id}/vote [post]
func (e *VotePromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}
	var req VoteRequest
	if !bindBody(c, schema.Vote, &req) {
		return
	}

	found, err := storeFrom(c).Vote(c.Request.Context(), id, req.VoteType)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to record vote")
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, promptNotFound)
		return
	}
	writeJSON(c, http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s vote recorded", req.VoteType)})
}

func (e *VotePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:       "vote <id> <up|down>",
		Short:     "Vote a prompt up or down",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(prompts.VoteUp), string(prompts.VoteDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := VoteRequest{VoteType: prompts.VoteType(args[1])}
			var resp MessageResponse
			if err := client.Post(cmd.Context(), "/api/prompts/"+args[0]+"/vote", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
