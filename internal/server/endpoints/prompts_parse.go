package endpoints

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
)

// ParseRequest is the request body for variable extraction.
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse lists the variables found in the text.
type ParseResponse struct {
	Variables []string `json:"variables"`
}

// ParseVariablesEndpoint handles POST /api/prompts/parse.
type ParseVariablesEndpoint struct{}

func (e *ParseVariablesEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/prompts/parse", e.handler
}

// RequiresInit is false: extraction does not touch the store.
func (e *ParseVariablesEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Extract variables
//	@Description	Returns the distinct {{name}} placeholders in text, in order of first occurrence
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseRequest	true	"Template text"
//	@Success		200		{object}	ParseResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/prompts/parse [post]
func (e *ParseVariablesEndpoint) handler(c *gin.Context) {
	var req ParseRequest
	if !bindBody(c, schema.Parse, &req) {
		return
	}
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "Text is required")
		return
	}
	writeJSON(c, http.StatusOK, ParseResponse{Variables: prompts.ExtractVariables(req.Text)})
}

func (e *ParseVariablesEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "List the variables in a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case file != "":
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				text = string(b)
			case len(args) == 1:
				text = args[0]
			default:
				return fmt.Errorf("text argument or --file is required")
			}

			client := api.NewClient(getServerURL())
			var resp ParseResponse
			if err := client.Post(cmd.Context(), "/api/prompts/parse", ParseRequest{Text: text}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the template from a file")
	return cmd
}
