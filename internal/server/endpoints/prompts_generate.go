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

// GenerateRequest carries the variable values to substitute.
type GenerateRequest struct {
	Variables map[string]string `json:"variables"`
}

// GenerateResponse holds the stored prompt and its rendered body.
type GenerateResponse struct {
	OriginalPrompt  *prompts.Prompt   `json:"original_prompt"`
	GeneratedPrompt string            `json:"generated_prompt"`
	VariablesUsed   map[string]string `json:"variables_used"`
}

// GeneratePromptEndpoint handles POST /api/prompts/:id/generate.
type GeneratePromptEndpoint struct{}

func (e *GeneratePromptEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/prompts/:id/generate", e.handler
}

func (e *GeneratePromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Render a prompt
//	@Description	Substitutes the given values into the prompt body in a single pass. Empty values leave {{name}} in place.
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Prompt ID"
//	@Param			request	body		GenerateRequest	false	"Variable values"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prompts/{id}/generate [post]
func (e *GeneratePromptEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, promptNotFound)
	if !ok {
		return
	}
	var req GenerateRequest
	if !bindBody(c, schema.Generate, &req) {
		return
	}
	if req.Variables == nil {
		req.Variables = map[string]string{}
	}

	p, err := storeFrom(c).GetPrompt(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to generate prompt")
		return
	}

	writeJSON(c, http.StatusOK, GenerateResponse{
		OriginalPrompt:  p,
		GeneratedPrompt: prompts.Render(p.Body, req.Variables),
		VariablesUsed:   req.Variables,
	})
}

func (e *GeneratePromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var values map[string]string
	var textOnly bool
	cmd := &cobra.Command{
		Use:     "generate <id>",
		Short:   "Fill in a prompt's variables",
		Example: `  promptbox api prompts generate 1 -v topic="Go generics" -v audience=beginners`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			req := GenerateRequest{Variables: values}
			if err := client.Post(cmd.Context(), "/api/prompts/"+args[0]+"/generate", req, &resp); err != nil {
				return err
			}
			if textOnly {
				fmt.Println(resp.GeneratedPrompt)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringToStringVarP(&values, "var", "v", nil, "Variable value as name=value (repeatable)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the generated text")
	return cmd
}
