package endpoints

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
)

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List prompts
//	@Description	List prompts newest first. tags matches prompts whose tags contain any of the given substrings.
//	@Tags			prompts
//	@Produce		json
//	@Param			folder_id	query		int		false	"Folder ID"
//	@Param			tags		query		string	false	"Comma-separated tag substrings"
//	@Success		200			{array}		prompts.Prompt
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(c *gin.Context) {
	var filter prompts.ListFilter
	if raw := c.Query("folder_id"); raw != "" {
		// Unparseable ids are ignored rather than rejected.
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			folderID := uint(id)
			filter.FolderID = &folderID
		}
	}
	filter.Tags = splitTags(c.QueryArray("tags"))

	list, err := storeFrom(c).ListPrompts(c.Request.Context(), filter)
	if err != nil {
		writeStoreError(c, err, promptNotFound, "Failed to fetch prompts")
		return
	}
	if list == nil {
		list = []prompts.Prompt{}
	}
	writeJSON(c, http.StatusOK, list)
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var folderID uint
	var tags string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if folderID > 0 {
				q.Set("folder_id", strconv.FormatUint(uint64(folderID), 10))
			}
			if tags != "" {
				q.Set("tags", tags)
			}
			path := "/api/prompts"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp []prompts.Prompt
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().UintVar(&folderID, "folder", 0, "Only prompts in this folder")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag substrings (any match)")
	return cmd
}
