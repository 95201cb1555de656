package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
)

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// ListFoldersEndpoint handles GET /api/folders.
type ListFoldersEndpoint struct{}

func (e *ListFoldersEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "GET", "/api/folders", e.handler
}

func (e *ListFoldersEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List folders
//	@Description	Folders sorted by name, each with the number of prompts it holds
//	@Tags		folders
//	@Produce	json
//	@Success	200	{array}		prompts.Folder
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/folders [get]
func (e *ListFoldersEndpoint) handler(c *gin.Context) {
	folders, err := storeFrom(c).ListFolders(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, folderNotFound, "Failed to fetch folders")
		return
	}
	if folders == nil {
		folders = []prompts.Folder{}
	}
	writeJSON(c, http.StatusOK, folders)
}

func (e *ListFoldersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []prompts.Folder
			if err := client.Get(cmd.Context(), "/api/folders", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CreateFolderEndpoint handles POST /api/folders.
type CreateFolderEndpoint struct{}

func (e *CreateFolderEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "POST", "/api/folders", e.handler
}

func (e *CreateFolderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a folder
//	@Description	Names are unique ignoring case
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateFolderRequest	true	"Folder name"
//	@Success		201		{object}	prompts.Folder
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/folders [post]
func (e *CreateFolderEndpoint) handler(c *gin.Context) {
	var req CreateFolderRequest
	if !bindBody(c, schema.Folder, &req) {
		return
	}

	f, err := storeFrom(c).CreateFolder(c.Request.Context(), req.Name)
	if err != nil {
		writeStoreError(c, err, folderNotFound, "Failed to create folder")
		return
	}
	writeJSON(c, http.StatusCreated, f)
}

func (e *CreateFolderEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp prompts.Folder
			if err := client.Post(cmd.Context(), "/api/folders", CreateFolderRequest{Name: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteFolderEndpoint handles DELETE /api/folders/:id.
type DeleteFolderEndpoint struct{}

func (e *DeleteFolderEndpoint) Route() (string, string, gin.HandlerFunc) {
	return "DELETE", "/api/folders/:id", e.handler
}

func (e *DeleteFolderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a folder
//	@Description	Prompts in the folder are kept and moved out of it
//	@Tags			folders
//	@Produce		json
//	@Param			id	path		int	true	"Folder ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/folders/{id} [delete]
func (e *DeleteFolderEndpoint) handler(c *gin.Context) {
	id, ok := parseID(c, folderNotFound)
	if !ok {
		return
	}

	deleted, err := storeFrom(c).DeleteFolder(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, folderNotFound, "Failed to delete folder")
		return
	}
	if !deleted {
		writeError(c, http.StatusNotFound, folderNotFound)
		return
	}
	writeJSON(c, http.StatusOK, MessageResponse{
		Message: "Folder deleted successfully. Associated prompts moved to no folder.",
	})
}

func (e *DeleteFolderEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a folder (its prompts are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MessageResponse
			if err := client.Delete(cmd.Context(), "/api/folders/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
