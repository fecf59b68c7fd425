package restapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/simdex/simdex/folder"
)

// The annotator owning a folder comes from the ann query parameter on every
// folder route; absent means the shared anonymous owner.

// GetFolders lists folder ids.
func (srv *Server) GetFolders(c *gin.Context) {
	folders, err := srv.folders.Folders(c.Request.Context(), c.Query("ann"))
	if err != nil {
		JSONError(c, 500, "folder list failed", err)
		return
	}
	writeJSON(c, 200, folders)
}

// PutFolder creates an empty folder.
func (srv *Server) PutFolder(c *gin.Context) {
	err := srv.folders.AddFolder(c.Request.Context(), c.Param("fid"), c.Query("ann"))
	if errors.Is(err, folder.ErrInvalidID) {
		JSONError(c, 400, "invalid folder id", err)
		return
	}
	if err != nil {
		JSONError(c, 500, "folder add failed", err)
		return
	}
	c.Status(201)
}

// GetSubfolders lists the subfolder ids of a folder.
func (srv *Server) GetSubfolders(c *gin.Context) {
	subfolders, err := srv.folders.Subfolders(c.Request.Context(), c.Param("fid"), c.Query("ann"))
	if err != nil {
		folderError(c, err, "subfolder list failed")
		return
	}
	writeJSON(c, 200, subfolders)
}

// GetSubfolderItems lists the members of a subfolder.
func (srv *Server) GetSubfolderItems(c *gin.Context) {
	items, err := srv.folders.Items(c.Request.Context(), c.Param("fid"), c.Param("sfid"), c.Query("ann"))
	if err != nil {
		folderError(c, err, "subfolder item list failed")
		return
	}
	writeJSON(c, 200, items)
}

// PutSubfolderItem places a content id (with an optional subtopic) into a
// subfolder.
func (srv *Server) PutSubfolderItem(c *gin.Context) {
	err := srv.folders.AddItem(c.Request.Context(),
		c.Param("fid"), c.Param("sfid"), c.Param("cid"), c.Param("subid"), c.Query("ann"))
	if err != nil {
		folderError(c, err, "subfolder item add failed")
		return
	}
	c.Status(201)
}

func folderError(c *gin.Context, err error, title string) {
	switch {
	case errors.Is(err, folder.ErrInvalidID):
		JSONError(c, 400, title, err)
	case errors.Is(err, folder.ErrFolderNotFound):
		JSONError(c, 404, title, err)
	default:
		JSONError(c, 500, title, err)
	}
}
