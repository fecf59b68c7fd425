package restapi

import (
	"errors"
	"io"
	"math/rand/v2"

	"github.com/gin-gonic/gin"

	"github.com/simdex/simdex/store"
)

// FCResponse pairs a content id with its feature collection.
type FCResponse struct {
	ContentID string                  `json:"content_id"`
	FC        store.FeatureCollection `json:"fc"`
}

// GetFC returns a stored feature collection.
func (srv *Server) GetFC(c *gin.Context) {
	cid := c.Param("cid")
	fc, err := srv.store.Get(c.Request.Context(), cid)
	if errors.Is(err, store.ErrNotFound) {
		JSONError(c, 404, "feature collection not found", err)
		return
	}
	if err != nil {
		JSONError(c, 500, "store get failed", err)
		return
	}
	writeJSON(c, 200, fc)
}

// PutFC stores a feature collection under the given content id, overwriting
// any previous one.
func (srv *Server) PutFC(c *gin.Context) {
	cid := c.Param("cid")
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		JSONError(c, 500, "couldn't read request body", err)
		return
	}
	fc, err := store.UnmarshalFC(raw)
	if err != nil {
		JSONError(c, 400, "not a valid feature collection", err)
		return
	}
	if err := srv.store.Put(c.Request.Context(), cid, fc); err != nil {
		JSONError(c, 500, "store put failed", err)
		return
	}
	c.Status(201)
}

// GetRandomFC returns an arbitrary stored collection, useful for exploring a
// corpus without knowing any ids.
func (srv *Server) GetRandomFC(c *gin.Context) {
	ids, err := srv.store.ScanPrefixIDs(c.Request.Context(), "")
	if err != nil {
		JSONError(c, 500, "store scan failed", err)
		return
	}
	if len(ids) == 0 {
		JSONError(c, 404, "store is empty", errors.New("no feature collections stored"))
		return
	}
	cid := ids[rand.IntN(len(ids))]
	fc, err := srv.store.Get(c.Request.Context(), cid)
	if err != nil {
		JSONError(c, 500, "store get failed", err)
		return
	}
	writeJSON(c, 200, FCResponse{ContentID: cid, FC: fc})
}
